// Copyright 2023 Versity Software
// This file is licensed under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package fixture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFixture(t *testing.T, client API, opts ...Option) *Fixture {
	t.Helper()
	opts = append([]Option{WithRetryBackoff(0)}, opts...)
	return New(client, opts...)
}

func TestFixtureLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	f := newTestFixture(t, fake, WithPrefix("test-abc123-"))

	assert.Equal(t, StateInit, f.State())
	require.NoError(t, f.Setup(ctx))
	assert.Equal(t, StateReady, f.State())

	for i := 1; i <= 3; i++ {
		bucket, err := f.NewBucket(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("test-abc123-%d", i), bucket)
	}
	assert.Equal(t, []string{"test-abc123-1", "test-abc123-2", "test-abc123-3"}, fake.names())

	require.NoError(t, f.Teardown(ctx))
	assert.Equal(t, StateDone, f.State())
	assert.Empty(t, fake.names())

	_, err := f.NewBucket(ctx)
	assert.True(t, errors.Is(err, ErrNotReady))
}

func TestFixtureGeneratesPrefix(t *testing.T) {
	fake := newFakeS3()
	f := newTestFixture(t, fake, withRandom(sequence()))

	require.NoError(t, f.Setup(context.Background()))
	assert.Equal(t, "test-abcdefghijklmnopqrstuvwx-", f.Prefix())

	name, err := f.NewBucketName()
	require.NoError(t, err)
	assert.Equal(t, "test-abcdefghijklmnopqrstuvwx-1", name)
	assert.Empty(t, fake.names())
}

func TestFixtureNotReadyBeforeSetup(t *testing.T) {
	f := newTestFixture(t, newFakeS3())

	_, err := f.NewBucketName()
	assert.True(t, errors.Is(err, ErrNotReady))

	_, err = f.NewBucket(context.Background())
	assert.True(t, errors.Is(err, ErrNotReady))

	// nothing to clean up yet
	require.NoError(t, f.Teardown(context.Background()))
	assert.Equal(t, StateDone, f.State())
}

func TestFixtureSetupTwice(t *testing.T) {
	f := newTestFixture(t, newFakeS3(), WithPrefix("p-"))
	require.NoError(t, f.Setup(context.Background()))
	assert.Error(t, f.Setup(context.Background()))
}

func TestFixtureTemplateTooLong(t *testing.T) {
	f := newTestFixture(t, newFakeS3(),
		WithTemplate("a-very-long-bucket-prefix-{random}"), WithMaxLen(10))

	err := f.Setup(context.Background())
	assert.True(t, errors.Is(err, ErrTemplateTooLong))
	assert.Equal(t, StateInit, f.State())
}

func TestSetupRemovesLeftovers(t *testing.T) {
	fake := newFakeS3()
	fake.addBucket("test-abc123-7", false)
	fake.put("test-abc123-7", "obj")
	fake.addBucket("old-test-abc123-2", true)
	fake.put("old-test-abc123-2", "obj")
	fake.addBucket("unrelated", false)
	fake.put("unrelated", "keep")

	f := newTestFixture(t, fake, WithPrefix("test-abc123-"))
	require.NoError(t, f.Setup(context.Background()))

	// names containing the prefix anywhere are removed
	assert.Equal(t, []string{"unrelated"}, fake.names())
}

func TestNukeIdempotent(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("test-abc123-%d", i)
		fake.addBucket(name, i%2 == 0)
		fake.put(name, "a")
		fake.put(name, "b")
	}

	c := NewCleaner(fake)
	c.backoff = 0
	require.NoError(t, c.Nuke(ctx, "test-abc123-"))
	assert.Empty(t, fake.names())

	require.NoError(t, c.Nuke(ctx, "test-abc123-"))
	buckets, err := c.Buckets(ctx, "test-abc123-")
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestNukeEmptyPrefix(t *testing.T) {
	err := NewCleaner(newFakeS3()).Nuke(context.Background(), "")
	assert.True(t, errors.Is(err, ErrCleanup))
}

func TestPurgeVersionedBucket(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	bucket := "test-xyz-1"
	fake.addBucket(bucket, true)

	// one current version, one archived version
	fake.put(bucket, "doc")
	fake.put(bucket, "doc")
	// a key hidden behind a delete marker
	fake.put(bucket, "gone")
	_, err := fake.DeleteObject(ctx, deleteInput(bucket, "gone"))
	require.NoError(t, err)
	fake.calls = nil

	c := NewCleaner(fake)
	c.backoff = 0
	require.NoError(t, c.Nuke(ctx, "test-xyz-"))
	assert.Empty(t, fake.names())

	last := fake.calls[len(fake.calls)-1]
	assert.Equal(t, "DeleteBucket "+bucket, last)
	for _, call := range fake.calls[:len(fake.calls)-1] {
		assert.True(t, strings.HasPrefix(call, "DeleteObject"), call)
	}
}

func TestDeleteBucketRetriesWhenNotEmpty(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.addBucket("test-r-1", false)
	fake.put("test-r-1", "obj")
	fake.notEmpty["test-r-1"] = 1

	c := NewCleaner(fake)
	c.backoff = 0
	require.NoError(t, c.DeleteBucket(ctx, "test-r-1"))
	assert.Empty(t, fake.names())

	var deletes int
	for _, call := range fake.calls {
		if call == "DeleteBucket test-r-1" {
			deletes++
		}
	}
	assert.Equal(t, 2, deletes)
}

func TestDeleteBucketGivesUp(t *testing.T) {
	fake := newFakeS3()
	fake.addBucket("test-r-1", false)
	fake.notEmpty["test-r-1"] = 10

	f := newTestFixture(t, fake, WithPrefix("test-r-"), WithPurgeAttempts(2))
	err := f.Setup(context.Background())
	assert.True(t, errors.Is(err, ErrCleanup))
	assert.NotEqual(t, StateReady, f.State())
}

func TestCleanupToleratesMissingItems(t *testing.T) {
	fake := newFakeS3()
	fake.addBucket("test-m-1", false)
	fake.put("test-m-1", "vanished")
	fake.deleteErr["vanished"] = &types.NoSuchKey{Message: aws.String("gone")}

	c := NewCleaner(fake)
	c.backoff = 0
	require.NoError(t, c.Purge(context.Background(), "test-m-1"))
	require.NoError(t, c.Purge(context.Background(), "missing-bucket"))
	require.NoError(t, c.DeleteBucket(context.Background(), "missing-bucket"))
}

func TestCleanupAbortsOnOtherErrors(t *testing.T) {
	fake := newFakeS3()
	fake.addBucket("test-e-1", false)
	fake.put("test-e-1", "locked")
	fake.deleteErr["locked"] = apiErr("AccessDenied")

	f := newTestFixture(t, fake, WithPrefix("test-e-"))
	err := f.Setup(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCleanup))
	assert.Contains(t, err.Error(), "AccessDenied")
	assert.Equal(t, StateCleanup, f.State())
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	f := newTestFixture(t, fake, WithPrefix("test-rel-"))
	require.NoError(t, f.Setup(ctx))

	bucket, err := f.NewBucket(ctx)
	require.NoError(t, err)
	fake.put(bucket, "k1")
	fake.put(bucket, "k2")

	require.NoError(t, f.Release(ctx, bucket))
	assert.Empty(t, fake.names())

	// releasing twice is fine
	require.NoError(t, f.Release(ctx, bucket))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.True(t, IsNotFound(&types.NoSuchBucket{}))
	assert.True(t, IsNotFound(&types.NoSuchKey{}))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", apiErr("NoSuchVersion"))))
	assert.False(t, IsNotFound(apiErr("AccessDenied")))
	assert.False(t, IsNotFound(errors.New("boom")))
}
