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
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeServerClient(t *testing.T) *s3.Client {
	t.Helper()

	faker := gofakes3.New(s3mem.New())
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("KEY", "SECRET", "")),
		config.WithRetryMaxAttempts(1),
	)
	require.NoError(t, err)

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(ts.URL)
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
}

func TestFixtureAgainstFakeServer(t *testing.T) {
	ctx := context.Background()
	client := newFakeServerClient(t)

	// a bucket left behind by an earlier run with the same prefix
	_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String("test-abc123-9"),
	})
	require.NoError(t, err)
	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String("other-bucket"),
	})
	require.NoError(t, err)

	f := New(client, WithPrefix("test-abc123-"), WithRetryBackoff(0))
	require.NoError(t, f.Setup(ctx))

	var buckets []string
	for range 3 {
		bucket, err := f.NewBucket(ctx)
		require.NoError(t, err)
		buckets = append(buckets, bucket)

		for i := range 3 {
			_, err = client.PutObject(ctx, &s3.PutObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(fmt.Sprintf("dir/obj-%d", i)),
				Body:   bytes.NewReader([]byte("data")),
			})
			require.NoError(t, err)
		}
	}
	assert.Equal(t, []string{"test-abc123-1", "test-abc123-2", "test-abc123-3"}, buckets)

	matching, err := f.Cleaner().Buckets(ctx, "test-abc123-")
	require.NoError(t, err)
	assert.ElementsMatch(t, buckets, matching)

	require.NoError(t, f.Teardown(ctx))

	matching, err = f.Cleaner().Buckets(ctx, "test-abc123-")
	require.NoError(t, err)
	assert.Empty(t, matching)

	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	require.NoError(t, err)
	require.Len(t, out.Buckets, 1)
	assert.Equal(t, "other-bucket", *out.Buckets[0].Name)

	// a second cleanup finds nothing and succeeds
	require.NoError(t, f.Cleaner().Nuke(ctx, "test-abc123-"))
}
