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
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/versity/s3tests/debuglogger"
)

// ErrCleanup wraps every non tolerated failure while removing
// prefixed buckets.
var ErrCleanup = errors.New("bucket cleanup failed")

const (
	defaultPurgeAttempts  = 3
	defaultRetryBackoff   = 200 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second
)

// API is the subset of the s3 client used to manage test buckets.
// *s3.Client satisfies it.
type API interface {
	ListBuckets(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	CreateBucket(context.Context, *s3.CreateBucketInput, ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	ListObjectsV2(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	ListObjectVersions(context.Context, *s3.ListObjectVersionsInput, ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error)
	DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteBucket(context.Context, *s3.DeleteBucketInput, ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
}

// Cleaner removes buckets together with every object, object version
// and delete marker they hold.
type Cleaner struct {
	client   API
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

func NewCleaner(client API) *Cleaner {
	return &Cleaner{
		client:   client,
		attempts: defaultPurgeAttempts,
		backoff:  defaultRetryBackoff,
		timeout:  defaultRequestTimeout,
	}
}

// Nuke deletes every bucket whose name contains prefix. Missing
// buckets, objects and versions are ignored, anything else aborts.
func (c *Cleaner) Nuke(ctx context.Context, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: refusing to clean up an empty prefix", ErrCleanup)
	}

	buckets, err := c.Buckets(ctx, prefix)
	if err != nil {
		return err
	}

	debuglogger.Logf("cleanup: %d buckets match prefix %q", len(buckets), prefix)

	for _, bucket := range buckets {
		if err := c.DeleteBucket(ctx, bucket); err != nil {
			return err
		}
	}
	return nil
}

// Buckets lists the names of all buckets containing prefix.
func (c *Cleaner) Buckets(ctx context.Context, prefix string) ([]string, error) {
	var (
		names []string
		in    = &s3.ListBucketsInput{}
		seen  = map[string]bool{}
	)

	for {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.client.ListBuckets(rctx, in)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: list buckets: %w", ErrCleanup, err)
		}

		for _, b := range out.Buckets {
			if b.Name != nil && strings.Contains(*b.Name, prefix) {
				names = append(names, *b.Name)
			}
		}

		token := out.ContinuationToken
		if token == nil || *token == "" || seen[*token] {
			break
		}
		seen[*token] = true
		in.ContinuationToken = token
	}

	return names, nil
}

// DeleteBucket purges and deletes a single bucket. A BucketNotEmpty
// response triggers another purge, up to the configured attempts.
func (c *Cleaner) DeleteBucket(ctx context.Context, bucket string) error {
	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err = c.Purge(ctx, bucket); err != nil {
			return err
		}

		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		_, err = c.client.DeleteBucket(rctx, &s3.DeleteBucketInput{
			Bucket: &bucket,
		})
		cancel()
		if err == nil || IsNotFound(err) {
			debuglogger.Logf("cleanup: removed bucket %s", bucket)
			return nil
		}
		if !hasCode(err, "BucketNotEmpty") {
			return fmt.Errorf("%w: delete bucket %s: %w", ErrCleanup, bucket, err)
		}

		debuglogger.Logf("cleanup: bucket %s not empty, attempt %d/%d",
			bucket, attempt, c.attempts)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: delete bucket %s: %w", ErrCleanup, bucket, ctx.Err())
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%w: delete bucket %s after %d attempts: %w",
		ErrCleanup, bucket, c.attempts, err)
}

// Purge removes the current objects, then all object versions and
// then all delete markers of bucket. The bucket itself is kept.
func (c *Cleaner) Purge(ctx context.Context, bucket string) error {
	if err := c.purgeObjects(ctx, bucket); err != nil {
		return err
	}
	return c.purgeVersions(ctx, bucket)
}

func (c *Cleaner) purgeObjects(ctx context.Context, bucket string) error {
	in := &s3.ListObjectsV2Input{Bucket: &bucket}
	for {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.client.ListObjectsV2(rctx, in)
		cancel()
		if IsNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: list objects in %s: %w", ErrCleanup, bucket, err)
		}

		for _, obj := range out.Contents {
			if err := c.deleteObject(ctx, bucket, obj.Key, nil); err != nil {
				return err
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated ||
			out.NextContinuationToken == nil {
			return nil
		}
		in.ContinuationToken = out.NextContinuationToken
	}
}

func (c *Cleaner) purgeVersions(ctx context.Context, bucket string) error {
	var markers []objectVersion

	in := &s3.ListObjectVersionsInput{Bucket: &bucket}
	for {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.client.ListObjectVersions(rctx, in)
		cancel()
		if IsNotFound(err) || hasCode(err, "NotImplemented") {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: list object versions in %s: %w", ErrCleanup, bucket, err)
		}

		for _, v := range out.Versions {
			if err := c.deleteObject(ctx, bucket, v.Key, v.VersionId); err != nil {
				return err
			}
		}
		for _, m := range out.DeleteMarkers {
			markers = append(markers, objectVersion{key: m.Key, versionID: m.VersionId})
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		in.KeyMarker = out.NextKeyMarker
		in.VersionIdMarker = out.NextVersionIdMarker
	}

	for _, m := range markers {
		if err := c.deleteObject(ctx, bucket, m.key, m.versionID); err != nil {
			return err
		}
	}
	return nil
}

type objectVersion struct {
	key       *string
	versionID *string
}

func (c *Cleaner) deleteObject(ctx context.Context, bucket string, key, versionID *string) error {
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	_, err := c.client.DeleteObject(rctx, &s3.DeleteObjectInput{
		Bucket:    &bucket,
		Key:       key,
		VersionId: versionID,
	})
	cancel()
	if err == nil || IsNotFound(err) {
		return nil
	}

	k := ""
	if key != nil {
		k = *key
	}
	if versionID != nil {
		return fmt.Errorf("%w: delete %s/%s version %s: %w", ErrCleanup, bucket, k, *versionID, err)
	}
	return fmt.Errorf("%w: delete %s/%s: %w", ErrCleanup, bucket, k, err)
}

// IsNotFound reports whether err means the bucket, key or version
// no longer exists.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if hasCode(err, "NoSuchBucket", "NoSuchKey", "NoSuchVersion", "NotFound") {
		return true
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}

func hasCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
