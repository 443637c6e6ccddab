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
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type fakeVersion struct {
	id     string
	marker bool
}

type fakeBucket struct {
	versioned bool
	// last element is the current version
	keys map[string][]fakeVersion
}

// fakeS3 is an in memory bucket store with enough versioning
// semantics to exercise the cleanup order.
type fakeS3 struct {
	mu       sync.Mutex
	buckets  map[string]*fakeBucket
	nextID   int
	pageSize int

	// DeleteBucket answers BucketNotEmpty this many more times
	notEmpty map[string]int
	// errors returned by DeleteObject for a key
	deleteErr map[string]error

	calls []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		buckets:   map[string]*fakeBucket{},
		notEmpty:  map[string]int{},
		deleteErr: map[string]error{},
		pageSize:  1000,
	}
}

func apiErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

func (f *fakeS3) record(format string, a ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, a...))
}

func (f *fakeS3) addBucket(name string, versioned bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[name] = &fakeBucket{versioned: versioned, keys: map[string][]fakeVersion{}}
}

func (f *fakeS3) put(bucket, key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.buckets[bucket]
	f.nextID++
	v := fakeVersion{id: fmt.Sprintf("v%d", f.nextID)}
	if !b.versioned {
		v.id = "null"
		b.keys[key] = []fakeVersion{v}
		return v.id
	}
	b.keys[key] = append(b.keys[key], v)
	return v.id
}

func (f *fakeS3) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for name := range f.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *fakeS3) ListBuckets(_ context.Context, _ *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	out := &s3.ListBucketsOutput{}
	for _, name := range f.names() {
		out.Buckets = append(out.Buckets, types.Bucket{Name: aws.String(name)})
	}
	return out, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.mu.Lock()
	_, ok := f.buckets[*in.Bucket]
	f.mu.Unlock()
	if ok {
		return nil, apiErr("BucketAlreadyOwnedByYou")
	}
	f.addBucket(*in.Bucket, false)
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{Message: aws.String("no such bucket")}
	}

	var keys []string
	for k, versions := range b.keys {
		if len(versions) == 0 || versions[len(versions)-1].marker {
			continue
		}
		if in.ContinuationToken != nil && k <= *in.ContinuationToken {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if len(keys) > f.pageSize {
		keys = keys[:f.pageSize]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[len(keys)-1])
	}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) ListObjectVersions(_ context.Context, in *s3.ListObjectVersionsInput, _ ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{Message: aws.String("no such bucket")}
	}

	var keys []string
	for k := range b.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := &s3.ListObjectVersionsOutput{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		for _, v := range b.keys[k] {
			if v.marker {
				out.DeleteMarkers = append(out.DeleteMarkers, types.DeleteMarkerEntry{
					Key: aws.String(k), VersionId: aws.String(v.id),
				})
				continue
			}
			out.Versions = append(out.Versions, types.ObjectVersion{
				Key: aws.String(k), VersionId: aws.String(v.id),
			})
		}
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	vid := ""
	if in.VersionId != nil {
		vid = *in.VersionId
	}
	f.record("DeleteObject %s/%s %s", *in.Bucket, *in.Key, vid)

	if err, ok := f.deleteErr[*in.Key]; ok {
		return nil, err
	}

	b, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{Message: aws.String("no such bucket")}
	}

	if vid == "" {
		if b.versioned {
			f.nextID++
			b.keys[*in.Key] = append(b.keys[*in.Key],
				fakeVersion{id: fmt.Sprintf("v%d", f.nextID), marker: true})
			return &s3.DeleteObjectOutput{}, nil
		}
		delete(b.keys, *in.Key)
		return &s3.DeleteObjectOutput{}, nil
	}

	versions := b.keys[*in.Key]
	for i, v := range versions {
		if v.id == vid {
			versions = append(versions[:i], versions[i+1:]...)
			break
		}
	}
	if len(versions) == 0 {
		delete(b.keys, *in.Key)
	} else {
		b.keys[*in.Key] = versions
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) DeleteBucket(_ context.Context, in *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteBucket %s", *in.Bucket)

	b, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{Message: aws.String("no such bucket")}
	}
	if n := f.notEmpty[*in.Bucket]; n > 0 {
		f.notEmpty[*in.Bucket] = n - 1
		return nil, apiErr("BucketNotEmpty")
	}
	if len(b.keys) > 0 {
		return nil, apiErr("BucketNotEmpty")
	}
	delete(f.buckets, *in.Bucket)
	return &s3.DeleteBucketOutput{}, nil
}

func deleteInput(bucket, key string) *s3.DeleteObjectInput {
	return &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}
}
