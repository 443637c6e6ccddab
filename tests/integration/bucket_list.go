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

package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/versity/s3tests/s3err"
)

// listExpect describes the expected outcome of a ListObjects call.
// nextMarker is only verified when a delimiter is sent, echoed fields
// only when non nil.
type listExpect struct {
	truncated  bool
	keys       []string
	prefixes   []string
	nextMarker string

	delimiter *string
	prefix    *string
	marker    *string
}

func listObjects(client *s3.Client, in *s3.ListObjectsInput) (*s3.ListObjectsOutput, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	return client.ListObjects(ctx, in)
}

func checkList(client *s3.Client, in *s3.ListObjectsInput, exp listExpect) (*s3.ListObjectsOutput, error) {
	out, err := listObjects(client, in)
	if err != nil {
		return nil, err
	}

	if getBool(out.IsTruncated) != exp.truncated {
		return nil, fmt.Errorf("expected the output to be truncated=%v, instead got %v",
			exp.truncated, getBool(out.IsTruncated))
	}
	if err := compareStrings("keys", exp.keys, objectKeys(out.Contents)); err != nil {
		return nil, err
	}
	if err := compareStrings("common prefixes", exp.prefixes, commonPrefixes(out.CommonPrefixes)); err != nil {
		return nil, err
	}
	if in.Delimiter != nil && getString(out.NextMarker) != exp.nextMarker {
		return nil, fmt.Errorf("expected the next marker to be %q, instead got %q",
			exp.nextMarker, getString(out.NextMarker))
	}
	if exp.delimiter != nil && getString(out.Delimiter) != *exp.delimiter {
		return nil, fmt.Errorf("expected the delimiter to be %q, instead got %q",
			*exp.delimiter, getString(out.Delimiter))
	}
	if exp.prefix != nil && getString(out.Prefix) != *exp.prefix {
		return nil, fmt.Errorf("expected the prefix to be %q, instead got %q",
			*exp.prefix, getString(out.Prefix))
	}
	if exp.marker != nil && getString(out.Marker) != *exp.marker {
		return nil, fmt.Errorf("expected the marker to be %q, instead got %q",
			*exp.marker, getString(out.Marker))
	}

	return out, nil
}

// pagedList is one page of a paged delimiter listing
type pagedList struct {
	prefix    string
	maxKeys   int32
	fromStart bool
	truncated bool
	keys      []string
	prefixes  []string
	next      string
}

// checkPages lists page by page, each page continuing from the
// previous page's next marker unless it starts over
func checkPages(client *s3.Client, bucket, delim string, pages []pagedList) error {
	var marker string
	for i, page := range pages {
		if page.fromStart {
			marker = ""
		}
		_, err := checkList(client, &s3.ListObjectsInput{
			Bucket:    &bucket,
			Delimiter: &delim,
			Marker:    &marker,
			MaxKeys:   &page.maxKeys,
			Prefix:    &page.prefix,
		}, listExpect{
			truncated:  page.truncated,
			keys:       page.keys,
			prefixes:   page.prefixes,
			nextMarker: page.next,
		})
		if err != nil {
			return fmt.Errorf("page %v: %w", i+1, err)
		}
		marker = page.next
	}
	return nil
}

// listWithKeys writes keys to a fresh bucket and checks one listing
func listWithKeys(s *S3Conf, testName string, keys []string, in s3.ListObjectsInput, exp listExpect) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putObjects(s3client, keys, bucket); err != nil {
			return err
		}
		in.Bucket = &bucket
		_, err := checkList(s3client, &in, exp)
		return err
	})
}

var (
	delimKeys  = []string{"bar", "baz", "cab", "foo"}
	prefixKeys = []string{"foo/bar", "foo/baz", "quux"}
	markerKeys = []string{"bar", "baz", "foo", "quxx"}
)

func BucketList_empty(s *S3Conf) error {
	testName := "BucketList_empty"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		_, err := checkList(s3client, &s3.ListObjectsInput{Bucket: &bucket}, listExpect{})
		return err
	})
}

func BucketList_distinct(s *S3Conf) error {
	testName := "BucketList_distinct"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		other, err := s.fixture.NewBucket(ctx)
		cancel()
		if err != nil {
			return err
		}
		defer s.fixture.Release(context.Background(), other)

		if _, err := putString(s3client, bucket, "asdf", "str"); err != nil {
			return err
		}

		_, err = checkList(s3client, &s3.ListObjectsInput{Bucket: &other}, listExpect{})
		return err
	})
}

func BucketList_many(s *S3Conf) error {
	testName := "BucketList_many"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putObjects(s3client, []string{"foo", "bar", "baz"}, bucket); err != nil {
			return err
		}

		_, err := checkList(s3client, &s3.ListObjectsInput{
			Bucket:  &bucket,
			MaxKeys: aws.Int32(2),
		}, listExpect{truncated: true, keys: []string{"bar", "baz"}})
		if err != nil {
			return err
		}

		_, err = checkList(s3client, &s3.ListObjectsInput{
			Bucket:  &bucket,
			Marker:  aws.String("baz"),
			MaxKeys: aws.Int32(2),
		}, listExpect{keys: []string{"foo"}})
		return err
	})
}

func BucketList_delimiter_basic(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_basic",
		[]string{"foo/bar", "foo/bar/xyzzy", "quux/thud", "asdf"},
		s3.ListObjectsInput{Delimiter: aws.String("/")},
		listExpect{
			keys:      []string{"asdf"},
			prefixes:  []string{"foo/", "quux/"},
			delimiter: aws.String("/"),
		})
}

func BucketList_delimiter_prefix(s *S3Conf) error {
	testName := "BucketList_delimiter_prefix"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		err := putObjects(s3client,
			[]string{"asdf", "boo/bar", "boo/baz/xyzzy", "cquux/thud", "cquux/bla"}, bucket)
		if err != nil {
			return err
		}

		return checkPages(s3client, bucket, "/", []pagedList{
			{maxKeys: 1, fromStart: true, truncated: true, keys: []string{"asdf"}, next: "asdf"},
			{maxKeys: 1, truncated: true, prefixes: []string{"boo/"}, next: "boo/"},
			{maxKeys: 1, prefixes: []string{"cquux/"}},

			{maxKeys: 2, fromStart: true, truncated: true, keys: []string{"asdf"}, prefixes: []string{"boo/"}, next: "boo/"},
			{maxKeys: 2, prefixes: []string{"cquux/"}},

			{prefix: "boo/", maxKeys: 1, fromStart: true, truncated: true, keys: []string{"boo/bar"}, next: "boo/bar"},
			{prefix: "boo/", maxKeys: 1, prefixes: []string{"boo/baz/"}},

			{prefix: "boo/", maxKeys: 2, fromStart: true, keys: []string{"boo/bar"}, prefixes: []string{"boo/baz/"}},
		})
	})
}

func BucketList_delimiter_prefix_ends_with_delimiter(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_prefix_ends_with_delimiter",
		[]string{"asdf/"},
		s3.ListObjectsInput{
			Delimiter: aws.String("/"),
			Prefix:    aws.String("asdf/"),
			Marker:    aws.String(""),
			MaxKeys:   aws.Int32(1000),
		},
		listExpect{keys: []string{"asdf/"}})
}

func BucketList_delimiter_alt(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_alt", delimKeys,
		s3.ListObjectsInput{Delimiter: aws.String("a")},
		listExpect{
			keys:      []string{"foo"},
			prefixes:  []string{"ba", "ca"},
			delimiter: aws.String("a"),
		})
}

func BucketList_delimiter_prefix_underscore(s *S3Conf) error {
	testName := "BucketList_delimiter_prefix_underscore"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		err := putObjects(s3client,
			[]string{"_obj1_", "_under1/bar", "_under1/baz/xyzzy", "_under2/thud", "_under2/bla"}, bucket)
		if err != nil {
			return err
		}

		return checkPages(s3client, bucket, "/", []pagedList{
			{maxKeys: 1, fromStart: true, truncated: true, keys: []string{"_obj1_"}, next: "_obj1_"},
			{maxKeys: 1, truncated: true, prefixes: []string{"_under1/"}, next: "_under1/"},
			{maxKeys: 1, prefixes: []string{"_under2/"}},

			{maxKeys: 2, fromStart: true, truncated: true, keys: []string{"_obj1_"}, prefixes: []string{"_under1/"}, next: "_under1/"},
			{maxKeys: 2, prefixes: []string{"_under2/"}},

			{prefix: "_under1/", maxKeys: 1, fromStart: true, truncated: true, keys: []string{"_under1/bar"}, next: "_under1/bar"},
			{prefix: "_under1/", maxKeys: 1, prefixes: []string{"_under1/baz/"}},

			{prefix: "_under1/", maxKeys: 2, fromStart: true, keys: []string{"_under1/bar"}, prefixes: []string{"_under1/baz/"}},
		})
	})
}

func BucketList_delimiter_percentage(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_percentage",
		[]string{"b%ar", "b%az", "c%ab", "foo"},
		s3.ListObjectsInput{Delimiter: aws.String("%")},
		listExpect{
			keys:      []string{"foo"},
			prefixes:  []string{"b%", "c%"},
			delimiter: aws.String("%"),
		})
}

func BucketList_delimiter_whitespace(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_whitespace",
		[]string{"b ar", "b az", "c ab", "foo"},
		s3.ListObjectsInput{Delimiter: aws.String(" ")},
		listExpect{
			keys:      []string{"foo"},
			prefixes:  []string{"b ", "c "},
			delimiter: aws.String(" "),
		})
}

func BucketList_delimiter_dot(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_dot",
		[]string{"b.ar", "b.az", "c.ab", "foo"},
		s3.ListObjectsInput{Delimiter: aws.String(".")},
		listExpect{
			keys:      []string{"foo"},
			prefixes:  []string{"b.", "c."},
			delimiter: aws.String("."),
		})
}

func BucketList_delimiter_unreadable(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_unreadable", delimKeys,
		s3.ListObjectsInput{Delimiter: aws.String("\x0a")},
		listExpect{keys: delimKeys, delimiter: aws.String("\x0a")})
}

func BucketList_delimiter_empty(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_empty", delimKeys,
		s3.ListObjectsInput{Delimiter: aws.String("")},
		listExpect{keys: delimKeys, delimiter: aws.String("")})
}

func BucketList_delimiter_none(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_none", delimKeys,
		s3.ListObjectsInput{},
		listExpect{keys: delimKeys, delimiter: aws.String("")})
}

func BucketList_delimiter_not_exist(s *S3Conf) error {
	return listWithKeys(s, "BucketList_delimiter_not_exist", delimKeys,
		s3.ListObjectsInput{Delimiter: aws.String("/")},
		listExpect{keys: delimKeys, delimiter: aws.String("/")})
}

func BucketList_prefix_basic(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_basic", prefixKeys,
		s3.ListObjectsInput{Prefix: aws.String("foo/")},
		listExpect{keys: []string{"foo/bar", "foo/baz"}, prefix: aws.String("foo/")})
}

func BucketList_prefix_alt(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_alt", []string{"bar", "baz", "foo"},
		s3.ListObjectsInput{Prefix: aws.String("ba")},
		listExpect{keys: []string{"bar", "baz"}, prefix: aws.String("ba")})
}

func BucketList_prefix_empty(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_empty", prefixKeys,
		s3.ListObjectsInput{Prefix: aws.String("")},
		listExpect{keys: prefixKeys, prefix: aws.String("")})
}

func BucketList_prefix_none(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_none", prefixKeys,
		s3.ListObjectsInput{},
		listExpect{keys: prefixKeys, prefix: aws.String("")})
}

func BucketList_prefix_not_exist(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_not_exist", prefixKeys,
		s3.ListObjectsInput{Prefix: aws.String("d")},
		listExpect{prefix: aws.String("d")})
}

func BucketList_prefix_unreadable(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_unreadable", prefixKeys,
		s3.ListObjectsInput{Prefix: aws.String("\x0a")},
		listExpect{prefix: aws.String("\x0a")})
}

func BucketList_prefix_delimiter_basic(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_delimiter_basic",
		[]string{"foo/bar", "foo/baz/xyzzy", "quux/thud", "asdf"},
		s3.ListObjectsInput{Delimiter: aws.String("/"), Prefix: aws.String("foo/")},
		listExpect{
			keys:      []string{"foo/bar"},
			prefixes:  []string{"foo/baz/"},
			prefix:    aws.String("foo/"),
			delimiter: aws.String("/"),
		})
}

func BucketList_prefix_delimiter_alt(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_delimiter_alt",
		[]string{"bar", "bazar", "cab", "foo"},
		s3.ListObjectsInput{Delimiter: aws.String("a"), Prefix: aws.String("ba")},
		listExpect{
			keys:      []string{"bar"},
			prefixes:  []string{"baza"},
			prefix:    aws.String("ba"),
			delimiter: aws.String("a"),
		})
}

func BucketList_prefix_delimiter_prefix_not_exist(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_delimiter_prefix_not_exist",
		[]string{"b/a/r", "b/a/c", "b/a/g", "g"},
		s3.ListObjectsInput{Delimiter: aws.String("d"), Prefix: aws.String("/")},
		listExpect{})
}

func BucketList_prefix_delimiter_delimiter_not_exist(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_delimiter_delimiter_not_exist",
		[]string{"b/a/c", "b/a/g", "b/a/r", "g"},
		s3.ListObjectsInput{Delimiter: aws.String("z"), Prefix: aws.String("b")},
		listExpect{keys: []string{"b/a/c", "b/a/g", "b/a/r"}})
}

func BucketList_prefix_delimiter_prefix_delimiter_not_exist(s *S3Conf) error {
	return listWithKeys(s, "BucketList_prefix_delimiter_prefix_delimiter_not_exist",
		[]string{"b/a/c", "b/a/g", "b/a/r", "g"},
		s3.ListObjectsInput{Delimiter: aws.String("z"), Prefix: aws.String("y")},
		listExpect{})
}

func BucketList_maxkeys_one(s *S3Conf) error {
	testName := "BucketList_maxkeys_one"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putObjects(s3client, markerKeys, bucket); err != nil {
			return err
		}

		_, err := checkList(s3client, &s3.ListObjectsInput{
			Bucket:  &bucket,
			MaxKeys: aws.Int32(1),
		}, listExpect{truncated: true, keys: markerKeys[:1]})
		if err != nil {
			return err
		}

		_, err = checkList(s3client, &s3.ListObjectsInput{
			Bucket: &bucket,
			Marker: &markerKeys[0],
		}, listExpect{keys: markerKeys[1:]})
		return err
	})
}

func BucketList_maxkeys_zero(s *S3Conf) error {
	return listWithKeys(s, "BucketList_maxkeys_zero", markerKeys,
		s3.ListObjectsInput{MaxKeys: aws.Int32(0)},
		listExpect{})
}

func BucketList_maxkeys_none(s *S3Conf) error {
	testName := "BucketList_maxkeys_none"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putObjects(s3client, markerKeys, bucket); err != nil {
			return err
		}

		out, err := checkList(s3client, &s3.ListObjectsInput{Bucket: &bucket},
			listExpect{keys: markerKeys})
		if err != nil {
			return err
		}
		if getInt32(out.MaxKeys) != 1000 {
			return fmt.Errorf("expected max-keys to be 1000, instead got %v", getInt32(out.MaxKeys))
		}
		return nil
	})
}

func BucketList_maxkeys_invalid(s *S3Conf) error {
	testName := "BucketList_maxkeys_invalid"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putObjects(s3client, markerKeys, bucket); err != nil {
			return err
		}

		client := s.GetClientWith(WithRawQuery("max-keys=blah"))
		_, err := listObjects(client, &s3.ListObjectsInput{Bucket: &bucket})
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrInvalidArgument))
	})
}

func BucketList_marker_none(s *S3Conf) error {
	return listWithKeys(s, "BucketList_marker_none", markerKeys,
		s3.ListObjectsInput{},
		listExpect{keys: markerKeys, marker: aws.String("")})
}

func BucketList_marker_empty(s *S3Conf) error {
	return listWithKeys(s, "BucketList_marker_empty", markerKeys,
		s3.ListObjectsInput{Marker: aws.String("")},
		listExpect{keys: markerKeys, marker: aws.String("")})
}

func BucketList_marker_unreadable(s *S3Conf) error {
	return listWithKeys(s, "BucketList_marker_unreadable", markerKeys,
		s3.ListObjectsInput{Marker: aws.String("\x0a")},
		listExpect{keys: markerKeys, marker: aws.String("\x0a")})
}

func BucketList_marker_not_in_list(s *S3Conf) error {
	return listWithKeys(s, "BucketList_marker_not_in_list", markerKeys,
		s3.ListObjectsInput{Marker: aws.String("blah")},
		listExpect{keys: []string{"foo", "quxx"}, marker: aws.String("blah")})
}

func BucketList_marker_after_list(s *S3Conf) error {
	return listWithKeys(s, "BucketList_marker_after_list", markerKeys,
		s3.ListObjectsInput{Marker: aws.String("zzz")},
		listExpect{marker: aws.String("zzz")})
}

// objectInfo is what HeadObject and GetObjectAcl report for a key
type objectInfo struct {
	etag         string
	size         int64
	lastModified *time.Time
	ownerID      string
	ownerName    string
	versionID    string
}

func describeObjects(client *s3.Client, bucket string, keys []string) (map[string]objectInfo, error) {
	info := make(map[string]objectInfo, len(keys))
	for _, key := range keys {
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		head, err := client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &bucket, Key: &key})
		cancel()
		if err != nil {
			return nil, fmt.Errorf("head %v: %w", key, err)
		}

		ctx, cancel = context.WithTimeout(context.Background(), shortTimeout)
		acl, err := client.GetObjectAcl(ctx, &s3.GetObjectAclInput{Bucket: &bucket, Key: &key})
		cancel()
		if err != nil {
			return nil, fmt.Errorf("get acl %v: %w", key, err)
		}
		if acl.Owner == nil {
			return nil, fmt.Errorf("object %v acl has no owner", key)
		}

		info[key] = objectInfo{
			etag:         getString(head.ETag),
			size:         getInt64(head.ContentLength),
			lastModified: head.LastModified,
			ownerID:      getString(acl.Owner.ID),
			ownerName:    getString(acl.Owner.DisplayName),
			versionID:    getString(head.VersionId),
		}
	}
	return info, nil
}

func (o objectInfo) check(key, etag string, size *int64, owner *types.Owner, lastModified *time.Time) error {
	if etag != o.etag {
		return fmt.Errorf("%v: expected etag %v, instead got %v", key, o.etag, etag)
	}
	if getInt64(size) != o.size {
		return fmt.Errorf("%v: expected size %v, instead got %v", key, o.size, getInt64(size))
	}
	if owner == nil {
		return fmt.Errorf("%v: expected an owner, instead got none", key)
	}
	if getString(owner.ID) != o.ownerID {
		return fmt.Errorf("%v: expected owner id %v, instead got %v", key, o.ownerID, getString(owner.ID))
	}
	if getString(owner.DisplayName) != o.ownerName {
		return fmt.Errorf("%v: expected owner name %v, instead got %v",
			key, o.ownerName, getString(owner.DisplayName))
	}
	return compareDates(key+" last modified", o.lastModified, lastModified)
}

func BucketList_return_data(s *S3Conf) error {
	testName := "BucketList_return_data"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		keys := []string{"bar", "baz", "foo"}
		if err := putObjects(s3client, keys, bucket); err != nil {
			return err
		}

		info, err := describeObjects(s3client, bucket, keys)
		if err != nil {
			return err
		}

		out, err := listObjects(s3client, &s3.ListObjectsInput{Bucket: &bucket})
		if err != nil {
			return err
		}
		if len(out.Contents) != len(keys) {
			return fmt.Errorf("expected %v objects, instead got %v", len(keys), len(out.Contents))
		}

		for _, obj := range out.Contents {
			key := getString(obj.Key)
			exp, ok := info[key]
			if !ok {
				return fmt.Errorf("unexpected key %v in the listing", key)
			}
			if err := exp.check(key, getString(obj.ETag), obj.Size, obj.Owner, obj.LastModified); err != nil {
				return err
			}
		}
		return nil
	})
}

// configureVersioning sets the versioning state of bucket and waits
// until reading it back agrees
func configureVersioning(client *s3.Client, bucket string, status types.BucketVersioningStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	_, err := client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: &bucket,
		VersioningConfiguration: &types.VersioningConfiguration{
			MFADelete: types.MFADeleteDisabled,
			Status:    status,
		},
	})
	cancel()
	if err != nil {
		return fmt.Errorf("put bucket versioning: %w", err)
	}

	var got types.BucketVersioningStatus
	for range 5 {
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		out, err := client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: &bucket})
		cancel()
		if err != nil {
			return fmt.Errorf("get bucket versioning: %w", err)
		}
		got = out.Status
		if got == status {
			return nil
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("expected the versioning status to be %v, instead got %q", status, got)
}

func BucketList_return_data_versioning(s *S3Conf) error {
	testName := "BucketList_return_data_versioning"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := configureVersioning(s3client, bucket, types.BucketVersioningStatusEnabled); err != nil {
			return err
		}

		keys := []string{"bar", "baz", "foo"}
		if err := putObjects(s3client, keys, bucket); err != nil {
			return err
		}

		info, err := describeObjects(s3client, bucket, keys)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		out, err := s3client.ListObjectVersions(ctx, &s3.ListObjectVersionsInput{Bucket: &bucket})
		cancel()
		if err != nil {
			return err
		}
		if len(out.Versions) != len(keys) {
			return fmt.Errorf("expected %v versions, instead got %v", len(keys), len(out.Versions))
		}

		for _, v := range out.Versions {
			key := getString(v.Key)
			exp, ok := info[key]
			if !ok {
				return fmt.Errorf("unexpected key %v in the listing", key)
			}
			if err := exp.check(key, getString(v.ETag), v.Size, v.Owner, v.LastModified); err != nil {
				return err
			}
			if getString(v.VersionId) != exp.versionID {
				return fmt.Errorf("%v: expected version id %v, instead got %v",
					key, exp.versionID, getString(v.VersionId))
			}
		}
		return nil
	})
}

func BucketList_objects_anonymous(s *S3Conf) error {
	testName := "BucketList_objects_anonymous"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err := s3client.PutBucketAcl(ctx, &s3.PutBucketAclInput{
			Bucket: &bucket,
			ACL:    types.BucketCannedACLPublicRead,
		})
		cancel()
		if err != nil {
			return err
		}

		_, err = listObjects(s.GetAnonymousClient(), &s3.ListObjectsInput{Bucket: &bucket})
		return err
	})
}

func BucketList_objects_anonymous_fail(s *S3Conf) error {
	testName := "BucketList_objects_anonymous_fail"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		_, err := listObjects(s.GetAnonymousClient(), &s3.ListObjectsInput{Bucket: &bucket})
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrAccessDenied))
	})
}

func BucketList_long_name(s *S3Conf) error {
	testName := "BucketList_long_name"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		name, err := newBucketName(s)
		if err != nil {
			return err
		}
		bucket := padName(name, 251)

		if err := createBucket(s3client, bucket, ""); err != nil {
			return err
		}
		defer s.fixture.Release(context.Background(), bucket)

		_, err = checkList(s3client, &s3.ListObjectsInput{Bucket: &bucket}, listExpect{})
		return err
	})
}

// padName appends 'a's to name up to length characters
func padName(name string, length int) string {
	for len(name) < length {
		name += "a"
	}
	return name
}
