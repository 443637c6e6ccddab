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
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/versity/s3tests/s3err"
)

// setupObjectACL applies bucketACL to bucket and writes foo with
// objectACL
func setupObjectACL(client *s3.Client, bucket string, bucketACL types.BucketCannedACL, objectACL types.ObjectCannedACL) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	_, err := client.PutBucketAcl(ctx, &s3.PutBucketAclInput{
		Bucket: &bucket,
		ACL:    bucketACL,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("put bucket acl: %w", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), shortTimeout)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    aws.String("foo"),
		ACL:    objectACL,
		Body:   strings.NewReader("foocontent"),
	})
	cancel()
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// accessTest runs fn on a bucket holding foo with the given acls
func accessTest(s *S3Conf, testName string, bucketACL types.BucketCannedACL, objectACL types.ObjectCannedACL, fn func(s3client *s3.Client, bucket string) error) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := setupObjectACL(s3client, bucket, bucketACL, objectACL); err != nil {
			return err
		}
		return fn(s3client, bucket)
	})
}

func deleteObject(client *s3.Client, bucket, key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &key})
	return err
}

// removeBucket deletes foo and then the bucket itself
func removeBucket(client *s3.Client, bucket string) error {
	if err := deleteObject(client, bucket, "foo"); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	_, err := client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: &bucket})
	return err
}

func ObjectAccess_raw_get(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_get",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			return checkObjectBody(s.GetAnonymousClient(), bucket, "foo", "foocontent")
		})
}

func ObjectAccess_raw_get_bucket_gone(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_get_bucket_gone",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			if err := removeBucket(s3client, bucket); err != nil {
				return err
			}
			_, err := getObjectBody(s.GetAnonymousClient(), bucket, "foo")
			return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchBucket))
		})
}

func ObjectAccess_delete_key_bucket_gone(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_delete_key_bucket_gone",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			if err := removeBucket(s3client, bucket); err != nil {
				return err
			}
			err := deleteObject(s.GetAnonymousClient(), bucket, "foo")
			return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchBucket))
		})
}

func ObjectAccess_raw_get_object_gone(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_get_object_gone",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			if err := deleteObject(s3client, bucket, "foo"); err != nil {
				return err
			}
			_, err := getObjectBody(s.GetAnonymousClient(), bucket, "foo")
			return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchKey))
		})
}

func ObjectAccess_raw_get_bucket_acl(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_get_bucket_acl",
		types.BucketCannedACLPrivate, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			return checkObjectBody(s.GetAnonymousClient(), bucket, "foo", "foocontent")
		})
}

func ObjectAccess_raw_get_object_acl(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_get_object_acl",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPrivate,
		func(s3client *s3.Client, bucket string) error {
			_, err := getObjectBody(s.GetAnonymousClient(), bucket, "foo")
			return checkApiErr(err, s3err.GetAPIError(s3err.ErrAccessDenied))
		})
}

func ObjectAccess_raw_authenticated(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_authenticated",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			return checkObjectBody(s3client, bucket, "foo", "foocontent")
		})
}

func ObjectAccess_raw_authenticated_bucket_acl(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_authenticated_bucket_acl",
		types.BucketCannedACLPrivate, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			return checkObjectBody(s3client, bucket, "foo", "foocontent")
		})
}

func ObjectAccess_raw_authenticated_object_acl(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_authenticated_object_acl",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPrivate,
		func(s3client *s3.Client, bucket string) error {
			return checkObjectBody(s3client, bucket, "foo", "foocontent")
		})
}

func ObjectAccess_raw_authenticated_bucket_gone(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_authenticated_bucket_gone",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			if err := removeBucket(s3client, bucket); err != nil {
				return err
			}
			_, err := getObjectBody(s3client, bucket, "foo")
			return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchBucket))
		})
}

func ObjectAccess_raw_authenticated_object_gone(s *S3Conf) error {
	return accessTest(s, "ObjectAccess_raw_authenticated_object_gone",
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			if err := deleteObject(s3client, bucket, "foo"); err != nil {
				return err
			}
			_, err := getObjectBody(s3client, bucket, "foo")
			return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchKey))
		})
}

// presignedGet fetches foo through a url presigned to expire after
// expires seconds
func presignedGet(s *S3Conf, testName string, expires, status int) error {
	return accessTest(s, testName,
		types.BucketCannedACLPublicRead, types.ObjectCannedACLPublicRead,
		func(s3client *s3.Client, bucket string) error {
			uri, err := s.presignURL(http.MethodGet, bucket, "foo", expires, time.Now())
			if err != nil {
				return err
			}
			resp, err := s.doRequest(http.MethodGet, uri, nil)
			if err != nil {
				return err
			}
			return checkResponseStatus(resp, status)
		})
}

func ObjectAccess_x_amz_expires_not_expired(s *S3Conf) error {
	return presignedGet(s, "ObjectAccess_x_amz_expires_not_expired", 100000, http.StatusOK)
}

func ObjectAccess_x_amz_expires_out_range_zero(s *S3Conf) error {
	return presignedGet(s, "ObjectAccess_x_amz_expires_out_range_zero", 0, http.StatusForbidden)
}

func ObjectAccess_x_amz_expires_out_max_range(s *S3Conf) error {
	return presignedGet(s, "ObjectAccess_x_amz_expires_out_max_range", 609901, http.StatusForbidden)
}

func ObjectAccess_x_amz_expires_out_positive_range(s *S3Conf) error {
	return presignedGet(s, "ObjectAccess_x_amz_expires_out_positive_range", -7, http.StatusForbidden)
}

func ObjectAccess_anon_put(s *S3Conf) error {
	testName := "ObjectAccess_anon_put"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", ""); err != nil {
			return err
		}
		_, err := putString(s.GetAnonymousClient(), bucket, "foo", "foo")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrAccessDenied))
	})
}

func ObjectAccess_anon_put_write_access(s *S3Conf) error {
	testName := "ObjectAccess_anon_put_write_access"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", ""); err != nil {
			return err
		}
		_, err := putString(s.GetAnonymousClient(), bucket, "foo", "foo")
		return err
	}, publicBucket())
}

func ObjectAccess_put_authenticated(s *S3Conf) error {
	testName := "ObjectAccess_put_authenticated"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		_, err := putString(s3client, bucket, "foo", "foo")
		return err
	})
}

func ObjectAccess_raw_put_authenticated_expired(s *S3Conf) error {
	testName := "ObjectAccess_raw_put_authenticated_expired"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", ""); err != nil {
			return err
		}
		uri, err := s.presignURL(http.MethodPut, bucket, "foo", -1000, time.Now())
		if err != nil {
			return err
		}
		resp, err := s.doRequest(http.MethodPut, uri, strings.NewReader("foo"))
		if err != nil {
			return err
		}
		return checkResponseStatus(resp, http.StatusForbidden)
	})
}
