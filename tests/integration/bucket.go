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
	"errors"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/versity/s3tests/s3err"
	"golang.org/x/sync/errgroup"
)

func Bucket_notexist(s *S3Conf) error {
	testName := "Bucket_notexist"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		bucket, err := newBucketName(s)
		if err != nil {
			return err
		}
		_, err = listObjects(s3client, &s3.ListObjectsInput{Bucket: &bucket})
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchBucket))
	})
}

func Bucket_delete_notexist(s *S3Conf) error {
	testName := "Bucket_delete_notexist"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		bucket, err := newBucketName(s)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err = s3client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: &bucket})
		cancel()
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchBucket))
	})
}

func Bucket_delete_nonempty(s *S3Conf) error {
	testName := "Bucket_delete_nonempty"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", "foocontent"); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err := s3client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: &bucket})
		cancel()
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrBucketNotEmpty))
	})
}

func Bucket_concurrent_set_canned_acl(s *S3Conf) error {
	testName := "Bucket_concurrent_set_canned_acl"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		const workers = 50
		results := make([]error, workers)

		var eg errgroup.Group
		for i := range workers {
			eg.Go(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
				defer cancel()
				_, results[i] = s3client.PutBucketAcl(ctx, &s3.PutBucketAclInput{
					Bucket: &bucket,
					ACL:    types.BucketCannedACLPublicRead,
				})
				return nil
			})
		}
		_ = eg.Wait()

		for i, err := range results {
			if err != nil {
				return fmt.Errorf("put bucket acl %v: %w", i, err)
			}
		}
		return nil
	})
}

func Bucket_create_delete(s *S3Conf) error {
	testName := "Bucket_create_delete"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		bucket, err := newBucketName(s)
		if err != nil {
			return err
		}
		if err := createBucket(s3client, bucket, ""); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err = s3client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: &bucket})
		cancel()
		if err != nil {
			return err
		}

		ctx, cancel = context.WithTimeout(context.Background(), shortTimeout)
		_, err = s3client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: &bucket})
		cancel()
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchBucket))
	})
}

func Bucket_head(s *S3Conf) error {
	testName := "Bucket_head"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		defer cancel()
		_, err := s3client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &bucket})
		return err
	})
}

func Bucket_get_location(s *S3Conf) error {
	testName := "Bucket_get_location"
	location := s.cfg.Main.APIName
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		bucket, err := newBucketName(s)
		if err != nil {
			return err
		}

		in := &s3.CreateBucketInput{Bucket: &bucket}
		if location != "" {
			in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(location),
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err = s3client.CreateBucket(ctx, in)
		cancel()
		if err != nil {
			return err
		}
		defer s.fixture.Release(context.Background(), bucket)

		ctx, cancel = context.WithTimeout(context.Background(), shortTimeout)
		out, err := s3client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: &bucket})
		cancel()
		if err != nil {
			return err
		}
		if string(out.LocationConstraint) != location {
			return fmt.Errorf("expected the location constraint to be %q, instead got %q",
				location, out.LocationConstraint)
		}
		return nil
	})
}

func Bucket_create_exists(s *S3Conf) error {
	testName := "Bucket_create_exists"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		err := createBucket(s3client, bucket, "")
		if err == nil {
			// us-east-1 answers success for a bucket the caller owns
			return nil
		}
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrBucketAlreadyOwnedByYou))
	})
}

func Bucket_create_exists_nonowner(s *S3Conf) error {
	testName := "Bucket_create_exists_nonowner"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		altClient, err := s.GetAltClient()
		if err != nil {
			return err
		}
		err = createBucket(altClient, bucket, "")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrBucketAlreadyExists))
	})
}

func Bucket_create_then_list(s *S3Conf) error {
	testName := "Bucket_create_then_list"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		var buckets []string
		defer func() {
			for _, bucket := range buckets {
				s.fixture.Release(context.Background(), bucket)
			}
		}()

		for range 5 {
			bucket, err := newBucketName(s)
			if err != nil {
				return err
			}
			if err := createBucket(s3client, bucket, ""); err != nil {
				return err
			}
			buckets = append(buckets, bucket)
		}

		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		out, err := s3client.ListBuckets(ctx, &s3.ListBucketsInput{})
		cancel()
		if err != nil {
			return err
		}

		var names []string
		for _, b := range out.Buckets {
			names = append(names, getString(b.Name))
		}

		var missing []string
		for _, bucket := range buckets {
			if !slices.Contains(names, bucket) {
				missing = append(missing, bucket)
			}
		}
		if len(missing) > 0 {
			return errors.New("buckets missing from the list: " + fmt.Sprint(missing))
		}
		return nil
	})
}
