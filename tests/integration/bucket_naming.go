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
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/versity/s3tests/s3err"
)

// createBadBucket expects the bucket create to fail with
// InvalidBucketName. A bucket the server accepts anyway is removed.
func createBadBucket(s *S3Conf, s3client *s3.Client, bucket string) error {
	err := createBucket(s3client, bucket, "")
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), longTimeout)
		defer cancel()
		s.fixture.Release(ctx, bucket)
		return fmt.Errorf("expected bucket %q to be rejected, instead it was created", bucket)
	}
	return checkApiErr(err, s3err.GetAPIError(s3err.ErrInvalidBucketName))
}

// createInvalidBucket sends a create request for a valid name and
// swaps it for name on the wire, so names the sdk refuses to
// serialize still reach the server
func createInvalidBucket(s *S3Conf, name string) error {
	valid, err := newBucketName(s)
	if err != nil {
		return err
	}

	old := valid
	if name == "" && s.hostStyle {
		old = valid + "."
	}
	client := s.GetClientWith(WithPathRewrite(old, name))
	err = createBucket(client, valid, "")
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), longTimeout)
		defer cancel()
		s.fixture.Release(ctx, name)
		return fmt.Errorf("expected bucket %q to be rejected, instead it was created", name)
	}
	return err
}

// createGoodBucket creates and removes bucket
func createGoodBucket(s *S3Conf, s3client *s3.Client, bucket string) error {
	if err := createBucket(s3client, bucket, ""); err != nil {
		return fmt.Errorf("create bucket %q: %w", bucket, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), longTimeout)
	defer cancel()
	return s.fixture.Release(ctx, bucket)
}

func BucketNaming_bad_starts_nonalpha(s *S3Conf) error {
	testName := "BucketNaming_bad_starts_nonalpha"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		name, err := newBucketName(s)
		if err != nil {
			return err
		}
		return createBadBucket(s, s3client, "_"+name)
	})
}

func BucketNaming_bad_short_empty(s *S3Conf) error {
	testName := "BucketNaming_bad_short_empty"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		err := createInvalidBucket(s, "")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrMethodNotAllowed))
	})
}

func BucketNaming_bad_short_one(s *S3Conf) error {
	testName := "BucketNaming_bad_short_one"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		return createBadBucket(s, s3client, "a")
	})
}

func BucketNaming_bad_short_two(s *S3Conf) error {
	testName := "BucketNaming_bad_short_two"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		return createBadBucket(s, s3client, "aa")
	})
}

func BucketNaming_bad_long(s *S3Conf) error {
	testName := "BucketNaming_bad_long"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		for _, length := range []int{256, 280, 3000} {
			err := createInvalidBucket(s, strings.Repeat("a", length))
			if err := checkHTTPStatus(err, 400); err != nil {
				return fmt.Errorf("name length %v: %w", length, err)
			}
		}
		return nil
	})
}

func goodLongName(s *S3Conf, testName string, length int) error {
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		name, err := newBucketName(s)
		if err != nil {
			return err
		}
		return createGoodBucket(s, s3client, padName(name, length))
	})
}

func BucketNaming_good_long_250(s *S3Conf) error {
	return goodLongName(s, "BucketNaming_good_long_250", 250)
}

func BucketNaming_good_long_251(s *S3Conf) error {
	return goodLongName(s, "BucketNaming_good_long_251", 251)
}

func BucketNaming_good_long_252(s *S3Conf) error {
	return goodLongName(s, "BucketNaming_good_long_252", 252)
}

func BucketNaming_good_long_253(s *S3Conf) error {
	return goodLongName(s, "BucketNaming_good_long_253", 253)
}

func BucketNaming_good_long_254(s *S3Conf) error {
	return goodLongName(s, "BucketNaming_good_long_254", 254)
}

func BucketNaming_good_long_255(s *S3Conf) error {
	return goodLongName(s, "BucketNaming_good_long_255", 255)
}

func BucketNaming_bad_ip(s *S3Conf) error {
	testName := "BucketNaming_bad_ip"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		return createBadBucket(s, s3client, "192.168.5.123")
	})
}

func BucketNaming_bad_punctuation(s *S3Conf) error {
	testName := "BucketNaming_bad_punctuation"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		err := createInvalidBucket(s, "alpha!soup")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrInvalidBucketName))
	})
}

// dnsName creates the run prefix followed by name
func dnsName(s *S3Conf, testName, name string) error {
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		return createGoodBucket(s, s3client, s.fixture.Prefix()+name)
	})
}

func BucketNaming_dns_underscore(s *S3Conf) error {
	return dnsName(s, "BucketNaming_dns_underscore", "foo_bar")
}

func BucketNaming_dns_long(s *S3Conf) error {
	prefix := s.fixture.Prefix()
	return dnsName(s, "BucketNaming_dns_long", strings.Repeat("a", max(100-len(prefix), 0)))
}

func BucketNaming_dns_dash_at_end(s *S3Conf) error {
	return dnsName(s, "BucketNaming_dns_dash_at_end", "foo-")
}

func BucketNaming_dns_dot_dot(s *S3Conf) error {
	return dnsName(s, "BucketNaming_dns_dot_dot", "foo..bar")
}

func BucketNaming_dns_dot_dash(s *S3Conf) error {
	return dnsName(s, "BucketNaming_dns_dot_dash", "foo.-bar")
}

func BucketNaming_dns_dash_dot(s *S3Conf) error {
	return dnsName(s, "BucketNaming_dns_dash_dot", "foo-.bar")
}
