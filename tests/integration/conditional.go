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
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/versity/s3tests/s3err"
)

var longAgo = time.Date(1994, time.August, 30, 22, 20, 31, 0, time.UTC)

// conditionalGet puts foo="bar", lets prepare fill in the request
// conditions and reads foo back with them
func conditionalGet(s *S3Conf, testName string, prepare func(in *s3.GetObjectInput, put *s3.PutObjectOutput) error, check func(body string, err error) error) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		put, err := putString(s3client, bucket, "foo", "bar")
		if err != nil {
			return err
		}

		in := &s3.GetObjectInput{Bucket: &bucket, Key: aws.String("foo")}
		if err := prepare(in, put); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		defer cancel()
		out, err := s3client.GetObject(ctx, in)
		if err != nil {
			return check("", err)
		}
		defer out.Body.Close()
		body, err := io.ReadAll(out.Body)
		if err != nil {
			return fmt.Errorf("read object body: %w", err)
		}
		return check(string(body), nil)
	})
}

func expectBody(expected string) func(string, error) error {
	return func(body string, err error) error {
		if err != nil {
			return err
		}
		if body != expected {
			return fmt.Errorf("expected the object body to be %q, instead got %q", expected, body)
		}
		return nil
	}
}

func expectPreconditionFailed(_ string, err error) error {
	return checkApiErr(err, s3err.GetAPIError(s3err.ErrPreconditionFailed))
}

func expectNotModified(_ string, err error) error {
	return checkHTTPStatus(err, http.StatusNotModified)
}

func Conditional_get_ifmatch_good(s *S3Conf) error {
	return conditionalGet(s, "Conditional_get_ifmatch_good",
		func(in *s3.GetObjectInput, put *s3.PutObjectOutput) error {
			in.IfMatch = put.ETag
			return nil
		}, expectBody("bar"))
}

func Conditional_get_ifmatch_failed(s *S3Conf) error {
	return conditionalGet(s, "Conditional_get_ifmatch_failed",
		func(in *s3.GetObjectInput, _ *s3.PutObjectOutput) error {
			in.IfMatch = aws.String(`"ABCORZ"`)
			return nil
		}, expectPreconditionFailed)
}

func Conditional_get_ifnonematch_good(s *S3Conf) error {
	return conditionalGet(s, "Conditional_get_ifnonematch_good",
		func(in *s3.GetObjectInput, put *s3.PutObjectOutput) error {
			in.IfNoneMatch = put.ETag
			return nil
		}, expectNotModified)
}

func Conditional_get_ifnonematch_failed(s *S3Conf) error {
	return conditionalGet(s, "Conditional_get_ifnonematch_failed",
		func(in *s3.GetObjectInput, _ *s3.PutObjectOutput) error {
			in.IfNoneMatch = aws.String("ABCORZ")
			return nil
		}, expectBody("bar"))
}

func Conditional_get_ifmodifiedsince_good(s *S3Conf) error {
	return conditionalGet(s, "Conditional_get_ifmodifiedsince_good",
		func(in *s3.GetObjectInput, _ *s3.PutObjectOutput) error {
			in.IfModifiedSince = &longAgo
			return nil
		}, expectBody("bar"))
}

func Conditional_get_ifmodifiedsince_failed(s *S3Conf) error {
	testName := "Conditional_get_ifmodifiedsince_failed"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}
		out, err := headObject(s3client, bucket, "foo")
		if err != nil {
			return err
		}
		if out.LastModified == nil {
			return errors.New("expected a last modified time")
		}
		after := out.LastModified.Truncate(time.Second).Add(time.Second)

		time.Sleep(time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		defer cancel()
		_, err = s3client.GetObject(ctx, &s3.GetObjectInput{
			Bucket:          &bucket,
			Key:             aws.String("foo"),
			IfModifiedSince: &after,
		})
		return checkHTTPStatus(err, http.StatusNotModified)
	})
}

func Conditional_get_ifunmodifiedsince_good(s *S3Conf) error {
	return conditionalGet(s, "Conditional_get_ifunmodifiedsince_good",
		func(in *s3.GetObjectInput, _ *s3.PutObjectOutput) error {
			in.IfUnmodifiedSince = &longAgo
			return nil
		}, expectPreconditionFailed)
}

func Conditional_get_ifunmodifiedsince_failed(s *S3Conf) error {
	return conditionalGet(s, "Conditional_get_ifunmodifiedsince_failed",
		func(in *s3.GetObjectInput, _ *s3.PutObjectOutput) error {
			future := time.Date(2100, time.August, 30, 22, 20, 31, 0, time.UTC)
			in.IfUnmodifiedSince = &future
			return nil
		}, expectBody("bar"))
}

// conditionalPut optionally writes foo="bar" first, then writes
// foo="zar" with header set to the value cond returns. When failed is
// set the second write must fail with 412 and foo must hold want.
func conditionalPut(s *S3Conf, testName string, existing bool, header string, cond func(etag string) string, failed bool, want string) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		var etag string
		if existing {
			put, err := putString(s3client, bucket, "foo", "bar")
			if err != nil {
				return err
			}
			etag = strings.Trim(getString(put.ETag), `"`)
		}

		client := s.GetClientWith(WithHeaders(map[string]string{header: cond(etag)}))
		_, err := putString(client, bucket, "foo", "zar")
		if failed {
			if err := checkApiErr(err, s3err.GetAPIError(s3err.ErrPreconditionFailed)); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if want == "" {
			_, err := getObjectBody(s3client, bucket, "foo")
			return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchKey))
		}
		return checkObjectBody(s3client, bucket, "foo", want)
	})
}

func fixed(v string) func(string) string {
	return func(string) string { return v }
}

func sameETag(etag string) string {
	return etag
}

func Conditional_put_ifmatch_good(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifmatch_good", true,
		"If-Match", sameETag, false, "zar")
}

func Conditional_put_ifmatch_failed(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifmatch_failed", true,
		"If-Match", fixed(`"ABCORZ"`), true, "bar")
}

func Conditional_put_ifmatch_overwrite_existed_good(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifmatch_overwrite_existed_good", true,
		"If-Match", fixed("*"), false, "zar")
}

func Conditional_put_ifmatch_nonexisted_failed(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifmatch_nonexisted_failed", false,
		"If-Match", fixed("*"), true, "")
}

func Conditional_put_ifnonmatch_good(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifnonmatch_good", true,
		"If-None-Match", fixed("ABCORZ"), false, "zar")
}

func Conditional_put_ifnonmatch_failed(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifnonmatch_failed", true,
		"If-None-Match", sameETag, true, "bar")
}

func Conditional_put_ifnonmatch_nonexisted_good(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifnonmatch_nonexisted_good", false,
		"If-None-Match", fixed("*"), false, "zar")
}

func Conditional_put_ifnonmatch_overwrite_existed_failed(s *S3Conf) error {
	return conditionalPut(s, "Conditional_put_ifnonmatch_overwrite_existed_failed", true,
		"If-None-Match", fixed("*"), true, "bar")
}
