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
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/versity/s3tests/s3err"
)

func Object_write_to_nonexist_bucket(s *S3Conf) error {
	testName := "Object_write_to_nonexist_bucket"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		bucket, err := newBucketName(s)
		if err != nil {
			return err
		}
		_, err = putString(s3client, bucket, "foo", "foo")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchBucket))
	})
}

func Object_read_notexist(s *S3Conf) error {
	testName := "Object_read_notexist"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		_, err := getObjectBody(s3client, bucket, "bar")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchKey))
	})
}

type requestIDError interface {
	ServiceRequestID() string
}

func Object_requestid_matches_header_on_error(s *S3Conf) error {
	testName := "Object_requestid_matches_header_on_error"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		_, err := getObjectBody(s3client, bucket, "bar")
		if err := checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchKey)); err != nil {
			return err
		}
		var reqErr requestIDError
		if !errors.As(err, &reqErr) || reqErr.ServiceRequestID() == "" {
			return fmt.Errorf("expected the error to carry a request id: %w", err)
		}

		req, err := s.createSignedReq(http.MethodGet, bucket, "bar", nil, nil, time.Now())
		if err != nil {
			return err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		errResp, err := s3err.ParseErrorResponse(resp.Body)
		if err != nil {
			return err
		}
		if errResp.RequestID == "" {
			return errors.New("expected the error body to contain a request id")
		}
		header := resp.Header.Get("X-Amz-Request-Id")
		if errResp.RequestID != header {
			return fmt.Errorf("expected the body request id %q to match the header %q",
				errResp.RequestID, header)
		}
		return nil
	})
}

func Object_multi_object_delete(s *S3Conf) error {
	testName := "Object_multi_object_delete"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		keys := []string{"key0", "key1", "key2"}
		if err := putObjects(s3client, keys, bucket); err != nil {
			return err
		}
		if _, err := checkList(s3client, &s3.ListObjectsInput{Bucket: &bucket},
			listExpect{keys: keys}); err != nil {
			return err
		}

		var objs []types.ObjectIdentifier
		for _, key := range keys {
			objs = append(objs, types.ObjectIdentifier{Key: aws.String(key)})
		}

		// deleting keys that are gone reports them as deleted again
		for range 2 {
			ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
			out, err := s3client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: &bucket,
				Delete: &types.Delete{Objects: objs},
			})
			cancel()
			if err != nil {
				return err
			}
			if len(out.Deleted) != len(keys) {
				return fmt.Errorf("expected %v deleted objects, instead got %v",
					len(keys), len(out.Deleted))
			}
			if len(out.Errors) != 0 {
				return fmt.Errorf("expected no delete errors, instead got %v", len(out.Errors))
			}
			if _, err := checkList(s3client, &s3.ListObjectsInput{Bucket: &bucket},
				listExpect{}); err != nil {
				return err
			}
		}
		return nil
	})
}

func headObject(client *s3.Client, bucket, key string) (*s3.HeadObjectOutput, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	return client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &bucket, Key: &key})
}

func Object_head_zero_bytes(s *S3Conf) error {
	testName := "Object_head_zero_bytes"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", ""); err != nil {
			return err
		}
		out, err := headObject(s3client, bucket, "foo")
		if err != nil {
			return err
		}
		if getInt64(out.ContentLength) != 0 {
			return fmt.Errorf("expected content length 0, instead got %v", getInt64(out.ContentLength))
		}
		return nil
	})
}

func Object_write_check_etag(s *S3Conf) error {
	testName := "Object_write_check_etag"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		out, err := putString(s3client, bucket, "foo", "bar")
		if err != nil {
			return err
		}
		const etag = `"37b51d194a7513e45b56f6524f2d51f2"`
		if getString(out.ETag) != etag {
			return fmt.Errorf("expected etag %v, instead got %v", etag, getString(out.ETag))
		}
		return nil
	})
}

func Object_write_cache_control(s *S3Conf) error {
	testName := "Object_write_cache_control"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		cacheControl := "public, max-age=14400"
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err := s3client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       &bucket,
			Key:          aws.String("foo"),
			Body:         strings.NewReader("bar"),
			CacheControl: &cacheControl,
		})
		cancel()
		if err != nil {
			return err
		}

		out, err := headObject(s3client, bucket, "foo")
		if err != nil {
			return err
		}
		if getString(out.CacheControl) != cacheControl {
			return fmt.Errorf("expected cache control %q, instead got %q",
				cacheControl, getString(out.CacheControl))
		}
		return nil
	})
}

func Object_write_expires(s *S3Conf) error {
	testName := "Object_write_expires"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		expires := time.Now().UTC().Add(6000 * time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err := s3client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:  &bucket,
			Key:     aws.String("foo"),
			Body:    strings.NewReader("bar"),
			Expires: &expires,
		})
		cancel()
		if err != nil {
			return err
		}

		out, err := headObject(s3client, bucket, "foo")
		if err != nil {
			return err
		}
		got, err := http.ParseTime(getString(out.ExpiresString))
		if err != nil {
			return fmt.Errorf("parse expires %q: %w", getString(out.ExpiresString), err)
		}
		return compareDates("expires", &expires, &got)
	})
}

func Object_write_read_update_read_delete(s *S3Conf) error {
	testName := "Object_write_read_update_read_delete"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}
		if err := checkObjectBody(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}
		if _, err := putString(s3client, bucket, "foo", "soup"); err != nil {
			return err
		}
		if err := checkObjectBody(s3client, bucket, "foo", "soup"); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err := s3client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: &bucket,
			Key:    aws.String("foo"),
		})
		cancel()
		if err != nil {
			return err
		}

		_, err = getObjectBody(s3client, bucket, "foo")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrNoSuchKey))
	})
}

func Object_write_file(s *S3Conf) error {
	testName := "Object_write_file"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		ctx, cancel := context.WithTimeout(context.Background(), longTimeout)
		err := s.UploadData(ctx, strings.NewReader("bar"), bucket, "foo")
		cancel()
		if err != nil {
			return err
		}
		return checkObjectBody(s3client, bucket, "foo", "bar")
	})
}

func Object_write_file_multipart(s *S3Conf) error {
	testName := "Object_write_file_multipart"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		// two full parts and a short last one
		size := int(2*s.PartSize + 1024)
		r := NewDataReader(size, 1024*1024)

		ctx, cancel := context.WithTimeout(context.Background(), longTimeout)
		defer cancel()
		if err := s.UploadData(ctx, r, bucket, "big"); err != nil {
			return err
		}

		out, err := s3client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: &bucket,
			Key:    aws.String("big"),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()

		h := sha256.New()
		n, err := io.Copy(h, out.Body)
		if err != nil {
			return fmt.Errorf("read object body: %w", err)
		}
		if n != int64(size) {
			return fmt.Errorf("expected object size %v, instead got %v", size, n)
		}
		if !bytes.Equal(r.Sum(), h.Sum(nil)) {
			return errors.New("object data does not match the uploaded data")
		}
		return nil
	})
}

func Object_raw_response_headers(s *S3Conf) error {
	testName := "Object_raw_response_headers"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := setupObjectACL(s3client, bucket, types.BucketCannedACLPrivate, types.ObjectCannedACLPrivate); err != nil {
			return err
		}

		// the sdk only sends response-expires as a timestamp
		client := s.GetClientWith(WithRawQuery("response-expires=123"))
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		defer cancel()
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket:                     &bucket,
			Key:                        aws.String("foo"),
			ResponseCacheControl:       aws.String("no-cache"),
			ResponseContentDisposition: aws.String("bla"),
			ResponseContentEncoding:    aws.String("aaa"),
			ResponseContentLanguage:    aws.String("esperanto"),
			ResponseContentType:        aws.String("foo/bar"),
		})
		if err != nil {
			return err
		}
		out.Body.Close()

		checks := []struct {
			name     string
			expected string
			got      *string
		}{
			{"content type", "foo/bar", out.ContentType},
			{"content disposition", "bla", out.ContentDisposition},
			{"content language", "esperanto", out.ContentLanguage},
			{"content encoding", "aaa", out.ContentEncoding},
			{"expires", "123", out.ExpiresString},
			{"cache control", "no-cache", out.CacheControl},
		}
		for _, c := range checks {
			if getString(c.got) != c.expected {
				return fmt.Errorf("expected %v %q, instead got %q", c.name, c.expected, getString(c.got))
			}
		}
		return nil
	})
}
