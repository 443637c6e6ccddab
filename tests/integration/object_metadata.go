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
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// setGetMetadata writes foo with meta1 set to value and returns the
// meta1 value read back
func setGetMetadata(client *s3.Client, bucket, value string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:   &bucket,
		Key:      aws.String("foo"),
		Body:     strings.NewReader("bar"),
		Metadata: map[string]string{"meta1": value},
	})
	cancel()
	if err != nil {
		return "", err
	}
	return getMeta1(client, bucket)
}

func getMeta1(client *s3.Client, bucket string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    aws.String("foo"),
	})
	if err != nil {
		return "", err
	}
	out.Body.Close()
	return out.Metadata["meta1"], nil
}

// setGetRawMetadata is setGetMetadata for values with control
// characters, which net/http refuses to send
func setGetRawMetadata(s *S3Conf, client *s3.Client, bucket, value string) (string, error) {
	req, err := s.createSignedReq(http.MethodPut, bucket, "foo",
		map[string]string{"x-amz-meta-meta1": value}, []byte("bar"), time.Now())
	if err != nil {
		return "", err
	}
	resp, err := s.sendRaw(req)
	if err != nil {
		return "", err
	}
	if err := checkResponseStatus(resp, http.StatusOK); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return getMeta1(client, bucket)
}

// checkUnreadable writes value and expects it back as an rfc 2047
// encoded word in utf-8
func checkUnreadable(s *S3Conf, client *s3.Client, bucket, value string) error {
	got, err := setGetRawMetadata(s, client, bucket, value)
	if err != nil {
		return err
	}

	var charset string
	dec := mime.WordDecoder{
		CharsetReader: func(cs string, input io.Reader) (io.Reader, error) {
			charset = cs
			return input, nil
		},
	}
	decoded, err := dec.DecodeHeader(got)
	if err != nil {
		return fmt.Errorf("decode metadata %q: %w", got, err)
	}
	if decoded != value {
		return fmt.Errorf("expected metadata %q, instead got %q (raw %q)", value, decoded, got)
	}
	if charset != "" && !strings.EqualFold(charset, "utf-8") {
		return fmt.Errorf("expected utf-8 encoded metadata, instead got %v", charset)
	}
	return nil
}

func metadataTest(s *S3Conf, testName string, values ...string) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		for _, value := range values {
			got, err := setGetMetadata(s3client, bucket, value)
			if err != nil {
				return err
			}
			if got != value {
				return fmt.Errorf("expected metadata %q, instead got %q", value, got)
			}
		}
		return nil
	})
}

func unreadableTest(s *S3Conf, testName string, values ...string) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		for _, value := range values {
			if err := checkUnreadable(s, s3client, bucket, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func ObjectMetadata_none_to_good(s *S3Conf) error {
	return metadataTest(s, "ObjectMetadata_none_to_good", "mymeta")
}

func ObjectMetadata_none_to_empty(s *S3Conf) error {
	return metadataTest(s, "ObjectMetadata_none_to_empty", "")
}

func ObjectMetadata_overwrite_to_empty(s *S3Conf) error {
	return metadataTest(s, "ObjectMetadata_overwrite_to_empty", "oldmeta", "")
}

func ObjectMetadata_unicode(s *S3Conf) error {
	testName := "ObjectMetadata_unicode"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		value := "Hello Worldé"
		client := s.GetClientWith(WithHeaders(map[string]string{"x-amz-meta-meta1": value}))
		if _, err := putString(client, bucket, "foo", "bar"); err != nil {
			return err
		}

		got, err := getMeta1(s3client, bucket)
		if err != nil {
			return err
		}
		decoded, err := new(mime.WordDecoder).DecodeHeader(got)
		if err != nil {
			return fmt.Errorf("decode metadata %q: %w", got, err)
		}
		if decoded != value {
			return fmt.Errorf("expected metadata %q, instead got %q", value, decoded)
		}
		return nil
	})
}

func ObjectMetadata_non_utf8(s *S3Conf) error {
	testName := "ObjectMetadata_non_utf8"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		got, err := setGetRawMetadata(s, s3client, bucket, "\x04mymeta")
		if err != nil {
			return err
		}
		const expected = "=?UTF-8?Q?=04mymeta?="
		if got != expected {
			return fmt.Errorf("expected metadata %q, instead got %q", expected, got)
		}
		return nil
	})
}

func ObjectMetadata_empty_to_unreadable_prefix(s *S3Conf) error {
	return unreadableTest(s, "ObjectMetadata_empty_to_unreadable_prefix", "\x04w")
}

func ObjectMetadata_empty_to_unreadable_suffix(s *S3Conf) error {
	return unreadableTest(s, "ObjectMetadata_empty_to_unreadable_suffix", "h\x04")
}

func ObjectMetadata_empty_to_unreadable_infix(s *S3Conf) error {
	return unreadableTest(s, "ObjectMetadata_empty_to_unreadable_infix", "h\x04w")
}

func ObjectMetadata_overwrite_to_unreadable_prefix(s *S3Conf) error {
	return unreadableTest(s, "ObjectMetadata_overwrite_to_unreadable_prefix", "\x04w", "\x05w")
}

func ObjectMetadata_overwrite_to_unreadable_suffix(s *S3Conf) error {
	return unreadableTest(s, "ObjectMetadata_overwrite_to_unreadable_suffix", "h\x04", "h\x05")
}

func ObjectMetadata_overwrite_to_unreadable_infix(s *S3Conf) error {
	return unreadableTest(s, "ObjectMetadata_overwrite_to_unreadable_infix", "h\x04w", "h\x05w")
}

func ObjectMetadata_replaced_on_put(s *S3Conf) error {
	testName := "ObjectMetadata_replaced_on_put"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := setGetMetadata(s3client, bucket, "bar"); err != nil {
			return err
		}
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		defer cancel()
		out, err := s3client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: &bucket,
			Key:    aws.String("foo"),
		})
		if err != nil {
			return err
		}
		out.Body.Close()
		if len(out.Metadata) != 0 {
			return fmt.Errorf("expected no metadata, instead got %v", out.Metadata)
		}
		return nil
	})
}
