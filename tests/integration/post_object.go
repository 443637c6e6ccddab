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
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/versity/s3tests/fixture"
)

const postMaxSize = 1024

func policyExpires() time.Time {
	return time.Now().Add(6000 * time.Second)
}

// signedPost uploads file as key with policy signed by the main user.
// edit may change the form before it is sent.
func (c *S3Conf) signedPost(bucket string, policy postPolicy, key, file string, edit func(*postForm)) (*http.Response, error) {
	form, err := c.authPostForm(policy, key, file)
	if err != nil {
		return nil, err
	}
	if edit != nil {
		edit(form)
	}
	return c.postObject(bucket, form)
}

// anonymousForm is an unsigned upload form for a public-read-write
// bucket
func anonymousForm(file string, extra ...formField) *postForm {
	fields := []formField{
		{"key", "foo.txt"},
		{"acl", "public-read"},
	}
	fields = append(fields, extra...)
	fields = append(fields, formField{"Content-Type", "text/plain"})
	return newPostForm(file, fields...)
}

func publicBucket() fixture.CreateOption {
	return fixture.WithCannedACL(types.BucketCannedACLPublicReadWrite)
}

// postStatusTest sends a signed upload of "bar" as foo.txt and
// expects status
func postStatusTest(s *S3Conf, testName string, status int, policy func(bucket string) postPolicy, edit func(*postForm), opts ...fixture.CreateOption) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		resp, err := s.signedPost(bucket, policy(bucket), "foo.txt", "bar", edit)
		if err != nil {
			return err
		}
		return checkResponseStatus(resp, status)
	}, opts...)
}

func defaultPolicy(bucket string) postPolicy {
	return newPostPolicy(bucket, policyExpires(), postMaxSize)
}

func PostObject_anonymous_request(s *S3Conf) error {
	testName := "PostObject_anonymous_request"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		resp, err := s.postObject(bucket, anonymousForm("bar"))
		if err != nil {
			return err
		}
		if err := checkResponseStatus(resp, http.StatusNoContent); err != nil {
			return err
		}
		return checkObjectBody(s3client, bucket, "foo.txt", "bar")
	}, publicBucket())
}

func PostObject_authenticated_request(s *S3Conf) error {
	testName := "PostObject_authenticated_request"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		resp, err := s.signedPost(bucket, defaultPolicy(bucket), "foo.txt", "bar", nil)
		if err != nil {
			return err
		}
		if err := checkResponseStatus(resp, http.StatusNoContent); err != nil {
			return err
		}
		return checkObjectBody(s3client, bucket, "foo.txt", "bar")
	})
}

func PostObject_authenticated_request_bad_access_key(s *S3Conf) error {
	return postStatusTest(s, "PostObject_authenticated_request_bad_access_key",
		http.StatusForbidden, defaultPolicy,
		func(f *postForm) { f.set("AWSAccessKeyId", uuid.NewString()) },
		publicBucket())
}

func PostObject_set_success_code(s *S3Conf) error {
	testName := "PostObject_set_success_code"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		resp, err := s.postObject(bucket,
			anonymousForm("bar", formField{"success_action_status", "201"}))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("expected response status %v, instead got %v",
				http.StatusCreated, resp.StatusCode)
		}

		var result struct {
			Key string
		}
		if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("parse post response: %w", err)
		}
		if result.Key != "foo.txt" {
			return fmt.Errorf("expected key foo.txt in the response, instead got %q", result.Key)
		}
		return nil
	}, publicBucket())
}

func PostObject_set_invalid_success_code(s *S3Conf) error {
	testName := "PostObject_set_invalid_success_code"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		resp, err := s.postObject(bucket,
			anonymousForm("bar", formField{"success_action_status", "404"}))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			return fmt.Errorf("expected response status %v, instead got %v",
				http.StatusNoContent, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if len(body) != 0 {
			return fmt.Errorf("expected an empty body, instead got %q", body)
		}
		return nil
	}, publicBucket())
}

func PostObject_upload_larger_than_chunk(s *S3Conf) error {
	testName := "PostObject_upload_larger_than_chunk"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		policy := newPostPolicy(bucket, policyExpires(), 5*1024*1024)
		data := strings.Repeat("foo", 1024*1024)
		resp, err := s.signedPost(bucket, policy, "foo.txt", data, nil)
		if err != nil {
			return err
		}
		if err := checkResponseStatus(resp, http.StatusNoContent); err != nil {
			return err
		}
		return checkObjectBody(s3client, bucket, "foo.txt", data)
	})
}

func PostObject_set_key_from_filename(s *S3Conf) error {
	testName := "PostObject_set_key_from_filename"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		resp, err := s.signedPost(bucket, defaultPolicy(bucket), "${filename}", "bar",
			func(f *postForm) { f.fileName = "foo.txt" })
		if err != nil {
			return err
		}
		if err := checkResponseStatus(resp, http.StatusNoContent); err != nil {
			return err
		}
		return checkObjectBody(s3client, bucket, "foo.txt", "bar")
	})
}

func PostObject_ignored_header(s *S3Conf) error {
	return postStatusTest(s, "PostObject_ignored_header", http.StatusNoContent, defaultPolicy,
		func(f *postForm) { f.set("x-ignore-foo", "bar") })
}

func PostObject_case_insensitive_condition_fields(s *S3Conf) error {
	return postStatusTest(s, "PostObject_case_insensitive_condition_fields", http.StatusNoContent,
		func(bucket string) postPolicy {
			return postPolicy{
				"expiration": policyExpires().UTC().Format(policyTimeFormat),
				"conditions": []any{
					map[string]string{"bUcKeT": bucket},
					[]any{"StArTs-WiTh", "$KeY", "foo"},
					map[string]string{"AcL": "private"},
					[]any{"StArTs-WiTh", "$CoNtEnT-TyPe", "text/plain"},
					[]any{"content-length-range", 0, postMaxSize},
				},
			}
		},
		func(f *postForm) {
			f.rename("key", "kEy")
			f.rename("acl", "aCl")
			f.rename("policy", "pOLICy")
		})
}

func PostObject_escaped_field_values(s *S3Conf) error {
	testName := "PostObject_escaped_field_values"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		key := `\$foo.txt`
		policy := defaultPolicy(bucket).setCondition(1, []any{"starts-with", "$key", `\$foo`})
		resp, err := s.signedPost(bucket, policy, key, "bar", nil)
		if err != nil {
			return err
		}
		if err := checkResponseStatus(resp, http.StatusNoContent); err != nil {
			return err
		}
		return checkObjectBody(s3client, bucket, key, "bar")
	})
}

func PostObject_success_redirect_action(s *S3Conf) error {
	testName := "PostObject_success_redirect_action"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		redirect := s.objectURL(bucket, "")
		policy := defaultPolicy(bucket).
			addCondition([]any{"eq", "$success_action_redirect", redirect})

		resp, err := s.signedPost(bucket, policy, "foo.txt", "bar",
			func(f *postForm) { f.set("success_action_redirect", redirect) })
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			return fmt.Errorf("expected response status %v, instead got %v",
				http.StatusSeeOther, resp.StatusCode)
		}

		out, err := headObject(s3client, bucket, "foo.txt")
		if err != nil {
			return err
		}
		expected := fmt.Sprintf("%v?bucket=%v&key=%v&etag=%%22%v%%22",
			redirect, bucket, "foo.txt", strings.Trim(getString(out.ETag), `"`))
		if location := resp.Header.Get("Location"); location != expected {
			return fmt.Errorf("expected redirect to %q, instead got %q", expected, location)
		}
		return nil
	}, publicBucket())
}

func PostObject_invalid_signature(s *S3Conf) error {
	return postStatusTest(s, "PostObject_invalid_signature", http.StatusForbidden, defaultPolicy,
		func(f *postForm) { f.set("signature", reverse(f.value("signature"))) })
}

func PostObject_invalid_access_key(s *S3Conf) error {
	return postStatusTest(s, "PostObject_invalid_access_key", http.StatusForbidden, defaultPolicy,
		func(f *postForm) { f.set("AWSAccessKeyId", reverse(f.value("AWSAccessKeyId"))) })
}

func PostObject_invalid_date_format(s *S3Conf) error {
	return postStatusTest(s, "PostObject_invalid_date_format", http.StatusBadRequest,
		func(bucket string) postPolicy {
			p := defaultPolicy(bucket)
			p["expiration"] = policyExpires().UTC().Format("2006-01-02 15:04:05.000000-07:00")
			return p
		}, nil)
}

func PostObject_no_key_specified(s *S3Conf) error {
	return postStatusTest(s, "PostObject_no_key_specified", http.StatusBadRequest,
		func(bucket string) postPolicy {
			return postPolicy{
				"expiration": policyExpires().UTC().Format(policyTimeFormat),
				"conditions": []any{
					map[string]string{"bucket": bucket},
					map[string]string{"acl": "private"},
					[]any{"starts-with", "$Content-Type", "text/plain"},
					[]any{"content-length-range", 0, postMaxSize},
				},
			}
		},
		func(f *postForm) { f.remove("key") })
}

func PostObject_missing_signature(s *S3Conf) error {
	return postStatusTest(s, "PostObject_missing_signature", http.StatusBadRequest, defaultPolicy,
		func(f *postForm) { f.remove("signature") })
}

func PostObject_missing_policy_condition(s *S3Conf) error {
	return postStatusTest(s, "PostObject_missing_policy_condition", http.StatusForbidden,
		func(bucket string) postPolicy {
			return postPolicy{
				"expiration": policyExpires().UTC().Format(policyTimeFormat),
				"conditions": []any{
					[]any{"starts-with", "$key", "foo"},
					map[string]string{"acl": "private"},
					[]any{"starts-with", "$Content-Type", "text/plain"},
					[]any{"content-length-range", 0, postMaxSize},
				},
			}
		}, nil)
}

func PostObject_user_specified_header(s *S3Conf) error {
	testName := "PostObject_user_specified_header"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		policy := defaultPolicy(bucket).
			addCondition([]any{"starts-with", "$x-amz-meta-foo", "bar"})
		resp, err := s.signedPost(bucket, policy, "foo.txt", "bar",
			func(f *postForm) { f.set("x-amz-meta-foo", "barclamp") })
		if err != nil {
			return err
		}
		if err := checkResponseStatus(resp, http.StatusNoContent); err != nil {
			return err
		}

		out, err := headObject(s3client, bucket, "foo.txt")
		if err != nil {
			return err
		}
		if out.Metadata["foo"] != "barclamp" {
			return fmt.Errorf("expected metadata foo to be barclamp, instead got %q", out.Metadata["foo"])
		}
		return nil
	})
}

func PostObject_request_missing_policy_specified_field(s *S3Conf) error {
	return postStatusTest(s, "PostObject_request_missing_policy_specified_field", http.StatusForbidden,
		func(bucket string) postPolicy {
			return defaultPolicy(bucket).
				addCondition([]any{"starts-with", "$x-amz-meta-foo", "bar"})
		}, nil)
}

func PostObject_condition_is_case_sensitive(s *S3Conf) error {
	return postStatusTest(s, "PostObject_condition_is_case_sensitive", http.StatusBadRequest,
		func(bucket string) postPolicy {
			p := defaultPolicy(bucket)
			p["CONDITIONS"] = p["conditions"]
			delete(p, "conditions")
			return p
		}, nil)
}

func PostObject_expires_is_case_sensitive(s *S3Conf) error {
	return postStatusTest(s, "PostObject_expires_is_case_sensitive", http.StatusBadRequest,
		func(bucket string) postPolicy {
			p := defaultPolicy(bucket)
			p["EXPIRATION"] = p["expiration"]
			delete(p, "expiration")
			return p
		}, nil)
}

func PostObject_expired_policy(s *S3Conf) error {
	return postStatusTest(s, "PostObject_expired_policy", http.StatusForbidden,
		func(bucket string) postPolicy {
			return newPostPolicy(bucket, time.Now().Add(-6000*time.Second), postMaxSize)
		}, nil)
}

func PostObject_invalid_request_field_value(s *S3Conf) error {
	return postStatusTest(s, "PostObject_invalid_request_field_value", http.StatusForbidden,
		func(bucket string) postPolicy {
			return defaultPolicy(bucket).
				addCondition([]any{"eq", "$x-amz-meta-foo", ""})
		},
		func(f *postForm) { f.set("x-amz-meta-foo", "barclamp") })
}

func PostObject_missing_expires_condition(s *S3Conf) error {
	return postStatusTest(s, "PostObject_missing_expires_condition", http.StatusBadRequest,
		func(bucket string) postPolicy {
			p := defaultPolicy(bucket)
			delete(p, "expiration")
			return p
		}, nil)
}

func PostObject_missing_conditions_list(s *S3Conf) error {
	return postStatusTest(s, "PostObject_missing_conditions_list", http.StatusBadRequest,
		func(bucket string) postPolicy {
			p := defaultPolicy(bucket)
			delete(p, "conditions")
			return p
		}, nil)
}

func PostObject_upload_size_limit_exceeded(s *S3Conf) error {
	return postStatusTest(s, "PostObject_upload_size_limit_exceeded", http.StatusBadRequest,
		func(bucket string) postPolicy {
			return newPostPolicy(bucket, policyExpires(), 0)
		}, nil)
}

func PostObject_missing_content_length_argument(s *S3Conf) error {
	return postStatusTest(s, "PostObject_missing_content_length_argument", http.StatusBadRequest,
		func(bucket string) postPolicy {
			return defaultPolicy(bucket).setCondition(4, []any{"content-length-range", 0})
		}, nil)
}

func PostObject_invalid_content_length_argument(s *S3Conf) error {
	return postStatusTest(s, "PostObject_invalid_content_length_argument", http.StatusBadRequest,
		func(bucket string) postPolicy {
			return defaultPolicy(bucket).setCondition(4, []any{"content-length-range", -1, 0})
		}, nil)
}

func PostObject_upload_size_below_minimum(s *S3Conf) error {
	return postStatusTest(s, "PostObject_upload_size_below_minimum", http.StatusBadRequest,
		func(bucket string) postPolicy {
			return defaultPolicy(bucket).setCondition(4, []any{"content-length-range", 512, 1000})
		}, nil)
}

func PostObject_empty_conditions(s *S3Conf) error {
	return postStatusTest(s, "PostObject_empty_conditions", http.StatusBadRequest,
		func(bucket string) postPolicy {
			return postPolicy{
				"expiration": policyExpires().UTC().Format(policyTimeFormat),
				"conditions": []any{map[string]string{}},
			}
		}, nil)
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
