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
	"crypto/md5"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/versity/s3tests/s3err"
)

func HeaderAuth_create_bad_md5_invalid_garbage(s *S3Conf) error {
	testName := "HeaderAuth_create_bad_md5_invalid_garbage"
	return actionHandler(s, testName, func(_ *s3.Client, bucket string) error {
		client := s.GetClientWith(WithHeaders(map[string]string{
			"Content-MD5": "AWS4 HAHAHA",
		}))
		_, err := putString(client, bucket, "foo", "bar")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrInvalidDigest))
	})
}

func HeaderAuth_create_bad_md5_wrong_digest(s *S3Conf) error {
	testName := "HeaderAuth_create_bad_md5_wrong_digest"
	return actionHandler(s, testName, func(_ *s3.Client, bucket string) error {
		sum := md5.Sum([]byte("not the body"))
		client := s.GetClientWith(WithHeaders(map[string]string{
			"Content-MD5": base64.StdEncoding.EncodeToString(sum[:]),
		}))
		_, err := putString(client, bucket, "foo", "bar")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrBadDigest))
	})
}

func HeaderAuth_create_bad_date_skewed(s *S3Conf) error {
	testName := "HeaderAuth_create_bad_date_skewed"
	return actionHandler(s, testName, func(_ *s3.Client, bucket string) error {
		req, err := s.createSignedReq(http.MethodPut, bucket, "foo", nil,
			[]byte("bar"), time.Now().Add(-time.Hour))
		if err != nil {
			return err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		return checkResponseErr(resp, s3err.GetAPIError(s3err.ErrRequestTimeTooSkewed))
	})
}

func HeaderAuth_unknown_access_key(s *S3Conf) error {
	testName := "HeaderAuth_unknown_access_key"
	return actionHandler(s, testName, func(_ *s3.Client, bucket string) error {
		client := s.getUserClient(uuid.NewString(), s.cfg.Main.SecretKey)
		_, err := putString(client, bucket, "foo", "bar")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrInvalidAccessKeyID))
	})
}

func HeaderAuth_wrong_secret_key(s *S3Conf) error {
	testName := "HeaderAuth_wrong_secret_key"
	return actionHandler(s, testName, func(_ *s3.Client, bucket string) error {
		client := s.getUserClient(s.cfg.Main.AccessKey, reverse(s.cfg.Main.SecretKey))
		_, err := putString(client, bucket, "foo", "bar")
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrSignatureDoesNotMatch))
	})
}
