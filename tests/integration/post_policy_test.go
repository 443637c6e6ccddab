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
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/versity/s3tests/config"
)

func TestPostPolicyEncode(t *testing.T) {
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	policy := newPostPolicy("bucket", expires, 1024).
		addCondition([]any{"eq", "$x-amz-meta-foo", "bar"})

	encoded, signature, err := policy.encode("secret")
	require.NoError(t, err)

	doc, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var decoded struct {
		Expiration string `json:"expiration"`
		Conditions []any  `json:"conditions"`
	}
	require.NoError(t, json.Unmarshal(doc, &decoded))
	assert.Equal(t, "2030-01-02T03:04:05Z", decoded.Expiration)
	require.Len(t, decoded.Conditions, 6)
	assert.Equal(t, map[string]any{"bucket": "bucket"}, decoded.Conditions[0])
	assert.Equal(t, []any{"content-length-range", float64(0), float64(1024)}, decoded.Conditions[4])
	assert.Equal(t, []any{"eq", "$x-amz-meta-foo", "bar"}, decoded.Conditions[5])

	mac := hmac.New(sha1.New, []byte("secret"))
	mac.Write([]byte(encoded))
	assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), signature)
}

func TestPostPolicySetCondition(t *testing.T) {
	policy := newPostPolicy("bucket", time.Now(), 10).
		setCondition(0, map[string]string{"bucket": "other"}).
		setCondition(42, "ignored")

	conds := policy["conditions"].([]any)
	require.Len(t, conds, 5)
	assert.Equal(t, map[string]string{"bucket": "other"}, conds[0])
}

func TestPostFormEdits(t *testing.T) {
	form := newPostForm("data",
		formField{"key", "foo.txt"},
		formField{"acl", "private"},
		formField{"policy", "p"},
	)
	form.set("acl", "public-read").
		set("success_action_status", "201").
		rename("policy", "Policy").
		remove("key")

	assert.Equal(t, []formField{
		{"acl", "public-read"},
		{"Policy", "p"},
		{"success_action_status", "201"},
	}, form.fields)
	assert.Equal(t, "public-read", form.value("acl"))
	assert.Empty(t, form.value("key"))
}

func TestPostFormEncodeFileLast(t *testing.T) {
	form := newPostForm("bar",
		formField{"key", "foo.txt"},
		formField{"Content-Type", "text/plain"},
	)
	form.fileName = "foo.txt"

	body, contentType, err := form.encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(body, params["boundary"])
	var names []string
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, part.FormName())
		if part.FormName() == "file" {
			assert.Equal(t, "foo.txt", part.FileName())
			data, err := io.ReadAll(part)
			require.NoError(t, err)
			assert.Equal(t, "bar", string(data))
		}
	}
	assert.Equal(t, []string{"key", "Content-Type", "file"}, names)
}

func TestAuthPostForm(t *testing.T) {
	s := &S3Conf{cfg: &config.Config{
		Main: config.User{AccessKey: "ak", SecretKey: "sk"},
	}}
	policy := newPostPolicy("bucket", time.Now().Add(time.Hour), 1024)

	form, err := s.authPostForm(policy, "foo.txt", "bar")
	require.NoError(t, err)

	encoded, signature, err := policy.encode("sk")
	require.NoError(t, err)
	assert.Equal(t, "foo.txt", form.value("key"))
	assert.Equal(t, "ak", form.value("AWSAccessKeyId"))
	assert.Equal(t, encoded, form.value("policy"))
	assert.Equal(t, signature, form.value("signature"))
	assert.Equal(t, "text/plain", form.value("Content-Type"))
}
