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
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

const policyTimeFormat = "2006-01-02T15:04:05Z"

// postPolicy is a browser upload policy document. It is a plain map
// so tests can send misspelled or missing top level fields.
type postPolicy map[string]any

// newPostPolicy returns the policy most POST tests start from: the
// bucket, a key starting with "foo", a private acl, a text/plain
// content type and a size range of [0, maxSize].
func newPostPolicy(bucket string, expires time.Time, maxSize int64) postPolicy {
	return postPolicy{
		"expiration": expires.UTC().Format(policyTimeFormat),
		"conditions": []any{
			map[string]string{"bucket": bucket},
			[]any{"starts-with", "$key", "foo"},
			map[string]string{"acl": "private"},
			[]any{"starts-with", "$Content-Type", "text/plain"},
			[]any{"content-length-range", 0, maxSize},
		},
	}
}

// addCondition appends a condition to the policy's condition list
func (p postPolicy) addCondition(cond any) postPolicy {
	conds, _ := p["conditions"].([]any)
	p["conditions"] = append(conds, cond)
	return p
}

// setCondition replaces the condition at index i
func (p postPolicy) setCondition(i int, cond any) postPolicy {
	conds, _ := p["conditions"].([]any)
	if i < len(conds) {
		conds[i] = cond
	}
	return p
}

// encode returns the base64 policy and its signature, an HMAC-SHA1
// of the encoded policy keyed with secret
func (p postPolicy) encode(secret string) (policy, signature string, err error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return "", "", fmt.Errorf("marshal policy: %w", err)
	}

	policy = base64.StdEncoding.EncodeToString(doc)

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(policy))
	signature = base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return policy, signature, nil
}

type formField struct {
	name  string
	value string
}

// postForm is an ordered multipart form. The file part is always
// written last.
type postForm struct {
	fields   []formField
	fileName string
	file     []byte
}

func newPostForm(file string, fields ...formField) *postForm {
	return &postForm{fields: fields, fileName: "file", file: []byte(file)}
}

// set replaces the value of field name, or appends the field
func (f *postForm) set(name, value string) *postForm {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].value = value
			return f
		}
	}
	f.fields = append(f.fields, formField{name, value})
	return f
}

// rename changes the name of a field keeping its position
func (f *postForm) rename(name, newName string) *postForm {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].name = newName
		}
	}
	return f
}

func (f *postForm) remove(name string) *postForm {
	fields := f.fields[:0]
	for _, field := range f.fields {
		if field.name != name {
			fields = append(fields, field)
		}
	}
	f.fields = fields
	return f
}

func (f *postForm) value(name string) string {
	for _, field := range f.fields {
		if field.name == name {
			return field.value
		}
	}
	return ""
}

func (f *postForm) encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("file", f.fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(f.file); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// authPostForm builds the signed upload form for policy, signed as
// the main user, uploading file as key
func (c *S3Conf) authPostForm(policy postPolicy, key, file string) (*postForm, error) {
	encoded, signature, err := policy.encode(c.cfg.Main.SecretKey)
	if err != nil {
		return nil, err
	}

	return newPostForm(file,
		formField{"key", key},
		formField{"AWSAccessKeyId", c.cfg.Main.AccessKey},
		formField{"acl", "private"},
		formField{"signature", signature},
		formField{"policy", encoded},
		formField{"Content-Type", "text/plain"},
	), nil
}

// postObject sends form as a browser upload to bucket. Redirects are
// returned to the caller, not followed.
func (c *S3Conf) postObject(bucket string, form *postForm) (*http.Response, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(bucket, ""), body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	client := *c.httpClient
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = cancelOnClose{resp.Body, cancel}
	return resp, nil
}
