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
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putThrough(t *testing.T, client *s3.Client) {
	t.Helper()
	_, err := client.PutObject(t.Context(), &s3.PutObjectInput{
		Bucket:      aws.String("bucket"),
		Key:         aws.String("obj"),
		ContentType: aws.String("text/plain"),
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)
}

func signedHeaders(t *testing.T, auth string) []string {
	t.Helper()
	_, rest, ok := strings.Cut(auth, "SignedHeaders=")
	require.True(t, ok, "authorization %q has no signed headers", auth)
	list, _, _ := strings.Cut(rest, ",")
	return strings.Split(list, ";")
}

func TestWithHeadersIsSigned(t *testing.T) {
	s, c := newCaptureConf(t)
	putThrough(t, s.GetClientWith(WithHeaders(map[string]string{
		"x-amz-foo": "bar",
	})))

	req := c.last()
	require.NotNil(t, req)
	assert.Equal(t, "bar", req.Header.Get("X-Amz-Foo"))
	assert.Contains(t, signedHeaders(t, req.Header.Get("Authorization")), "x-amz-foo")
}

func TestWithHeadersRemove(t *testing.T) {
	s, c := newCaptureConf(t)
	putThrough(t, s.GetClientWith(WithHeaders(nil, "Content-Type")))

	req := c.last()
	require.NotNil(t, req)
	assert.Empty(t, req.Header.Get("Content-Type"))
	assert.NotContains(t, signedHeaders(t, req.Header.Get("Authorization")), "content-type")
}

func TestWithHeadersAfterSign(t *testing.T) {
	s, c := newCaptureConf(t)
	putThrough(t, s.GetClientWith(WithHeadersAfterSign(map[string]string{
		"x-amz-foo": "bar",
	})))

	req := c.last()
	require.NotNil(t, req)
	assert.Equal(t, "bar", req.Header.Get("X-Amz-Foo"))
	assert.NotContains(t, signedHeaders(t, req.Header.Get("Authorization")), "x-amz-foo")

	putThrough(t, s.GetClientWith(WithHeadersAfterSign(nil, "Authorization")))
	assert.Empty(t, c.last().Header.Get("Authorization"))
}

func TestWithRawQuery(t *testing.T) {
	s, c := newCaptureConf(t)
	putThrough(t, s.GetClientWith(WithRawQuery("max-keys=blah")))

	req := c.last()
	require.NotNil(t, req)
	assert.Equal(t, "/bucket/obj", req.URL.Path)
	assert.Equal(t, "blah", req.URL.Query().Get("max-keys"))
}

func TestWithPathRewrite(t *testing.T) {
	s, c := newCaptureConf(t)
	putThrough(t, s.GetClientWith(WithPathRewrite("bucket", "Bad_Bucket")))

	req := c.last()
	require.NotNil(t, req)
	assert.Equal(t, "/Bad_Bucket/obj", req.URL.Path)
}

func TestInterceptorsCombine(t *testing.T) {
	s, c := newCaptureConf(t)
	putThrough(t, s.GetClientWith(
		WithHeaders(map[string]string{"x-amz-meta-a": "1"}),
		WithRawQuery("extra=1"),
	))

	req := c.last()
	require.NotNil(t, req)
	assert.Equal(t, "1", req.Header.Get("X-Amz-Meta-A"))
	assert.Equal(t, "1", req.URL.Query().Get("extra"))
}
