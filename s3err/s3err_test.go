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

package s3err

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const noSuchKeyBody = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>foo</Key><RequestId>4442587FB7D0A2F9</RequestId><HostId>host</HostId></Error>`

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseErrorResponse(t *testing.T) {
	resp, err := ParseErrorResponse(strings.NewReader(noSuchKeyBody))
	assert.NoError(t, err)
	assert.Equal(t, "NoSuchKey", resp.Code)
	assert.Equal(t, "foo", resp.Key)
	assert.Equal(t, "4442587FB7D0A2F9", resp.RequestID)

	resp, err = ParseErrorResponse(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, resp.Code)

	_, err = ParseErrorResponse(strings.NewReader("not xml"))
	assert.Error(t, err)
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *http.Response
		expect  ErrorCode
		wantErr bool
	}{
		{"match", response(http.StatusNotFound, noSuchKeyBody), ErrNoSuchKey, false},
		{"status mismatch", response(http.StatusOK, ""), ErrNoSuchKey, true},
		{"code mismatch", response(http.StatusNotFound, noSuchKeyBody), ErrNoSuchBucket, true},
		{"head without body", response(http.StatusForbidden, ""), ErrAccessDenied, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse(tt.resp, GetAPIError(tt.expect))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
