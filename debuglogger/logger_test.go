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

package debuglogger

import (
	"bytes"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"short", "abc", 5, []string{"abc"}},
		{"exact", "abcde", 5, []string{"abcde"}},
		{"split", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"empty", "", 3, nil},
		{"no width", "abc", 0, []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestLogfRespectsDebugMode(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetDebugDisabled()
		SetOutput(os.Stdout)
	})

	SetDebugDisabled()
	Logf("hidden %d", 1)
	Infof("hidden %d", 2)
	assert.Empty(t, buf.String())

	SetDebugEnabled()
	Logf("visible %d", 3)
	Infof("shown %s", "info")
	assert.Contains(t, buf.String(), "visible 3")
	assert.Contains(t, buf.String(), "shown info")
}

func TestWarnfAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	SetDebugDisabled()
	Warnf("cleanup of %s failed", "bucket-1")
	assert.Contains(t, buf.String(), "cleanup of bucket-1 failed")
}

func TestLogRequest(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetDebugEnabled()
	t.Cleanup(func() {
		SetDebugDisabled()
		SetOutput(os.Stdout)
	})

	req, err := http.NewRequest(http.MethodGet, "http://localhost:7070/bucket?max-keys=1", nil)
	assert.NoError(t, err)
	req.Header.Set("X-Amz-Date", "20240101T000000Z")

	LogRequest(req)
	out := buf.String()
	assert.Contains(t, out, "REQUEST HEADERS")
	assert.Contains(t, out, "X-Amz-Date")
	assert.Contains(t, out, "max-keys=1")
}
