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

package fixture

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence yields the bytes 0, 1, 2, ... so the random portion is
// "abc...z0..9abc..."
func sequence() *bytes.Reader {
	buf := make([]byte, randomLen)
	for i := range buf {
		buf[i] = byte(i)
	}
	return bytes.NewReader(buf)
}

func TestChoosePrefixShrinksDeterministically(t *testing.T) {
	got, err := choosePrefix("test-{random}-", 30, sequence())
	require.NoError(t, err)
	assert.Equal(t, "test-abcdefghijklmnopqrstuvwx-", got)
	assert.Len(t, got, 30)
}

func TestChoosePrefix(t *testing.T) {
	tests := []struct {
		name     string
		template string
		maxLen   int
		err      error
	}{
		{"default", DefaultTemplate, DefaultMaxLen, nil},
		{"placeholder only", "{random}", 10, nil},
		{"placeholder first", "{random}-suffix", 20, nil},
		{"no room for random", "abcd{random}", 4, nil},
		{"long max", "run-{random}", 300, nil},
		{"fixed part too long", "this-is-a-very-long-fixed-template-{random}", 30, ErrTemplateTooLong},
		{"one too long", "abcde{random}", 4, ErrTemplateTooLong},
		{"no placeholder", "test-", 30, ErrInvalidTemplate},
		{"two placeholders", "{random}-{random}", 30, ErrInvalidTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChoosePrefix(tt.template, tt.maxLen)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.LessOrEqual(t, len(got), tt.maxLen)

			before, after, _ := strings.Cut(tt.template, Placeholder)
			assert.True(t, strings.HasPrefix(got, before))
			assert.True(t, strings.HasSuffix(got, after))

			random := got[len(before) : len(got)-len(after)]
			for _, r := range random {
				assert.Contains(t, alphabet, string(r))
			}
			if tt.maxLen-len(before)-len(after) < randomLen {
				assert.Len(t, got, tt.maxLen)
			}
		})
	}
}

func TestChoosePrefixShortRandomSource(t *testing.T) {
	_, err := choosePrefix(DefaultTemplate, DefaultMaxLen, bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestNamerSequence(t *testing.T) {
	n := NewNamer("test-abc123-")
	assert.Equal(t, "test-abc123-", n.Prefix())
	assert.Equal(t, "test-abc123-1", n.Next())
	assert.Equal(t, "test-abc123-2", n.Next())
	assert.Equal(t, "test-abc123-3", n.Next())
}

func TestNamerConcurrent(t *testing.T) {
	const (
		workers = 50
		perWork = 100
	)

	n := NewNamer("p-")
	results := make([][]string, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWork {
				results[i] = append(results[i], n.Next())
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, workers*perWork)
	for _, names := range results {
		for _, name := range names {
			assert.False(t, seen[name], "duplicate name %s", name)
			seen[name] = true
		}
	}
	assert.Len(t, seen, workers*perWork)
}
