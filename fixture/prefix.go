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
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	// Placeholder is replaced with random characters in a prefix template
	Placeholder = "{random}"
	// DefaultTemplate is used when no bucket prefix is configured
	DefaultTemplate = "test-" + Placeholder + "-"
	// DefaultMaxLen leaves room for the counter within the
	// 63 character bucket name limit
	DefaultMaxLen = 30

	randomLen = 255
	alphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	// ErrTemplateTooLong is returned when the fixed part of the
	// template alone exceeds the maximum length.
	ErrTemplateTooLong = errors.New("bucket prefix template too long")
	// ErrInvalidTemplate is returned when the template does not
	// contain exactly one placeholder.
	ErrInvalidTemplate = errors.New("bucket prefix template must contain exactly one " + Placeholder)
)

// ChoosePrefix fills the {random} placeholder of template with random
// lowercase alphanumeric characters, as many as fit within maxLen.
func ChoosePrefix(template string, maxLen int) (string, error) {
	return choosePrefix(template, maxLen, rand.Reader)
}

func choosePrefix(template string, maxLen int, src io.Reader) (string, error) {
	if strings.Count(template, Placeholder) != 1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplate, template)
	}

	fixed := len(template) - len(Placeholder)
	if fixed > maxLen {
		return "", fmt.Errorf("%w: %q does not fit in %d characters",
			ErrTemplateTooLong, template, maxLen)
	}

	random, err := randomString(src, randomLen)
	if err != nil {
		return "", fmt.Errorf("generate random prefix: %w", err)
	}

	for n := len(random); n >= 0; n-- {
		s := strings.Replace(template, Placeholder, random[:n], 1)
		if len(s) <= maxLen {
			return s, nil
		}
	}

	// unreachable, the zero length substitution is the fixed length
	return "", ErrTemplateTooLong
}

func randomString(src io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

// Namer hands out bucket names for a single run: the run prefix
// followed by a counter starting at 1.
type Namer struct {
	prefix string
	count  atomic.Uint64
}

func NewNamer(prefix string) *Namer {
	return &Namer{prefix: prefix}
}

// Prefix returns the run prefix
func (n *Namer) Prefix() string {
	return n.prefix
}

// Next returns the next unused bucket name. It is safe for
// concurrent use.
func (n *Namer) Next() string {
	return n.prefix + strconv.FormatUint(n.count.Add(1), 10)
}
