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
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
)

type Color string

const (
	green  Color = "\033[32m"
	yellow Color = "\033[33m"
	blue   Color = "\033[34m"
	Purple Color = "\033[0;35m"

	reset      = "\033[0m"
	borderChar = "─"
	boxWidth   = 120
)

var (
	debugEnabled atomic.Bool

	mu     sync.RWMutex
	out    io.Writer = os.Stdout
	logger           = newLogger(os.Stdout)
)

func newLogger(w io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// SetDebugEnabled sets the debug mode
func SetDebugEnabled() {
	debugEnabled.Store(true)
}

// SetDebugDisabled turns debug output back off
func SetDebugDisabled() {
	debugEnabled.Store(false)
}

// Enabled reports whether debug output is on
func Enabled() bool {
	return debugEnabled.Load()
}

// SetOutput redirects all debug output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	logger = newLogger(w)
}

// WithRunID attaches the run id to every following log line
func WithRunID(id string) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.With().Str("run", id).Logger()
}

// Logger returns the underlying zerolog logger. Entries written
// through it are emitted regardless of the debug mode.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// Logf is the same as 'fmt.Printf' with debug level,
// no-op unless debug mode is on
func Logf(format string, v ...any) {
	if !debugEnabled.Load() {
		return
	}
	Logger().Debug().Msgf(format, v...)
}

// Infof logs at info level when debug mode is on
func Infof(format string, v ...any) {
	if !debugEnabled.Load() {
		return
	}
	Logger().Info().Msgf(format, v...)
}

// Warnf is always printed
func Warnf(format string, v ...any) {
	Logger().Warn().Msgf(format, v...)
}

// Dump prints a deep representation of v inside a titled box
func Dump(title string, v any) {
	if !debugEnabled.Load() {
		return
	}
	PrintInsideHorizontalBorders(Purple, title, spew.Sdump(v), boxWidth)
}

// LogRequest logs the outgoing request url and headers
func LogRequest(req *http.Request) {
	if !debugEnabled.Load() {
		return
	}
	w := writer()
	fmt.Fprintf(w, "%s[URL]: %s %s%s\n", green, req.Method, req.URL.String(), reset)

	wrapInBox(w, green, "REQUEST HEADERS", boxWidth, func() {
		printHeaders(w, req.Header)
	})
}

// LogResponse logs the response status and headers
func LogResponse(resp *http.Response) {
	if !debugEnabled.Load() || resp == nil {
		return
	}
	w := writer()
	fmt.Fprintf(w, "%s[STATUS]: %s%s\n", green, resp.Status, reset)
	wrapInBox(w, green, "RESPONSE HEADERS", boxWidth, func() {
		printHeaders(w, resp.Header)
	})
}

func printHeaders(w io.Writer, h http.Header) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printWrappedLine(w, yellow, k, strings.Join(h[k], ","))
	}
}

// PrintInsideHorizontalBorders prints the text inside horizontal
// border and title in the center of upper border
func PrintInsideHorizontalBorders(color Color, title, text string, width int) {
	if !debugEnabled.Load() {
		return
	}
	w := writer()
	printBoxTitleLine(w, color, title, width, false)
	fmt.Fprintf(w, "%s%s%s\n", color, text, reset)
	printHorizontalBorder(w, color, width, false)
}

// Prints out box title either with closing characters or not:  "┌", "┐"
// e.g ┌────────────────[ RESPONSE HEADERS ]────────────────┐
func printBoxTitleLine(w io.Writer, color Color, title string, length int, closing bool) {
	leftCorner, rightCorner := "┌", "┐"

	if !closing {
		leftCorner, rightCorner = borderChar, borderChar
	}

	titleFormatted := fmt.Sprintf("[ %s ]", title)
	borderSpace := max(length-len(titleFormatted)-2, 0)
	leftLen := borderSpace / 2
	rightLen := borderSpace - leftLen

	line := leftCorner +
		strings.Repeat(borderChar, leftLen) +
		titleFormatted +
		strings.Repeat(borderChar, rightLen) +
		rightCorner

	fmt.Fprintln(w, string(color)+line+reset)
}

// Prints out a horizontal line either with closing characters or not: "└", "┘"
func printHorizontalBorder(w io.Writer, color Color, length int, closing bool) {
	leftCorner, rightCorner := "└", "┘"
	if !closing {
		leftCorner, rightCorner = borderChar, borderChar
	}

	line := leftCorner + strings.Repeat(borderChar, length-2) + rightCorner + reset
	fmt.Fprintln(w, string(color)+line)
}

// wrapInBox wraps the output of a function call (fn) inside a styled box with a title.
func wrapInBox(w io.Writer, color Color, title string, length int, fn func()) {
	printBoxTitleLine(w, color, title, length, true)
	fn()
	printHorizontalBorder(w, color, length, true)
}

// returns the provided string length
// defaulting to 13 for exceeding lengths
func getLen(str string) int {
	if len(str) < 13 {
		return 13
	}

	return len(str)
}

// prints a formatted key-value pair within a box layout,
// wrapping the value text if it exceeds the allowed width.
func printWrappedLine(w io.Writer, keyColor Color, key, value string) {
	prefix := fmt.Sprintf("%s│%s %s%-13s%s : ", green, reset, keyColor, key, reset)
	prefixLen := len(prefix) - len(green) - len(reset) - len(keyColor) - len(reset)
	actualPrefixLen := getLen(key) + 5

	lineWidth := boxWidth - prefixLen
	valueLines := wrapText(value, lineWidth)

	for i, line := range valueLines {
		if i == 0 {
			if len(line) < lineWidth {
				line += strings.Repeat(" ", lineWidth-len(line))
			}
			fmt.Fprintf(w, "%s%s%s %s│%s\n", prefix, reset, line, green, reset)
		} else {
			line = strings.Repeat(" ", actualPrefixLen-2) + line
			if len(line) < boxWidth-4 {
				line += strings.Repeat(" ", boxWidth-len(line)-4)
			}
			fmt.Fprintf(w, "%s│ %s%s %s│%s\n", green, reset, line, green, reset)
		}
	}
}

// wrapText splits the input text into lines of at most `width` characters each.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for len(text) > width {
		lines = append(lines, text[:width])
		text = text[width:]
	}
	if text != "" {
		lines = append(lines, text)
	}
	return lines
}
