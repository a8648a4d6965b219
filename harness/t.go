// Copyright 2025 The cute Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package harness

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

const (
	// CaseMaxSize bounds the length of a sub-case label.
	CaseMaxSize = 64
	// MessageMaxSize bounds the output of a single Message call.
	MessageMaxSize = 1024
	// DumpMaxSize bounds the number of bytes written by a single Dump call.
	DumpMaxSize = 1024

	dumpBytesPerLine = 16
)

type color int

const (
	colorDefault color = iota
	colorGreen
	colorRed
	colorDefaultIntensive
	colorGreenIntensive
	colorRedIntensive
)

var colorCodes = map[color]string{
	colorGreen:            "\033[0;32m",
	colorRed:              "\033[0;31m",
	colorGreenIntensive:   "\033[1;32m",
	colorRedIntensive:     "\033[1;31m",
	colorDefaultIntensive: "\033[1m",
	colorDefault:          "\033[0m",
}

// T records the checks of the currently executing test. A T is valid only
// for the duration of the test function it is passed to and must not be
// retained or used from other goroutines: tests run strictly sequentially
// and all isolation comes from process separation, not locking.
type T struct {
	name      string
	w         io.Writer
	verbosity int
	tap       bool
	colorize  bool

	failures   int    // failed checks so far in this test
	lastFailed bool   // gates Message and Dump
	caseName   string // active sub-case label, "" when none
	caseLogged bool   // case header already printed for this activation
}

// Name returns the name of the running test.
func (t *T) Name() string { return t.name }

// Failures returns the number of failed checks recorded so far.
func (t *T) Failures() int { return t.failures }

// Check records a single condition. It returns cond, so the caller can
// guard follow-up checks that only make sense when this one held. A false
// condition marks the test failed but does not stop it.
func (t *T) Check(cond bool, format string, args ...interface{}) bool {
	return t.record(cond, 2, format, args...)
}

// Assert is like Check except that a false condition immediately aborts
// the current test. Nothing after a failed Assert executes; the abort
// unwinds to the test boundary and cannot be intercepted by test code.
func (t *T) Assert(cond bool, format string, args ...interface{}) {
	if !t.record(cond, 2, format, args...) {
		panic(abortTest{})
	}
}

// abortTest is the control-transfer value used by Assert. Only the test
// runner recovers it.
type abortTest struct{}

// Case sets the diagnostic sub-case label applied to all subsequent checks
// until replaced. An empty label ends the current case without starting a
// new one. Cases do not nest.
func (t *T) Case(format string, args ...interface{}) {
	if t.verbosity < 2 {
		return
	}

	if t.caseName != "" {
		t.caseName = ""
		t.caseLogged = false
	}
	if format == "" {
		return
	}

	name := fmt.Sprintf(format, args...)
	if len(name) > CaseMaxSize {
		name = name[:CaseMaxSize]
	}
	t.caseName = name

	if t.verbosity >= 3 {
		t.indent(1)
		t.colored(colorDefaultIntensive, "Case %s:\n", t.caseName)
		t.caseLogged = true
	}
}

// Message writes extra diagnostic output. It is a no-op unless the most
// recent check in this test failed, so it can be placed unconditionally
// after a Check. Output longer than MessageMaxSize is cut.
func (t *T) Message(format string, args ...interface{}) {
	if t.verbosity < 2 || !t.lastFailed {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if len(msg) > MessageMaxSize {
		msg = msg[:MessageMaxSize]
	}

	level := 2
	if t.caseName != "" {
		level = 3
	}
	for _, line := range strings.Split(strings.TrimSuffix(msg, "\n"), "\n") {
		t.indent(level)
		fmt.Fprintf(t.w, "%s\n", line)
	}
}

// Dump writes a hex dump of data under the given title. Like Message it is
// a no-op unless the most recent check failed. Blocks longer than
// DumpMaxSize bytes are cut.
func (t *T) Dump(title string, data []byte) {
	if t.verbosity < 2 || !t.lastFailed {
		return
	}

	var truncated int
	if len(data) > DumpMaxSize {
		truncated = len(data) - DumpMaxSize
		data = data[:DumpMaxSize]
	}

	level := 2
	if t.caseName != "" {
		level = 3
	}
	t.indent(level)
	if strings.HasSuffix(title, ":") {
		fmt.Fprintf(t.w, "%s\n", title)
	} else {
		fmt.Fprintf(t.w, "%s:\n", title)
	}

	for off := 0; off < len(data); off += dumpBytesPerLine {
		end := off + dumpBytesPerLine
		if end > len(data) {
			end = len(data)
		}

		t.indent(level + 1)
		fmt.Fprintf(t.w, "%08x: ", off)
		for i := off; i < off+dumpBytesPerLine; i++ {
			if i < len(data) {
				fmt.Fprintf(t.w, " %02x", data[i])
			} else {
				fmt.Fprint(t.w, "   ")
			}
		}

		fmt.Fprint(t.w, "  ")
		for _, b := range data[off:end] {
			if unicode.IsControl(rune(b)) || b >= 0x7f {
				fmt.Fprint(t.w, ".")
			} else {
				fmt.Fprintf(t.w, "%c", b)
			}
		}
		fmt.Fprint(t.w, "\n")
	}

	if truncated > 0 {
		t.indent(level + 1)
		fmt.Fprintf(t.w, "           ... (and more %d bytes)\n", truncated)
	}
}

// record is the single bookkeeping point for every check. skip is the
// runtime.Caller distance to the line in the test body.
func (t *T) record(cond bool, skip int, format string, args ...interface{}) bool {
	location := ""
	if _, file, line, ok := runtime.Caller(skip); ok {
		location = fmt.Sprintf("%s:%d: ", filepath.Base(file), line)
	}
	t.recordAt(cond, location, fmt.Sprintf(format, args...))
	return cond
}

func (t *T) recordAt(cond bool, location, msg string) {
	var resultStr string
	var resultColor color
	var verbosity int

	if cond {
		resultStr = "ok"
		resultColor = colorGreen
		verbosity = 3
	} else {
		resultStr = "failed"
		resultColor = colorRed
		verbosity = 2
		t.failures++
	}

	if t.verbosity >= verbosity {
		if !t.caseLogged && t.caseName != "" {
			t.indent(1)
			t.colored(colorDefaultIntensive, "Case %s:\n", t.caseName)
			t.caseLogged = true
		}

		level := 1
		if t.caseName != "" {
			level = 2
		}
		t.indent(level)
		fmt.Fprintf(t.w, "%sCheck %s... ", location, msg)
		t.colored(resultColor, "%s", resultStr)
		fmt.Fprint(t.w, "\n")
	}

	t.lastFailed = !cond
}

// indent writes the prefix of a diagnostic line: two spaces per level, with
// the first column replaced by '#' in TAP mode so diagnostics stay comments.
func (t *T) indent(level int) {
	writeIndent(t.w, t.tap, level)
}

func (t *T) colored(c color, format string, args ...interface{}) {
	writeColored(t.w, t.colorize, c, format, args...)
}

func writeIndent(w io.Writer, tap bool, level int) {
	n := 2 * level
	if tap && n > 0 {
		n--
		fmt.Fprint(w, "#")
	}
	fmt.Fprint(w, strings.Repeat(" ", n))
}

func writeColored(w io.Writer, colorize bool, c color, format string, args ...interface{}) {
	if !colorize {
		fmt.Fprintf(w, format, args...)
		return
	}
	fmt.Fprint(w, colorCodes[c])
	fmt.Fprintf(w, format, args...)
	fmt.Fprint(w, colorCodes[colorDefault])
}
