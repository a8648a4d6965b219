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
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

var fileLineRe = regexp.MustCompile(`[0-9A-Za-z_-]+\.go:\d+`)

// normalize makes the diagnostic output comparable across edits: source
// locations become file.go:NN and the begin line padding collapses.
func normalize(s string) string {
	s = fileLineRe.ReplaceAllString(s, "file.go:NN")
	s = regexp.MustCompile(`\.\.\.  +`).ReplaceAllString(s, "... ")
	return s
}

func newTestT(buf *bytes.Buffer, verbosity int) *T {
	return &T{name: "t", w: buf, verbosity: verbosity}
}

func TestCheckRecording(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	if !ct.Check(true, "fine") {
		t.Error("Check must return the condition")
	}
	if ct.Check(false, "broken %d", 7) {
		t.Error("Check must return the condition")
	}
	if ct.Failures() != 1 {
		t.Errorf("got %d failures, want 1", ct.Failures())
	}

	got := normalize(buf.String())
	want := "  file.go:NN: Check broken 7... failed\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCheckVerbose(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 3)

	ct.Check(true, "fine")
	ct.Check(false, "broken")

	got := normalize(buf.String())
	want := "  file.go:NN: Check fine... ok\n" +
		"  file.go:NN: Check broken... failed\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCheckQuiet(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 1)

	ct.Check(false, "broken")
	if buf.Len() != 0 {
		t.Errorf("verbosity 1 should not print checks, got %q", buf.String())
	}
	if ct.Failures() != 1 {
		t.Error("failure not counted")
	}
}

func TestMessageGating(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	ct.Check(true, "fine")
	ct.Message("should not appear")

	ct.Check(false, "broken")
	ct.Message("a: %d", 1)
	ct.Message("two\nlines")

	got := normalize(buf.String())
	want := "  file.go:NN: Check broken... failed\n" +
		"    a: 1\n" +
		"    two\n" +
		"    lines\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMessageTruncated(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	ct.Check(false, "broken")
	ct.Message("%s", strings.Repeat("x", 2*MessageMaxSize))

	if n := strings.Count(buf.String(), "x"); n != MessageMaxSize {
		t.Errorf("message carries %d bytes, want %d", n, MessageMaxSize)
	}
}

func TestCaseLabels(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	ct.Case("first")
	ct.Check(false, "broken")
	ct.Check(false, "again")
	ct.Case("second")
	ct.Check(false, "more")
	ct.Case("")
	ct.Check(false, "bare")

	got := normalize(buf.String())
	want := "  Case first:\n" +
		"    file.go:NN: Check broken... failed\n" +
		"    file.go:NN: Check again... failed\n" +
		"  Case second:\n" +
		"    file.go:NN: Check more... failed\n" +
		"  file.go:NN: Check bare... failed\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCaseLabelTruncated(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	ct.Case("%s", strings.Repeat("c", 2*CaseMaxSize))
	if len(ct.caseName) != CaseMaxSize {
		t.Errorf("case label is %d bytes, want %d", len(ct.caseName), CaseMaxSize)
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	ct.Check(false, "broken")
	ct.Dump("Produced", []byte("hello\x00"))

	// 6 bytes shown, 10 empty cells of 3 chars each, then the two space
	// gap before the ascii column.
	hexLine := "      00000000:  68 65 6c 6c 6f 00" + strings.Repeat("   ", 10) + "  hello.\n"

	got := normalize(buf.String())
	want := "  file.go:NN: Check broken... failed\n" +
		"    Produced:\n" +
		hexLine
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDumpTruncated(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	ct.Check(false, "broken")
	ct.Dump("big", make([]byte, DumpMaxSize+100))

	out := buf.String()
	if !strings.Contains(out, "... (and more 100 bytes)") {
		t.Errorf("missing truncation note in %q", out)
	}
	if want := DumpMaxSize / dumpBytesPerLine; strings.Count(out, "000") < want {
		t.Errorf("dump shorter than %d lines:\n%s", want, out)
	}
}

func TestDumpGated(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 2)

	ct.Check(true, "fine")
	ct.Dump("quiet", []byte("data"))
	if buf.Len() != 0 {
		t.Errorf("dump after passing check must stay silent, got %q", buf.String())
	}
}

func TestTAPCommentPrefix(t *testing.T) {
	var buf bytes.Buffer
	ct := &T{name: "t", w: &buf, verbosity: 2, tap: true}

	ct.Check(false, "broken")
	ct.Message("detail")

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			t.Errorf("TAP diagnostic line %q does not start with #", line)
		}
	}
}

func TestAssertAborts(t *testing.T) {
	var buf bytes.Buffer
	ct := newTestT(&buf, 0)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("failed Assert must panic")
		} else if _, ok := r.(abortTest); !ok {
			t.Fatalf("unexpected panic value %v", r)
		}
		if ct.Failures() != 1 {
			t.Error("failed Assert must count as a failure")
		}
	}()
	ct.Assert(fmt.Sprint("a") == "b", "impossible")
}
