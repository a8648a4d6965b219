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

package testresult

// Status is the terminal state of a single test. NotRun is the initial
// state; every other value is terminal. Abort and Crash are failures that
// are distinguished in reports only.
type Status string

const (
	NotRun Status = ""
	Pass   Status = "PASS"
	Fail   Status = "FAIL"
	Abort  Status = "ABORT"
	Crash  Status = "CRASH"
	Skip   Status = "SKIP"
)

// Failed reports whether the status counts against the suite exit code.
func (s Status) Failed() bool {
	return s == Fail || s == Abort || s == Crash
}

// Ran reports whether a test with this status was actually executed.
func (s Status) Ran() bool {
	return s == Pass || s.Failed()
}

const (
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiGreen = "\033[32m"
	ansiReset = "\033[0m"
)

// Display returns the status string, wrapped in ANSI color codes when
// colorize is set.
func (s Status) Display(colorize bool) string {
	if !colorize {
		return string(s)
	}

	switch {
	case s.Failed():
		return ansiRed + string(s) + ansiReset
	case s == Skip || s == NotRun:
		return ansiBlue + string(s) + ansiReset
	default:
		return ansiGreen + string(s) + ansiReset
	}
}
