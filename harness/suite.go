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
	"os"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/pkg/errors"

	"github.com/cutekit/cute/harness/reporters"
	"github.com/cutekit/cute/harness/testresult"
	"github.com/cutekit/cute/system/exec"
)

var (
	SuiteEmpty  = errors.New("harness: no tests to run")
	SuiteFailed = errors.New("harness: test suite failed")
)

// DefaultVerbosity is the level embedding programs should pass unless the
// user asked otherwise: one line per test plus failed checks.
const DefaultVerbosity = 2

// ExecPolicy controls whether tests run in isolated child processes.
type ExecPolicy int

const (
	// ExecAuto isolates when more than one test is selected and no
	// tracer is attached to the process.
	ExecAuto ExecPolicy = iota
	ExecAlways
	ExecNever
)

// ParseExecPolicy maps the --exec argument to an ExecPolicy.
func ParseExecPolicy(arg string) (ExecPolicy, error) {
	switch arg {
	case "auto":
		return ExecAuto, nil
	case "", "always":
		return ExecAlways, nil
	case "never":
		return ExecNever, nil
	}
	return ExecAuto, fmt.Errorf("unrecognized argument %q for option --exec", arg)
}

// Options configure a Suite. All fields are fixed once given to NewSuite.
type Options struct {
	// Test name selection patterns; empty means every test.
	Patterns []string

	// Run all tests except the ones the patterns match.
	Skip bool

	Exec  ExecPolicy
	Timer TimerMode

	// Report as Test Anything Protocol instead of plain console lines.
	TAP bool

	NoSummary bool
	Verbosity int
	Colorize  bool

	// SuiteVersion, when set, enables the per-test version bounds.
	// It must parse as a semantic version.
	SuiteVersion string

	// SkipFile is an optional YAML file of advisory skip entries.
	SkipFile string

	// Init and Fini bracket every single test, in both execution
	// contexts, including the abort path.
	Init func()
	Fini func()

	// Worker is the multicall entrypoint used to re-invoke this binary
	// for isolated execution. When unset, isolation degrades to direct
	// in-process calls.
	Worker exec.Entrypoint

	// Reporters receive every per-test result plus the final verdict.
	Reporters reporters.Reporters

	// Output defaults to os.Stdout.
	Output io.Writer
}

func (o *Options) init() {
	if o.Output == nil {
		o.Output = os.Stdout
	}
}

// runData is the mutable per-test bookkeeping, parallel to the registry.
type runData struct {
	status   testresult.Status
	duration time.Duration
	output   []byte
	selected bool
	exact    bool   // requested by exact name: overrides version bounds
	skipWhy  string // non-empty when a skip-file entry excluded the test
}

// Suite runs a set of registered tests: it resolves the selection,
// dispatches each test through the isolator in registration order, and
// aggregates the outcomes.
type Suite struct {
	opts  Options
	tests *Tests
	data  []runData
	out   io.Writer

	noexec bool

	statsRun    int
	statsFailed int
}

// NewSuite creates a new test suite. The options cannot be modified once
// given to the Suite.
func NewSuite(opts Options, tests *Tests) *Suite {
	return &Suite{
		opts:  opts,
		tests: tests,
		data:  make([]runData, tests.Len()),
	}
}

// Run executes the selected tests. It returns SuiteFailed when at least
// one test failed, SuiteEmpty for an empty registry, and other errors for
// problems with the run configuration itself.
func (s *Suite) Run() error {
	s.opts.init()
	s.out = s.opts.Output

	if s.tests.Len() == 0 {
		return SuiteEmpty
	}

	if err := s.applySelection(s.opts.Patterns, s.opts.Skip); err != nil {
		return err
	}
	if s.opts.SkipFile != "" {
		if err := s.applySkipFile(s.opts.SkipFile); err != nil {
			return err
		}
	}
	if err := s.applyVersionBounds(); err != nil {
		return err
	}

	runCount := 0
	for i := range s.data {
		if s.data[i].selected && s.data[i].skipWhy == "" {
			runCount++
		}
	}

	s.noexec = s.resolveNoexec(runCount)

	if s.opts.TAP {
		// TAP wants the verdict before any detail, which caps how
		// chatty the diagnostics can get, and the consuming harness
		// provides its own summary.
		if s.opts.Verbosity > 2 {
			s.opts.Verbosity = 2
		}
		s.opts.NoSummary = true
		fmt.Fprintf(s.out, "1..%d\n", runCount)
	}

	dispatch := 0
	for i := range s.data {
		rd := &s.data[i]
		if !rd.selected {
			continue
		}
		if rd.skipWhy != "" {
			rd.status = testresult.Skip
			continue
		}
		dispatch++
		s.runUnit(i, dispatch)
	}

	s.writeSummary()

	// Reports list every registered test in registration order, run or
	// not.
	for i, t := range s.tests.list {
		rd := &s.data[i]
		s.opts.Reporters.ReportTest(t.Name, rd.status, rd.duration, rd.output)
	}

	var err error
	result := testresult.Pass
	if s.statsFailed > 0 {
		result = testresult.Fail
		err = SuiteFailed
	}
	s.opts.Reporters.SetResult(result)
	if outErr := s.opts.Reporters.Output(); outErr != nil && err == nil {
		err = outErr
	}
	return err
}

// resolveNoexec decides the execution strategy for this run.
func (s *Suite) resolveNoexec(runCount int) bool {
	switch s.opts.Exec {
	case ExecAlways:
		return s.opts.Worker == ""
	case ExecNever:
		return true
	}
	if s.opts.Worker == "" || runCount <= 1 {
		return true
	}
	// Child processes would detach the tests from an attached debugger
	// or tracer, so fall back to direct calls under one.
	return tracerPresent()
}

// applyVersionBounds skips selected tests whose version range excludes the
// configured suite version. Tests requested by exact name are exempt.
func (s *Suite) applyVersionBounds() error {
	if s.opts.SuiteVersion == "" {
		return nil
	}
	current, err := semver.NewVersion(s.opts.SuiteVersion)
	if err != nil {
		return errors.Wrapf(err, "harness: bad suite version %q", s.opts.SuiteVersion)
	}

	for i, t := range s.tests.list {
		rd := &s.data[i]
		if !rd.selected || rd.exact || rd.skipWhy != "" {
			continue
		}
		if current.LessThan(t.MinVersion) {
			rd.skipWhy = fmt.Sprintf("requires version %s", t.MinVersion)
		} else if (t.EndVersion != semver.Version{}) && !current.LessThan(t.EndVersion) {
			rd.skipWhy = fmt.Sprintf("retired as of version %s", t.EndVersion)
		}
	}
	return nil
}

// Summary returns the aggregate counters of the completed run.
func (s *Suite) Summary() (total, run, failed, skipped int) {
	total = s.tests.Len()
	return total, s.statsRun, s.statsFailed, total - s.statsRun
}

func (s *Suite) writeSummary() {
	if s.opts.NoSummary || s.opts.Verbosity < 1 {
		return
	}

	total, run, failed, skipped := s.Summary()
	if s.opts.Verbosity >= 3 {
		writeColored(s.out, s.opts.Colorize, colorDefaultIntensive, "Summary:\n")
		fmt.Fprintf(s.out, "  Count of all unit tests:     %4d\n", total)
		fmt.Fprintf(s.out, "  Count of run unit tests:     %4d\n", run)
		fmt.Fprintf(s.out, "  Count of failed unit tests:  %4d\n", failed)
		fmt.Fprintf(s.out, "  Count of skipped unit tests: %4d\n", skipped)
	}

	if failed == 0 {
		writeColored(s.out, s.opts.Colorize, colorGreenIntensive, "SUCCESS:")
		fmt.Fprint(s.out, " All unit tests have passed.\n")
	} else {
		writeColored(s.out, s.opts.Colorize, colorRedIntensive, "FAILED:")
		plural := "has"
		if failed != 1 {
			plural = "have"
		}
		fmt.Fprintf(s.out, " %d of %d unit tests %s failed.\n", failed, run, plural)
	}

	if s.opts.Verbosity >= 3 {
		fmt.Fprint(s.out, "\n")
	}
}
