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
	"flag"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/cutekit/cute/harness/testresult"
)

// Worker process exit protocol. Anything else, including death by signal,
// is taken for a crash.
const (
	exitPassed  = 0
	exitFailed  = 1
	exitAborted = 3
)

// runUnit dispatches one selected test, prints its console lines and
// records the outcome. tapIndex is the 1-based position in the TAP plan.
func (s *Suite) runUnit(i, tapIndex int) {
	test := s.tests.At(i)
	rd := &s.data[i]

	s.beginTestLine(test)

	w := stopwatch{mode: s.opts.Timer}
	w.Start()

	var status testresult.Status
	var output []byte
	if s.noexec {
		status, output = s.runInProcess(test)
	} else {
		status, output = s.runChild(test)
	}

	rd.status = status
	rd.duration = w.Elapsed()
	rd.output = output

	s.statsRun++
	if status.Failed() {
		s.statsFailed++
	}

	s.finishTestLine(test, tapIndex, status, rd.duration)
	s.writeReplay(output)
}

// writeReplay copies the diagnostics captured while the test ran. The
// capture can hold text the recorder never saw, like the runtime's crash
// dump of a child, so in TAP mode any line not already a comment gets the
// comment prefix here.
func (s *Suite) writeReplay(output []byte) {
	if !s.opts.TAP {
		s.out.Write(output)
		return
	}
	for _, line := range bytes.SplitAfter(output, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if line[0] != '#' {
			io.WriteString(s.out, "# ")
		}
		s.out.Write(line)
	}
}

// runInProcess executes the test directly in this process, capturing its
// diagnostics.
func (s *Suite) runInProcess(test *Test) (testresult.Status, []byte) {
	var buf bytes.Buffer
	t := &T{
		name:      test.Name,
		w:         &buf,
		verbosity: s.opts.Verbosity,
		tap:       s.opts.TAP,
		colorize:  s.opts.Colorize,
	}
	status := executeTest(test, t, s.opts.Timer, s.opts.Init, s.opts.Fini)
	return status, buf.Bytes()
}

// runChild executes the test in a freshly spawned copy of this binary so
// that a crash cannot take down the rest of the suite. The child writes
// only diagnostics; the begin and finish lines stay with the parent, and
// the outcome travels back through the exit code.
func (s *Suite) runChild(test *Test) (testresult.Status, []byte) {
	args := []string{fmt.Sprintf("-verbose=%d", s.opts.Verbosity)}
	if s.opts.TAP {
		args = append(args, "-tap")
	}
	if s.opts.Colorize {
		args = append(args, "-color")
	}
	switch s.opts.Timer {
	case TimerReal:
		args = append(args, "-time=real")
	case TimerCPU:
		args = append(args, "-time=cpu")
	}
	args = append(args, "--", test.Name)

	cmd := s.opts.Worker.Command(args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err == nil {
		return testresult.Pass, buf.Bytes()
	}

	ee, ok := err.(*osexec.ExitError)
	if !ok {
		s.appendError(&buf, "Cannot start unit test subprocess: %v", err)
		return testresult.Crash, buf.Bytes()
	}

	if cmd.Signaled() {
		s.appendError(&buf, "Test interrupted by %s.", unix.SignalName(cmd.TermSignal()))
		return testresult.Crash, buf.Bytes()
	}

	switch ee.ExitCode() {
	case exitFailed:
		return testresult.Fail, buf.Bytes()
	case exitAborted:
		s.appendError(&buf, "Aborted.")
		return testresult.Abort, buf.Bytes()
	default:
		s.appendError(&buf, "Test ended in an unexpected way [%d].", ee.ExitCode())
		return testresult.Crash, buf.Bytes()
	}
}

// executeTest runs the test function on t with the init/fini hooks around
// it and the abort guard in place, and writes the verbose trailer.
func executeTest(test *Test, t *T, timer TimerMode, init, fini func()) testresult.Status {
	if init != nil {
		init()
	}

	w := stopwatch{mode: timer}
	w.Start()
	aborted := runGuarded(t, test.Run)
	elapsed := w.Elapsed()

	writeTrailer(t, aborted, elapsed, timer.Enabled())

	if fini != nil {
		fini()
	}

	switch {
	case aborted:
		return testresult.Abort
	case t.failures > 0:
		return testresult.Fail
	}
	return testresult.Pass
}

// runGuarded calls the test function and contains its panics. The abort
// sentinel ends the test quietly; any other panic is recorded as a failed
// check so the remaining tests still run when isolation is off.
func runGuarded(t *T, fn TestFunc) (aborted bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(abortTest); ok {
			aborted = true
			return
		}
		t.recordAt(false, "", fmt.Sprintf("unhandled panic: %v", r))
	}()
	fn(t)
	return false
}

// writeTrailer closes the per-test block in most verbose mode.
func writeTrailer(t *T, aborted bool, elapsed time.Duration, timed bool) {
	if t.verbosity < 3 {
		return
	}

	t.indent(1)
	if t.failures == 0 {
		t.colored(colorGreenIntensive, "SUCCESS: ")
		fmt.Fprint(t.w, "All conditions have passed.\n")

		if timed {
			t.indent(1)
			fmt.Fprintf(t.w, "Duration: %.6f secs\n", elapsed.Seconds())
		}
	} else {
		t.colored(colorRedIntensive, "FAILED: ")
		if aborted {
			fmt.Fprint(t.w, "Aborted.\n")
		} else {
			plural, verb := "s", "have"
			if t.failures == 1 {
				plural, verb = "", "has"
			}
			fmt.Fprintf(t.w, "%d condition%s %s failed.\n", t.failures, plural, verb)
		}
	}
	fmt.Fprint(t.w, "\n")
}

const beginLineWidth = 48

func (s *Suite) beginTestLine(test *Test) {
	if s.opts.TAP {
		return
	}

	if s.opts.Verbosity >= 3 {
		writeColored(s.out, s.opts.Colorize, colorDefaultIntensive, "Test %s:\n", test.Name)
	} else if s.opts.Verbosity >= 1 {
		writeColored(s.out, s.opts.Colorize, colorDefaultIntensive, "Test %s... ", test.Name)
		if n := len("Test ") + len(test.Name) + len("... "); n < beginLineWidth {
			fmt.Fprint(s.out, strings.Repeat(" ", beginLineWidth-n))
		}
	}
}

func (s *Suite) finishTestLine(test *Test, tapIndex int, status testresult.Status, d time.Duration) {
	if s.opts.TAP {
		str := "ok"
		if status.Failed() {
			str = "not ok"
		}
		fmt.Fprintf(s.out, "%s %d - %s\n", str, tapIndex, test.Name)

		if !status.Failed() && s.opts.Timer.Enabled() {
			fmt.Fprintf(s.out, "# Duration: %.6f secs\n", d.Seconds())
		}
		return
	}

	// In most verbose mode the block trailer already says it.
	if s.opts.Verbosity >= 3 || s.opts.Verbosity < 1 {
		return
	}

	fmt.Fprint(s.out, "[ ")
	if status.Failed() {
		writeColored(s.out, s.opts.Colorize, colorRedIntensive, "FAILED")
	} else {
		writeColored(s.out, s.opts.Colorize, colorGreenIntensive, "OK")
	}
	fmt.Fprint(s.out, " ]")

	if !status.Failed() && s.opts.Timer.Enabled() {
		fmt.Fprintf(s.out, "  %.6f secs", d.Seconds())
	}
	fmt.Fprint(s.out, "\n")
}

// appendError reports an abnormal end of a test, the same way whether it
// comes out right away or replayed from a capture buffer.
func (s *Suite) appendError(w io.Writer, format string, args ...interface{}) {
	if s.opts.Verbosity < 2 {
		return
	}

	writeIndent(w, s.opts.TAP, 1)
	if s.opts.Verbosity >= 3 {
		writeColored(w, s.opts.Colorize, colorRedIntensive, "ERROR: ")
	}
	fmt.Fprintf(w, format, args...)
	fmt.Fprint(w, "\n")

	if s.opts.Verbosity >= 3 {
		fmt.Fprint(w, "\n")
	}
}

// tracerPresent reports whether a debugger or tracer is attached to this
// process, read from the TracerPid field of /proc/self/status.
func tracerPresent() bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		pid := strings.TrimSpace(strings.TrimPrefix(line, "TracerPid:"))
		return pid != "" && pid != "0"
	}
	return false
}

// RunWorker is the child side of the isolated execution protocol: it runs
// the single named test in this process and returns the exit code to
// report to the parent. args is the worker argument vector built by
// runChild.
func RunWorker(tests *Tests, opts Options, args []string) int {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Int("verbose", DefaultVerbosity, "diagnostic verbosity")
	tap := fs.Bool("tap", false, "prefix diagnostics as TAP comments")
	colorize := fs.Bool("color", false, "colorize diagnostics")
	timeMode := fs.String("time", "", "measure test duration")

	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "bad worker invocation")
		return 2
	}

	name := fs.Arg(0)
	i := tests.Lookup(name)
	if i < 0 {
		fmt.Fprintf(os.Stderr, "unknown test %q\n", name)
		return 2
	}

	timer := TimerOff
	if *timeMode != "" {
		var err error
		if timer, err = ParseTimerMode(*timeMode); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	t := &T{
		name:      name,
		w:         os.Stdout,
		verbosity: *verbose,
		tap:       *tap,
		colorize:  *colorize,
	}

	switch executeTest(tests.At(i), t, timer, opts.Init, opts.Fini) {
	case testresult.Pass:
		return exitPassed
	case testresult.Abort:
		return exitAborted
	default:
		return exitFailed
	}
}
