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
	"time"

	"golang.org/x/sys/unix"
)

// TimerMode selects how test durations are measured.
type TimerMode int

const (
	TimerOff TimerMode = iota
	TimerReal
	TimerCPU
)

// ParseTimerMode maps the --time argument to a TimerMode.
func ParseTimerMode(arg string) (TimerMode, error) {
	switch arg {
	case "", "real":
		return TimerReal, nil
	case "cpu":
		return TimerCPU, nil
	}
	return TimerOff, fmt.Errorf("unrecognized argument %q for option --time", arg)
}

// Enabled reports whether durations are measured at all.
func (m TimerMode) Enabled() bool { return m != TimerOff }

// stopwatch measures one test's elapsed time in the configured mode. The
// zero duration is reported when timing is off.
type stopwatch struct {
	mode     TimerMode
	start    time.Time
	startCPU time.Duration
}

func (w *stopwatch) Start() {
	switch w.mode {
	case TimerReal:
		w.start = time.Now()
	case TimerCPU:
		w.startCPU = cpuTime()
	}
}

func (w *stopwatch) Elapsed() time.Duration {
	switch w.mode {
	case TimerReal:
		return time.Since(w.start)
	case TimerCPU:
		return cpuTime() - w.startCPU
	}
	return 0
}

// cpuTime returns the user plus system CPU time consumed by this process.
func cpuTime() time.Duration {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return time.Duration(ru.Utime.Nano() + ru.Stime.Nano())
}
