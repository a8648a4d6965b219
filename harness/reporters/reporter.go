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

// Package reporters writes machine readable run reports next to the
// console output. A reporter accumulates one record per registered test
// and renders its file once the whole run is known.
package reporters

import (
	"time"

	"github.com/cutekit/cute/harness/testresult"
)

type Reporter interface {
	ReportTest(name string, status testresult.Status, duration time.Duration, b []byte)
	Output() error
	SetResult(testresult.Status)
}

type Reporters []Reporter

func (reps Reporters) ReportTest(name string, status testresult.Status, duration time.Duration, b []byte) {
	for _, r := range reps {
		r.ReportTest(name, status, duration, b)
	}
}

func (reps Reporters) Output() error {
	for _, r := range reps {
		err := r.Output()
		if err != nil {
			return err
		}
	}
	return nil
}

func (reps Reporters) SetResult(s testresult.Status) {
	for _, r := range reps {
		r.SetResult(s)
	}
}
