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

package reporters

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/cutekit/cute/harness/testresult"
)

type jsonReporter struct {
	Suite  string            `json:"suite"`
	Tests  []jsonTest        `json:"tests"`
	Result testresult.Status `json:"result"`

	// SuiteVersion is empty unless version gating was configured.
	SuiteVersion string `json:"version,omitempty"`

	filename string
	mutex    sync.Mutex
}

type jsonTest struct {
	Name     string            `json:"name"`
	Result   testresult.Status `json:"result"`
	Duration time.Duration     `json:"duration"`
	Output   string            `json:"output"`
}

// DeserialiseReport reads back a report written by a JSON reporter.
func DeserialiseReport(filename string) (*jsonReporter, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var data jsonReporter
	if err = json.Unmarshal(bytes, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func NewJSONReporter(filename, suite, suiteVersion string) *jsonReporter {
	return &jsonReporter{
		Suite:        suite,
		SuiteVersion: suiteVersion,
		filename:     filename,
	}
}

func (r *jsonReporter) ReportTest(name string, status testresult.Status, duration time.Duration, b []byte) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.Tests = append(r.Tests, jsonTest{
		Name:     name,
		Result:   status,
		Duration: duration,
		Output:   string(b),
	})
}

func (r *jsonReporter) Output() error {
	f, err := os.Create(r.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(r)
}

func (r *jsonReporter) SetResult(status testresult.Status) {
	r.Result = status
}
