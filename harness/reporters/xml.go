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
	"encoding/xml"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cutekit/cute/harness/testresult"
)

// xmlReporter renders the xUnit flavor many CI systems ingest: a single
// testsuite element with one testcase per registered test. Tests that
// never ran carry a skipped marker so the suite totals still add up.
type xmlReporter struct {
	filename string
	suite    string

	mutex sync.Mutex
	cases []xmlTestCase

	run    int
	failed int
}

type xmlTestSuite struct {
	XMLName  xml.Name      `xml:"testsuite"`
	Name     string        `xml:"name,attr"`
	Tests    int           `xml:"tests,attr"`
	Errors   int           `xml:"errors,attr"`
	Failures int           `xml:"failures,attr"`
	Skip     int           `xml:"skip,attr"`
	Cases    []xmlTestCase `xml:"testcase"`
}

type xmlTestCase struct {
	Name    string    `xml:"name,attr"`
	Time    string    `xml:"time,attr"`
	Failure *struct{} `xml:"failure,omitempty"`
	Skipped *struct{} `xml:"skipped,omitempty"`
}

func NewXMLReporter(filename, suite string) *xmlReporter {
	return &xmlReporter{
		filename: filename,
		suite:    suite,
	}
}

func (r *xmlReporter) ReportTest(name string, status testresult.Status, duration time.Duration, b []byte) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c := xmlTestCase{
		Name: name,
		Time: fmt.Sprintf("%.2f", duration.Seconds()),
	}
	switch {
	case status.Failed():
		c.Failure = &struct{}{}
		r.failed++
		r.run++
	case status == testresult.Pass:
		r.run++
	default:
		c.Skipped = &struct{}{}
	}
	r.cases = append(r.cases, c)
}

func (r *xmlReporter) Output() error {
	f, err := os.Create(r.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	suite := xmlTestSuite{
		Name:     r.suite,
		Tests:    len(r.cases),
		Errors:   r.failed,
		Failures: r.failed,
		Skip:     len(r.cases) - r.run,
		Cases:    r.cases,
	}

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(suite); err != nil {
		return err
	}
	_, err = f.WriteString("\n")
	return err
}

func (r *xmlReporter) SetResult(status testresult.Status) {}
