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

// Package register holds the global test registry embedding programs fill
// from their init() functions. Tests keep their registration order for the
// whole run, including reports.
package register

import (
	"github.com/coreos/go-semver/semver"

	"github.com/cutekit/cute/harness"
)

// Test declares one unit test.
type Test struct {
	Name string // should be unique
	Run  func(*harness.T)

	// MinVersion prevents the test from executing on suites configured
	// with a version less than MinVersion. This is ignored if the test
	// was requested by its exact name.
	MinVersion semver.Version

	// EndVersion prevents the test from executing on suites configured
	// with a version greater than or equal to EndVersion. Ignored the
	// same way as MinVersion.
	EndVersion semver.Version
}

var tests harness.Tests

// RegisterTest is usually called via init() functions and is how the suite
// knows which tests it can choose from. Panics on a duplicate or empty
// name, and on an inverted version range.
func RegisterTest(t *Test) {
	tests.Add(&harness.Test{
		Name:       t.Name,
		Run:        t.Run,
		MinVersion: t.MinVersion,
		EndVersion: t.EndVersion,
	})
}

// Tests returns the registry in registration order.
func Tests() *harness.Tests {
	return &tests
}
