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

	"github.com/coreos/go-semver/semver"
)

// TestFunc is a single test function.
type TestFunc func(*T)

// Test is one named entry of a suite. MinVersion and EndVersion optionally
// bound the suite versions the test applies to; the zero version means
// unbounded. A test requested by its exact name runs regardless of the
// version bounds.
type Test struct {
	Name string
	Run  TestFunc

	MinVersion semver.Version
	EndVersion semver.Version
}

// Tests is an ordered set of test functions that can be given to a Suite.
// Tests run in the order they were added.
type Tests struct {
	list  []*Test
	index map[string]int
}

// Add appends the given test. The name must be unique and non-empty;
// Add panics otherwise, and also when the version range is inverted.
func (ts *Tests) Add(t *Test) {
	if t.Name == "" {
		panic("harness: test with empty name")
	}
	if ts.index == nil {
		ts.index = make(map[string]int)
	} else if _, ok := ts.index[t.Name]; ok {
		panic(fmt.Errorf("harness: duplicate test %q", t.Name))
	}
	if (t.EndVersion != semver.Version{}) && !t.MinVersion.LessThan(t.EndVersion) {
		panic(fmt.Errorf("harness: test %q has an invalid version range", t.Name))
	}
	ts.index[t.Name] = len(ts.list)
	ts.list = append(ts.list, t)
}

// Len returns the number of registered tests.
func (ts *Tests) Len() int {
	return len(ts.list)
}

// At returns the i-th test in registration order.
func (ts *Tests) At(i int) *Test {
	return ts.list[i]
}

// Lookup returns the index of the named test, or -1.
func (ts *Tests) Lookup(name string) int {
	if i, ok := ts.index[name]; ok {
		return i
	}
	return -1
}

// Names returns the test names in registration order.
func (ts *Tests) Names() []string {
	names := make([]string, 0, len(ts.list))
	for _, t := range ts.list {
		names = append(names, t.Name)
	}
	return names
}
