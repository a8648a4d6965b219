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
	"reflect"
	"testing"
)

func nopTest(*T) {}

func makeTests(names ...string) *Tests {
	var ts Tests
	for _, name := range names {
		ts.Add(&Test{Name: name, Run: nopTest})
	}
	return &ts
}

func selectedNames(s *Suite) []string {
	var names []string
	for i, t := range s.tests.list {
		if s.data[i].selected {
			names = append(names, t.Name)
		}
	}
	return names
}

func TestSelection(t *testing.T) {
	names := []string{"foo-1", "foo-2", "foomatic", "bar-1", "bar-10"}

	testCases := []struct {
		desc     string
		patterns []string
		skip     bool
		want     []string
	}{{
		desc: "no patterns select everything",
		want: names,
	}, {
		desc:     "exact match beats substring matches",
		patterns: []string{"foo-1"},
		want:     []string{"foo-1"},
	}, {
		desc:     "word match",
		patterns: []string{"1"},
		want:     []string{"foo-1", "bar-1"},
	}, {
		desc:     "substring match when no word matches",
		patterns: []string{"oo"},
		want:     []string{"foo-1", "foo-2", "foomatic"},
	}, {
		desc:     "substring match crossing a delimiter",
		patterns: []string{"o-1"},
		want:     []string{"foo-1"},
	}, {
		desc:     "patterns accumulate",
		patterns: []string{"foo-2", "bar-10"},
		want:     []string{"foo-2", "bar-10"},
	}, {
		desc:     "skip complements the matched set",
		patterns: []string{"foo"},
		skip:     true,
		want:     []string{"foomatic", "bar-1", "bar-10"},
	}}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			s := NewSuite(Options{}, makeTests(names...))
			if err := s.applySelection(tc.patterns, tc.skip); err != nil {
				t.Fatalf("applySelection: %v", err)
			}
			if got := selectedNames(s); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("selected %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSelectionUnknownPattern(t *testing.T) {
	s := NewSuite(Options{}, makeTests("foo", "bar"))
	err := s.applySelection([]string{"foo", "quux"}, false)
	uerr, ok := err.(*UnknownTestError)
	if !ok {
		t.Fatalf("got %v, want UnknownTestError", err)
	}
	if uerr.Pattern != "quux" {
		t.Errorf("got pattern %q, want %q", uerr.Pattern, "quux")
	}
}

func TestSelectionExactSetsExactFlag(t *testing.T) {
	s := NewSuite(Options{}, makeTests("foo", "foo-extra"))
	if err := s.applySelection([]string{"foo"}, false); err != nil {
		t.Fatal(err)
	}
	if !s.data[0].exact {
		t.Error("exact name request did not set the exact flag")
	}
	if s.data[1].selected {
		t.Error("exact match should not spill over to other names")
	}

	// The complement of an exact match is not an exact request.
	s = NewSuite(Options{}, makeTests("foo", "bar"))
	if err := s.applySelection([]string{"foo"}, true); err != nil {
		t.Fatal(err)
	}
	for i := range s.data {
		if s.data[i].exact {
			t.Error("skip mode must clear exact flags")
		}
	}
}

func TestNameContainsWord(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"foo-1", "1", true},
		{"bar-10", "1", false},
		{"foomatic", "foo", false},
		{"foo-1", "foo", true},
		{"a b c", "b", true},
		{"a/b_c", "b", true},
		{"abc", "abc", true},
		{"abc", "", false},
		{"x:y", "y", true},
		{"xy", "y", false},
		{"ab ab-cd", "ab-cd", true},
	}

	for _, tc := range testCases {
		if got := nameContainsWord(tc.name, tc.pattern); got != tc.want {
			t.Errorf("nameContainsWord(%q, %q) = %v, want %v",
				tc.name, tc.pattern, got, tc.want)
		}
	}
}
