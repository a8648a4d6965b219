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
	"strings"
)

// wordDelims are the characters that split a test name into words for the
// word-match tier.
const wordDelims = " \t-_/.,:;"

// UnknownTestError is returned when a selection pattern matches no
// registered test in any tier.
type UnknownTestError struct {
	Pattern string
}

func (e *UnknownTestError) Error() string {
	return fmt.Sprintf("unrecognized unit test %q", e.Pattern)
}

// nameContainsWord reports whether pattern occurs in name as a whole word,
// i.e. delimited on both sides by a word delimiter or the name boundary.
func nameContainsWord(name, pattern string) bool {
	if pattern == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(name[start:], pattern)
		if i < 0 {
			return false
		}
		i += start

		startsOnBoundary := i == 0 || strings.ContainsRune(wordDelims, rune(name[i-1]))
		end := i + len(pattern)
		endsOnBoundary := end == len(name) || strings.ContainsRune(wordDelims, rune(name[end]))
		if startsOnBoundary && endsOnBoundary {
			return true
		}

		start = i + 1
	}
}

// selectPattern marks every test matched by pattern and returns the number
// of hits. The tiers are tried in order; the first tier with at least one
// hit wins: exact name, whole word, substring.
func (s *Suite) selectPattern(pattern string) int {
	// Exact match selects that one test only, even if the pattern is
	// also a substring of other names.
	if i := s.tests.Lookup(pattern); i >= 0 {
		s.data[i].selected = true
		s.data[i].exact = true
		return 1
	}

	n := 0
	for i, t := range s.tests.list {
		if nameContainsWord(t.Name, pattern) {
			s.data[i].selected = true
			n++
		}
	}
	if n > 0 {
		return n
	}

	for i, t := range s.tests.list {
		if strings.Contains(t.Name, pattern) {
			s.data[i].selected = true
			n++
		}
	}
	return n
}

// applySelection computes the run set from the user patterns. With no
// patterns every test is selected. An unmatched pattern is an error. In
// skip mode the final selection is the complement of the matched set.
func (s *Suite) applySelection(patterns []string, skip bool) error {
	for _, pattern := range patterns {
		if s.selectPattern(pattern) == 0 {
			return &UnknownTestError{Pattern: pattern}
		}
	}

	if len(patterns) == 0 {
		for i := range s.data {
			s.data[i].selected = true
		}
	}

	if skip {
		for i := range s.data {
			s.data[i].selected = !s.data[i].selected
			s.data[i].exact = false
		}
	}
	return nil
}
