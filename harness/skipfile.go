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
	"os"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var plog = capnslog.NewPackageLogger("github.com/cutekit/cute", "harness")

// Date format for snooze dates in a skip file (YYYY-MM-DD).
const snoozeFormat = "2006-01-02"

// SkipEntry is one record of a skip file. The pattern goes through the
// same tiered matching as command line selection. Tracker is a free-form
// reference to wherever the skip is tracked, typically an issue URL.
// A snoozed entry stops skipping once the date has passed. The optional
// version bounds restrict the entry to a range of suite versions.
type SkipEntry struct {
	Pattern    string `yaml:"pattern"`
	Tracker    string `yaml:"tracker"`
	SnoozeDate string `yaml:"snooze"`
	MinVersion string `yaml:"min_version"`
	EndVersion string `yaml:"end_version"`
}

// applySkipFile marks the selected tests matched by active skip file
// entries. Entries that match nothing are fine; skip files are shared
// between suites with different test sets.
func (s *Suite) applySkipFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "harness: reading skip file")
	}

	var entries []SkipEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return errors.Wrapf(err, "harness: parsing skip file %s", path)
	}

	var current *semver.Version
	if s.opts.SuiteVersion != "" {
		if current, err = semver.NewVersion(s.opts.SuiteVersion); err != nil {
			return errors.Wrapf(err, "harness: bad suite version %q", s.opts.SuiteVersion)
		}
	}

	today := time.Now()
	for _, entry := range entries {
		if entry.Pattern == "" {
			return errors.Errorf("harness: skip file %s has an entry without a pattern", path)
		}

		active, err := entry.activeOn(current, today)
		if err != nil {
			return errors.Wrapf(err, "harness: skip file %s entry %q", path, entry.Pattern)
		}
		if !active {
			continue
		}

		why := "skip file entry " + entry.Pattern
		if entry.Tracker != "" {
			why += ", tracked at " + entry.Tracker
		}
		for _, i := range s.matchPattern(entry.Pattern) {
			if s.data[i].selected && s.data[i].skipWhy == "" {
				plog.Noticef("Skipping test %s (%s)", s.tests.list[i].Name, why)
				s.data[i].skipWhy = why
			}
		}
	}
	return nil
}

// activeOn decides whether the entry applies to the given suite version
// and date. A nil version only deactivates entries with version bounds.
func (e *SkipEntry) activeOn(current *semver.Version, today time.Time) (bool, error) {
	if e.MinVersion != "" || e.EndVersion != "" {
		if current == nil {
			return false, nil
		}
		if e.MinVersion != "" {
			min, err := semver.NewVersion(e.MinVersion)
			if err != nil {
				return false, err
			}
			if current.LessThan(*min) {
				return false, nil
			}
		}
		if e.EndVersion != "" {
			end, err := semver.NewVersion(e.EndVersion)
			if err != nil {
				return false, err
			}
			if !current.LessThan(*end) {
				return false, nil
			}
		}
	}

	if e.SnoozeDate != "" {
		snooze, err := time.Parse(snoozeFormat, e.SnoozeDate)
		if err != nil {
			return false, err
		}
		if today.After(snooze) {
			plog.Noticef("Snooze for test pattern %q expired on %s", e.Pattern, snooze.Format("Jan 02 2006"))
			return false, nil
		}
		plog.Noticef("Snoozing test pattern %q until %s", e.Pattern, snooze.Format("Jan 02 2006"))
	}
	return true, nil
}

// matchPattern returns the indexes matched by pattern under the tiered
// rules, without touching the selection state.
func (s *Suite) matchPattern(pattern string) []int {
	if i := s.tests.Lookup(pattern); i >= 0 {
		return []int{i}
	}

	var hits []int
	for i, t := range s.tests.list {
		if nameContainsWord(t.Name, pattern) {
			hits = append(hits, i)
		}
	}
	if len(hits) > 0 {
		return hits
	}

	for i, t := range s.tests.list {
		if strings.Contains(t.Name, pattern) {
			hits = append(hits, i)
		}
	}
	return hits
}
