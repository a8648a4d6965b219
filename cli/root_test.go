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

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cutekit/cute/harness"
	"github.com/cutekit/cute/register"
)

func TestListFlag(t *testing.T) {
	register.RegisterTest(&register.Test{Name: "cli-list-demo", Run: func(*harness.T) {}})

	root := New("prog")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--list"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "Unit tests:\n") {
		t.Errorf("missing header in %q", got)
	}
	if !strings.Contains(got, "  cli-list-demo\n") {
		t.Errorf("missing test name in %q", got)
	}
}

func TestOptionalArgFlags(t *testing.T) {
	root := New("prog")
	for flag, noOptDef := range map[string]string{
		"exec":    "always",
		"time":    "real",
		"verbose": "3",
		"color":   "always",
	} {
		f := root.Flags().Lookup(flag)
		if f == nil {
			t.Fatalf("flag --%s missing", flag)
		}
		if f.NoOptDefVal != noOptDef {
			t.Errorf("--%s bare value %q, want %q", flag, f.NoOptDefVal, noOptDef)
		}
	}
}

func TestResolveColor(t *testing.T) {
	if on, err := resolveColor("always"); err != nil || !on {
		t.Error("--color=always must force color on")
	}
	if on, err := resolveColor("never"); err != nil || on {
		t.Error("--color=never must force color off")
	}
	if _, err := resolveColor("auto"); err != nil {
		t.Error("--color=auto must resolve without error")
	}
	if _, err := resolveColor("rainbow"); err == nil {
		t.Error("bad --color argument must be rejected")
	}
}

func TestBadFlagArguments(t *testing.T) {
	for _, args := range [][]string{
		{"--exec=sometimes"},
		{"--time=sundial"},
		{"--color=rainbow"},
	} {
		root := New("prog")
		root.SetOut(new(bytes.Buffer))
		root.SetErr(new(bytes.Buffer))
		root.SetArgs(args)
		if err := root.Execute(); err == nil {
			t.Errorf("args %v must fail", args)
		}
	}
}
