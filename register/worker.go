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

package register

import (
	"github.com/cutekit/cute/harness"
	"github.com/cutekit/cute/system/exec"
)

var (
	setup    func()
	teardown func()
)

// OnSetup registers fn to run before every test, in both the parent and
// the isolated child process. Only one setup hook can be active.
func OnSetup(fn func()) { setup = fn }

// OnTeardown registers fn to run after every test, even when the test
// aborted.
func OnTeardown(fn func()) { teardown = fn }

// Setup returns the active setup hook, or nil.
func Setup() func() { return setup }

// Teardown returns the active teardown hook, or nil.
func Teardown() func() { return teardown }

// WorkerEntrypoint runs a single registered test when this binary is
// re-invoked as an isolation child.
var WorkerEntrypoint = exec.NewEntrypoint("worker", func(args []string) int {
	return harness.RunWorker(&tests, harness.Options{Init: setup, Fini: teardown}, args)
})
