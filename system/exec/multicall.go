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

// inspired by github.com/docker/docker/pkg/reexec

package exec

import (
	"fmt"
	"os"
	"strings"
	"syscall"
)

// prefix of first argument if it is defining an entrypoint to be called.
const entryArgPrefix = "_CUTE_ENTRYPOINT_"

var exePath string

func init() {
	// save the program path
	var err error
	exePath, err = os.Readlink("/proc/self/exe")
	if err != nil {
		panic("cannot get current executable")
	}
}

// entrypointFn runs an alternate main and returns the process exit code.
// The exit code is the channel back to the parent, so entrypoints report
// outcomes through it rather than through an error value.
type entrypointFn func(args []string) int

var entrypoints = make(map[string]entrypointFn)

// Entrypoint provides the access to a multicall command.
type Entrypoint string

// NewEntrypoint adds a new multicall command. name is the command name
// and fn is the function that will be executed for the specified
// command. It returns the related Entrypoint. Packages adding new
// multicall commands should call NewEntrypoint in their init function.
func NewEntrypoint(name string, fn entrypointFn) Entrypoint {
	if _, ok := entrypoints[name]; ok {
		panic(fmt.Errorf("command with name %q already exists", name))
	}
	entrypoints[name] = fn
	return Entrypoint(name)
}

// MaybeExec should be called at the start of the program. If argv[1] names
// a registered entrypoint, the related function is executed and the process
// exits with the code it returns. Otherwise MaybeExec returns and the
// normal main continues.
func MaybeExec() {
	if len(os.Args) < 2 || !strings.HasPrefix(os.Args[1], entryArgPrefix) {
		return
	}
	name := os.Args[1][len(entryArgPrefix):]
	fn, ok := entrypoints[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown entrypoint %q\n", name)
		os.Exit(2)
	}
	os.Exit(fn(os.Args[2:]))
}

// Command will prepare the *ExecCmd for the given entrypoint, configured with
// the provided args.
func (e Entrypoint) Command(args ...string) *ExecCmd {
	args = append([]string{entryArgPrefix + string(e)}, args...)
	cmd := Command(exePath, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
	return cmd
}
