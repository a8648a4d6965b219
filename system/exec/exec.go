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

// Package exec runs isolated test children: a thin wrapper over os/exec
// plus the multicall plumbing that re-invokes the current binary.
package exec

import (
	"context"
	"os/exec"
	"sync"
	"syscall"
)

// ExecCmd is an exec.Cmd that can be waited on more than once and reaped
// with Kill.
type ExecCmd struct {
	*exec.Cmd
	cancel context.CancelFunc
	wait   sync.Once
}

func Command(name string, arg ...string) *ExecCmd {
	return CommandContext(context.Background(), name, arg...)
}

func CommandContext(ctx context.Context, name string, arg ...string) *ExecCmd {
	ctx, cancel := context.WithCancel(ctx)
	return &ExecCmd{
		Cmd:    exec.CommandContext(ctx, name, arg...),
		cancel: cancel,
	}
}

func (cmd *ExecCmd) Wait() error {
	var err error
	cmd.wait.Do(func() {
		err = cmd.Cmd.Wait()
	})
	return err
}

// Kill terminates the child and reaps it. Safe even if already dead.
func (cmd *ExecCmd) Kill() error {
	cmd.cancel()
	err := cmd.Wait()
	if err == nil {
		return nil
	}

	if eerr, ok := err.(*exec.ExitError); ok {
		status := eerr.Sys().(syscall.WaitStatus)
		if status.Signal() == syscall.SIGKILL {
			return nil
		}
	}
	return err
}

// Signaled reports whether the child was killed by a signal rather than
// exiting on its own. Only meaningful after Wait.
func (cmd *ExecCmd) Signaled() bool {
	if cmd.ProcessState == nil {
		return false
	}
	status := cmd.ProcessState.Sys().(syscall.WaitStatus)
	return status.Signaled()
}

// TermSignal returns the signal that killed the child, when Signaled
// reports true.
func (cmd *ExecCmd) TermSignal() syscall.Signal {
	status := cmd.ProcessState.Sys().(syscall.WaitStatus)
	return status.Signal()
}
