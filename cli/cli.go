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

// Package cli is the command surface of an embedded test program: main
// hands the command built by New to Execute and the harness does the
// rest.
package cli

import (
	"fmt"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/cutekit/cute/harness"
	"github.com/cutekit/cute/system/exec"
	"github.com/cutekit/cute/version"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number and exit.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("cute/%s version %s\n",
				cmd.Root().Name(), version.Version)
		},
	}

	logDebug bool
	logLevel = capnslog.NOTICE

	plog = capnslog.NewPackageLogger("github.com/cutekit/cute", "cli")
)

// optsEnv holds extra shell-quoted arguments prepended to argv, so CI
// setups can force e.g. --tap or --color=never without touching the
// invocation.
const optsEnv = "CUTE_OPTS"

// Execute sets up common features that all test programs should share and
// then executes the command. It does not return; the process exit code is
// 0 when every run test passed, 1 when at least one failed and 2 for
// configuration or usage problems.
func Execute(main *cobra.Command) {
	// If we were invoked via a multicall entrypoint run it instead.
	exec.MaybeExec()

	main.AddCommand(versionCmd)

	main.PersistentFlags().Var(&logLevel, "log-level",
		"Set global log level.")
	main.PersistentFlags().BoolVarP(&logDebug, "debug", "d", false,
		"Alias for --log-level=DEBUG")

	if env := os.Getenv(optsEnv); env != "" {
		extra, err := shellquote.Split(env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", optsEnv, err)
			os.Exit(2)
		}
		main.SetArgs(append(extra, os.Args[1:]...))
	}

	WrapPreRun(main, func(cmd *cobra.Command, args []string) error {
		startLogging(cmd)
		return nil
	})

	err := main.Execute()
	if err == nil {
		os.Exit(0)
	}
	if err == harness.SuiteFailed {
		// The summary already told the story.
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, err)
	if _, ok := err.(*harness.UnknownTestError); ok {
		fmt.Fprintf(os.Stderr, "Try '%s --list' for list of unit tests.\n", main.Name())
	}
	os.Exit(2)
}

func startLogging(cmd *cobra.Command) {
	if logDebug {
		logLevel = capnslog.DEBUG
	}

	capnslog.SetFormatter(capnslog.NewStringFormatter(cmd.OutOrStderr()))
	capnslog.SetGlobalLogLevel(logLevel)

	plog.Infof("Started logging at level %s", logLevel)
}

type PreRunEFunc func(cmd *cobra.Command, args []string) error

func WrapPreRun(root *cobra.Command, f PreRunEFunc) {
	preRun, preRunE := root.PersistentPreRun, root.PersistentPreRunE
	root.PersistentPreRun, root.PersistentPreRunE = nil, nil

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := f(cmd, args); err != nil {
			return err
		}
		// Always inject startLogging to commands that are wrapping the preRun
		// due to github.com/spf13/cobra/issues/253 where parent command's
		// preRun & preRunE functions are overwritten by children
		startLogging(cmd)
		if preRun != nil {
			preRun(cmd, args)
		} else if preRunE != nil {
			return preRunE(cmd, args)
		}
		return nil
	}
}
