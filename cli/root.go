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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/cutekit/cute/harness"
	"github.com/cutekit/cute/harness/reporters"
	"github.com/cutekit/cute/register"
)

// SuiteVersion, when set by the embedding program before Execute, enables
// the per-test version bounds and is recorded in reports. It must parse
// as a semantic version.
var SuiteVersion string

var (
	optSkip       bool
	optExec       string
	optNoExec     bool
	optTime       string
	optNoSummary  bool
	optTAP        bool
	optXMLOutput  string
	optJSONOutput string
	optList       bool
	optVerbose    int
	optQuiet      bool
	optColor      string
	optNoColor    bool
	optSkipFile   string
)

// New builds the root command of a test program. Positional arguments are
// selection patterns; with none, the whole suite runs.
func New(name string) *cobra.Command {
	root := &cobra.Command{
		Use:   name + " [options] [test...]",
		Short: "Run the unit tests built into this binary",
		Long: `Run the specified unit tests; or if the option '--skip' is used, run all
tests in the suite but those listed. By default, if no tests are specified
on the command line, all unit tests in the suite are run.`,
		RunE:          runTests,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addSuiteFlags(root.Flags())
	return root
}

func addSuiteFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&optSkip, "skip", "s", false,
		"Execute all unit tests but the listed ones")
	flags.StringVar(&optExec, "exec", "auto",
		"If supported, execute unit tests as child processes (when: auto, always, never)")
	flags.Lookup("exec").NoOptDefVal = "always"
	flags.BoolVarP(&optNoExec, "no-exec", "E", false,
		"Same as --exec=never")
	flags.StringVarP(&optTime, "time", "t", "",
		"Measure test duration (mode: real, cpu)")
	flags.Lookup("time").NoOptDefVal = "real"
	flags.BoolVar(&optNoSummary, "no-summary", false,
		"Suppress printing of test results summary")
	flags.BoolVar(&optTAP, "tap", false,
		"Produce TAP-compliant output (see https://testanything.org/)")
	flags.StringVarP(&optXMLOutput, "xml-output", "x", "",
		"Enable XUnit output to the given file")
	flags.StringVar(&optJSONOutput, "json-output", "",
		"Enable JSON output to the given file")
	flags.BoolVarP(&optList, "list", "l", false,
		"List unit tests in the suite and exit")
	flags.IntVarP(&optVerbose, "verbose", "v", harness.DefaultVerbosity,
		"Set verbose level (0 silent, 1 one line per test, 2 also failed conditions, 3 everything)")
	flags.Lookup("verbose").NoOptDefVal = "3"
	flags.BoolVarP(&optQuiet, "quiet", "q", false,
		"Same as --verbose=0")
	flags.StringVar(&optColor, "color", "auto",
		"Enable colorized output (when: always, never, auto)")
	flags.Lookup("color").NoOptDefVal = "always"
	flags.BoolVar(&optNoColor, "no-color", false,
		"Same as --color=never")
	flags.StringVar(&optSkipFile, "skip-file", "",
		"Skip the tests matched by the given YAML file")
}

func runTests(cmd *cobra.Command, args []string) error {
	tests := register.Tests()

	if optList {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Unit tests:")
		for _, name := range tests.Names() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	}

	verbosity := optVerbose
	if optQuiet {
		verbosity = 0
	}

	colorize, err := resolveColor(optColor)
	if err != nil {
		return err
	}
	if optNoColor {
		colorize = false
	}

	execPolicy := harness.ExecNever
	if !optNoExec {
		if execPolicy, err = harness.ParseExecPolicy(optExec); err != nil {
			return err
		}
	}

	timer := harness.TimerOff
	if cmd.Flags().Changed("time") {
		if timer, err = harness.ParseTimerMode(optTime); err != nil {
			return err
		}
	}

	var reps reporters.Reporters
	if optXMLOutput != "" {
		reps = append(reps, reporters.NewXMLReporter(optXMLOutput, cmd.Root().Name()))
	}
	if optJSONOutput != "" {
		reps = append(reps, reporters.NewJSONReporter(optJSONOutput, cmd.Root().Name(), SuiteVersion))
	}

	suite := harness.NewSuite(harness.Options{
		Patterns:     args,
		Skip:         optSkip,
		Exec:         execPolicy,
		Timer:        timer,
		TAP:          optTAP,
		NoSummary:    optNoSummary,
		Verbosity:    verbosity,
		Colorize:     colorize,
		SuiteVersion: SuiteVersion,
		SkipFile:     optSkipFile,
		Init:         register.Setup(),
		Fini:         register.Teardown(),
		Worker:       register.WorkerEntrypoint,
		Reporters:    reps,
	}, tests)

	return suite.Run()
}

func resolveColor(when string) (bool, error) {
	switch when {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return term.IsTerminal(int(os.Stdout.Fd())), nil
	}
	return false, fmt.Errorf("unrecognized argument %q for option --color", when)
}
