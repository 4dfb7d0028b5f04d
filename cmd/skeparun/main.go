// Command skeparun executes Skepa programs: `run` compiles an entry file
// in memory, `run-bc` decodes and executes an already-built .skbc image,
// per spec.md §6.1.
package main

import (
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/skepa-lang/skepa/internal/config"
	"github.com/skepa-lang/skepa/internal/driver"
	"github.com/skepa-lang/skepa/internal/report"
)

func main() {
	cli := olive.NewCLI("skeparun", "skeparun executes Skepa programs", true)

	runCmd := cli.AddSubcommand("run", "compile an entry file in memory and execute it", true)
	runCmd.AddPrimaryArg("entry", "path to the entry .sk file", true)
	runCmd.AddFlag("trace", "t", "emit a per-instruction VM trace to stderr")

	runBCCmd := cli.AddSubcommand("run-bc", "decode and execute a .skbc image", true)
	runBCCmd.AddPrimaryArg("image", "path to a .skbc image", true)
	runBCCmd.AddFlag("trace", "t", "emit a per-instruction VM trace to stderr")

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.DisplayFatal("%s", err.Error())
		os.Exit(2)
	}

	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		report.DisplayFatal("a subcommand is required: run or run-bc")
		os.Exit(2)
	}

	report.Init(report.LogLevelVerbose)

	path, _ := subResult.PrimaryArg()
	cfg, err := config.Load(path)
	if err != nil {
		report.DisplayFatal("%s", err.Error())
		os.Exit(2)
	}
	if v, ok := subResult.Arguments["trace"]; ok {
		cfg.Trace, _ = v.(bool)
	}

	var exitCode int
	var res driver.Result
	switch subcmdName {
	case "run":
		exitCode, res = driver.Run(path, cfg)
	case "run-bc":
		exitCode, res = driver.RunBC(path, cfg)
	}

	if !res.OK {
		os.Exit(res.ExitCode)
	}
	os.Exit(exitCode)
}
