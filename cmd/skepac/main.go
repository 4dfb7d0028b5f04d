// Command skepac is Skepa's offline compiler front end: check, build, and
// disasm, per spec.md §6.1.
package main

import (
	"fmt"
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/skepa-lang/skepa/internal/driver"
	"github.com/skepa-lang/skepa/internal/report"
)

func main() {
	cli := olive.NewCLI("skepac", "skepac compiles Skepa source to bytecode", true)

	checkCmd := cli.AddSubcommand("check", "parse, resolve, and type-check an entry file", true)
	checkCmd.AddPrimaryArg("entry", "path to the entry .sk file", true)

	buildCmd := cli.AddSubcommand("build", "check then emit a .skbc bytecode image", true)
	buildCmd.AddPrimaryArg("entry", "path to the entry .sk file", true)
	buildCmd.AddStringArg("out", "o", "output .skbc path", true)

	disasmCmd := cli.AddSubcommand("disasm", "print a bytecode image's function table and instructions", true)
	disasmCmd.AddPrimaryArg("input", "path to an entry .sk file or a .skbc image", true)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.DisplayFatal("%s", err.Error())
		os.Exit(2)
	}

	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		report.DisplayFatal("a subcommand is required: check, build, or disasm")
		os.Exit(2)
	}

	report.Init(report.LogLevelVerbose)

	switch subcmdName {
	case "check":
		entry, _ := subResult.PrimaryArg()
		res := driver.Check(entry)
		if res.OK {
			report.DisplaySuccess("ok", entry+" type-checks cleanly")
		}
		os.Exit(res.ExitCode)

	case "build":
		entry, _ := subResult.PrimaryArg()
		out := subResult.Arguments["out"].(string)
		res := driver.Build(entry, out)
		if res.OK {
			report.DisplaySuccess("ok", "wrote "+out)
		}
		os.Exit(res.ExitCode)

	case "disasm":
		input, _ := subResult.PrimaryArg()
		text, res := driver.Disasm(input)
		if res.OK {
			fmt.Print(text)
		}
		os.Exit(res.ExitCode)
	}
}
