package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitUnexpected  = 1
	ExitInvalidArgs = 2
	ExitCatalog     = 3
	ExitStorage     = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fetch":
		return runFetch(cmdArgs)
	case "plan":
		return runPlan(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: alkisfetch <command> [options]

Commands:
  fetch  Download a range of ALKIS archives from a GeoJSON catalog
  plan   Show what fetch would do without network I/O or writes

Run 'alkisfetch <command> -h' for command-specific help.`)
}
