// Package main implements the srcutorture CLI tool.
//
// srcutorture hammers a sleepable grace-period domain with concurrent
// readers and updaters and checks the invariants the library promises:
// grace periods drain every pre-existing reader, slot sums never go
// negative, and teardown only succeeds once everything has exited.
//
// Usage:
//
//	srcutorture run -readers 16 -updaters 4 -d 10s
//	srcutorture version [-min 0.1.0]
//
// The tool exists because the interesting failure modes of a grace-period
// primitive are timing-dependent: short unit tests cannot generate the
// reader/updater interleavings a sustained torture run does.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runCommand(os.Args[2:])
	case "version", "--version", "-v":
		versionCommand(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`srcutorture - torture harness for the sleepable grace-period domain

USAGE:
    srcutorture <command> [arguments]

COMMANDS:
    run        Run a torture workload against one domain
    version    Show version information
    help       Show this help message

EXAMPLES:
    # Ten seconds with 16 sleeping readers and 4 updaters
    srcutorture run -readers 16 -updaters 4 -d 10s

    # Long soak with aggressive reader sleep times
    srcutorture run -readers 64 -updaters 8 -d 5m -maxsleep 50ms

    # Check the runtime satisfies a minimum version
    srcutorture version -min 0.1.0

ABOUT:
    Readers repeatedly open a section, optionally sleep inside it, and exit.
    Updaters cycle grace periods as fast as Wait allows. At the end the tool
    verifies that the domain drains and closes cleanly and prints how many
    sections and grace-period batches completed.
`)
}

// runCommand is implemented in run.go
// versionCommand is implemented in version.go
