package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kolkov/srcu/srcu"
)

// versionCommand implements 'srcutorture version'.
//
// With -min it exits nonzero when the linked library version is older than
// the requested minimum, which lets CI scripts gate on a runtime fix.
func versionCommand(args []string) {
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	min := fs.String("min", "", "fail unless the library version is at least this semver")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	info := srcu.GetInfo()
	fmt.Printf("srcutorture version %s (%s, %d units)\n",
		info.Version, info.Algorithm, info.Units)

	if *min != "" && !srcu.AtLeast(*min) {
		fmt.Fprintf(os.Stderr, "Error: library version %s is older than required %s\n",
			info.Version, *min)
		os.Exit(1)
	}
}
