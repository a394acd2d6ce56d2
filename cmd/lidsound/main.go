// Package main provides the lidsound CLI.
//
// Usage:
//
//	lidsound [flags] <command> [args]
//
// Commands:
//
//	play     - Play the creak or theremin engine from the lid sensor
//	curves   - Print the velocity and angle mapping tables
//	ports    - List serial ports a sensor may be attached to
//	version  - Print build information
//
// Configuration:
//
//	Settings are read from os.UserConfigDir()/lidsound/config.yaml when
//	present, or from the file named by --config.
package main

import (
	"fmt"
	"os"

	"github.com/justyntemme/lidsound/cmd/lidsound/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
