package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/justyntemme/lidsound/pkg/output"
)

// version is overridden at link time with -ldflags "-X ...commands.version=v1.2.3".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if info, ok := debug.ReadBuildInfo(); ok && v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
		backend := "oto"
		if output.Headless() {
			backend = "headless"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "lidsound %s (%s, %s/%s, audio: %s)\n",
			v, runtime.Version(), runtime.GOOS, runtime.GOARCH, backend)
	},
}
