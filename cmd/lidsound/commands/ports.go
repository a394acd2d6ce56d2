package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/lidsound/pkg/sensor"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := sensor.Ports()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ports) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("no serial ports found"))
			return nil
		}
		for _, p := range ports {
			fmt.Fprintln(out, p)
		}
		return nil
	},
}
