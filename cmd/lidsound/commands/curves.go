package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/curve"
	"github.com/justyntemme/lidsound/pkg/dsp/gain"
)

var curvesEngine string

// Sample points for the tables, in degrees/second and degrees.
var (
	curveVelocities = []float64{0, 0.5, 1, 2, 5, 10, 20, 50, 100, 200}
	curveAngles     = []float64{0, 30, 60, 90, 120, 150, 180, 270, 359}
)

var curvesCmd = &cobra.Command{
	Use:   "curves",
	Short: "Print the parameter mapping tables",
	Long: `Curves prints how the configured engine maps lid motion to sound.

For creak: velocity to gain and playback rate.
For theremin: angle to frequency, and velocity to volume.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := cfg.EngineType()
		if cmd.Flags().Changed("engine") {
			kind = dsp.ParseEngineType(curvesEngine)
		}

		out := cmd.OutOrStdout()
		switch kind {
		case dsp.EngineTypeCreak:
			printCreakCurve(out, cfg.CreakOptions(logger).Curve)
		case dsp.EngineTypeTheremin:
			printThereminCurve(out, cfg.ThereminOptions(logger).Curve)
		default:
			return fmt.Errorf("unknown engine %q (want creak or theremin)", curvesEngine)
		}
		return nil
	},
}

func init() {
	curvesCmd.Flags().StringVarP(&curvesEngine, "engine", "e", "", "engine: creak or theremin")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle.Align(lipgloss.Right)
		})
}

func printCreakCurve(w io.Writer, c curve.Creak) {
	c = c.Normalize()
	t := newTable("velocity °/s", "gain", "gain dB", "rate")
	for _, v := range curveVelocities {
		target := c.Target(v)
		t.Row(
			fmt.Sprintf("%g", v),
			fmt.Sprintf("%.3f", target.Gain),
			fmt.Sprintf("%.1f", gain.LinearToDb(target.Gain)),
			fmt.Sprintf("%.3f", target.Rate),
		)
	}
	fmt.Fprintln(w, titleStyle.Render("creak"))
	fmt.Fprintln(w, t)
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"idle below %g°/s, loudest at %g°/s, silent from %g°/s",
		c.Idle, c.Peak, c.Silent)))
}

func printThereminCurve(w io.Writer, c curve.Theremin) {
	c = c.Normalize()
	freq := newTable("angle °", "frequency Hz")
	for _, a := range curveAngles {
		freq.Row(fmt.Sprintf("%g", a), fmt.Sprintf("%.1f", c.Frequency(a)))
	}
	vol := newTable("velocity °/s", "volume")
	for _, v := range curveVelocities {
		vol.Row(fmt.Sprintf("%g", v), fmt.Sprintf("%.3f", c.Volume(v)))
	}

	fmt.Fprintln(w, titleStyle.Render("theremin"), mutedStyle.Render(c.Scale.String()+" scale"))
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, freq.String(), "  ", vol.String()))
}
