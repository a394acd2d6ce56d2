package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/justyntemme/lidsound/internal/config"
)

var (
	// Global flags
	cfgFile  string
	debugLog bool

	// Set by the root command before any subcommand runs.
	cfg    *config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "lidsound",
	Short: "Turn laptop lid motion into sound",
	Long: `lidsound reads the hinge angle of a laptop lid and plays it.

Two engines are available:
  - creak:    a looped creak, loud for slow motion and silent for fast motion
  - theremin: a sine tone whose pitch follows the angle

Settings are read from the user config directory (lidsound/config.yaml)
when present. Command flags override the file.

Examples:
  # Play the creak engine with a simulated lid
  lidsound play

  # Play the theremin from a sensor on a serial port
  lidsound play --engine theremin --source serial --device /dev/ttyUSB0

  # Inspect the velocity mapping
  lidsound curves --engine creak
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		level, _ := cfg.LogLevel()
		initLogger(level, debugLog)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/lidsound/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "debug logging with source locations")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(curvesCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(versionCmd)
}

// initLogger installs a text handler on stderr as the default logger.
// --debug forces debug level regardless of the configured one.
func initLogger(level slog.Level, debug bool) {
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}
