package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/justyntemme/lidsound/internal/config"
	"github.com/justyntemme/lidsound/pkg/dsp/analysis"
	"github.com/justyntemme/lidsound/pkg/dsp/gain"
	"github.com/justyntemme/lidsound/pkg/dsp/velocity"
	"github.com/justyntemme/lidsound/pkg/framework/debug"
	"github.com/justyntemme/lidsound/pkg/framework/engine"
	"github.com/justyntemme/lidsound/pkg/output"
	"github.com/justyntemme/lidsound/pkg/sensor"
)

var (
	playEngine   string
	playSource   string
	playDevice   string
	playBaud     int
	playDuration time.Duration
	playStats    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an engine driven by the lid angle",
	Long: `Play opens the sensor and the audio device and runs until interrupted.

The sim source sweeps the lid open and closed on a fixed cycle, which is
useful without sensor hardware. On a terminal a live status line shows the
angle, velocity and engine parameters; otherwise they are logged once a
second.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playEngine, "engine", "e", "", "engine: creak or theremin")
	playCmd.Flags().StringVarP(&playSource, "source", "s", "", "angle source: sim or serial")
	playCmd.Flags().StringVarP(&playDevice, "device", "d", "", "serial device for the sensor")
	playCmd.Flags().IntVar(&playBaud, "baud", 0, "serial baud rate")
	playCmd.Flags().DurationVar(&playDuration, "duration", 0, "stop after this long (0 runs until interrupted)")
	playCmd.Flags().BoolVar(&playStats, "stats", false, "print render statistics on exit")
}

// applyPlayFlags copies explicitly set flags over the loaded config.
func applyPlayFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("engine") {
		c.Engine = playEngine
	}
	if flags.Changed("source") {
		c.Sensor.Source = playSource
	}
	if flags.Changed("device") {
		c.Sensor.Device = playDevice
		if !flags.Changed("source") {
			c.Sensor.Source = config.SourceSerial
		}
	}
	if flags.Changed("baud") {
		c.Sensor.Baud = playBaud
	}
	return c.Validate()
}

func openSource(c *config.Config) (sensor.Source, error) {
	switch c.Sensor.Source {
	case config.SourceSerial:
		return sensor.OpenSerial(c.Sensor.Device, c.Sensor.Baud, sensor.SerialOptions{
			StaleAfter: c.Sensor.StaleAfter,
			Logger:     logger,
		})
	default:
		return sensor.NewSim(sensor.SimOptions{
			Min:    c.Sensor.SimMin,
			Max:    c.Sensor.SimMax,
			Period: c.Sensor.SimPeriod,
		}), nil
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := applyPlayFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if playDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, playDuration)
		defer cancel()
	}

	eng := cfg.NewEngine(logger)

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	stats := debug.NewRenderStats(eng.SampleRate())
	meter := analysis.NewPeakMeter(eng.SampleRate())
	stream := output.NewStream(eng, output.StreamOptions{
		BlockSize: cfg.Audio.BufferSize,
		Stats:     stats,
		Meter:     meter,
	})
	player, err := output.NewPlayer(cfg.Audio.SampleRate, cfg.Audio.DeviceBuffer, stream)
	if err != nil {
		return err
	}
	defer player.Close()

	poller := sensor.NewPoller(src, eng, sensor.PollerOptions{
		Interval: cfg.Sensor.PollInterval,
		Logger:   logger,
	})

	logger.Info("playing",
		"engine", eng.Type().String(),
		"source", cfg.Sensor.Source,
		"sample_rate", cfg.Audio.SampleRate,
		"buffer_size", cfg.Audio.BufferSize,
		"headless", output.Headless())

	eng.Start()
	player.Start()

	errc := make(chan error, 1)
	go func() { errc <- poller.Run(ctx) }()

	out := cmd.OutOrStdout()
	live := isTerminal(out)
	err = watch(ctx, errc, out, live, poller, eng, meter)

	player.Stop()
	eng.Stop()
	if live {
		fmt.Fprintln(out)
	}
	if playStats {
		fmt.Fprint(out, stats.Snapshot().String())
	}
	logger.Info("stopped", "overruns", stats.Snapshot().Overruns)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// watch reports engine state until the poller exits.
func watch(ctx context.Context, errc <-chan error, out io.Writer, live bool, p *sensor.Poller, eng engine.Engine, meter *analysis.PeakMeter) error {
	interval := time.Second
	if live {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errc:
			return err
		case <-ticker.C:
			if live {
				fmt.Fprint(out, "\r\033[K"+statusLine(p.Angle(), eng, meter))
			} else {
				logStatus(p.Angle(), eng, meter)
			}
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatAngle(angle float64) string {
	if velocity.IsUnavailable(angle) {
		return "--"
	}
	return fmt.Sprintf("%5.1f°", angle)
}

func statusLine(angle float64, eng engine.Engine, meter *analysis.PeakMeter) string {
	parts := []string{
		titleStyle.Render(eng.Type().String()),
		field("angle", formatAngle(angle)),
		field("velocity", fmt.Sprintf("%7.1f°/s", eng.Velocity())),
	}
	switch e := eng.(type) {
	case *engine.Creak:
		parts = append(parts,
			field("gain", fmt.Sprintf("%6.1f dB", gain.LinearToDb(e.Gain()))),
			field("rate", fmt.Sprintf("%.3f", e.Rate())))
	case *engine.Theremin:
		parts = append(parts,
			field("freq", fmt.Sprintf("%6.1f Hz", e.Frequency())),
			field("volume", fmt.Sprintf("%.2f", e.Volume())))
	}
	parts = append(parts, field("out", fmt.Sprintf("%6.1f dB", math.Max(meter.PeakDB(), -99.9))))
	if !eng.IsRunning() {
		parts = append(parts, mutedStyle.Render("stopped"))
	}
	return strings.Join(parts, "  ")
}

func logStatus(angle float64, eng engine.Engine, meter *analysis.PeakMeter) {
	attrs := []any{
		"angle", angle,
		"velocity", eng.Velocity(),
		"peak_db", meter.PeakDB(),
		"hold_db", gain.LinearToDb(meter.Hold()),
		"rms_db", meter.RMSDB(),
	}
	switch e := eng.(type) {
	case *engine.Creak:
		attrs = append(attrs, "gain", e.Gain(), "rate", e.Rate())
	case *engine.Theremin:
		attrs = append(attrs, "frequency", e.Frequency(), "volume", e.Volume())
	}
	logger.Info("status", attrs...)
}
