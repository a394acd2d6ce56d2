// Package config loads the lidsound settings file.
//
// The file is optional and lives under os.UserConfigDir():
//
//	~/Library/Application Support/lidsound/config.yaml   (macOS)
//	~/.config/lidsound/config.yaml                       (Linux)
//
// Every field has a default, so a file only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/curve"
	"github.com/justyntemme/lidsound/pkg/dsp/gain"
	"github.com/justyntemme/lidsound/pkg/dsp/loop"
	"github.com/justyntemme/lidsound/pkg/dsp/velocity"
	"github.com/justyntemme/lidsound/pkg/framework/engine"
	"github.com/justyntemme/lidsound/pkg/sensor"
)

const (
	appDir   = "lidsound"
	fileName = "config.yaml"
)

// Sensor source names.
const (
	SourceSim    = "sim"
	SourceSerial = "serial"
)

// ErrInvalid reports a setting outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// Config is the complete settings file.
type Config struct {
	Audio    Audio           `yaml:"audio"`
	Engine   string          `yaml:"engine"`
	Sensor   Sensor          `yaml:"sensor"`
	Velocity velocity.Config `yaml:"velocity"`
	Creak    Creak           `yaml:"creak"`
	Theremin Theremin        `yaml:"theremin"`
	Log      Log             `yaml:"log"`
}

// Audio configures the output device.
type Audio struct {
	SampleRate int `yaml:"sample_rate"`
	// BufferSize is the render block size in frames.
	BufferSize int `yaml:"buffer_size"`
	// DeviceBuffer is the device latency; zero lets the backend choose.
	DeviceBuffer time.Duration `yaml:"device_buffer"`
	MasterDB     float64       `yaml:"master_db"`
}

// Sensor configures where lid angles come from.
type Sensor struct {
	Source       string        `yaml:"source"`
	Device       string        `yaml:"device"`
	Baud         int           `yaml:"baud"`
	PollInterval time.Duration `yaml:"poll_interval"`
	StaleAfter   time.Duration `yaml:"stale_after"`
	SimPeriod    time.Duration `yaml:"sim_period"`
	SimMin       float64       `yaml:"sim_min"`
	SimMax       float64       `yaml:"sim_max"`
}

// Creak configures the creak engine.
type Creak struct {
	curve.Creak `yaml:",inline"`
	GainTime    time.Duration    `yaml:"gain_time"`
	RateTime    time.Duration    `yaml:"rate_time"`
	Loop        loop.CreakConfig `yaml:"loop"`
}

// Theremin configures the theremin engine.
type Theremin struct {
	curve.Theremin `yaml:",inline"`
	Scale          string        `yaml:"scale"`
	FrequencyTime  time.Duration `yaml:"frequency_time"`
	VolumeTime     time.Duration `yaml:"volume_time"`
	VibratoRate    float64       `yaml:"vibrato_rate"`
	VibratoDepth   float64       `yaml:"vibrato_depth"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Default returns the built-in settings.
func Default() *Config {
	theremin := curve.DefaultTheremin()
	return &Config{
		Audio: Audio{
			SampleRate: int(dsp.SampleRate48k),
			BufferSize: dsp.DefaultBufferSize,
		},
		Engine: dsp.EngineTypeCreak.String(),
		Sensor: Sensor{
			Source:       SourceSim,
			Baud:         sensor.DefaultBaud,
			PollInterval: sensor.DefaultPollInterval,
			StaleAfter:   sensor.DefaultStaleAfter,
			SimPeriod:    sensor.DefaultSimPeriod,
			SimMin:       sensor.DefaultSimMin,
			SimMax:       sensor.DefaultSimMax,
		},
		Velocity: velocity.DefaultConfig(),
		Creak: Creak{
			Creak:    curve.DefaultCreak(),
			GainTime: seconds(engine.DefaultCreakGainTime),
			RateTime: seconds(engine.DefaultCreakRateTime),
			Loop:     loop.DefaultCreakConfig(),
		},
		Theremin: Theremin{
			Theremin:      theremin,
			Scale:         theremin.Scale.String(),
			FrequencyTime: seconds(engine.DefaultThereminFrequencyTime),
			VolumeTime:    seconds(engine.DefaultThereminVolumeTime),
			VibratoRate:   engine.DefaultVibratoRate,
			VibratoDepth:  engine.DefaultVibratoDepth,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the config file location under os.UserConfigDir().
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the file at path over the defaults and validates the result.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected so typos do not pass silently.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...))
}

// Validate rejects settings the engines cannot run with. Values the
// engines clamp on their own, such as curve breakpoints, are left alone.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return invalid("audio.sample_rate", "%d outside 8000..192000", c.Audio.SampleRate)
	}
	if c.Audio.BufferSize < dsp.MinBufferSize || c.Audio.BufferSize > dsp.MaxBufferSize {
		return invalid("audio.buffer_size", "%d outside %d..%d",
			c.Audio.BufferSize, dsp.MinBufferSize, dsp.MaxBufferSize)
	}
	if c.Audio.DeviceBuffer < 0 {
		return invalid("audio.device_buffer", "negative duration %v", c.Audio.DeviceBuffer)
	}
	if c.Audio.MasterDB > 0 {
		return invalid("audio.master_db", "%.1f dB would boost above unity", c.Audio.MasterDB)
	}

	if c.EngineType() == dsp.EngineTypeUnknown {
		return invalid("engine", "unknown engine %q (want creak or theremin)", c.Engine)
	}

	switch c.Sensor.Source {
	case SourceSim:
		if c.Sensor.SimPeriod <= 0 {
			return invalid("sensor.sim_period", "must be positive")
		}
		if c.Sensor.SimMin < 0 || c.Sensor.SimMax <= c.Sensor.SimMin || c.Sensor.SimMax >= dsp.FullTurn {
			return invalid("sensor.sim_min/sim_max", "range %.1f..%.1f", c.Sensor.SimMin, c.Sensor.SimMax)
		}
	case SourceSerial:
		if c.Sensor.Device == "" {
			return invalid("sensor.device", "required for the serial source")
		}
		if c.Sensor.Baud <= 0 {
			return invalid("sensor.baud", "must be positive")
		}
	default:
		return invalid("sensor.source", "unknown source %q (want sim or serial)", c.Sensor.Source)
	}
	if c.Sensor.PollInterval <= 0 {
		return invalid("sensor.poll_interval", "must be positive")
	}
	if c.Sensor.StaleAfter < 0 {
		return invalid("sensor.stale_after", "negative duration %v", c.Sensor.StaleAfter)
	}

	if w := c.Velocity.MedianWindow; w < 1 || w > velocity.MaxMedianWindow {
		return invalid("velocity.median_window", "%d outside 1..%d", w, velocity.MaxMedianWindow)
	}
	if a := c.Velocity.Alpha; !(a > 0 && a <= 1) {
		return invalid("velocity.alpha", "%g outside (0, 1]", a)
	}
	if c.Velocity.DeadZone < 0 {
		return invalid("velocity.dead_zone", "must not be negative")
	}
	if !(c.Velocity.MaxPlausible > 0) {
		return invalid("velocity.max_plausible", "must be positive")
	}

	if c.Creak.MinRate <= 0 || c.Creak.MaxRate < c.Creak.MinRate {
		return invalid("creak.min_rate/max_rate", "range %g..%g", c.Creak.MinRate, c.Creak.MaxRate)
	}
	if c.Creak.GainTime < 0 || c.Creak.RateTime < 0 {
		return invalid("creak.gain_time/rate_time", "negative duration")
	}

	if c.Theremin.MinFreq <= 0 || c.Theremin.MaxFreq <= c.Theremin.MinFreq {
		return invalid("theremin.min_freq/max_freq", "range %g..%g", c.Theremin.MinFreq, c.Theremin.MaxFreq)
	}
	if float64(c.Audio.SampleRate)/2 <= c.Theremin.MaxFreq {
		return invalid("theremin.max_freq", "%g Hz at or above Nyquist", c.Theremin.MaxFreq)
	}
	if _, err := curve.ParseScale(c.Theremin.Scale); err != nil {
		return invalid("theremin.scale", "%v", err)
	}
	if c.Theremin.FrequencyTime < 0 || c.Theremin.VolumeTime < 0 {
		return invalid("theremin.frequency_time/volume_time", "negative duration")
	}
	if c.Theremin.VibratoDepth < 0 || c.Theremin.VibratoDepth > 0.5 {
		return invalid("theremin.vibrato_depth", "%g outside 0..0.5", c.Theremin.VibratoDepth)
	}

	if _, err := c.LogLevel(); err != nil {
		return invalid("log.level", "%v", err)
	}
	return nil
}

// EngineType returns the configured engine variant.
func (c *Config) EngineType() dsp.EngineType {
	return dsp.ParseEngineType(strings.ToLower(c.Engine))
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// EngineOptions returns the settings shared by both engines.
func (c *Config) EngineOptions(logger *slog.Logger) engine.Options {
	return engine.Options{
		SampleRate: float64(c.Audio.SampleRate),
		Velocity:   c.Velocity,
		Level:      gain.DbToLinear(c.Audio.MasterDB),
		Logger:     logger,
	}
}

// CreakOptions returns the creak engine settings.
func (c *Config) CreakOptions(logger *slog.Logger) engine.CreakOptions {
	return engine.CreakOptions{
		Options:  c.EngineOptions(logger),
		Curve:    c.Creak.Creak,
		Loop:     c.Creak.Loop,
		GainTime: c.Creak.GainTime.Seconds(),
		RateTime: c.Creak.RateTime.Seconds(),
	}
}

// ThereminOptions returns the theremin engine settings.
func (c *Config) ThereminOptions(logger *slog.Logger) engine.ThereminOptions {
	tc := c.Theremin.Theremin
	if scale, err := curve.ParseScale(c.Theremin.Scale); err == nil {
		tc.Scale = scale
	}
	return engine.ThereminOptions{
		Options:       c.EngineOptions(logger),
		Curve:         tc,
		FrequencyTime: c.Theremin.FrequencyTime.Seconds(),
		VolumeTime:    c.Theremin.VolumeTime.Seconds(),
		VibratoRate:   c.Theremin.VibratoRate,
		VibratoDepth:  c.Theremin.VibratoDepth,
	}
}

// NewEngine builds the configured engine.
func (c *Config) NewEngine(logger *slog.Logger) engine.Engine {
	if c.EngineType() == dsp.EngineTypeTheremin {
		return engine.NewTheremin(c.ThereminOptions(logger))
	}
	return engine.NewCreak(c.CreakOptions(logger))
}
