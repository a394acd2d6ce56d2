package sensor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/velocity"
	"github.com/justyntemme/lidsound/pkg/framework/param"
)

// DefaultPollInterval matches a 60 Hz display timer.
const DefaultPollInterval = dsp.DefaultPollIntervalMs * time.Millisecond

// Poller reads a Source on a fixed interval and forwards each reading to an
// Updater. It is the engine's single update-side caller.
type Poller struct {
	source   Source
	target   Updater
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	available bool
	angle     param.AtomicFloat
}

// PollerOptions configures a Poller.
type PollerOptions struct {
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewPoller creates a poller from source to target.
func NewPoller(source Source, target Updater, opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &Poller{
		source:    source,
		target:    target,
		interval:  opts.Interval,
		logger:    opts.Logger,
		now:       opts.Now,
		available: true,
	}
	p.angle.Store(velocity.Unavailable)
	return p
}

// Run polls until ctx is done and returns ctx.Err(). A closed source also
// ends the loop, returning ErrClosed.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Poll(); errors.Is(err, ErrClosed) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll performs a single read and update. Unavailable or failed reads are
// forwarded as velocity.Unavailable so the engine can hold its parameters.
func (p *Poller) Poll() error {
	angle, err := p.source.ReadAngle()
	if err != nil {
		angle = velocity.Unavailable
	}
	p.setAvailable(err)
	p.angle.Store(angle)
	p.target.UpdateWithAngle(angle, p.now())
	return err
}

// Angle returns the last angle read, or velocity.Unavailable.
func (p *Poller) Angle() float64 {
	return p.angle.Load()
}

func (p *Poller) setAvailable(err error) {
	ok := err == nil
	if ok == p.available {
		return
	}
	p.available = ok
	switch {
	case ok:
		p.logger.Info("sensor: readings resumed")
	case errors.Is(err, ErrUnavailable):
		p.logger.Warn("sensor: angle unavailable", "err", err)
	default:
		p.logger.Error("sensor: read failed", "err", err)
	}
}
