package sensor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp/velocity"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFrameEncode(t *testing.T) {
	got := FrameForAngle(90).Encode()
	// 9000 = 0x2328
	want := []byte{0xAA, 0x55, 0x03, 0x20, 0x28, 0x23, 0x03 ^ 0x20 ^ 0x28 ^ 0x23}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = % x, want % x", got, want)
	}
}

func TestFrameAngle(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		want   float64
		wantOK bool
	}{
		{"Closed", 0, 0, true},
		{"Right angle", 90, 90, true},
		{"Hundredths", 123.45, 123.45, true},
		{"Wraps", 370, 10, true},
		{"Rounds to full turn", 359.999, 0, true},
		{"Sentinel", velocity.Unavailable, 0, false},
		{"NaN", math.NaN(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FrameForAngle(tt.in).Angle()
			if ok != tt.wantOK {
				t.Fatalf("available = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Angle() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDecoder(t *testing.T) {
	t.Run("Stream", func(t *testing.T) {
		var stream []byte
		stream = append(stream, 0x00, 0xAA, 0x13) // noise and a false start
		stream = FrameForAngle(45).AppendEncode(stream)
		stream = append(stream, 0xAA) // repeated marker before a frame
		stream = FrameForAngle(46.5).AppendEncode(stream)

		var dec Decoder
		var got []float64
		for _, b := range stream {
			if f, ok := dec.Feed(b); ok {
				a, _ := f.Angle()
				got = append(got, a)
			}
		}
		if len(got) != 2 || got[0] != 45 || got[1] != 46.5 {
			t.Errorf("decoded %v, want [45 46.5]", got)
		}
		if dec.Errors() != 0 {
			t.Errorf("Errors() = %d, want 0", dec.Errors())
		}
	})

	t.Run("BadChecksum", func(t *testing.T) {
		frame := FrameForAngle(45).Encode()
		frame[len(frame)-1] ^= 0xFF
		var dec Decoder
		for _, b := range frame {
			if _, ok := dec.Feed(b); ok {
				t.Fatal("corrupt frame accepted")
			}
		}
		if dec.Errors() != 1 {
			t.Errorf("Errors() = %d, want 1", dec.Errors())
		}

		// And it recovers on the next good frame.
		var ok bool
		for _, b := range FrameForAngle(10).Encode() {
			_, ok = dec.Feed(b)
		}
		if !ok {
			t.Error("decoder did not recover")
		}
	})

	t.Run("BadLength", func(t *testing.T) {
		var dec Decoder
		for _, b := range []byte{0xAA, 0x55, 0x09} {
			dec.Feed(b)
		}
		if dec.Errors() != 1 {
			t.Errorf("Errors() = %d, want 1", dec.Errors())
		}
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSerial(t *testing.T) {
	clock := &fakeClock{now: epoch}
	pr, pw := io.Pipe()
	s := NewSerial(pr, SerialOptions{StaleAfter: 100 * time.Millisecond, Logger: quietLogger(), Now: clock.Now})

	if _, err := s.ReadAngle(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("before any frame: err = %v, want ErrUnavailable", err)
	}

	if _, err := pw.Write(FrameForAngle(72.5).Encode()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		a, err := s.ReadAngle()
		return err == nil && a == 72.5
	})

	clock.Advance(150 * time.Millisecond)
	if _, err := s.ReadAngle(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("stale reading: err = %v, want ErrUnavailable", err)
	}

	if _, err := pw.Write(FrameForAngle(-1).Encode()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		clock.Advance(0)
		_, err := s.ReadAngle()
		return errors.Is(err, ErrUnavailable)
	})

	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if _, err := s.ReadAngle(); !errors.Is(err, ErrClosed) {
		t.Errorf("after Close: err = %v, want ErrClosed", err)
	}
}

func TestSim(t *testing.T) {
	clock := &fakeClock{now: epoch}
	s := NewSim(SimOptions{Min: 0, Max: 100, Period: 10 * time.Second, Now: clock.Now})

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{time.Second, 0},        // resting closed
		{3 * time.Second, 50},   // halfway open
		{5 * time.Second, 100},  // fully open
		{6 * time.Second, 100},  // resting open
		{8 * time.Second, 50},   // halfway closed
		{10 * time.Second, 0},   // back to start
		{13 * time.Second, 50},  // second cycle
	}
	for _, tt := range tests {
		if got := s.AngleAt(tt.elapsed); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AngleAt(%v) = %f, want %f", tt.elapsed, got, tt.want)
		}
	}

	clock.Advance(3 * time.Second)
	if a, err := s.ReadAngle(); err != nil || math.Abs(a-50) > 1e-9 {
		t.Errorf("ReadAngle() = %f, %v; want 50", a, err)
	}

	_ = s.Close()
	if _, err := s.ReadAngle(); !errors.Is(err, ErrClosed) {
		t.Errorf("after Close: err = %v, want ErrClosed", err)
	}
}

func TestSimDrops(t *testing.T) {
	s := NewSim(SimOptions{DropEvery: 3})
	var drops int
	for i := 0; i < 9; i++ {
		if _, err := s.ReadAngle(); errors.Is(err, ErrUnavailable) {
			drops++
		}
	}
	if drops != 3 {
		t.Errorf("drops = %d, want 3", drops)
	}
}

type scriptedSource struct {
	angles []float64
	errs   []error
	i      int
}

func (s *scriptedSource) ReadAngle() (float64, error) {
	if s.i >= len(s.angles) {
		return 0, ErrClosed
	}
	a, err := s.angles[s.i], s.errs[s.i]
	s.i++
	return a, err
}

func (s *scriptedSource) Close() error { return nil }

type recorder struct {
	mu     sync.Mutex
	angles []float64
}

func (r *recorder) UpdateWithAngle(angle float64, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.angles = append(r.angles, angle)
}

func (r *recorder) snapshot() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.angles...)
}

func TestPollerForwardsReadings(t *testing.T) {
	src := &scriptedSource{
		angles: []float64{10, 0, 12, 0},
		errs:   []error{nil, ErrUnavailable, nil, errors.New("bus error")},
	}
	rec := &recorder{}
	p := NewPoller(src, rec, PollerOptions{Logger: quietLogger()})

	for i := 0; i < 4; i++ {
		p.Poll()
	}
	got := rec.snapshot()
	want := []float64{10, velocity.Unavailable, 12, velocity.Unavailable}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("update %d = %f, want %f", i, got[i], want[i])
		}
	}
	if p.Angle() != velocity.Unavailable {
		t.Errorf("Angle() = %f, want unavailable", p.Angle())
	}
}

func TestPollerRun(t *testing.T) {
	t.Run("Cancel", func(t *testing.T) {
		rec := &recorder{}
		p := NewPoller(NewSim(SimOptions{}), rec, PollerOptions{Interval: time.Millisecond, Logger: quietLogger()})

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- p.Run(ctx) }()

		waitFor(t, func() bool { return len(rec.snapshot()) >= 5 })
		cancel()

		if err := <-errc; !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	})

	t.Run("SourceClosed", func(t *testing.T) {
		src := &scriptedSource{angles: []float64{1, 2}, errs: []error{nil, nil}}
		p := NewPoller(src, &recorder{}, PollerOptions{Interval: time.Millisecond, Logger: quietLogger()})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.Run(ctx); !errors.Is(err, ErrClosed) {
			t.Errorf("Run() = %v, want ErrClosed", err)
		}
	})
}
