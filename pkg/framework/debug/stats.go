// Package debug provides render-path diagnostics.
package debug

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// RenderStats collects timing statistics for audio render callbacks.
// Record is lock-free and allocation-free so it can run on the render
// goroutine; Snapshot may be called from any goroutine.
type RenderStats struct {
	sampleRate float64

	callbacks  atomic.Uint64
	frames     atomic.Uint64
	totalNanos atomic.Int64
	maxNanos   atomic.Int64
	lastNanos  atomic.Int64
	overruns   atomic.Uint64
}

// Snapshot is a point-in-time copy of RenderStats.
type Snapshot struct {
	Callbacks uint64
	Frames    uint64
	Average   time.Duration
	Max       time.Duration
	Last      time.Duration
	// Overruns counts callbacks that took longer than the audio they
	// produced.
	Overruns uint64
	// CPULoad is the mean render time as a percentage of the audio time.
	CPULoad float64
}

// NewRenderStats creates statistics for a render path at sampleRate.
func NewRenderStats(sampleRate float64) *RenderStats {
	return &RenderStats{sampleRate: sampleRate}
}

// Record adds one render callback that produced frames samples in elapsed.
func (s *RenderStats) Record(frames int, elapsed time.Duration) {
	ns := int64(elapsed)
	s.callbacks.Add(1)
	s.frames.Add(uint64(frames))
	s.totalNanos.Add(ns)
	s.lastNanos.Store(ns)

	for {
		cur := s.maxNanos.Load()
		if ns <= cur || s.maxNanos.CompareAndSwap(cur, ns) {
			break
		}
	}

	if s.sampleRate > 0 && elapsed > s.budget(frames) {
		s.overruns.Add(1)
	}
}

// Snapshot returns the current statistics.
func (s *RenderStats) Snapshot() Snapshot {
	snap := Snapshot{
		Callbacks: s.callbacks.Load(),
		Frames:    s.frames.Load(),
		Max:       time.Duration(s.maxNanos.Load()),
		Last:      time.Duration(s.lastNanos.Load()),
		Overruns:  s.overruns.Load(),
	}
	total := time.Duration(s.totalNanos.Load())
	if snap.Callbacks > 0 {
		snap.Average = total / time.Duration(snap.Callbacks)
	}
	if s.sampleRate > 0 && snap.Frames > 0 {
		audio := time.Duration(float64(snap.Frames) / s.sampleRate * float64(time.Second))
		snap.CPULoad = float64(total) / float64(audio) * 100.0
	}
	return snap
}

// Reset clears all counters.
func (s *RenderStats) Reset() {
	s.callbacks.Store(0)
	s.frames.Store(0)
	s.totalNanos.Store(0)
	s.maxNanos.Store(0)
	s.lastNanos.Store(0)
	s.overruns.Store(0)
}

func (s *RenderStats) budget(frames int) time.Duration {
	return time.Duration(float64(frames) / s.sampleRate * float64(time.Second))
}

// String formats the snapshot as a short report.
func (sn Snapshot) String() string {
	var b strings.Builder
	b.WriteString("Render Stats:\n")
	fmt.Fprintf(&b, "  Callbacks: %d\n", sn.Callbacks)
	fmt.Fprintf(&b, "  Frames:    %d\n", sn.Frames)
	fmt.Fprintf(&b, "  Average:   %v\n", sn.Average)
	fmt.Fprintf(&b, "  Max:       %v\n", sn.Max)
	fmt.Fprintf(&b, "  Last:      %v\n", sn.Last)
	fmt.Fprintf(&b, "  Overruns:  %d\n", sn.Overruns)
	fmt.Fprintf(&b, "  CPU Load:  %.2f%%\n", sn.CPULoad)
	return b.String()
}
