// Package output connects an engine's render entry point to an audio device.
package output

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/justyntemme/lidsound/pkg/dsp"
	"github.com/justyntemme/lidsound/pkg/dsp/analysis"
	"github.com/justyntemme/lidsound/pkg/framework/debug"
)

// BytesPerSample is the size of one mono float32 frame.
const BytesPerSample = 4

// Renderer produces mono float32 audio. engine.Engine satisfies it.
type Renderer interface {
	Render(out []float32)
}

// Stream adapts a Renderer to io.Reader, producing little-endian float32
// PCM. Audio backends pull from it on their own goroutine; that goroutine
// becomes the engine's render side.
type Stream struct {
	renderer Renderer
	buf      []float32
	stats    *debug.RenderStats
	meter    *analysis.PeakMeter
}

// StreamOptions configures a Stream. Stats and Meter are optional.
type StreamOptions struct {
	// BlockSize is the largest block passed to Render, in frames.
	BlockSize int
	Stats     *debug.RenderStats
	Meter     *analysis.PeakMeter
}

// NewStream creates a stream pulling from r.
func NewStream(r Renderer, opts StreamOptions) *Stream {
	if opts.BlockSize < dsp.MinBufferSize || opts.BlockSize > dsp.MaxBufferSize {
		opts.BlockSize = dsp.DefaultBufferSize
	}
	return &Stream{
		renderer: r,
		buf:      make([]float32, opts.BlockSize),
		stats:    opts.Stats,
		meter:    opts.Meter,
	}
}

// Read implements io.Reader. It always fills a whole number of frames and
// never returns an error.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / BytesPerSample
	written := 0
	for frames > 0 {
		n := frames
		if n > len(s.buf) {
			n = len(s.buf)
		}
		block := s.buf[:n]

		start := time.Now()
		s.renderer.Render(block)
		if s.stats != nil {
			s.stats.Record(n, time.Since(start))
		}
		if s.meter != nil {
			s.meter.Process(block)
		}

		for _, v := range block {
			binary.LittleEndian.PutUint32(p[written:], math.Float32bits(v))
			written += BytesPerSample
		}
		frames -= n
	}
	return written, nil
}
