package loop

import (
	"math"

	"github.com/justyntemme/lidsound/pkg/dsp/interpolation"
)

// Player reads a loop at a variable rate with Hermite interpolation. A rate
// of 1 plays the loop at its recorded speed and pitch.
type Player struct {
	buffer []float32
	pos    float64
}

// NewPlayer creates a player over buffer. The buffer is not copied and must
// not be modified while playing.
func NewPlayer(buffer []float32) *Player {
	return &Player{buffer: buffer}
}

// Len returns the loop length in frames.
func (p *Player) Len() int {
	return len(p.buffer)
}

// Position returns the read position in frames, in [0, Len).
func (p *Player) Position() float64 {
	return p.pos
}

// Reset rewinds to the start of the loop.
func (p *Player) Reset() {
	p.pos = 0
}

// Next returns the sample at the read position and advances by rate frames.
// Negative or non-finite rates do not move the read position.
func (p *Player) Next(rate float64) float32 {
	s := interpolation.LoopHermite(p.buffer, p.pos)
	p.advance(rate)
	return s
}

// Process fills out, gliding the rate linearly from startRate to endRate
// across the block. No allocations.
func (p *Player) Process(out []float32, startRate, endRate float64) {
	if len(out) == 0 {
		return
	}
	step := (endRate - startRate) / float64(len(out))
	rate := startRate
	for i := range out {
		rate += step
		out[i] = p.Next(rate)
	}
}

func (p *Player) advance(rate float64) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return
	}
	n := float64(len(p.buffer))
	if n == 0 {
		return
	}
	p.pos += rate
	if p.pos >= n {
		p.pos -= n
		if p.pos >= n {
			p.pos = math.Mod(p.pos, n)
		}
	}
}
