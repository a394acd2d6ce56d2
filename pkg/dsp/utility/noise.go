package utility

import "math/rand"

// NoiseType represents different types of noise.
type NoiseType int

const (
	// WhiteNoise has equal energy at all frequencies
	WhiteNoise NoiseType = iota
	// PinkNoise has equal energy per octave (1/f spectrum)
	PinkNoise
	// BrownNoise has 1/f² spectrum (Brownian noise)
	BrownNoise
)

// NoiseGenerator generates reproducible noise from a fixed seed.
type NoiseGenerator struct {
	noiseType NoiseType

	// Pink noise state (Voss-McCartney algorithm)
	pinkRows       [16]float32
	pinkRunningSum float32
	pinkIndex      int

	brownState float32

	seed int64
	rand *rand.Rand
}

// NewNoiseGenerator creates a noise generator seeded with seed. Two
// generators with the same type and seed produce identical sequences.
func NewNoiseGenerator(noiseType NoiseType, seed int64) *NoiseGenerator {
	n := &NoiseGenerator{noiseType: noiseType, seed: seed}
	n.Reset()
	return n
}

// Next generates the next noise sample in [-1, 1].
func (n *NoiseGenerator) Next() float32 {
	switch n.noiseType {
	case PinkNoise:
		return n.pink()
	case BrownNoise:
		return n.brown()
	default:
		return n.white()
	}
}

// Float returns a uniform value in [0, 1) from the generator's stream.
// Used for jittering event timing alongside the audio noise.
func (n *NoiseGenerator) Float() float64 {
	return n.rand.Float64()
}

// Reset rewinds the generator to the start of its seeded sequence.
func (n *NoiseGenerator) Reset() {
	n.rand = rand.New(rand.NewSource(n.seed))
	n.brownState = 0
	n.pinkIndex = 0
	n.pinkRunningSum = 0
	for i := range n.pinkRows {
		n.pinkRows[i] = n.white()
		n.pinkRunningSum += n.pinkRows[i]
	}
}

func (n *NoiseGenerator) white() float32 {
	return float32(n.rand.Float64()*2.0 - 1.0)
}

func (n *NoiseGenerator) pink() float32 {
	n.pinkIndex = (n.pinkIndex + 1) & 0xffff

	// The row to refresh is the number of trailing zeros of the index.
	if n.pinkIndex != 0 {
		row := 0
		for idx := n.pinkIndex; idx&1 == 0 && row < len(n.pinkRows)-1; idx >>= 1 {
			row++
		}
		n.pinkRunningSum -= n.pinkRows[row]
		n.pinkRows[row] = n.white()
		n.pinkRunningSum += n.pinkRows[row]
	}

	return clampUnit((n.pinkRunningSum + n.white()) / 17.0)
}

func (n *NoiseGenerator) brown() float32 {
	// Leaky integrator keeps the walk from drifting into DC.
	n.brownState = (n.brownState + n.white()*0.0625) * 0.997
	n.brownState = clampUnit(n.brownState)
	return n.brownState
}

func clampUnit(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
