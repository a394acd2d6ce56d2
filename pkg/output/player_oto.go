//go:build !headless

package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a Stream on the default audio device through oto. Only one
// Player may exist per process.
type Player struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mutex   sync.Mutex // control operations only; Read runs on oto's goroutine
}

// NewPlayer opens the audio device for mono float32 at sampleRate. buffer
// is the device buffer duration; zero lets oto choose.
func NewPlayer(sampleRate int, buffer time.Duration, src io.Reader) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(src),
	}, nil
}

// Start begins pulling audio. Idempotent.
func (p *Player) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

// Stop pauses playback. Idempotent.
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.started && p.player != nil {
		p.player.Pause()
		p.started = false
	}
}

// Close releases the device player.
func (p *Player) Close() error {
	p.Stop()
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	if err != nil {
		return fmt.Errorf("close audio player: %w", err)
	}
	return nil
}

// Headless reports whether this build has no audio device.
func Headless() bool {
	return false
}
