//go:build headless

package output

import (
	"io"
	"sync"
	"time"
)

// Player pulls a Stream in real time without an audio device, so the
// render path runs exactly as it would against hardware.
type Player struct {
	src      io.Reader
	interval time.Duration
	buf      []byte

	mutex   sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewPlayer creates a device-less player. buffer is the pull interval;
// zero uses 10ms.
func NewPlayer(sampleRate int, buffer time.Duration, src io.Reader) (*Player, error) {
	if buffer <= 0 {
		buffer = 10 * time.Millisecond
	}
	frames := int(buffer.Seconds() * float64(sampleRate))
	if frames < 1 {
		frames = 1
	}
	return &Player{
		src:      src,
		interval: buffer,
		buf:      make([]byte, frames*BytesPerSample),
	}, nil
}

// Start begins pulling audio. Idempotent.
func (p *Player) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.started {
		return
	}
	p.started = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.pull(p.stop, p.done)
}

// Stop pauses playback. Idempotent.
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started {
		return
	}
	close(p.stop)
	<-p.done
	p.started = false
}

// Close stops playback.
func (p *Player) Close() error {
	p.Stop()
	return nil
}

// Headless reports whether this build has no audio device.
func Headless() bool {
	return true
}

func (p *Player) pull(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_, _ = io.ReadFull(p.src, p.buf)
		}
	}
}
