package engine

import "sync/atomic"

// State is the run state of an engine.
type State int

const (
	Stopped State = iota
	Running
)

// String returns the string representation of a State
func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Lifecycle is the Stopped/Running state machine shared by all engines.
//
// The state and a transition counter live in one atomic word, so the update
// and render goroutines can observe both consistently and notice a
// stop/start cycle that happened between two of their calls. Transitions
// are idempotent: starting a running lifecycle or stopping a stopped one
// changes nothing.
type Lifecycle struct {
	word atomic.Uint64 // generation<<1 | running
}

// Start moves to Running. It returns false if already running.
func (l *Lifecycle) Start() bool {
	return l.transition(Running)
}

// Stop moves to Stopped. It returns false if already stopped.
func (l *Lifecycle) Stop() bool {
	return l.transition(Stopped)
}

// State returns the current state.
func (l *Lifecycle) State() State {
	s, _ := l.Snapshot()
	return s
}

// IsRunning returns true in the Running state.
func (l *Lifecycle) IsRunning() bool {
	return l.State() == Running
}

// Snapshot returns the state together with the number of transitions made
// so far.
func (l *Lifecycle) Snapshot() (State, uint64) {
	return unpack(l.word.Load())
}

func (l *Lifecycle) transition(to State) bool {
	for {
		old := l.word.Load()
		state, gen := unpack(old)
		if state == to {
			return false
		}
		if l.word.CompareAndSwap(old, pack(to, gen+1)) {
			return true
		}
	}
}

func pack(s State, gen uint64) uint64 {
	w := gen << 1
	if s == Running {
		w |= 1
	}
	return w
}

func unpack(w uint64) (State, uint64) {
	if w&1 == 1 {
		return Running, w >> 1
	}
	return Stopped, w >> 1
}
