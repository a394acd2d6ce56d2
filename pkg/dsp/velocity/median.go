package velocity

// medianWindow is a fixed-size ring of recent raw velocities. All storage is
// allocated up front; Median sorts into a scratch copy.
type medianWindow struct {
	ring    []float64
	scratch []float64
	next    int
	count   int
}

func newMedianWindow(size int) *medianWindow {
	return &medianWindow{
		ring:    make([]float64, size),
		scratch: make([]float64, size),
	}
}

func (m *medianWindow) push(v float64) {
	m.ring[m.next] = v
	m.next = (m.next + 1) % len(m.ring)
	if m.count < len(m.ring) {
		m.count++
	}
}

func (m *medianWindow) reset() {
	m.next = 0
	m.count = 0
}

// median returns the median of the values pushed so far (up to the window
// size). Even counts average the two middle values.
func (m *medianWindow) median() float64 {
	if m.count == 0 {
		return 0
	}
	s := m.scratch[:m.count]
	copy(s, m.ring[:m.count])

	// Insertion sort: windows are 3-7 entries.
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}

	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
