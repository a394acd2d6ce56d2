package sensor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Serial defaults.
const (
	DefaultBaud       = 115200
	DefaultStaleAfter = 250 * time.Millisecond
)

// SerialOptions configures a Serial source.
type SerialOptions struct {
	// StaleAfter is how long a reading stays current. Zero uses
	// DefaultStaleAfter.
	StaleAfter time.Duration
	Logger     *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Serial reads angle frames streamed by an external hinge sensor over a
// serial link. A background goroutine decodes the stream; ReadAngle returns
// the newest reading if it is recent enough.
type Serial struct {
	rc         io.ReadCloser
	staleAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	angle     float64
	available bool
	at        time.Time
	err       error

	done chan struct{}
}

// OpenSerial opens the named serial device at baud and starts decoding.
func OpenSerial(device string, baud int, opts SerialOptions) (*Serial, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	s := NewSerial(p, opts)
	s.logger.Info("serial: port opened", "device", device, "baud", baud)
	return s, nil
}

// NewSerial decodes frames from rc, which the Serial owns and closes.
func NewSerial(rc io.ReadCloser, opts SerialOptions) *Serial {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Serial{
		rc:         rc,
		staleAfter: opts.StaleAfter,
		logger:     opts.Logger,
		now:        opts.Now,
		done:       make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// Ports lists the serial devices present on the system.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}

// ReadAngle implements Source.
func (s *Serial) ReadAngle() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	if !s.available {
		return 0, ErrUnavailable
	}
	if age := s.now().Sub(s.at); age > s.staleAfter {
		return 0, fmt.Errorf("last reading %v old: %w", age.Round(time.Millisecond), ErrUnavailable)
	}
	return s.angle, nil
}

// Close stops decoding and closes the port.
func (s *Serial) Close() error {
	err := s.rc.Close()
	<-s.done
	return err
}

func (s *Serial) readLoop() {
	defer close(s.done)

	var dec Decoder
	var reported uint64
	buf := make([]byte, 64)
	for {
		n, err := s.rc.Read(buf)
		for _, b := range buf[:n] {
			f, ok := dec.Feed(b)
			if !ok {
				continue
			}
			s.store(f)
		}
		if e := dec.Errors(); e != reported {
			s.logger.Warn("serial: corrupt frames dropped", "count", e-reported, "total", e)
			reported = e
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("serial: read stopped", "err", err)
			}
			s.mu.Lock()
			s.err = ErrClosed
			s.mu.Unlock()
			return
		}
	}
}

func (s *Serial) store(f Frame) {
	angle, ok := f.Angle()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.angle = angle
	s.available = ok
	s.at = now
}
