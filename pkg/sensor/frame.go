package sensor

import (
	"encoding/binary"
	"math"

	"github.com/justyntemme/lidsound/pkg/dsp"
)

// Wire format constants.
const (
	SOF0     = 0xAA
	SOF1     = 0x55
	CmdAngle = 0x20

	// RawUnavailable is the raw reading a sensor sends when it has no angle.
	RawUnavailable = 0xFFFF

	frameLen   = 7
	payloadLen = 2
)

// Frame is one angle report from the sensor.
//
// On the wire it is
//
//	[SOF0][SOF1][LEN][CMD][lo][hi][CKS]
//
// where LEN counts CMD plus the payload, the payload is the angle in
// hundredths of a degree as a little-endian uint16, and CKS is the XOR of
// LEN, CMD and the payload bytes.
type Frame struct {
	Raw uint16
}

// FrameForAngle builds the frame for an angle in degrees. Negative or
// non-finite angles produce an unavailable frame.
func FrameForAngle(degrees float64) Frame {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) || degrees < 0 {
		return Frame{Raw: RawUnavailable}
	}
	degrees = math.Mod(degrees, dsp.FullTurn)
	return Frame{Raw: uint16(math.Round(degrees * dsp.SensorUnitsPerDegree))}
}

// Angle returns the angle in degrees and whether the reading is available.
func (f Frame) Angle() (float64, bool) {
	if f.Raw == RawUnavailable {
		return 0, false
	}
	deg := float64(f.Raw) / dsp.SensorUnitsPerDegree
	if deg >= dsp.FullTurn {
		deg = math.Mod(deg, dsp.FullTurn)
	}
	return deg, true
}

// AppendEncode appends the on-wire form of f to dst.
func (f Frame) AppendEncode(dst []byte) []byte {
	var payload [payloadLen]byte
	binary.LittleEndian.PutUint16(payload[:], f.Raw)

	length := byte(payloadLen + 1)
	cks := length ^ CmdAngle ^ payload[0] ^ payload[1]
	return append(dst, SOF0, SOF1, length, CmdAngle, payload[0], payload[1], cks)
}

// Encode returns the on-wire form of f.
func (f Frame) Encode() []byte {
	return f.AppendEncode(make([]byte, 0, frameLen))
}

// Decoder reassembles frames from a byte stream. It resynchronizes on the
// start-of-frame marker after any corrupt or unknown frame.
type Decoder struct {
	buf  [frameLen]byte
	n    int
	errs uint64
}

// Feed consumes one byte and returns a frame when one is complete.
func (d *Decoder) Feed(b byte) (Frame, bool) {
	switch d.n {
	case 0:
		if b == SOF0 {
			d.buf[0] = b
			d.n = 1
		}
		return Frame{}, false
	case 1:
		switch b {
		case SOF1:
			d.buf[1] = b
			d.n = 2
		case SOF0:
			// Stay synced on a repeated first marker.
		default:
			d.n = 0
		}
		return Frame{}, false
	}

	d.buf[d.n] = b
	d.n++
	if d.n == 3 && b != payloadLen+1 {
		d.reject(b)
		return Frame{}, false
	}
	if d.n < frameLen {
		return Frame{}, false
	}

	d.n = 0
	length, cmd, lo, hi, cks := d.buf[2], d.buf[3], d.buf[4], d.buf[5], d.buf[6]
	if cmd != CmdAngle || length^cmd^lo^hi != cks {
		d.errs++
		return Frame{}, false
	}
	return Frame{Raw: binary.LittleEndian.Uint16(d.buf[4:6])}, true
}

// Errors returns the number of frames dropped for a bad length, command or
// checksum.
func (d *Decoder) Errors() uint64 {
	return d.errs
}

func (d *Decoder) reject(b byte) {
	d.errs++
	d.n = 0
	if b == SOF0 {
		d.buf[0] = b
		d.n = 1
	}
}
