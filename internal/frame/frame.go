// Package frame implements the byte-stuffed, CRC-protected framing used
// both for binary bootloader packets (V3) and for the application
// protocol exchanged with running firmware. It feeds bytes one at a
// time through a small state machine, the same shape as a UART codec
// reading a byte stream, adapted here to flag-delimited (SLIP-style)
// framing instead of length-prefixed framing.
package frame

const (
	// Flag delimits the start and end of a frame on the wire.
	Flag byte = 0xC0
	// Esc introduces an escaped byte.
	Esc byte = 0xDB
	// EscFlag is the escaped encoding of Flag.
	EscFlag byte = 0xDC
	// EscEsc is the escaped encoding of Esc.
	EscEsc byte = 0xDD
)

// MaxPayload bounds a single frame's payload to guard against a runaway
// accumulation when the wire never produces a terminating Flag.
const MaxPayload = 2048

// rxState is the state of the streaming frame receiver.
type rxState int

const (
	rxIdle rxState = iota
	rxInFrame
	rxEscaped
)

// Receiver is a streaming consumer of framed bytes. Zero value is ready
// to use. A Receiver must not be shared across goroutines without
// external synchronization; the engine owns exactly one.
type Receiver struct {
	state rxState
	buf   []byte
}

// NewReceiver returns a Receiver ready to accept bytes.
func NewReceiver() *Receiver {
	return &Receiver{buf: make([]byte, 0, MaxPayload)}
}

// Feed consumes data and invokes onPacket once per completed, validated
// frame. Malformed frames (bad CRC, truncated/over-length accumulation)
// are silently dropped and the receiver resynchronizes on the next Flag,
// per spec: "Malformed frames ... are silently dropped."
func (r *Receiver) Feed(data []byte, onPacket func(payload []byte)) {
	for _, b := range data {
		switch r.state {
		case rxIdle:
			if b == Flag {
				r.buf = r.buf[:0]
				r.state = rxInFrame
			}
		case rxInFrame:
			switch {
			case b == Flag:
				r.completeFrame(onPacket)
				r.buf = r.buf[:0]
				// Stay in rxInFrame: back-to-back Flags start the next frame.
			case b == Esc:
				r.state = rxEscaped
			default:
				r.appendByte(b)
			}
		case rxEscaped:
			var lit byte
			switch b {
			case EscFlag:
				lit = Flag
			case EscEsc:
				lit = Esc
			default:
				// Invalid escape sequence: drop the in-progress frame and
				// resynchronize by waiting for the next Flag.
				r.buf = r.buf[:0]
				r.state = rxIdle
				continue
			}
			r.appendByte(lit)
			r.state = rxInFrame
		}
	}
}

func (r *Receiver) appendByte(b byte) {
	if len(r.buf) >= MaxPayload {
		// Overrun: drop and resynchronize on the next Flag.
		r.buf = r.buf[:0]
		r.state = rxIdle
		return
	}
	r.buf = append(r.buf, b)
}

// completeFrame validates the trailing CRC-16 and, if it checks out,
// invokes onPacket with the payload (CRC stripped).
func (r *Receiver) completeFrame(onPacket func(payload []byte)) {
	if len(r.buf) < 2 {
		return // empty/too-short frame between two Flags: ignore
	}
	n := len(r.buf)
	payload := r.buf[:n-2]
	gotCRC := uint16(r.buf[n-2]) | uint16(r.buf[n-1])<<8
	if CRC16(payload) != gotCRC {
		return // bad CRC: drop silently
	}
	onPacket(payload)
}

// SendFlagged appends a little-endian CRC-16 to payload, byte-stuffs the
// result, and wraps it in leading/trailing Flag bytes, ready to hand to
// a transport's Write.
func SendFlagged(payload []byte) []byte {
	crc := CRC16(payload)
	out := make([]byte, 0, 2+2*(len(payload)+2))
	out = append(out, Flag)
	for _, b := range payload {
		out = appendStuffed(out, b)
	}
	out = appendStuffed(out, byte(crc))
	out = appendStuffed(out, byte(crc>>8))
	out = append(out, Flag)
	return out
}

func appendStuffed(out []byte, b byte) []byte {
	switch b {
	case Flag:
		return append(out, Esc, EscFlag)
	case Esc:
		return append(out, Esc, EscEsc)
	default:
		return append(out, b)
	}
}

// CRC16 computes the CRC-16/CCITT-FALSE checksum used to protect frame
// payloads (polynomial 0x1021, initial value 0xFFFF).
func CRC16(data []byte) uint16 {
	var crc uint16 = 0xFFFF
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
