package frame

import (
	"bytes"
	"testing"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x01},
		{0x81, 0x02},
		bytes.Repeat([]byte{Flag}, 5),
		bytes.Repeat([]byte{Esc}, 5),
		{Flag, Esc, 0x00, Flag, Esc},
		bytes.Repeat([]byte{0xAA, 0xBB, 0xCC}, 100),
	}

	for _, p := range payloads {
		wire := SendFlagged(p)
		rx := NewReceiver()

		var got [][]byte
		rx.Feed(wire, func(payload []byte) {
			cp := make([]byte, len(payload))
			copy(cp, payload)
			got = append(got, cp)
		})

		if len(got) != 1 {
			t.Fatalf("payload %x: got %d packets, want 1", p, len(got))
		}
		if !bytes.Equal(got[0], p) {
			t.Fatalf("payload %x: round-tripped as %x", p, got[0])
		}
	}
}

func TestFeedByteAtATime(t *testing.T) {
	p := []byte{0x81, 0x03, 0xDE, 0xAD, 0xBE, 0xEF}
	wire := SendFlagged(p)
	rx := NewReceiver()

	var got []byte
	for _, b := range wire {
		rx.Feed([]byte{b}, func(payload []byte) {
			got = append([]byte{}, payload...)
		})
	}
	if !bytes.Equal(got, p) {
		t.Fatalf("got %x, want %x", got, p)
	}
}

func TestMultipleFramesInOneChunk(t *testing.T) {
	p1 := []byte{0x01, 0x02}
	p2 := []byte{0x03, 0x04, 0x05}

	var wire []byte
	wire = append(wire, SendFlagged(p1)...)
	wire = append(wire, SendFlagged(p2)...)

	rx := NewReceiver()
	var got [][]byte
	rx.Feed(wire, func(payload []byte) {
		got = append(got, append([]byte{}, payload...))
	})

	if len(got) != 2 {
		t.Fatalf("got %d packets, want 2", len(got))
	}
	if !bytes.Equal(got[0], p1) || !bytes.Equal(got[1], p2) {
		t.Fatalf("got %x, %x; want %x, %x", got[0], got[1], p1, p2)
	}
}

func TestCorruptedCRCIsDroppedAndResyncs(t *testing.T) {
	good := SendFlagged([]byte{0x11, 0x22})
	bad := append([]byte{}, good...)
	// Flip a payload byte without fixing the CRC.
	bad[1] ^= 0xFF

	var wire []byte
	wire = append(wire, bad...)
	wire = append(wire, good...)

	rx := NewReceiver()
	var got [][]byte
	rx.Feed(wire, func(payload []byte) {
		got = append(got, append([]byte{}, payload...))
	})

	if len(got) != 1 {
		t.Fatalf("got %d packets, want 1 (corrupted frame should be dropped)", len(got))
	}
	if !bytes.Equal(got[0], []byte{0x11, 0x22}) {
		t.Fatalf("got %x, want the second, uncorrupted frame", got[0])
	}
}

func TestOverlongFrameIsDroppedWithoutCrashing(t *testing.T) {
	rx := NewReceiver()
	junk := append([]byte{Flag}, bytes.Repeat([]byte{0x41}, MaxPayload*2)...)
	junk = append(junk, Flag)

	called := false
	rx.Feed(junk, func(payload []byte) { called = true })
	if called {
		t.Fatalf("overlong frame should not produce a packet")
	}

	// The receiver must still work afterwards.
	p := []byte{0x99}
	var got []byte
	rx.Feed(SendFlagged(p), func(payload []byte) {
		got = append([]byte{}, payload...)
	})
	if !bytes.Equal(got, p) {
		t.Fatalf("receiver did not resync after overlong frame: got %x", got)
	}
}
