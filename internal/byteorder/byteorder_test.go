package byteorder

import "testing"

func TestUint32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 0xCAFEFEED, 0xFFFFFFFF, 0x26720700}
	for _, v := range cases {
		b := make([]byte, 4)
		PutUint32(b, v)
		if got := Uint32(b); got != v {
			t.Errorf("Uint32(PutUint32(%#x)) = %#x, want %#x", v, got, v)
		}
	}
}

func TestUint32LittleEndian(t *testing.T) {
	b := make([]byte, 4)
	PutUint32(b, 0x11223344)
	want := []byte{0x44, 0x33, 0x22, 0x11}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, b[i], want[i])
		}
	}
}

func TestUint16RoundTrip(t *testing.T) {
	cases := []uint16{0, 1, 0x8001, 0xFFFF}
	for _, v := range cases {
		b := make([]byte, 2)
		PutUint16(b, v)
		if got := Uint16(b); got != v {
			t.Errorf("Uint16(PutUint16(%#x)) = %#x, want %#x", v, got, v)
		}
	}
}
