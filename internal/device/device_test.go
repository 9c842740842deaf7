package device

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Type
	}{
		{"/dev/ttyACM0", ConBee2},
		{"/dev/ConBee_II", ConBee2},
		{"/dev/cu.usbmodemDE1234", ConBee2},
		{"/dev/ttyUSB0", ConBee1},
		{"/dev/usb-FTDI_FT230X", ConBee1},
		{"/dev/cu.usbserial-1410", ConBee1},
		{"/dev/ttyAMA0", RaspBee1},
		{"/dev/ttyS0", RaspBee1},
		{"/dev/serial0", RaspBee1},
		{"/dev/nonsense0", Unknown},
	}
	for _, c := range cases {
		if got := Classify(c.path); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Contains both a ConBee-2 and ConBee-1 substring; ConBee-2 rules are
	// tried first
	if got := Classify("/dev/ttyACM-usb-FTDI"); got != ConBee2 {
		t.Errorf("Classify = %v, want ConBee2 (first match wins)", got)
	}
}

func TestPromoteRaspBee1ToRaspBee2(t *testing.T) {
	if got := Promote(RaspBee1, 0x26720700); got != RaspBee2 {
		t.Errorf("Promote = %v, want RaspBee2", got)
	}
}

func TestPromoteLeavesOtherTypesAlone(t *testing.T) {
	cases := []Type{ConBee1, ConBee2, Unknown}
	for _, typ := range cases {
		if got := Promote(typ, 0x26720700); got != typ {
			t.Errorf("Promote(%v, R21 version) = %v, want unchanged %v", typ, got, typ)
		}
	}
}

func TestPromoteRequiresR21Version(t *testing.T) {
	if got := Promote(RaspBee1, 0x26390500); got != RaspBee1 {
		t.Errorf("Promote with AVR version = %v, want RaspBee1 unchanged", got)
	}
}
