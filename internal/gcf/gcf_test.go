package gcf

import (
	"testing"

	"github.com/senilio/gcfflasher-go/internal/byteorder"
)

func buildFile(payload []byte, fileType uint8, target, size uint32, crc uint8, magic uint32) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	byteorder.PutUint32(buf[0:4], magic)
	buf[4] = fileType
	byteorder.PutUint32(buf[5:9], target)
	byteorder.PutUint32(buf[9:13], size)
	buf[13] = crc
	copy(buf[HeaderSize:], payload)
	return buf
}

func TestParseValidFile(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	data := buildFile(payload, 0x07, 0x00000000, uint32(len(payload)), 0x42, Magic)

	f, err := Parse("ConBeeII_0x26720700.gcf", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.FWVersion != 0x26720700 {
		t.Errorf("FWVersion = %#x, want 0x26720700", f.FWVersion)
	}
	if f.FileType != 0x07 {
		t.Errorf("FileType = %#x, want 0x07", f.FileType)
	}
	if f.PayloadSize != uint32(len(payload)) {
		t.Errorf("PayloadSize = %d, want %d", f.PayloadSize, len(payload))
	}
	if f.CRC8 != 0x42 {
		t.Errorf("CRC8 = %#x, want 0x42", f.CRC8)
	}
	if string(f.Payload) != string(payload) {
		t.Errorf("Payload = %v, want %v", f.Payload, payload)
	}
}

func TestParseTooSmall(t *testing.T) {
	_, err := Parse("x_0x01.gcf", make([]byte, 5))
	code, ok := Code(err)
	if !ok || code != ErrCodeTooSmall {
		t.Fatalf("got err=%v, want ErrCodeTooSmall", err)
	}
}

func TestParseBadMagic(t *testing.T) {
	data := buildFile(nil, 0, 0, 0, 0, 0xDEADBEEF)
	_, err := Parse("x_0x01.gcf", data)
	code, ok := Code(err)
	if !ok || code != ErrCodeBadMagicOrVersion {
		t.Fatalf("got err=%v, want ErrCodeBadMagicOrVersion", err)
	}
}

func TestParseMissingVersionInFilename(t *testing.T) {
	data := buildFile(nil, 0, 0, 0, 0, Magic)
	_, err := Parse("no-version-here.gcf", data)
	code, ok := Code(err)
	if !ok || code != ErrCodeBadMagicOrVersion {
		t.Fatalf("got err=%v, want ErrCodeBadMagicOrVersion", err)
	}
}

func TestParseSizeMismatch(t *testing.T) {
	payload := []byte{1, 2, 3}
	data := buildFile(payload, 0, 0, 99, 0, Magic) // declares 99 bytes, has 3
	_, err := Parse("x_0x01.gcf", data)
	code, ok := Code(err)
	if !ok || code != ErrCodeSizeMismatch {
		t.Fatalf("got err=%v, want ErrCodeSizeMismatch", err)
	}
}

func TestIsR21Platform(t *testing.T) {
	if !IsR21Platform(0x26720700) {
		t.Errorf("0x26720700 should be R21 platform")
	}
	if IsR21Platform(0x26390500) {
		t.Errorf("0x26390500 (AVR) should not be R21 platform")
	}
}

func TestParseVersionFirstHexSubstring(t *testing.T) {
	v, ok := parseVersion("prefix_0x1A_suffix_0x2B.gcf")
	if !ok || v != 0x1A {
		t.Fatalf("parseVersion = %#x, %v, want 0x1A, true", v, ok)
	}
}
