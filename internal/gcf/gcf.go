// Package gcf parses and holds GCF firmware image files: the proprietary
// container format flashed onto ConBee/RaspBee-class Zigbee coprocessors.
package gcf

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/senilio/gcfflasher-go/internal/byteorder"
)

// Magic is the required 32-bit header magic, little-endian on the wire.
const Magic uint32 = 0xCAFEFEED

// HeaderSize is the fixed size of the GCF header preceding the payload.
const HeaderSize = 14

// MaxFileSize bounds how large a GCF file this tool will ever read into
// memory; firmware images for these targets are a few hundred KB at most.
const MaxFileSize = 4 * 1024 * 1024

// Error codes mirror the original tool's documented -1/-2/-3 exit codes
// for parse failures, exposed here as a typed wrapper so
// callers can branch on the failure class without string matching.
type ErrorCode int

const (
	ErrCodeTooSmall          ErrorCode = -1
	ErrCodeBadMagicOrVersion ErrorCode = -2
	ErrCodeSizeMismatch      ErrorCode = -3
)

// ParseError reports why a GCF file was rejected.
type ParseError struct {
	Code ErrorCode
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

func newParseError(code ErrorCode, msg string) error {
	return &ParseError{Code: code, Msg: msg}
}

// Code extracts the ErrorCode from err, if err is (or wraps) a *ParseError.
func Code(err error) (ErrorCode, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}

var versionPattern = regexp.MustCompile(`0[xX]([0-9A-Fa-f]+)`)

// File holds a parsed GCF image: the 14-byte header plus payload bytes,
// and a firmware version derived from the filename. Created once at
// command-line parse time and immutable thereafter.
type File struct {
	Filename      string
	Filesize      int
	FWVersion     uint32
	FileType      uint8
	TargetAddress uint32
	PayloadSize   uint32
	CRC8          uint8
	Payload       []byte
}

// Parse validates and decodes a GCF file's raw bytes plus its filename.
//
// Invariants enforced: magic == 0xCAFEFEED, and
// filesize == payload_size + 14. The filename must contain a "0x"-prefixed
// hex substring, parsed as the firmware version.
func Parse(filename string, data []byte) (*File, error) {
	if len(data) < HeaderSize {
		return nil, newParseError(ErrCodeTooSmall,
			fmt.Sprintf("gcf: file %q is %d bytes, need at least %d", filename, len(data), HeaderSize))
	}

	magic := byteorder.Uint32(data[0:4])
	if magic != Magic {
		return nil, newParseError(ErrCodeBadMagicOrVersion,
			fmt.Sprintf("gcf: file %q has bad magic %#08x, want %#08x", filename, magic, Magic))
	}

	fwVersion, ok := parseVersion(filename)
	if !ok {
		return nil, newParseError(ErrCodeBadMagicOrVersion,
			fmt.Sprintf("gcf: filename %q has no 0x-prefixed version substring", filename))
	}

	fileType := data[4]
	targetAddr := byteorder.Uint32(data[5:9])
	payloadSize := byteorder.Uint32(data[9:13])
	crc8 := data[13]

	payload := data[HeaderSize:]
	if uint32(len(payload)) != payloadSize || len(data) != HeaderSize+int(payloadSize) {
		return nil, newParseError(ErrCodeSizeMismatch,
			fmt.Sprintf("gcf: file %q is %d bytes, header declares payload_size=%d (want filesize=%d)",
				filename, len(data), payloadSize, HeaderSize+int(payloadSize)))
	}

	return &File{
		Filename:      filename,
		Filesize:      len(data),
		FWVersion:     fwVersion,
		FileType:      fileType,
		TargetAddress: targetAddr,
		PayloadSize:   payloadSize,
		CRC8:          crc8,
		Payload:       payload,
	}, nil
}

// parseVersion extracts the u32 encoded by the first "0x..." substring of
// name, e.g. "ConBeeII_0x26720700.gcf" -> 0x26720700.
func parseVersion(name string) (uint32, bool) {
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// Platform bits within FWVersion: bits 15:8 select the
// firmware platform, 0x05 = AVR, 0x07 = R21 (RaspBee-2-class).
const (
	PlatformMaskAVR uint32 = 0x00000500
	PlatformMaskR21 uint32 = 0x00000700
	platformMask    uint32 = 0x0000FF00
)

// IsR21Platform reports whether fwVersion encodes the R21 (RaspBee-2)
// platform byte -- the same test device.Promote applies inline.
func IsR21Platform(fwVersion uint32) bool {
	return fwVersion&platformMask == PlatformMaskR21
}
