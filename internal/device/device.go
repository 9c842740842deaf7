// Package device classifies serial device paths into the radio families
// this tool knows how to reset and flash, and models the read-only
// records produced by device enumeration.
package device

import "strings"

// Type identifies a device family, which in turn selects the reset
// strategy and bootloader dialect.
type Type int

const (
	Unknown Type = iota
	RaspBee1
	RaspBee2
	ConBee1
	ConBee2
)

func (t Type) String() string {
	switch t {
	case RaspBee1:
		return "RaspBee-1"
	case RaspBee2:
		return "RaspBee-2"
	case ConBee1:
		return "ConBee-1"
	case ConBee2:
		return "ConBee-2"
	default:
		return "Unknown"
	}
}

// conBee2Substrings, conBee1Substrings and raspBee1Substrings are tried in
// order; the first match wins.
var (
	conBee2Substrings = []string{"ttyACM", "ConBee_II", "cu.usbmodemDE"}
	conBee1Substrings = []string{"ttyUSB", "usb-FTDI", "cu.usbserial"}
	raspBee1Substrings = []string{"ttyAMA", "ttyS", "/serial"}
)

// Classify maps a device path to a Type by substring match
func Classify(path string) Type {
	for _, s := range conBee2Substrings {
		if strings.Contains(path, s) {
			return ConBee2
		}
	}
	for _, s := range conBee1Substrings {
		if strings.Contains(path, s) {
			return ConBee1
		}
	}
	for _, s := range raspBee1Substrings {
		if strings.Contains(path, s) {
			return RaspBee1
		}
	}
	return Unknown
}

// Promote applies the RaspBee-1 -> RaspBee-2 promotion rule: once a GCF
// file's firmware version is known, a RaspBee-1 device whose version
// encodes the R21 platform byte is actually a RaspBee-2.
func Promote(t Type, fwVersion uint32) Type {
	if t == RaspBee1 && fwVersion&0x0000FF00 == 0x00000700 {
		return RaspBee2
	}
	return t
}

// Record is a device as produced by enumeration. Consumed
// read-only by the engine once selected.
type Record struct {
	Name       string
	Serial     string
	Path       string
	StablePath string
	Type       Type
}
