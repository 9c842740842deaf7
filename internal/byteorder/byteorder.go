// Package byteorder provides the little-endian pack/unpack primitives
// shared by the GCF file parser and both bootloader wire protocols.
package byteorder

// PutUint32 writes v into b[0:4], little-endian. b must have length >= 4.
func PutUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Uint32 reads a little-endian uint32 from b[0:4]. b must have length >= 4.
func Uint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// PutUint16 writes v into b[0:2], little-endian. b must have length >= 2.
func PutUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// Uint16 reads a little-endian uint16 from b[0:2]. b must have length >= 2.
func Uint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
