package engine

import "github.com/senilio/gcfflasher-go/internal/byteorder"

// V3 bootloader wire protocol: flag-delimited, CRC-protected
// frames whose payload starts with btlMagic then a command byte.
const btlMagic byte = 0x81

const (
	cmdIDRequest        byte = 0x02
	cmdIDResponse       byte = 0x82
	cmdFWUpdateRequest  byte = 0x03
	cmdFWUpdateResponse byte = 0x83
	cmdFWDataRequest    byte = 0x04
	cmdFWDataResponse   byte = 0x84
)

// fwUpdateCRCPlaceholder is transmitted in place of a real CRC32 of the
// image -- an intentional protocol-upgrade hazard inherited from the
// original tool. The bootloader ignores the field, so it is preserved
// verbatim rather than "fixed" into a real checksum.
var fwUpdateCRCPlaceholder = [4]byte{0xAA, 0xAA, 0xAA, 0xAA}

// buildFWUpdateRequest builds the 15-byte FW_UPDATE_REQUEST sent on
// V3Sync entry.
func buildFWUpdateRequest(size, target uint32, fileType byte) []byte {
	p := make([]byte, 15)
	p[0] = btlMagic
	p[1] = cmdFWUpdateRequest
	byteorder.PutUint32(p[2:6], size)
	byteorder.PutUint32(p[6:10], target)
	p[10] = fileType
	copy(p[11:15], fwUpdateCRCPlaceholder[:])
	return p
}

// buildFWDataResponse builds the FW_DATA_RESPONSE for V3Upload.
func buildFWDataResponse(status byte, offset uint32, data []byte) []byte {
	p := make([]byte, 9+len(data))
	p[0] = btlMagic
	p[1] = cmdFWDataResponse
	p[2] = status
	byteorder.PutUint32(p[3:7], offset)
	byteorder.PutUint16(p[7:9], uint16(len(data)))
	copy(p[9:], data)
	return p
}

// parseIDResponse decodes a BTL_ID_RESPONSE (0x82): u32 bootloader
// version at offset 2, u32 application CRC at offset 6.
func parseIDResponse(payload []byte) (btlVersion, appCRC uint32, ok bool) {
	if len(payload) < 10 || payload[1] != cmdIDResponse {
		return 0, 0, false
	}
	return byteorder.Uint32(payload[2:6]), byteorder.Uint32(payload[6:10]), true
}

// parseFWUpdateResponse decodes an FW_UPDATE_RESPONSE (0x83) status byte.
func parseFWUpdateResponse(payload []byte) (status byte, ok bool) {
	if len(payload) < 3 || payload[1] != cmdFWUpdateResponse {
		return 0, false
	}
	return payload[2], true
}

// fwDataRequestSize is the exact wire size of an FW_DATA_REQUEST: magic,
// command, u32 offset, u16 length.
const fwDataRequestSize = 8

// parseFWDataRequest decodes an FW_DATA_REQUEST (0x04): u32 offset at
// offset 2, u16 length at offset 6. V3Upload only acts on this when the
// rx buffer holds exactly 8 bytes.
func parseFWDataRequest(payload []byte) (offset uint32, length uint16, ok bool) {
	if len(payload) != fwDataRequestSize || payload[1] != cmdFWDataRequest {
		return 0, 0, false
	}
	return byteorder.Uint32(payload[2:6]), byteorder.Uint16(payload[6:8]), true
}

// V1 bootloader wire protocol: ASCII handshake, then a
// 10-byte binary header, then page-pull uploads.
var v1SyncMagic = []byte{0x1A, 0x1C, 0xA9, 0xAE}

// buildV1Header builds the 10-byte header sent on V1Header entry.
func buildV1Header(payloadSize, targetAddr uint32, fileType, crc8 byte) []byte {
	b := make([]byte, 10)
	byteorder.PutUint32(b[0:4], payloadSize)
	byteorder.PutUint32(b[4:8], targetAddr)
	b[8] = fileType
	b[9] = crc8
	return b
}

// parseV1GetRequest decodes the 6-byte ASCII "GET<lo><hi>;" page
// request. Returns the decoded page number.
func parseV1GetRequest(buf []byte) (pageNumber uint16, ok bool) {
	if len(buf) < 6 || buf[0] != 'G' || buf[1] != 'E' || buf[2] != 'T' || buf[5] != ';' {
		return 0, false
	}
	return uint16(buf[4])<<8 | uint16(buf[3]), true
}
