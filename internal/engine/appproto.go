package engine

import "github.com/senilio/gcfflasher-go/internal/byteorder"

// Application protocol command bytes. Framed the same way as
// the V3 bootloader protocol, but without the 0x81 bootloader magic.
const (
	appCmdDeviceState         byte = 0x07
	appCmdWriteParameter      byte = 0x0B
	appCmdReadFirmwareVersion byte = 0x0D
)

// paramWatchdogTimeout is the write-parameter ID that provokes the
// running firmware to reboot into its bootloader.
const paramWatchdogTimeout byte = 0x26

// appHeaderSize is the fixed 8-byte header every application-protocol
// packet carries; a write-parameter packet's parameter ID lives at
// offset 7.
const appHeaderSize = 8

func newAppHeader(cmd, param byte) []byte {
	h := make([]byte, appHeaderSize)
	h[0] = cmd
	h[7] = param
	return h
}

// queryFirmwareVersionPacket builds the read-firmware-version request
// sent on ResetUart entry to nudge a sleeping device before the
// watchdog write.
func queryFirmwareVersionPacket() []byte {
	return newAppHeader(appCmdReadFirmwareVersion, 0)
}

// writeWatchdogTimeoutPacket builds the write-parameter request that
// arms the watchdog with the given timeout, provoking a reboot into the
// bootloader.
func writeWatchdogTimeoutPacket(timeout uint16) []byte {
	p := newAppHeader(appCmdWriteParameter, paramWatchdogTimeout)
	v := make([]byte, 2)
	byteorder.PutUint16(v, timeout)
	return append(p, v...)
}

// queryDeviceStatePacket builds the periodic status query the Connected
// diagnostic state sends.
func queryDeviceStatePacket() []byte {
	return newAppHeader(appCmdDeviceState, 0)
}

// isWatchdogAck reports whether payload is a write-parameter response
// acknowledging the watchdog-timeout write.
func isWatchdogAck(payload []byte) bool {
	return len(payload) >= appHeaderSize && payload[0] == appCmdWriteParameter && payload[7] == paramWatchdogTimeout
}
