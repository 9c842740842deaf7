package engine

import (
	"time"

	"github.com/senilio/gcfflasher-go/internal/device"
)

// Platform is the set of side effects the engine drives.
// Device enumeration, serial open/close, GPIO/FTDI reset, file I/O,
// timer scheduling and logging are all external collaborators behind
// this interface; the engine never touches hardware directly.
type Platform interface {
	// Connect opens the serial port at path. The platform must later
	// deliver EventDisconnected if the port drops.
	Connect(path string) error
	// Disconnect closes the serial port, if open.
	Disconnect()
	// Write sends unframed bytes to the serial port.
	Write(p []byte) error
	// SetTimeout arms the single active timer, implicitly cancelling any
	// previously pending one. Firing delivers EventTimeout.
	SetTimeout(d time.Duration)
	// ClearTimeout cancels the pending timer, if any.
	ClearTimeout()
	// Sleep performs a synchronous delay.
	Sleep(d time.Duration)
	// Now returns a monotonic timestamp used by the retry controller.
	Now() time.Time
	// GetDevices enumerates connected devices.
	GetDevices() ([]device.Record, error)
	// ResetFTDI pulses the dongle's FTDI bitbang reset line.
	ResetFTDI() error
	// ResetRaspBee pulses the RaspBee's GPIO reset line.
	ResetRaspBee() error
	// ReadFile reads an entire file into memory.
	ReadFile(path string) ([]byte, error)
	// ShutDown terminates the platform's event loop; HandleEvent will
	// not be called again afterward.
	ShutDown(err error)
}
