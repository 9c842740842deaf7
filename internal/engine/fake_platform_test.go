package engine

import (
	"time"

	"github.com/senilio/gcfflasher-go/internal/device"
)

// fakePlatform is a minimal, deterministic Platform double. It records
// every call so tests can assert on engine behavior without any real
// hardware. Kept here, package-local, to avoid a test-only import cycle
// between internal/engine and internal/platform (which has its own
// cross-package Fake for higher-level tests).
type fakePlatform struct {
	now time.Time

	connectErr    error
	connected     bool
	disconnectLog int

	writes [][]byte
	writeErr error

	timeouts []time.Duration
	timeoutCleared int

	sleeps []time.Duration

	devices    []device.Record
	devicesErr error

	ftdiErr    error
	raspbeeErr error

	files    map[string][]byte
	fileErr  error

	shutDownCalled bool
	shutDownErr    error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		now:   time.Unix(0, 0),
		files: map[string][]byte{},
	}
}

func (f *fakePlatform) Connect(path string) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakePlatform) Disconnect() {
	f.connected = false
	f.disconnectLog++
}

func (f *fakePlatform) Write(p []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	f.writes = append(f.writes, cp)
	return nil
}

func (f *fakePlatform) SetTimeout(d time.Duration) {
	f.timeouts = append(f.timeouts, d)
}

func (f *fakePlatform) ClearTimeout() {
	f.timeoutCleared++
}

func (f *fakePlatform) Sleep(d time.Duration) {
	f.sleeps = append(f.sleeps, d)
}

func (f *fakePlatform) Now() time.Time {
	return f.now
}

func (f *fakePlatform) GetDevices() ([]device.Record, error) {
	return f.devices, f.devicesErr
}

func (f *fakePlatform) ResetFTDI() error {
	return f.ftdiErr
}

func (f *fakePlatform) ResetRaspBee() error {
	return f.raspbeeErr
}

func (f *fakePlatform) ReadFile(path string) ([]byte, error) {
	if f.fileErr != nil {
		return nil, f.fileErr
	}
	return f.files[path], nil
}

func (f *fakePlatform) ShutDown(err error) {
	f.shutDownCalled = true
	f.shutDownErr = err
}

func (f *fakePlatform) lastWrite() []byte {
	if len(f.writes) == 0 {
		return nil
	}
	return f.writes[len(f.writes)-1]
}

func (f *fakePlatform) lastTimeout() time.Duration {
	if len(f.timeouts) == 0 {
		return 0
	}
	return f.timeouts[len(f.timeouts)-1]
}
