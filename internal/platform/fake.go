package platform

import (
	"time"

	"github.com/senilio/gcfflasher-go/internal/device"
	"github.com/senilio/gcfflasher-go/internal/engine"
)

// Fake is a Platform double for exercising the engine end-to-end
// (wiring, cmd/gcfflasher tests) without a real serial port. Unlike the
// package-local fakes under internal/engine's own tests, Fake lives
// here so other packages can drive the engine in tests too, exposing
// an Events method so it satisfies the same shape cmd/gcfflasher uses
// for *Serial.
type Fake struct {
	Now_    time.Time
	Devices []device.Record
	DevErr  error
	ConnErr error
	FTDIErr error
	RaspErr error
	Files   map[string][]byte

	Connected bool
	Writes    [][]byte
	Timeouts  []time.Duration
	Sleeps    []time.Duration

	ShutDownCalled bool
	ShutDownErr    error

	events chan engine.Event
}

// NewFake returns a ready-to-use Fake with a buffered event channel.
func NewFake() *Fake {
	return &Fake{
		Now_:   time.Now(),
		Files:  map[string][]byte{},
		events: make(chan engine.Event, 16),
	}
}

// Events returns the channel the engine's Run loop should consume, the
// same shape *Serial exposes.
func (f *Fake) Events() <-chan engine.Event {
	return f.events
}

func (f *Fake) Connect(path string) error {
	if f.ConnErr != nil {
		return f.ConnErr
	}
	f.Connected = true
	return nil
}

func (f *Fake) Disconnect() { f.Connected = false }

func (f *Fake) Write(p []byte) error {
	cp := make([]byte, len(p))
	copy(cp, p)
	f.Writes = append(f.Writes, cp)
	return nil
}

func (f *Fake) SetTimeout(d time.Duration) { f.Timeouts = append(f.Timeouts, d) }
func (f *Fake) ClearTimeout()               {}
func (f *Fake) Sleep(d time.Duration)       { f.Sleeps = append(f.Sleeps, d) }
func (f *Fake) Now() time.Time              { return f.Now_ }

func (f *Fake) GetDevices() ([]device.Record, error) { return f.Devices, f.DevErr }
func (f *Fake) ResetFTDI() error                      { return f.FTDIErr }
func (f *Fake) ResetRaspBee() error                   { return f.RaspErr }

func (f *Fake) ReadFile(path string) ([]byte, error) {
	return f.Files[path], nil
}

func (f *Fake) ShutDown(err error) {
	f.ShutDownCalled = true
	f.ShutDownErr = err
}

// Inject delivers ev to the engine's event channel, the way a real
// Serial platform's goroutines would.
func (f *Fake) Inject(ev engine.Event) {
	f.events <- ev
}

// Close closes the event channel, the way *Serial's ShutDown does, so
// a blocked engine.Run sees the channel drained and closed rather than
// hanging on a Fake that nobody shuts down.
func (f *Fake) Close() {
	close(f.events)
}
