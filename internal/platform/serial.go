// Package platform implements the engine.Platform interface against
// real hardware: go.bug.st/serial for the transport, periph.io for the
// FTDI and RaspBee GPIO reset lines, and the standard library for file
// I/O and timers. A dedicated goroutine owns the serial read loop and
// feeds a single-threaded consumer over a channel.
package platform

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/senilio/gcfflasher-go/internal/device"
	"github.com/senilio/gcfflasher-go/internal/engine"
	"github.com/senilio/gcfflasher-go/internal/gcf"
)

// readChunkSize bounds a single Read call; the bootloader wire formats
// never send a chunk anywhere close to this.
const readChunkSize = 512

// Serial implements engine.Platform over a real serial port.
type Serial struct {
	baud int
	log  *log.Logger

	ftdiIndex    int
	raspbeePin   string

	events chan engine.Event

	mu         sync.Mutex
	port       serial.Port
	readCancel context.CancelFunc
	readDone   chan struct{}

	timerMu sync.Mutex
	timer   *time.Timer

	shutdownOnce sync.Once
}

// Config carries the hardware-specific parameters New needs beyond what
// engine.Config already holds.
type Config struct {
	BaudRate   int
	FTDIIndex  int    // which enumerated FTDI device drives the bitbang reset
	RaspBeePin string // GPIO line name, e.g. "GPIO23"
}

// New returns a Serial platform ready to have Connect called on it. Its
// Events channel is read by the engine's Run loop.
func New(cfg Config, logger *log.Logger) *Serial {
	if logger == nil {
		logger = log.Default()
	}
	baud := cfg.BaudRate
	if baud == 0 {
		baud = 115200
	}
	return &Serial{
		baud:       baud,
		log:        logger,
		ftdiIndex:  cfg.FTDIIndex,
		raspbeePin: cfg.RaspBeePin,
		events:     make(chan engine.Event, 64),
	}
}

// Events returns the channel the engine's Run loop should consume.
func (s *Serial) Events() <-chan engine.Event {
	return s.events
}

func (s *Serial) Connect(path string) error {
	mode := &serial.Mode{BaudRate: s.baud}
	port, err := serial.Open(path, mode)
	if err != nil {
		return fmt.Errorf("platform: open %s: %w", path, err)
	}
	// Bounds each blocking Read so the read-loop goroutine notices
	// Disconnect/shutdown promptly.
	if err := port.SetReadTimeout(200 * time.Millisecond); err != nil {
		s.log.Printf("platform: set read timeout: %v", err)
	}

	s.mu.Lock()
	s.port = port
	ctx, cancel := context.WithCancel(context.Background())
	s.readCancel = cancel
	s.readDone = make(chan struct{})
	s.mu.Unlock()

	go s.readLoop(ctx, port, s.readDone)
	return nil
}

func (s *Serial) readLoop(ctx context.Context, port serial.Port, done chan struct{}) {
	defer close(done)
	buf := make([]byte, readChunkSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := port.Read(buf)
		if err != nil {
			s.emit(engine.Event{Type: engine.EventDisconnected})
			return
		}
		if n == 0 {
			continue // read timeout elapsed, loop back to check ctx
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		s.emit(engine.Event{Type: engine.EventBytesArrived, Bytes: data})
	}
}

func (s *Serial) emit(ev engine.Event) {
	select {
	case s.events <- ev:
	default:
		s.log.Printf("platform: event channel full, dropping %s", ev.Type)
	}
}

func (s *Serial) Disconnect() {
	s.mu.Lock()
	port := s.port
	cancel := s.readCancel
	s.port = nil
	s.readCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if port != nil {
		if err := port.Close(); err != nil {
			s.log.Printf("platform: close port: %v", err)
		}
	}
}

func (s *Serial) Write(p []byte) error {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()
	if port == nil {
		return fmt.Errorf("platform: write on a closed port")
	}
	_, err := port.Write(p)
	return err
}

// SetTimeout arms the single active timer, stopping any previously
// pending one first -- the concrete form of "Timeouts as state."
func (s *Serial) SetTimeout(d time.Duration) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, func() {
		s.emit(engine.Event{Type: engine.EventTimeout})
	})
}

func (s *Serial) ClearTimeout() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Serial) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (s *Serial) Now() time.Time {
	return time.Now()
}

func (s *Serial) GetDevices() ([]device.Record, error) {
	return device.Enumerate()
}

func (s *Serial) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("platform: read %s: %w", path, err)
	}
	if len(data) > gcf.MaxFileSize {
		return nil, fmt.Errorf("platform: %s exceeds max file size of %d bytes", path, gcf.MaxFileSize)
	}
	return data, nil
}

// ShutDown tears down the port and the event channel exactly once,
// safe to call more than once or concurrently with a run in progress.
func (s *Serial) ShutDown(err error) {
	s.shutdownOnce.Do(func() {
		s.ClearTimeout()
		s.Disconnect()
		close(s.events)
	})
}
