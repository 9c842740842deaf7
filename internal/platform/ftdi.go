package platform

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

var hostInitOnce sync.Once
var hostInitErr error

func ensureHostInit() error {
	hostInitOnce.Do(func() {
		_, hostInitErr = host.Init()
	})
	return hostInitErr
}

// ftdiResetPulse is the pulse width driven on the FTDI reset line; the
// bootloader only needs the edge, not a sustained level.
const ftdiResetPulse = 10 * time.Millisecond

// ResetFTDI pulses the dongle's FTDI bitbang reset line low then high,
// the way gice's Device.ResetFPGA drives d.crest.Out(level) against the
// chip's D7 CBUS pin.
func (s *Serial) ResetFTDI() error {
	if err := ensureHostInit(); err != nil {
		return fmt.Errorf("platform: host init: %w", err)
	}
	devs := ftdi.All()
	if s.ftdiIndex < 0 || s.ftdiIndex >= len(devs) {
		return fmt.Errorf("platform: ftdi index %d out of range (%d devices found)", s.ftdiIndex, len(devs))
	}
	ft, ok := devs[s.ftdiIndex].(*ftdi.FT232H)
	if !ok {
		return fmt.Errorf("platform: ftdi device %d is not an FT232H", s.ftdiIndex)
	}
	reset := ft.D7
	if err := reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("platform: ftdi reset low: %w", err)
	}
	time.Sleep(ftdiResetPulse)
	if err := reset.Out(gpio.High); err != nil {
		return fmt.Errorf("platform: ftdi reset high: %w", err)
	}
	return nil
}
