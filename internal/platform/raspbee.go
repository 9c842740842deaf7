package platform

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// raspbeeResetPulse mirrors ftdiResetPulse -- the RaspBee's reset line
// only needs a brief low pulse.
const raspbeeResetPulse = 10 * time.Millisecond

// ResetRaspBee pulses the RaspBee's GPIO reset line low then high,
// looked up by name via periph.io's pin registry.
func (s *Serial) ResetRaspBee() error {
	if err := ensureHostInit(); err != nil {
		return fmt.Errorf("platform: host init: %w", err)
	}
	if s.raspbeePin == "" {
		return fmt.Errorf("platform: no raspbee reset pin configured")
	}
	pin := gpioreg.ByName(s.raspbeePin)
	if pin == nil {
		return fmt.Errorf("platform: gpio pin %s not found", s.raspbeePin)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("platform: raspbee reset low: %w", err)
	}
	time.Sleep(raspbeeResetPulse)
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("platform: raspbee reset high: %w", err)
	}
	return nil
}
