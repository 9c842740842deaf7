package device

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// Enumerate lists connected serial ports and classifies each one,
// backing the engine's GetDevices platform call and the ListDevices
// state.
func Enumerate() ([]Record, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("device: enumerate serial ports: %w", err)
	}

	records := make([]Record, 0, len(ports))
	for _, p := range ports {
		name := p.Product
		if name == "" {
			name = p.Name
		}
		records = append(records, Record{
			Name:       name,
			Serial:     p.SerialNumber,
			Path:       p.Name,
			StablePath: p.Name,
			Type:       Classify(p.Name),
		})
	}
	return records, nil
}
