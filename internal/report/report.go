// Package report writes a machine-readable summary of a flash run,
// CBOR-encoded with github.com/fxamacker/cbor/v2.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/senilio/gcfflasher-go/internal/device"
)

// FlashReport summarizes one engine run for consumption by a fleet
// management system or CI pipeline. Timestamps are
// stored as RFC3339Nano strings rather than time.Time so the CBOR wire
// format doesn't depend on the library's time-encoding mode.
type FlashReport struct {
	DevicePath        string `cbor:"device_path"`
	DeviceType        string `cbor:"device_type"`
	Task              string `cbor:"task"`
	FWVersion         uint32 `cbor:"fw_version,omitempty"`
	BootloaderVersion uint32 `cbor:"bootloader_version,omitempty"`
	AppCRC            uint32 `cbor:"app_crc,omitempty"`
	Success           bool   `cbor:"success"`
	Error             string `cbor:"error,omitempty"`
	StartedAt         string `cbor:"started_at"`
	FinishedAt        string `cbor:"finished_at"`
	Attempts          int    `cbor:"attempts"`
}

// New builds a FlashReport from the run's outcome. deviceType is
// rendered via its String() method so the report stays a plain string
// on the wire regardless of the internal device.Type numbering.
func New(devicePath string, deviceType device.Type, task string, startedAt, finishedAt time.Time, attempts int, runErr error) FlashReport {
	r := FlashReport{
		DevicePath: devicePath,
		DeviceType: deviceType.String(),
		Task:       task,
		Success:    runErr == nil,
		StartedAt:  startedAt.Format(time.RFC3339Nano),
		FinishedAt: finishedAt.Format(time.RFC3339Nano),
		Attempts:   attempts,
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	return r
}

// WriteFile CBOR-encodes r and writes it to path.
func WriteFile(path string, r FlashReport) error {
	data, err := cbor.Marshal(r)
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes a FlashReport previously written by WriteFile.
func ReadFile(path string) (FlashReport, error) {
	var r FlashReport
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("report: read %s: %w", path, err)
	}
	if err := cbor.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("report: unmarshal: %w", err)
	}
	return r, nil
}
