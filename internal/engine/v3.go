package engine

import (
	"time"

	"github.com/senilio/gcfflasher-go/internal/frame"
)

// stepV3Sync implements the V3Sync state: send the framed
// FW_UPDATE_REQUEST and wait for a success status in FW_UPDATE_RESPONSE.
func (e *Engine) stepV3Sync(ev Event) {
	switch ev.Type {
	case EventAction:
		e.platform.Sleep(50 * time.Millisecond)
		e.setTimeout(1000 * time.Millisecond)
		req := buildFWUpdateRequest(e.file.PayloadSize, e.file.TargetAddress, e.file.FileType)
		if err := e.platform.Write(frame.SendFlagged(req)); err != nil {
			e.log.Printf("engine: v3 sync: write failed: %v", err)
		}
	case EventRxBtlPkgData:
		status, ok := parseFWUpdateResponse(ev.Bytes)
		if !ok || status != 0 {
			return
		}
		e.transition(StateV3Upload)
		e.setTimeout(1000 * time.Millisecond)
	case EventTimeout:
		e.retryController()
	}
}

// v3DataHeaderReserve is the response header overhead ("buffer_capacity
// - 32") the oversize check in the V3Upload reserves.
const v3DataHeaderReserve = 32

// stepV3Upload implements the V3Upload state: answer each
// FW_DATA_REQUEST with a status-coded FW_DATA_RESPONSE slice of the
// file payload.
func (e *Engine) stepV3Upload(ev Event) {
	switch ev.Type {
	case EventRxBtlPkgData:
		if e.wp != fwDataRequestSize {
			return
		}
		offset, length, ok := parseFWDataRequest(ev.Bytes)
		if !ok {
			return
		}
		e.setTimeout(5000 * time.Millisecond)

		// Oversize requests are rejected before the range check: a
		// length this far past the scratch buffer's capacity would
		// overflow the response regardless of where in the file it
		// targets.
		var status byte
		var data []byte
		switch {
		case uint32(length) > rxBufferCapacity-v3DataHeaderReserve:
			status = 2
		case offset+uint32(length) > e.file.PayloadSize:
			status = 1
		case length == 0:
			status = 3
		default:
			status = 0
			data = e.file.Payload[offset : offset+uint32(length)]
		}

		resp := buildFWDataResponse(status, offset, data)
		if err := e.platform.Write(frame.SendFlagged(resp)); err != nil {
			e.log.Printf("engine: v3 upload: write failed: %v", err)
		}
	case EventTimeout:
		e.retryController()
	}
}
