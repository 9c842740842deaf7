package engine

import (
	"strings"
	"time"
)

// stepBootloaderConnect implements the BootloaderConnect state: open
// the serial port now that the target has rebooted into its bootloader.
// The synthesized entry ACTION doubles as an immediate first attempt
// (rather than waiting for an externally-scheduled timer to fire once),
// since enter() always emits one ACTION on state entry. Bounded only by
// the overall run deadline -- there is no inner retry limit.
func (e *Engine) stepBootloaderConnect(ev Event) {
	switch ev.Type {
	case EventAction, EventTimeout:
		if err := e.platform.Connect(e.devicePath); err != nil {
			e.log.Printf("engine: bootloader connect failed, retrying: %v", err)
			e.setTimeout(500 * time.Millisecond)
			return
		}
		e.enter(StateBootloaderQuery)
	}
}

// stepBootloaderQuery implements the BootloaderQuery state: wait
// for an auto-announcing V1 banner or probe with ASCII "ID" up to 3
// times, while also watching for a V3 BTL_ID_RESPONSE.
func (e *Engine) stepBootloaderQuery(ev Event) {
	switch ev.Type {
	case EventAction:
		e.retry = 0
		e.clearASCII()
		e.setTimeout(200 * time.Millisecond)
	case EventTimeout:
		if e.retry < 3 {
			if err := e.platform.Write([]byte("ID")); err != nil {
				e.log.Printf("engine: bootloader query: probe write failed: %v", err)
			}
			e.setTimeout(200 * time.Millisecond)
			e.retry++
			return
		}
		e.retryController()
	case EventRxASCII:
		s := e.asciiString()
		if e.wp > 52 && strings.HasSuffix(s, "\n") && strings.Contains(s, "Bootloader") {
			e.platform.ClearTimeout()
			e.enter(StateV1Sync)
		}
	case EventRxBtlPkgData:
		if len(ev.Bytes) < 2 || ev.Bytes[1] != cmdIDResponse {
			return
		}
		if btlVersion, appCRC, ok := parseIDResponse(ev.Bytes); ok {
			e.btlVersion = btlVersion
			e.appCRC = appCRC
			e.enter(StateV3Sync)
		}
	case EventDisconnected:
		e.retryController()
	}
}
