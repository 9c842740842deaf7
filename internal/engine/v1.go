package engine

import (
	"strings"
	"time"
)

// stepV1Sync implements the V1Sync state: send the 4-byte
// handshake magic and wait for the "READY" ASCII reply.
func (e *Engine) stepV1Sync(ev Event) {
	switch ev.Type {
	case EventAction:
		e.clearASCII()
		if err := e.platform.Write(v1SyncMagic); err != nil {
			e.log.Printf("engine: v1 sync: write failed: %v", err)
		}
		e.setTimeout(500 * time.Millisecond)
	case EventRxASCII:
		if e.wp > 4 && strings.Contains(e.asciiString(), "READY") {
			e.platform.ClearTimeout()
			e.enter(StateV1Header)
			return
		}
		e.setTimeout(10 * time.Millisecond)
	case EventTimeout:
		e.retryController()
	}
}

// stepV1Header implements the V1Header state: emit the 10-byte
// page-upload header and move straight into V1Upload, priming the page
// window over the file payload.
func (e *Engine) stepV1Header(ev Event) {
	if ev.Type != EventAction {
		return
	}
	e.clearASCII()
	header := buildV1Header(e.file.PayloadSize, e.file.TargetAddress, e.file.FileType, e.file.CRC8)
	if err := e.platform.Write(header); err != nil {
		e.log.Printf("engine: v1 header: write failed: %v", err)
	}
	e.pageBase = 0
	e.pageEnd = e.pageBase + e.file.PayloadSize
	e.transition(StateV1Upload)
	e.setTimeout(1000 * time.Millisecond)
}

// v1PageSize is the page granularity the V1 bootloader pulls in.
const v1PageSize = 256

// stepV1Upload implements the V1Upload state: serve GET<lo><hi>;
// page requests until the file is exhausted, then hand off to
// V1Validate.
func (e *Engine) stepV1Upload(ev Event) {
	switch ev.Type {
	case EventRxASCII:
		pageNumber16, ok := parseV1GetRequest(e.rxBuf[:e.wp])
		if !ok {
			return
		}
		page := e.pageBase + uint32(pageNumber16)*v1PageSize
		if page >= e.pageEnd {
			// Belt-and-suspenders check preserved from the source (spec
			// §9 open question 3): a page past the end of the file is a
			// protocol desync, not a process-ending bug.
			e.retryController()
			return
		}
		remaining := e.pageEnd - page
		size := remaining
		if size > v1PageSize {
			size = v1PageSize
		}
		e.clearASCII()
		if err := e.platform.Write(e.file.Payload[page : page+size]); err != nil {
			e.log.Printf("engine: v1 upload: page write failed: %v", err)
		}
		if remaining-size == 0 {
			e.transition(StateV1Validate)
			e.setTimeout(25600 * time.Millisecond)
			return
		}
		e.setTimeout(2000 * time.Millisecond)
	case EventTimeout:
		e.retryController()
	}
}

// stepV1Validate implements the V1Validate state: wait for the
// "#VALID CRC" ASCII marker that signals a complete, verified upload.
func (e *Engine) stepV1Validate(ev Event) {
	switch ev.Type {
	case EventRxASCII:
		if e.wp > 6 && strings.Contains(e.asciiString(), "#VALID CRC") {
			e.shutDown(nil)
			return
		}
		e.setTimeout(1000 * time.Millisecond)
	case EventTimeout:
		e.retryController()
	}
}
