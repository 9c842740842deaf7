package engine

import (
	"fmt"
	"time"

	"github.com/senilio/gcfflasher-go/internal/device"
)

// defaultProgramDeadline is the "10 s default for Program".
const defaultProgramDeadline = 10 * time.Second

// stepInit implements the Init state. Command-line parsing
// itself already happened in the caller before New was invoked (see
// New's doc comment); PL_STARTED/TIMEOUT here instead validate the
// resulting Config and dispatch ACTION into the task-selected state.
func (e *Engine) stepInit(ev Event) {
	switch ev.Type {
	case EventPLStarted, EventTimeout:
		e.dispatchTask()
	}
}

func (e *Engine) dispatchTask() {
	e.task = e.cfg.Task
	e.devicePath = e.cfg.DevicePath
	e.file = e.cfg.File

	// The deadline is fixed on the first dispatch only, so re-entering
	// Init from the retry controller does not extend it.
	if e.maxTime.IsZero() {
		e.startTime = e.platform.Now()
		deadline := e.cfg.MaxDuration
		if deadline <= 0 {
			deadline = defaultProgramDeadline
		}
		e.maxTime = e.startTime.Add(deadline)
	}

	switch e.task {
	case TaskReset:
		e.deviceType = device.Classify(e.devicePath)
		e.enter(StateReset)
	case TaskProgram:
		if e.file == nil {
			e.shutDown(fmt.Errorf("engine: program task requires a parsed GCF file"))
			return
		}
		// Promotion happens here, before Reset, since the reset fallback
		// chain itself branches on device_type.
		e.deviceType = device.Promote(device.Classify(e.devicePath), e.file.FWVersion)
		e.enter(StateReset)
	case TaskList:
		e.enter(StateListDevices)
	case TaskConnect:
		e.deviceType = device.Classify(e.devicePath)
		e.enter(StateConnect)
	default:
		e.shutDown(fmt.Errorf("engine: no task selected"))
	}
}
