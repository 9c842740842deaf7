package engine

import "fmt"

// stepProgram implements the Program state: a thin coordinator
// that enters Reset first and, once reset reports success, moves on to
// the bootloader connect/query/upload pipeline.
func (e *Engine) stepProgram(ev Event) {
	switch ev.Type {
	case EventAction:
		e.log.Printf("engine: program: %s on %s", e.file.Filename, e.devicePath)
		e.enter(StateReset)
	case EventResetSuccess:
		e.enter(StateBootloaderConnect)
	case EventResetFailed:
		e.shutDown(fmt.Errorf("engine: reset failed before programming"))
	}
}
