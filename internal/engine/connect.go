package engine

import (
	"time"

	"github.com/senilio/gcfflasher-go/internal/frame"
)

// connectedQueryInterval is the periodic device-state probe cadence of
// the Connected diagnostic state.
const connectedQueryInterval = 10 * time.Second

// stepConnect implements the Connect state: open the port and,
// on success, arm the first status query and move to Connected.
func (e *Engine) stepConnect(ev Event) {
	if ev.Type != EventAction && ev.Type != EventTimeout {
		return
	}
	if err := e.platform.Connect(e.devicePath); err != nil {
		e.log.Printf("engine: connect: open failed, retrying: %v", err)
		e.setTimeout(1 * time.Second)
		return
	}
	e.setTimeout(1000 * time.Millisecond)
	e.enter(StateConnected)
}

// stepConnected implements the Connected state: a diagnostic
// loop that periodically queries device status and falls back to Init
// on disconnect.
func (e *Engine) stepConnected(ev Event) {
	switch ev.Type {
	case EventTimeout:
		if err := e.platform.Write(frame.SendFlagged(queryDeviceStatePacket())); err != nil {
			e.log.Printf("engine: connected: status query failed: %v", err)
		}
		e.setTimeout(connectedQueryInterval)
	case EventDisconnected:
		e.platform.Disconnect()
		e.state = StateInit
		e.substate = SubstateVoid
		e.setTimeout(1 * time.Second)
	}
}
