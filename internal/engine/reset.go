package engine

import (
	"time"

	"github.com/senilio/gcfflasher-go/internal/device"
	"github.com/senilio/gcfflasher-go/internal/frame"
)

// watchdogTimeout is the "2 s" value written to application parameter
// 0x26 to provoke a reboot into the bootloader.
const watchdogTimeout = 2000

// stepReset implements the Reset compound state. Events
// common to all three substates -- UART_RESET_FAILED's device-type
// branch and the *_SUCCESS family's handoff -- are handled here; the
// rest is delegated to the active substate.
func (e *Engine) stepReset(ev Event) {
	switch ev.Type {
	case EventAction:
		if e.substate == SubstateVoid {
			e.enterSubstate(SubstateResetUart)
			return
		}
	case EventUartResetFailed:
		e.onUartResetFailed()
		return
	case EventUartResetSuccess, EventFtdiResetSuccess, EventRaspBeeResetSuccess:
		e.onResetSuccess()
		return
	}
	switch e.substate {
	case SubstateResetUart:
		e.stepResetUart(ev)
	case SubstateResetFtdi:
		e.stepResetFtdi(ev)
	case SubstateResetRaspBee:
		e.stepResetRaspBee(ev)
	}
}

func (e *Engine) stepResetUart(ev Event) {
	switch ev.Type {
	case EventAction:
		e.setTimeout(3000 * time.Millisecond)
		if err := e.platform.Connect(e.devicePath); err != nil {
			e.log.Printf("engine: reset: connect failed, waiting for timeout: %v", err)
			return
		}
		if err := e.platform.Write(frame.SendFlagged(queryFirmwareVersionPacket())); err != nil {
			e.log.Printf("engine: reset: query firmware version write failed: %v", err)
		}
		if err := e.platform.Write(frame.SendFlagged(writeWatchdogTimeoutPacket(watchdogTimeout))); err != nil {
			e.log.Printf("engine: reset: watchdog write failed: %v", err)
		}
	case EventPkgUartReset:
		e.log.Printf("engine: reset: watchdog write acknowledged, waiting for reboot")
	case EventDisconnected:
		e.setTimeout(500 * time.Millisecond)
		e.step(Event{Type: EventUartResetSuccess})
	case EventTimeout:
		e.platform.Disconnect()
		e.step(Event{Type: EventUartResetFailed})
	}
}

// onUartResetFailed branches by device type: ConBee-1 tries
// FTDI bitbang, RaspBee-1/2 tries GPIO, anything else pretends success.
func (e *Engine) onUartResetFailed() {
	switch e.deviceType {
	case device.ConBee1:
		e.enterSubstate(SubstateResetFtdi)
	case device.RaspBee1, device.RaspBee2:
		e.enterSubstate(SubstateResetRaspBee)
	default:
		e.setTimeout(500 * time.Millisecond)
		e.step(Event{Type: EventUartResetSuccess})
	}
}

func (e *Engine) stepResetFtdi(ev Event) {
	if ev.Type != EventAction {
		return
	}
	if err := e.platform.ResetFTDI(); err != nil {
		e.log.Printf("engine: reset: ftdi reset failed, pretending success: %v", err)
	}
	e.setTimeout(1 * time.Millisecond)
	e.step(Event{Type: EventFtdiResetSuccess})
}

func (e *Engine) stepResetRaspBee(ev Event) {
	if ev.Type != EventAction {
		return
	}
	if err := e.platform.ResetRaspBee(); err != nil {
		e.log.Printf("engine: reset: raspbee reset failed, pretending success: %v", err)
	}
	e.setTimeout(1 * time.Millisecond)
	e.step(Event{Type: EventRaspBeeResetSuccess})
}

// onResetSuccess implements the Reset-level success handoff: a Reset
// task shuts down successfully, while a Program task hands off to
// Program with a synthetic RESET_SUCCESS, without re-running Program's
// own ACTION (which would just re-enter Reset).
func (e *Engine) onResetSuccess() {
	if e.task == TaskReset {
		e.shutDown(nil)
		return
	}
	e.transition(StateProgram)
	e.step(Event{Type: EventResetSuccess})
}
