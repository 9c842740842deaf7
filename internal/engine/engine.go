// Package engine implements the event-driven state machine that drives
// a Zigbee coprocessor from its running application firmware into a
// bootloader, negotiates the V1 or V3 bootloader dialect, uploads a
// signed GCF image, and verifies completion -- all over a single serial
// transport, bounded by a wall-clock deadline.
//
// The engine is a process-wide singleton in spirit (one process flashes
// one device) but its lifetime is explicit: New returns an owned handle
// consumed by HandleEvent, rather than a package-level global.
package engine

import (
	"log"
	"time"

	"github.com/senilio/gcfflasher-go/internal/device"
	"github.com/senilio/gcfflasher-go/internal/frame"
	"github.com/senilio/gcfflasher-go/internal/gcf"
	"github.com/senilio/gcfflasher-go/internal/telemetry"
)

// rxBufferCapacity is the fixed size of the dual-use rx buffer.
const rxBufferCapacity = 512

// rxOverflowLimit is the write-pointer ceiling before the ASCII
// accumulator is reset.
const rxOverflowLimit = 510

// Config carries the command-line-derived parameters that seed an
// engine run.
type Config struct {
	Task        Task
	DevicePath  string
	File        *gcf.File // only set for TaskProgram
	MaxDuration time.Duration
	BaudRate    int
}

// Engine is the single, process-wide state machine instance.
type Engine struct {
	platform  Platform
	telemetry telemetry.Sink
	log       *log.Logger

	cfg Config

	task     Task
	state    StateID
	substate SubstateID

	retry int

	startTime time.Time
	maxTime   time.Time

	deviceType device.Type
	devicePath string
	file       *gcf.File

	rxBuf [rxBufferCapacity]byte
	wp    int

	rxFrame *frame.Receiver

	// btlVersion/appCRC are populated from the V3 BTL_ID_RESPONSE.
	btlVersion uint32
	appCRC     uint32

	// pageBase/pageEnd bound the V1 page-pull window over file.Payload.
	pageBase uint32
	pageEnd  uint32

	// recursion guard for the "at most one synchronous ACTION per
	// transition" rule.
	actionDepth int

	done   chan error
	result error
}

// New creates an engine bound to platform and telemetry sink, ready to
// receive EventPLStarted. cfg is the already-parsed command line (flag
// parsing is an external collaborator); the Init state validates it and
// dispatches into the task-selected state. A cfg.Task of TaskNone makes
// Init shut down with an error.
func New(platform Platform, sink telemetry.Sink, logger *log.Logger, cfg Config) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	if sink == nil {
		sink = telemetry.NoOp()
	}
	e := &Engine{
		platform:  platform,
		telemetry: sink,
		log:       logger,
		cfg:       cfg,
		state:     StateInit,
		substate:  SubstateVoid,
		rxFrame:   frame.NewReceiver(),
	}
	return e
}

// Run starts the engine and blocks until it shuts down, delivering
// events from in as they arrive. It returns the error ShutDown was
// called with (nil on a clean success).
func (e *Engine) Run(in <-chan Event) error {
	e.done = make(chan error, 1)
	e.HandleEvent(Event{Type: EventPLStarted})
	for {
		select {
		case ev, ok := <-in:
			if !ok {
				return e.result
			}
			e.HandleEvent(ev)
		case err := <-e.done:
			return err
		}
	}
}

// HandleEvent processes a single event synchronously. Events must be
// delivered serially; the engine performs no internal locking.
func (e *Engine) HandleEvent(ev Event) {
	if ev.Type == EventBytesArrived {
		e.dispatchBytes(ev.Bytes)
		return
	}
	e.step(ev)
}

// step is the central transition function: one big switch on the
// current top-level state, matching the tagged-variant dispatcher.
func (e *Engine) step(ev Event) {
	switch e.state {
	case StateInit:
		e.stepInit(ev)
	case StateReset:
		e.stepReset(ev)
	case StateProgram:
		e.stepProgram(ev)
	case StateBootloaderConnect:
		e.stepBootloaderConnect(ev)
	case StateBootloaderQuery:
		e.stepBootloaderQuery(ev)
	case StateV1Sync:
		e.stepV1Sync(ev)
	case StateV1Header:
		e.stepV1Header(ev)
	case StateV1Upload:
		e.stepV1Upload(ev)
	case StateV1Validate:
		e.stepV1Validate(ev)
	case StateV3Sync:
		e.stepV3Sync(ev)
	case StateV3Upload:
		e.stepV3Upload(ev)
	case StateConnect:
		e.stepConnect(ev)
	case StateConnected:
		e.stepConnected(ev)
	case StateListDevices:
		e.stepListDevices(ev)
	}
}

// enter transitions to a new top-level state, clears the reset substate
// (unless the new state is StateReset, which sets its own substate on
// entry), and emits exactly one synchronous ACTION
func (e *Engine) enter(s StateID) {
	e.log.Printf("engine: %s -> %s", e.state, s)
	e.state = s
	if s != StateReset {
		e.substate = SubstateVoid
	}
	e.publish(s.String(), "")
	e.emitAction()
}

// emitAction synchronously re-enters step with EventAction, bounded by a
// nesting depth limit to guard against runaway ACTION recursion.
func (e *Engine) emitAction() {
	const maxActionDepth = 8
	if e.actionDepth >= maxActionDepth {
		e.log.Printf("engine: ACTION recursion depth exceeded, dropping")
		return
	}
	e.actionDepth++
	e.step(Event{Type: EventAction})
	e.actionDepth--
}

// enterSubstate switches the Reset compound state's substate and emits
// its ACTION, without touching the top-level state.
func (e *Engine) enterSubstate(s SubstateID) {
	e.log.Printf("engine: Reset substate -> %s", s)
	e.substate = s
	e.publish("Reset", s.String())
	e.emitAction()
}

// transition moves to a new top-level state without emitting a
// synchronous ACTION, for states whose reactions are purely
// event-driven and carry no "on entry" behavior of their own (V1Upload,
// V1Validate, V3Upload): the handoff happens mid-reaction to an
// already-processed event, not as a fresh entry. onResetSuccess also
// uses it to hand off to Program without running Program's ACTION.
func (e *Engine) transition(s StateID) {
	e.log.Printf("engine: %s -> %s", e.state, s)
	e.state = s
	e.substate = SubstateVoid
	e.publish(s.String(), "")
}

// setTimeout/clearASCII/etc below are small helpers shared by many
// state handlers.

func (e *Engine) setTimeout(d time.Duration) {
	e.platform.SetTimeout(d)
}

func (e *Engine) clearASCII() {
	e.wp = 0
}

// appendASCII appends data to the rx buffer. wp never exceeds
// rxOverflowLimit: it resets cleanly (without crashing) on overflow
// instead of growing past capacity.
func (e *Engine) appendASCII(data []byte) {
	for _, b := range data {
		if e.wp >= rxOverflowLimit {
			e.log.Printf("engine: rx ascii buffer overflow, resetting")
			e.wp = 0
			continue
		}
		e.rxBuf[e.wp] = b
		e.wp++
	}
}

func (e *Engine) asciiString() string {
	return string(e.rxBuf[:e.wp])
}

// Summary reports the final state of a completed run, for callers that
// write a flash report (internal/report) after Run returns.
type Summary struct {
	DeviceType        device.Type
	DevicePath        string
	Task              Task
	BootloaderVersion uint32
	AppCRC            uint32
	Attempts          int
}

// Summary returns a snapshot of the engine's terminal state. Safe to
// call only after Run has returned.
func (e *Engine) Summary() Summary {
	return Summary{
		DeviceType:        e.deviceType,
		DevicePath:        e.devicePath,
		Task:              e.task,
		BootloaderVersion: e.btlVersion,
		AppCRC:            e.appCRC,
		Attempts:          e.retry,
	}
}

func (e *Engine) shutDown(err error) {
	e.result = err
	e.telemetry.Close()
	e.platform.ShutDown(err)
	if e.done != nil {
		select {
		case e.done <- err:
		default:
		}
	}
}

func (e *Engine) publish(state, detail string) {
	e.telemetry.Publish(telemetry.Update{
		State:      state,
		Task:       e.task.String(),
		DevicePath: e.devicePath,
		Detail:     detail,
	})
}
