package engine

// EventType names a member of the event alphabet the platform and the
// engine itself use to drive state transitions.
type EventType int

const (
	// EventPLStarted is delivered once by the platform at process start.
	EventPLStarted EventType = iota
	// EventTimeout is delivered when the single active timer fires.
	EventTimeout
	// EventAction is a self-event used on state entry.
	EventAction
	// EventDisconnected is delivered when the serial port drops.
	EventDisconnected
	// EventBytesArrived carries raw bytes read from the serial port; it
	// is never seen by state handlers directly; the receive dispatcher
	// (rx.go) consumes it and derives EventRxASCII / EventRxBtlPkgData /
	// EventPkgUartReset from it
	EventBytesArrived
	// EventRxASCII is derived by the dispatcher: a full arrival was
	// appended to the ASCII accumulator.
	EventRxASCII
	// EventRxBtlPkgData is derived by the frame codec upcall: a
	// bootloader-magic (0x81) packet landed in the rx buffer.
	EventRxBtlPkgData
	// EventPkgUartReset is derived by the frame codec upcall: the
	// running application acknowledged the watchdog-timeout write.
	EventPkgUartReset
	EventUartResetSuccess
	EventUartResetFailed
	EventFtdiResetSuccess
	EventFtdiResetFailed
	EventRaspBeeResetSuccess
	EventRaspBeeResetFailed
	EventResetSuccess
	EventResetFailed
)

func (t EventType) String() string {
	switch t {
	case EventPLStarted:
		return "PL_STARTED"
	case EventTimeout:
		return "TIMEOUT"
	case EventAction:
		return "ACTION"
	case EventDisconnected:
		return "DISCONNECTED"
	case EventBytesArrived:
		return "BYTES_ARRIVED"
	case EventRxASCII:
		return "RX_ASCII"
	case EventRxBtlPkgData:
		return "RX_BTL_PKG_DATA"
	case EventPkgUartReset:
		return "PKG_UART_RESET"
	case EventUartResetSuccess:
		return "UART_RESET_SUCCESS"
	case EventUartResetFailed:
		return "UART_RESET_FAILED"
	case EventFtdiResetSuccess:
		return "FTDI_RESET_SUCCESS"
	case EventFtdiResetFailed:
		return "FTDI_RESET_FAILED"
	case EventRaspBeeResetSuccess:
		return "RASPBEE_RESET_SUCCESS"
	case EventRaspBeeResetFailed:
		return "RASPBEE_RESET_FAILED"
	case EventResetSuccess:
		return "RESET_SUCCESS"
	case EventResetFailed:
		return "RESET_FAILED"
	default:
		return "UNKNOWN_EVENT"
	}
}

// Event is a single occurrence delivered to the engine, either by the
// platform (PL_STARTED, TIMEOUT, DISCONNECTED, BYTES_ARRIVED) or
// synthesized by the engine itself (ACTION, RX_ASCII, RX_BTL_PKG_DATA,
// PKG_UART_RESET, and the *_SUCCESS/*_FAILED family).
type Event struct {
	Type  EventType
	Bytes []byte
}
