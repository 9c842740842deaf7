package engine

// dispatchBytes implements the receive dispatcher. While the current
// state consumes ASCII, the arrival is appended to the ASCII
// accumulator and its RX_ASCII event fully processed first; then the same
// bytes are fed to the frame codec regardless of state, since V3
// bootloader and application-protocol traffic can arrive in any state.
func (e *Engine) dispatchBytes(data []byte) {
	if e.state.asciiConsuming() {
		e.appendASCII(data)
		e.step(Event{Type: EventRxASCII})
	}
	e.rxFrame.Feed(data, e.onPacket)
}

// onPacket is the frame codec's upcall. It classifies a completed,
// CRC-valid frame payload and derives the appropriate synthesized
// event, copying the bootloader-packet payload into the rx buffer
// verbatim and setting wp to its length.
func (e *Engine) onPacket(payload []byte) {
	switch {
	case isWatchdogAck(payload):
		e.step(Event{Type: EventPkgUartReset})
	case len(payload) >= 1 && payload[0] == btlMagic:
		e.wp = copy(e.rxBuf[:], payload)
		e.step(Event{Type: EventRxBtlPkgData, Bytes: e.rxBuf[:e.wp]})
	default:
		e.log.Printf("engine: discarding unrecognized packet: % x", payload)
	}
}
