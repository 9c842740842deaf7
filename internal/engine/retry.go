package engine

import (
	"fmt"
	"time"
)

// retryController compares wall-clock time against the deadline; if it
// hasn't expired, restart from Init after 250 ms (Init's command-line
// dispatch is idempotent); otherwise shut down.
func (e *Engine) retryController() {
	if e.platform.Now().Before(e.maxTime) {
		e.state = StateInit
		e.substate = SubstateVoid
		e.setTimeout(250 * time.Millisecond)
		return
	}
	e.shutDown(fmt.Errorf("engine: deadline exceeded after %d retr%s", e.retry, plural(e.retry)))
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
