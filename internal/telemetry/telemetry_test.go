package telemetry

import "testing"

func TestNoOpNeverBlocksOrErrors(t *testing.T) {
	sink := NoOp()
	for i := 0; i < 1000; i++ {
		sink.Publish(Update{State: "Reset", Task: "Program", DevicePath: "/dev/ttyACM0"})
	}
	sink.Close()
}
