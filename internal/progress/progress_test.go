package progress

import "testing"

func TestTracker_TickAndFinish(t *testing.T) {
	tr := New(3)
	tr.Tick()
	tr.Tick()
	tr.Tick()
	tr.Finish()
}

func TestTracker_NilReceiverIsSafe(t *testing.T) {
	var tr *Tracker
	tr.Tick()
	tr.Finish()
}
