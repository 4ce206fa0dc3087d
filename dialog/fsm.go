package dialog

import (
	"context"

	"github.com/looplab/fsm"
)

// Persistent dialog states as FSM state names (spec §4.B diagram).
const (
	fsmCalling    = "calling"
	fsmTrying     = "trying"
	fsmEarly      = "early"
	fsmWaitAck    = "waitack"
	fsmConfirmed  = "confirmed"
	fsmTerminated = "terminated"
)

// fsmEventName maps a persistent State to the looplab/fsm event name that
// drives the transition. Notification states (Updated/Notify/Info) never
// reach the FSM — they bypass it entirely (spec §3/§9).
func fsmEventName(s State) string {
	switch s {
	case Trying:
		return "trying"
	case Early:
		return "ring"
	case WaitAck:
		return "wait_ack"
	case Confirmed:
		return "confirm"
	case Terminated:
		return "terminate"
	default:
		return ""
	}
}

// newDialogFSM builds the state machine honoring the orderings of spec
// §4.B: Calling -100-> Trying -18x-> Early -2xx-> Confirmed -BYE-> Terminated,
// with a direct Trying/Calling -2xx-> Confirmed shortcut, and any
// non-Terminated state failing straight to Terminated.
func newDialogFSM() *fsm.FSM {
	return fsm.NewFSM(
		fsmCalling,
		fsm.Events{
			{Name: "trying", Src: []string{fsmCalling, fsmTrying}, Dst: fsmTrying},
			{Name: "ring", Src: []string{fsmCalling, fsmTrying, fsmEarly}, Dst: fsmEarly},
			{Name: "wait_ack", Src: []string{fsmCalling, fsmTrying, fsmEarly, fsmWaitAck}, Dst: fsmWaitAck},
			{Name: "confirm", Src: []string{fsmCalling, fsmTrying, fsmEarly, fsmWaitAck, fsmConfirmed}, Dst: fsmConfirmed},
			{
				Name: "terminate",
				Src:  []string{fsmCalling, fsmTrying, fsmEarly, fsmWaitAck, fsmConfirmed},
				Dst:  fsmTerminated,
			},
		},
		fsm.Callbacks{},
	)
}

// fsmEvent drives f with the given dialog-core event name, ignoring
// "already there" no-ops (spec: re-asserting the current state is safe).
func fsmEvent(ctx context.Context, f *fsm.FSM, name string) error {
	if name == "" {
		return nil
	}
	err := f.Event(ctx, name)
	if err == nil {
		return nil
	}
	if _, ok := err.(fsm.NoTransitionError); ok {
		return nil
	}
	return err
}
