package engine

import "fmt"

// IllegalActionError rejects a step whose action is not set in the mask
// that was checked, including acting out of turn (a non-actor's mask is
// all zeros). The engine state is unchanged; the caller may retry with a
// legal action.
type IllegalActionError struct {
	Player int
	Action int
	Mask   []uint8
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %d for player %d (legal mask %v)", e.Action, e.Player, e.Mask)
}

// ProtocolError reports engine misuse: stepping before reset, stepping a
// finished hand without DeadStep, or acknowledging a hand that has not
// ended. These are programmer errors, surfaced immediately.
type ProtocolError struct {
	Op     string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
