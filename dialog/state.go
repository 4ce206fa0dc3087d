package dialog

import (
	"fmt"

	"github.com/sipcore/dialogcore/sip"
)

// Role is which side of the dialog-establishing exchange this dialog is on.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}

// StatusCode re-exports sip.StatusCode so callers of this package do not
// need to import sip just to read a terminal status off a DialogEvent.
type StatusCode = sip.StatusCode

// Kind distinguishes the two flavors of DialogState named in spec §3/§9:
// persistent transitions, which replace DialogInner.state, and
// notifications, which are observed but never overwrite it.
type Kind int

const (
	KindTransition Kind = iota
	KindNotification
)

// State names a dialog state (spec §3). The dialog ID and, where
// meaningful, the triggering message travel alongside it in Event.
type State int

const (
	Calling State = iota
	Trying
	Early
	WaitAck
	Confirmed
	Updated
	Notify
	Info
	Terminated
)

func (s State) String() string {
	switch s {
	case Calling:
		return "Calling"
	case Trying:
		return "Trying"
	case Early:
		return "Early"
	case WaitAck:
		return "WaitAck"
	case Confirmed:
		return "Confirmed"
	case Updated:
		return "Updated"
	case Notify:
		return "Notify"
	case Info:
		return "Info"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Kind reports whether s is a persistent transition or a side-channel
// notification (spec §3: Updated/Notify/Info "do not replace" state).
func (s State) Kind() Kind {
	switch s {
	case Updated, Notify, Info:
		return KindNotification
	default:
		return KindTransition
	}
}

func (s State) IsConfirmed() bool { return s == Confirmed }

// Event is what is published on the observer channel: the state, the
// dialog ID at the time of the event, and whichever of Response/Request/
// TerminatedStatus applies.
type Event struct {
	State             State
	ID                ID
	Response          *sip.Response
	Request           *sip.Request
	TerminatedStatus  *StatusCode
}

func (e Event) String() string {
	if e.State == Terminated && e.TerminatedStatus != nil {
		return fmt.Sprintf("%s(%s %d)", e.ID, e.State, *e.TerminatedStatus)
	}
	return fmt.Sprintf("%s(%s)", e.ID, e.State)
}

func callingEvent(id ID) Event  { return Event{State: Calling, ID: id} }
func tryingEvent(id ID) Event   { return Event{State: Trying, ID: id} }
func earlyEvent(id ID, r *sip.Response) Event {
	return Event{State: Early, ID: id, Response: r}
}
func waitAckEvent(id ID, r *sip.Response) Event {
	return Event{State: WaitAck, ID: id, Response: r}
}
func confirmedEvent(id ID, r *sip.Response) Event {
	return Event{State: Confirmed, ID: id, Response: r}
}
func terminatedEvent(id ID, status *StatusCode) Event {
	return Event{State: Terminated, ID: id, TerminatedStatus: status}
}
func infoEvent(id ID, req *sip.Request) Event {
	return Event{State: Info, ID: id, Request: req}
}
func notifyEvent(id ID, req *sip.Request) Event {
	return Event{State: Notify, ID: id, Request: req}
}
func updatedEvent(id ID, req *sip.Request) Event {
	return Event{State: Updated, ID: id, Request: req}
}

// reinviteProgressEvent reports a provisional response to an in-dialog
// re-INVITE (spec SPEC_FULL §6 item 4). It is published as an Updated
// notification rather than Early: the dialog is already Confirmed and a
// re-INVITE's provisionals must not be routed through the persistent FSM,
// which only knows "ring" as a transition out of Calling/Trying.
func reinviteProgressEvent(id ID, res *sip.Response) Event {
	return Event{State: Updated, ID: id, Response: res}
}
