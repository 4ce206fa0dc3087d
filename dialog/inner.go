package dialog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/looplab/fsm"

	"github.com/sipcore/dialogcore/dialog/auth"
	"github.com/sipcore/dialogcore/dialog/metrics"
	"github.com/sipcore/dialogcore/sip"
)

// dialogInner is the shared mutable core wrapped by ClientInviteDialog and
// ServerInviteDialog (spec §3's DialogInner, §8's concurrency model: one
// mutex guards id/state/to-tag, two atomics carry the CSeq counters so
// PRACK/UPDATE-free hot paths never block on the state mutex).
type dialogInner struct {
	role Role

	mu    sync.Mutex
	id    ID
	state State
	fsm   *fsm.FSM

	localSeq  atomic.Uint32
	remoteSeq atomic.Uint32

	localContact sip.Uri
	remoteURI    sip.Uri
	from         *sip.FromHeader
	to           *sip.ToHeader
	routeSet     []sip.Uri

	endpoint sip.Endpoint

	credential *auth.Credential

	initialRequest *sip.Request

	ctx    context.Context
	cancel context.CancelFunc

	closed bool
	subs   []chan Event
}

func newDialogInner(role Role, id ID) *dialogInner {
	ctx, cancel := context.WithCancel(context.Background())
	return &dialogInner{
		role:   role,
		id:     id,
		state:  Calling,
		fsm:    newDialogFSM(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// NewClientDialog builds the DialogInner for an outbound INVITE (spec §4.A,
// role client): from/to map directly from the request's own From/To, seeded
// local_seq at the request's CSeq (the first in-dialog request takes the
// next number), and remote_seq starts at zero since the peer has sent
// nothing yet.
func NewClientDialog(req *sip.Request, localContact sip.Uri, endpoint sip.Endpoint) (*dialogInner, error) {
	id, err := idFromRequest(req, RoleClient)
	if err != nil {
		return nil, err
	}
	from := req.From()
	if from == nil {
		return nil, &Error{Message: "missing From header", ID: id}
	}
	to := req.To()
	if to == nil {
		return nil, &Error{Message: "missing To header", ID: id}
	}
	cseq := req.CSeq()
	if cseq == nil {
		return nil, &Error{Message: "missing CSeq header", ID: id}
	}

	d := newDialogInner(RoleClient, id)
	d.localContact = localContact.Clone()
	d.remoteURI = req.Recipient.StripParamsExceptTransport()
	d.from = from
	d.to = to
	d.endpoint = endpoint
	d.localSeq.Store(cseq.SeqNo)
	d.initialRequest = req.Clone()
	return d, nil
}

// NewServerDialog builds the DialogInner for an inbound INVITE (spec §4.A,
// role server). The caller supplies a fresh to-tag (localToTag), which is
// injected into the To header here before the dialog ID is derived (the ID
// must reflect it); from/to are swapped relative to
// the wire message since "local" now means the request's To side; remote_uri
// comes from the request's Contact header, not the Request-URI (the peer's
// actual reachable address, per RFC 3261 §12.1.1); remote_seq seeds from the
// request's own CSeq so a later in-dialog request must carry a higher CSeq
// to be accepted, and local_seq starts at zero since we have sent nothing yet.
func NewServerDialog(req *sip.Request, localContact sip.Uri, localToTag string, endpoint sip.Endpoint) (*dialogInner, error) {
	from := req.From()
	if from == nil {
		return nil, &Error{Message: "missing From header"}
	}
	to := req.To()
	if to == nil {
		return nil, &Error{Message: "missing To header"}
	}
	contact := req.Contact()
	if contact == nil {
		return nil, ErrNoContact
	}
	cseq := req.CSeq()
	if cseq == nil {
		return nil, &Error{Message: "missing CSeq header"}
	}

	taggedTo := to.Clone().(*sip.ToHeader)
	if taggedTo.Params == nil {
		taggedTo.Params = sip.NewParams()
	}
	taggedTo.Params.Add("tag", localToTag)

	tagged := req.Clone()
	tagged.RemoveHeader("To")
	tagged.PushFront(taggedTo)

	id, err := idFromRequest(tagged, RoleServer)
	if err != nil {
		return nil, err
	}

	d := newDialogInner(RoleServer, id)
	d.localContact = localContact.Clone()
	d.endpoint = endpoint
	d.remoteURI = contact.Address.StripParamsExceptTransport()
	// Local perspective: "from" is our own side (the request's To, now
	// tagged), "to" is the peer (the request's From).
	d.from = &sip.FromHeader{DisplayName: taggedTo.DisplayName, Address: taggedTo.Address, Params: taggedTo.Params.Clone()}
	d.to = &sip.ToHeader{DisplayName: from.DisplayName, Address: from.Address, Params: from.Params.Clone()}
	d.remoteSeq.Store(cseq.SeqNo)
	d.initialRequest = req.Clone()

	// RFC 3261 §12.1.1: the route set is the Record-Route headers of the
	// request, taken in order (no reversal for the UAS side — the UAS
	// simply echoes them as Route headers on subsequent requests it sends).
	for _, h := range req.GetHeaders("Record-Route") {
		rr := h.(*sip.RecordRouteHeader)
		d.routeSet = append(d.routeSet, rr.Address.Clone())
	}
	return d, nil
}

// setRouteSetFromResponse installs the client-side route set from a
// dialog-establishing response's Record-Route headers, reversed per RFC
// 3261 §12.1.2/§12.2.1.1: the UAC's route set is the reverse of the
// Record-Route header field values, since the UAS appended them in the
// order the request traveled downstream.
func (d *dialogInner) setRouteSetFromResponse(res *sip.Response) {
	rrs := res.GetHeaders("Record-Route")
	set := make([]sip.Uri, 0, len(rrs))
	for i := len(rrs) - 1; i >= 0; i-- {
		rr := rrs[i].(*sip.RecordRouteHeader)
		set = append(set, rr.Address.Clone())
	}
	d.mu.Lock()
	d.routeSet = set
	d.mu.Unlock()
}

// setRemoteTag records the peer's to-tag once a dialog-establishing
// response supplies one (spec §4.D: "recompute DialogId"), fixing the
// dialog's identity for the remainder of its lifetime (invariant 5). A
// dialog that already has a to-tag (e.g. a retransmitted 200 OK, or a
// second 18x carrying the same tag as an earlier one) is left untouched.
func (d *dialogInner) setRemoteTag(tag string) {
	if tag == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.id.ToTag != "" {
		return
	}
	if d.to.Params == nil {
		d.to.Params = sip.NewParams()
	}
	d.to.Params.Add("tag", tag)
	d.id = d.id.withToTag(tag)
}

func (d *dialogInner) nextLocalSeq() uint32 {
	return d.localSeq.Add(1)
}

// acceptRemoteSeq enforces spec §4.D/§7's in-dialog ordering invariant:
// a request whose CSeq does not exceed the last-seen remote CSeq is stale
// and must be rejected (500) without updating any state.
func (d *dialogInner) acceptRemoteSeq(seq uint32) bool {
	for {
		cur := d.remoteSeq.Load()
		if seq <= cur && cur != 0 {
			return false
		}
		if d.remoteSeq.CompareAndSwap(cur, seq) {
			return true
		}
	}
}

func (d *dialogInner) snapshotID() ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

func (d *dialogInner) snapshotState() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *dialogInner) isConfirmed() bool {
	return d.snapshotState().IsConfirmed()
}

func (d *dialogInner) snapshotRouteSet() []sip.Uri {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]sip.Uri, len(d.routeSet))
	copy(out, d.routeSet)
	return out
}

// subscribe registers a new observer channel (spec §7: "a dialog may be
// observed by any number of subscribers"). The channel is buffered and
// sends are non-blocking: a slow or absent reader degrades silently rather
// than stalling the dialog's protocol-facing goroutine.
func (d *dialogInner) subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	d.mu.Lock()
	d.subs = append(d.subs, ch)
	d.mu.Unlock()
	return ch
}

// publishLocked sends ev to every subscriber without blocking, dropping the
// event for any subscriber whose buffer is full. Must be called with d.mu
// held.
func (d *dialogInner) publishLocked(ev Event) {
	for _, ch := range d.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// transition applies a persistent state transition or a notification event
// (spec §4.B, §9). Sends occur before the persistent state swap, both while
// d.mu is held, so the dialog never reports itself as having moved to a
// state a subscriber hasn't been told about yet; an observer that re-reads
// id/state after receiving an event waits for d.mu and so sees the
// post-transition values. Once
// Terminated, no persistent transition can leave it — but notifications are
// still published, merely unable to affect state (invariant 4: side-channel
// events are observed, not suppressed, regardless of the persistent state).
func (d *dialogInner) transition(ev Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ev.State.Kind() == KindNotification {
		d.publishLocked(ev)
		return nil
	}
	if d.state == Terminated {
		return nil
	}

	name := fsmEventName(ev.State)
	if err := fsmEvent(d.ctx, d.fsm, name); err != nil {
		return &Error{Message: "invalid transition to " + ev.State.String() + ": " + err.Error(), ID: d.id}
	}

	d.publishLocked(ev)
	d.state = ev.State
	if ev.State == Terminated {
		d.closed = true
		d.cancel()
	}
	Logger.Debug().Str("dialog", d.id.String()).Str("state", ev.State.String()).Msg("transition")
	metrics.Transitions.WithLabelValues(ev.State.String(), d.role.String()).Inc()
	return nil
}

func (d *dialogInner) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.cancel()
}
