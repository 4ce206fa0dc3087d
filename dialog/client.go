package dialog

import (
	"context"

	"github.com/sipcore/dialogcore/dialog/auth"
	"github.com/sipcore/dialogcore/sip"
)

// ClientInviteDialog is the UAC side of a dialog (spec §4.D/§4.F,
// component D), grounded on emiago-sipgo/dialog_client.go's
// DialogClientCache and ClientTx handling.
type ClientInviteDialog struct {
	*dialogInner
	send requestSender
}

// NewClientInviteDialog starts a new client dialog for invite: it is NOT
// sent here (see ProcessInvite) — construction only establishes the
// dialog's identity/route bookkeeping from the request as built by the
// caller, matching spec §4.A's "built from the first request, before any
// response is seen".
func NewClientInviteDialog(invite *sip.Request, localContact sip.Uri, endpoint sip.Endpoint, send requestSender) (*ClientInviteDialog, error) {
	inner, err := NewClientDialog(invite, localContact, endpoint)
	if err != nil {
		return nil, err
	}
	return &ClientInviteDialog{dialogInner: inner, send: send}, nil
}

// SetCredential installs the digest credential used for 401/407 retries
// (spec §3: DialogInner.credential).
func (c *ClientInviteDialog) SetCredential(username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = &auth.Credential{Username: username, Password: password}
}

// ProcessInvite drives the initial INVITE transaction to completion (spec
// §4.D): every provisional response is classified into Trying/Early and
// published; 401/407 triggers one authenticated retry if a credential is
// set; 2xx moves to WaitAck (the caller is responsible for sending ACK and
// calling Confirm, since ACK for a 2xx is not retransmitted by any
// transaction and must be driven by the dialog user, per RFC 3261 §13.2.2.4);
// 3xx/4xx/5xx/6xx and CANCEL-induced 487 move straight to Terminated.
func (c *ClientInviteDialog) ProcessInvite(ctx context.Context) (*sip.Response, error) {
	invite := c.initialRequest

	onProvisional := func(res *sip.Response) {
		c.setRemoteTag(firstToTag(res))
		if res.StatusCode == sip.StatusTrying {
			c.transition(tryingEvent(c.snapshotID()))
			return
		}
		c.setRouteSetFromResponse(res)
		c.transition(earlyEvent(c.snapshotID(), res))
	}

	res, err := c.doRequest(ctx, invite, c.send, onProvisional)
	if err != nil {
		c.transition(terminatedEvent(c.snapshotID(), nil))
		return nil, err
	}
	if res == nil {
		c.transition(terminatedEvent(c.snapshotID(), nil))
		return nil, nil
	}

	c.setRemoteTag(firstToTag(res))

	switch {
	case res.IsSuccess():
		c.setRouteSetFromResponse(res)
		c.transition(waitAckEvent(c.snapshotID(), res))
		return res, nil
	default:
		status := res.StatusCode
		c.transition(terminatedEvent(c.snapshotID(), &status))
		return res, nil
	}
}

// Confirm records ACK having been sent for a WaitAck dialog, completing the
// three-way handshake (spec §4.B: WaitAck -> Confirmed). The ACK itself is
// built and sent by the caller via BuildAck/SendAck since it is not itself
// retried or retransmitted by any transaction abstraction.
func (c *ClientInviteDialog) Confirm(res *sip.Response) {
	c.transition(confirmedEvent(c.snapshotID(), res))
}

// BuildAck builds the ACK for a 2xx response to the initial INVITE (RFC
// 3261 §13.2.2.4): its own CSeq number (the INVITE's, not a fresh one),
// Route headers from the (now-finalized) route set, Request-URI from the
// Contact in res when present.
func (c *ClientInviteDialog) BuildAck(res *sip.Response) *sip.Request {
	c.mu.Lock()
	inviteSeq := c.initialRequest.CSeq().SeqNo
	from := c.from
	to := c.to
	callID := c.id.CallID
	routeSet := append([]sip.Uri(nil), c.routeSet...)
	remoteURI := c.remoteURI
	c.mu.Unlock()

	recipient := remoteURI
	if contact := res.Contact(); contact != nil {
		recipient = contact.Address.StripParamsExceptTransport()
	}

	ack := sip.NewRequest(sip.ACK, recipient)
	ack.AppendHeader(&sip.FromHeader{DisplayName: from.DisplayName, Address: from.Address, Params: from.Params.Clone()})
	ack.AppendHeader(&sip.ToHeader{DisplayName: to.DisplayName, Address: to.Address, Params: to.Params.Clone()})
	ack.AppendHeader(sip.CallIDHeader(callID))
	ack.AppendHeader(&sip.CSeqHeader{SeqNo: inviteSeq, MethodName: sip.ACK})
	ack.AppendHeader(sip.MaxForwardsHeader(maxForwards))
	for _, r := range routeSet {
		ack.AppendHeader(&sip.RouteHeader{Address: r})
	}
	return ack
}

// Cancel sends CANCEL for the still-pending initial INVITE (spec §4.D:
// "CSeq reuse, no increment" — CANCEL always carries the INVITE's own CSeq
// number, RFC 3261 §9.1). Only meaningful before a final response: calling
// it after the dialog reached WaitAck/Confirmed is a caller error the RFC
// itself forbids, and is simply a no-op transaction send here.
func (c *ClientInviteDialog) Cancel(ctx context.Context) error {
	cancel := makeCancel(c.initialRequest)
	tx, err := c.send(cancel)
	if err != nil {
		return err
	}
	defer tx.Terminate()
	return tx.Send(ctx)
}

// Bye sends an in-dialog BYE and waits for its final response (spec §4.F).
// Requires the dialog to be Confirmed.
func (c *ClientInviteDialog) Bye(ctx context.Context) error {
	if !c.isConfirmed() {
		return ErrNotConfirmed
	}
	req, err := c.makeRequest(sip.BYE, nil)
	if err != nil {
		return err
	}
	res, err := c.doRequest(ctx, req, c.send, nil)
	if err != nil {
		return err
	}
	status := sip.StatusOK
	if res != nil {
		status = res.StatusCode
	}
	c.transition(terminatedEvent(c.snapshotID(), &status))
	if res != nil && !res.IsSuccess() {
		return &ResponseError{Status: res.StatusCode, Reason: res.Reason}
	}
	return nil
}

// Info sends an in-dialog INFO request (spec §4.F) without any persistent
// state change — a pure notification exchange.
func (c *ClientInviteDialog) Info(ctx context.Context, body []byte) (*sip.Response, error) {
	if !c.isConfirmed() {
		return nil, ErrNotConfirmed
	}
	req, err := c.makeRequest(sip.INFO, body)
	if err != nil {
		return nil, err
	}
	res, err := c.doRequest(ctx, req, c.send, nil)
	if err != nil {
		return nil, err
	}
	if res != nil {
		c.transition(infoEvent(c.snapshotID(), req))
	}
	return res, nil
}

// Reinvite sends an in-dialog re-INVITE (spec §9 Open Question resolution,
// SPEC §6 item 4): stays Confirmed on both success and on a failure to an
// already-established dialog; only terminates if the dialog hadn't
// confirmed yet (which cannot happen through this method, since Reinvite
// itself requires the dialog to already be Confirmed).
func (c *ClientInviteDialog) Reinvite(ctx context.Context, body []byte) (*sip.Response, error) {
	if !c.isConfirmed() {
		return nil, ErrNotConfirmed
	}
	req, err := c.makeRequest(sip.INVITE, body)
	if err != nil {
		return nil, err
	}

	// Provisionals are published as an Updated notification, not Early: the
	// dialog is already Confirmed and the persistent FSM has no "ring"
	// transition out of Confirmed (spec SPEC_FULL §6 item 4).
	onProvisional := func(res *sip.Response) {
		c.transition(reinviteProgressEvent(c.snapshotID(), res))
	}
	res, err := c.doRequest(ctx, req, c.send, onProvisional)
	if err != nil {
		return nil, err
	}
	if res != nil {
		c.transition(updatedEvent(c.snapshotID(), req))
	}
	return res, nil
}

// Handle dispatches an inbound in-dialog request delivered on a server
// transaction (spec §4.F): stale CSeq gets 500 without touching any state;
// before Confirmed, every in-dialog method is logged and ignored with no
// reply at all; once Confirmed, BYE terminates the dialog after replying
// 200, INFO/NOTIFY update remote_seq and publish a notification, and any
// other method gets 405.
func (c *ClientInviteDialog) Handle(ctx context.Context, req *sip.Request, tx sip.ServerTransaction) error {
	cseq := req.CSeq()
	if cseq == nil {
		return tx.Reply(ctx, c.makeResponse(req, sip.StatusServerInternalError, "Malformed Request", nil))
	}
	if !c.acceptRemoteSeq(cseq.SeqNo) {
		return tx.Reply(ctx, c.makeResponse(req, sip.StatusServerInternalError, "Stale CSeq", nil))
	}
	if !c.isConfirmed() {
		Logger.Debug().Str("dialog", c.snapshotID().String()).Str("method", string(req.Method)).
			Msg("in-dialog request received before Confirmed, ignoring")
		return nil
	}

	switch req.Method {
	case sip.BYE:
		if err := tx.Reply(ctx, c.makeResponse(req, sip.StatusOK, "OK", nil)); err != nil {
			return err
		}
		status := sip.StatusOK
		c.transition(terminatedEvent(c.snapshotID(), &status))
		return nil
	case sip.INFO:
		c.transition(infoEvent(c.snapshotID(), req))
		return tx.Reply(ctx, c.makeResponse(req, sip.StatusOK, "OK", nil))
	case sip.NOTIFY:
		c.transition(notifyEvent(c.snapshotID(), req))
		return tx.Reply(ctx, c.makeResponse(req, sip.StatusOK, "OK", nil))
	default:
		return tx.Reply(ctx, c.makeResponse(req, sip.StatusMethodNotAllowed, "Method Not Allowed", nil))
	}
}

func firstToTag(res *sip.Response) string {
	to := res.To()
	if to == nil {
		return ""
	}
	tag, _ := to.Tag()
	return tag
}
