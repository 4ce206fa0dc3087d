package dialog

import (
	"context"

	"github.com/sipcore/dialogcore/sip"
)

// ServerInviteDialog is the UAS side of a dialog (SPEC_FULL §7, component
// F — referenced but not implemented by the teacher's own dialog_ua.go
// hooks; specified here as the symmetric peer of ClientInviteDialog).
type ServerInviteDialog struct {
	*dialogInner
	tx sip.ServerTransaction
}

// NewServerInviteDialog builds a server dialog for an inbound INVITE
// delivered on tx: a fresh to-tag is generated by the caller (toTag) before
// the dialog's identity is derived, since the identity itself depends on
// it (spec §4.A).
func NewServerInviteDialog(invite *sip.Request, tx sip.ServerTransaction, localContact sip.Uri, toTag string, endpoint sip.Endpoint) (*ServerInviteDialog, error) {
	inner, err := NewServerDialog(invite, localContact, toTag, endpoint)
	if err != nil {
		return nil, err
	}
	return &ServerInviteDialog{dialogInner: inner, tx: tx}, nil
}

// Progress sends a 1xx other than 100 Trying, moving to Early (spec §7).
func (s *ServerInviteDialog) Progress(ctx context.Context, status sip.StatusCode, reason string) error {
	if s.snapshotState() == Terminated {
		return ErrCanceled
	}
	res := s.makeResponse(s.initialRequest, status, reason, nil, s.taggedTo())
	if err := s.tx.Reply(ctx, res); err != nil {
		return err
	}
	s.transition(earlyEvent(s.snapshotID(), res))
	return nil
}

// Accept sends the 2xx final response, moves to WaitAck, and blocks until
// the matching ACK arrives on tx.Acks() (RFC 3261 §13.3.1.4) or ctx is
// done, then moves to Confirmed. Returns the ACK so the caller can inspect
// its body (SDP answer renegotiation, etc.).
func (s *ServerInviteDialog) Accept(ctx context.Context, body []byte, extraHeaders ...sip.Header) (*sip.Request, error) {
	if s.snapshotState() == Terminated {
		return nil, ErrCanceled
	}
	headers := append([]sip.Header{s.taggedTo()}, extraHeaders...)
	res := s.makeResponse(s.initialRequest, sip.StatusOK, "OK", body, headers...)
	if err := s.tx.Reply(ctx, res); err != nil {
		return nil, err
	}
	s.transition(waitAckEvent(s.snapshotID(), res))

	select {
	case ack, ok := <-s.tx.Acks():
		if !ok {
			return nil, ErrCanceled
		}
		s.transition(confirmedEvent(s.snapshotID(), nil))
		return ack, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reject sends a non-2xx final response and transitions to Terminated(status)
// (spec §7).
func (s *ServerInviteDialog) Reject(ctx context.Context, status sip.StatusCode, reason string) error {
	if s.snapshotState() == Terminated {
		return ErrCanceled
	}
	res := s.makeResponse(s.initialRequest, status, reason, nil, s.taggedTo())
	if err := s.tx.Reply(ctx, res); err != nil {
		return err
	}
	st := status
	s.transition(terminatedEvent(s.snapshotID(), &st))
	return nil
}

// HandleCancel responds to a CANCEL received for the INVITE transaction
// before any final response was sent: the INVITE itself is answered 487
// Request Terminated by the caller's transaction layer, and the dialog
// here simply moves straight to Terminated(487), matching RFC 3261 §9.2 and
// mirroring the teacher's dialog_ua.go OnCancel hook (adapted to trigger a
// dialog-core transition rather than only a cancellation token).
func (s *ServerInviteDialog) HandleCancel() {
	status := sip.StatusRequestTerminated
	s.transition(terminatedEvent(s.snapshotID(), &status))
}

// taggedTo returns the local (our own) To header carrying the to-tag
// injected at dialog construction, for use as an extra header on every
// response this dialog sends (spec §4.C "unique push").
func (s *ServerInviteDialog) taggedTo() sip.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &sip.ToHeader{DisplayName: s.from.DisplayName, Address: s.from.Address, Params: s.from.Params.Clone()}
}

// Handle dispatches an inbound in-dialog request on the server side (spec
// §7: identical rules to the client side).
func (s *ServerInviteDialog) Handle(ctx context.Context, req *sip.Request, reqTx sip.ServerTransaction) error {
	cseq := req.CSeq()
	if cseq == nil {
		return reqTx.Reply(ctx, s.makeResponse(req, sip.StatusServerInternalError, "Malformed Request", nil))
	}
	if !s.acceptRemoteSeq(cseq.SeqNo) {
		return reqTx.Reply(ctx, s.makeResponse(req, sip.StatusServerInternalError, "Stale CSeq", nil))
	}
	if !s.isConfirmed() {
		Logger.Debug().Str("dialog", s.snapshotID().String()).Str("method", string(req.Method)).
			Msg("in-dialog request received before Confirmed, ignoring")
		return nil
	}

	switch req.Method {
	case sip.BYE:
		if err := reqTx.Reply(ctx, s.makeResponse(req, sip.StatusOK, "OK", nil)); err != nil {
			return err
		}
		status := sip.StatusOK
		s.transition(terminatedEvent(s.snapshotID(), &status))
		return nil
	case sip.INFO:
		s.transition(infoEvent(s.snapshotID(), req))
		return reqTx.Reply(ctx, s.makeResponse(req, sip.StatusOK, "OK", nil))
	case sip.NOTIFY:
		s.transition(notifyEvent(s.snapshotID(), req))
		return reqTx.Reply(ctx, s.makeResponse(req, sip.StatusOK, "OK", nil))
	default:
		return reqTx.Reply(ctx, s.makeResponse(req, sip.StatusMethodNotAllowed, "Method Not Allowed", nil))
	}
}
