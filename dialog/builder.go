package dialog

import (
	"fmt"

	"github.com/sipcore/dialogcore/sip"
)

const maxForwards = 70

// makeRequest builds an in-dialog request (spec §4.C): Request-URI is always
// the dialog's own remote_uri — never overridden by the route set, which
// only ever influences *where bytes are sent* (see requestDestination in
// request_loop.go), not the Request-URI field itself (RFC 3261 §12.2.1.1).
// A fresh Via comes from the endpoint collaborator, Route headers echo the
// stored route set in order, From/To/Call-ID are copied from the dialog
// identity (To carrying the peer's tag once known), CSeq is freshly
// allocated, User-Agent comes from the endpoint, Max-Forwards resets to 70,
// and Content-Length is set whenever a body is attached.
func (d *dialogInner) makeRequest(method sip.RequestMethod, body []byte) (*sip.Request, error) {
	d.mu.Lock()
	from := d.from
	to := d.to
	routeSet := append([]sip.Uri(nil), d.routeSet...)
	remoteURI := d.remoteURI
	localContact := d.localContact
	callID := d.id.CallID
	endpoint := d.endpoint
	d.mu.Unlock()

	via, err := endpoint.GetVia(newBranch())
	if err != nil {
		return nil, fmt.Errorf("dialog: building Via for %s: %w", method, err)
	}

	req := sip.NewRequest(method, remoteURI)
	req.AppendHeader(via)
	req.AppendHeader(&sip.FromHeader{DisplayName: from.DisplayName, Address: from.Address, Params: from.Params.Clone()})
	req.AppendHeader(&sip.ToHeader{DisplayName: to.DisplayName, Address: to.Address, Params: to.Params.Clone()})
	req.AppendHeader(sip.CallIDHeader(callID))
	req.AppendHeader(&sip.CSeqHeader{SeqNo: d.nextLocalSeq(), MethodName: method})
	req.AppendHeader(&sip.ContactHeader{Address: localContact})
	if agent := endpoint.UserAgent(); agent != "" {
		req.AppendHeader(sip.UserAgentHeader(agent))
	}
	req.AppendHeader(sip.MaxForwardsHeader(maxForwards))

	for _, r := range routeSet {
		req.AppendHeader(&sip.RouteHeader{Address: r})
	}

	if len(body) > 0 {
		req.SetBody(body)
		req.AppendHeader(sip.ContentLengthHeader(len(body)))
	}
	return req, nil
}

// makeCancel builds the CANCEL matching an outstanding INVITE (spec §4.D):
// same Request-URI, Call-ID, From (with tag), To (tag-less — the dialog is
// not yet confirmed when CANCEL is sent), and CSeq number, but method CANCEL
// and no body, per RFC 3261 §9.1.
func makeCancel(invite *sip.Request) *sip.Request {
	cancel := sip.NewRequest(sip.CANCEL, invite.Recipient)
	sip.CopyHeaders("From", invite, cancel)
	sip.CopyHeaders("To", invite, cancel)
	sip.CopyHeaders("Call-ID", invite, cancel)
	sip.CopyHeaders("Via", invite, cancel)
	sip.CopyHeaders("Route", invite, cancel)
	if cseq := invite.CSeq(); cseq != nil {
		cancel.AppendHeader(&sip.CSeqHeader{SeqNo: cseq.SeqNo, MethodName: sip.CANCEL})
	}
	cancel.AppendHeader(sip.MaxForwardsHeader(maxForwards))
	return cancel
}

// makeResponse builds a response to an in-dialog or dialog-establishing
// request: Contact comes from the dialog's own local_contact, Record-Route
// headers are copied from req, and extraHeaders are unique-pushed (spec §4.C
// "unique push" semantics), so a caller supplying e.g. a replacement
// Contact overwrites rather than duplicates. Via/From/To/CSeq/Call-ID are
// already cloned from req by sip.NewResponseFromRequest per spec §4.C's
// response builder; User-Agent is unique-pushed from the endpoint on top.
func (d *dialogInner) makeResponse(req *sip.Request, status sip.StatusCode, reason string, body []byte, extraHeaders ...sip.Header) *sip.Response {
	res := sip.NewResponseFromRequest(req, status, reason, body)

	d.mu.Lock()
	localContact := d.localContact
	endpoint := d.endpoint
	d.mu.Unlock()

	res.UniquePush(&sip.ContactHeader{Address: localContact})
	sip.CopyHeaders("Record-Route", req, res)

	for _, h := range extraHeaders {
		res.UniquePush(h)
	}
	if agent := endpoint.UserAgent(); agent != "" {
		res.UniquePush(sip.UserAgentHeader(agent))
	}
	return res
}
