package sip

import (
	"strconv"
	"strings"
)

// Response is a SIP response (RFC 3261 §7.2).
type Response struct {
	headers
	StatusCode StatusCode
	Reason     string
	SipVersion string
	body       []byte

	transport   string
	source      string
	destination string
}

func NewResponse(status StatusCode, reason string) *Response {
	return &Response{StatusCode: status, Reason: reason, SipVersion: "SIP/2.0"}
}

func (r *Response) StartLine() string {
	return r.SipVersion + " " + strconv.Itoa(int(r.StatusCode)) + " " + r.Reason
}

func (r *Response) String() string {
	var b strings.Builder
	b.WriteString(r.StartLine())
	b.WriteString("\r\n")
	b.WriteString(r.headers.String())
	b.WriteString("\r\n")
	b.Write(r.body)
	return b.String()
}

func (r *Response) Body() []byte    { return r.body }
func (r *Response) SetBody(b []byte) { r.body = b }

func (r *Response) Transport() string       { return r.transport }
func (r *Response) SetTransport(t string)   { r.transport = t }
func (r *Response) Source() string          { return r.source }
func (r *Response) SetSource(s string)      { r.source = s }
func (r *Response) Destination() string     { return r.destination }
func (r *Response) SetDestination(d string) { r.destination = d }

func (r *Response) From() *FromHeader       { return messageFrom(r) }
func (r *Response) To() *ToHeader           { return messageTo(r) }
func (r *Response) CallID() (CallIDHeader, bool) { return messageCallID(r) }
func (r *Response) CSeq() *CSeqHeader       { return messageCSeq(r) }
func (r *Response) Via() *ViaHeader         { return messageVia(r) }
func (r *Response) Contact() *ContactHeader { return messageContact(r) }

func (r *Response) IsProvisional() bool { return r.StatusCode.IsProvisional() }
func (r *Response) IsSuccess() bool     { return r.StatusCode.IsSuccess() }

func (r *Response) Clone() *Response {
	n := NewResponse(r.StatusCode, r.Reason)
	n.SipVersion = r.SipVersion
	for _, h := range r.CloneHeaders() {
		n.AppendHeader(h)
	}
	if r.body != nil {
		n.body = append([]byte(nil), r.body...)
	}
	n.transport = r.transport
	n.source = r.source
	n.destination = r.destination
	return n
}

// NewResponseFromRequest builds a minimal response skeleton copying Via,
// From, To, CSeq, and Call-ID from the request, per RFC 3261 §8.2.6. The
// dialog core's own response builder (dialog.makeResponse) layers
// Record-Route/Contact/to-tag handling on top of this.
func NewResponseFromRequest(req *Request, status StatusCode, reason string, body []byte) *Response {
	res := NewResponse(status, reason)
	res.SipVersion = req.SipVersion
	CopyHeaders("Via", req, res)
	if h := req.From(); h != nil {
		res.AppendHeader(h.Clone())
	}
	if h := req.To(); h != nil {
		res.AppendHeader(h.Clone())
	}
	if callID, ok := req.CallID(); ok {
		res.AppendHeader(callID)
	}
	if h := req.CSeq(); h != nil {
		res.AppendHeader(h.Clone())
	}
	res.SetBody(body)
	return res
}
