package sip

import "strings"

// Request is a SIP request (RFC 3261 §7.1).
type Request struct {
	headers
	Method     RequestMethod
	Recipient  Uri
	SipVersion string
	body       []byte

	transport   string
	source      string
	destination string
}

// NewRequest creates the base of a request; AppendHeader adds headers,
// SetBody sets the body (Content-Length is the builder's responsibility).
func NewRequest(method RequestMethod, recipient Uri) *Request {
	return &Request{
		Method:     method,
		Recipient:  recipient.Clone(),
		SipVersion: "SIP/2.0",
	}
}

func (r *Request) StartLine() string {
	return string(r.Method) + " " + r.Recipient.String() + " " + r.SipVersion
}

func (r *Request) String() string {
	var b strings.Builder
	b.WriteString(r.StartLine())
	b.WriteString("\r\n")
	b.WriteString(r.headers.String())
	b.WriteString("\r\n")
	b.Write(r.body)
	return b.String()
}

func (r *Request) Body() []byte     { return r.body }
func (r *Request) SetBody(b []byte) { r.body = b }

func (r *Request) Transport() string        { return r.transport }
func (r *Request) SetTransport(t string)    { r.transport = t }
func (r *Request) Source() string           { return r.source }
func (r *Request) SetSource(s string)       { r.source = s }
func (r *Request) Destination() string      { return r.destination }
func (r *Request) SetDestination(d string)  { r.destination = d }

func (r *Request) From() *FromHeader       { return messageFrom(r) }
func (r *Request) To() *ToHeader           { return messageTo(r) }
func (r *Request) CallID() (CallIDHeader, bool) { return messageCallID(r) }
func (r *Request) CSeq() *CSeqHeader       { return messageCSeq(r) }
func (r *Request) Via() *ViaHeader         { return messageVia(r) }
func (r *Request) Contact() *ContactHeader { return messageContact(r) }

// Route returns the first Route header, if any.
func (r *Request) Route() *RouteHeader {
	if h := r.GetHeader("Route"); h != nil {
		return h.(*RouteHeader)
	}
	return nil
}

func (r *Request) IsInvite() bool { return r.Method == INVITE }
func (r *Request) IsAck() bool    { return r.Method == ACK }
func (r *Request) IsCancel() bool { return r.Method == CANCEL }

// Clone returns an independent copy: headers are deep-cloned, the body slice
// is copied, scalar fields are copied by value.
func (r *Request) Clone() *Request {
	n := NewRequest(r.Method, r.Recipient)
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
