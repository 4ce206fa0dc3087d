package sip

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is a single SIP header field.
type Header interface {
	Name() string
	Value() string
	String() string
	Clone() Header
}

// HeaderToLower lowercases a header name for case-insensitive matching,
// RFC 3261 §7.3.1 says header field names are case-insensitive.
func HeaderToLower(name string) string { return strings.ToLower(name) }

// headers is the shared ordered header list embedded in Request and Response.
type headers struct {
	order []Header
}

func (hs *headers) AppendHeader(h Header) {
	hs.order = append(hs.order, h)
}

// PushFront inserts a header at index 0, per spec §6 header utilities.
func (hs *headers) PushFront(h Header) {
	hs.order = append([]Header{h}, hs.order...)
}

// PopFirst removes the first header matching name, leaving any further
// occurrences of the same header kind intact. Returns nil if none matched.
// Per spec §9: "deliberately not remove all".
func (hs *headers) PopFirst(name string) Header {
	nameLower := HeaderToLower(name)
	for i, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			hs.order = append(hs.order[:i], hs.order[i+1:]...)
			return h
		}
	}
	return nil
}

// UniquePush overwrites the first existing header of the same kind, or
// appends if none exists yet — spec §4.C "unique push" semantics.
func (hs *headers) UniquePush(h Header) {
	nameLower := HeaderToLower(h.Name())
	for i, existing := range hs.order {
		if HeaderToLower(existing.Name()) == nameLower {
			hs.order[i] = h
			return
		}
	}
	hs.AppendHeader(h)
}

func (hs *headers) RemoveHeader(name string) {
	nameLower := HeaderToLower(name)
	for i, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			hs.order = append(hs.order[:i], hs.order[i+1:]...)
			return
		}
	}
}

func (hs *headers) Headers() []Header { return hs.order }

func (hs *headers) GetHeaders(name string) []Header {
	nameLower := HeaderToLower(name)
	var out []Header
	for _, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			out = append(out, h)
		}
	}
	return out
}

func (hs *headers) GetHeader(name string) Header {
	nameLower := HeaderToLower(name)
	for _, h := range hs.order {
		if HeaderToLower(h.Name()) == nameLower {
			return h
		}
	}
	return nil
}

func (hs *headers) CloneHeaders() []Header {
	out := make([]Header, 0, len(hs.order))
	for _, h := range hs.order {
		out = append(out, h.Clone())
	}
	return out
}

func (hs *headers) String() string {
	var b strings.Builder
	for _, h := range hs.order {
		b.WriteString(h.String())
		b.WriteString("\r\n")
	}
	return b.String()
}

// CopyHeaders copies all headers of a kind from one message to another,
// in encounter order, appending clones.
func CopyHeaders(name string, from, to Message) {
	for _, h := range from.GetHeaders(name) {
		to.AppendHeader(h.Clone())
	}
}

// NewHeader builds a generic header for kinds not natively modeled (e.g.
// Authorization, WWW-Authenticate).
func NewHeader(name, value string) Header {
	return &GenericHeader{HeaderName: name, Contents: value}
}

type GenericHeader struct {
	HeaderName string
	Contents   string
}

func (h *GenericHeader) Name() string  { return h.HeaderName }
func (h *GenericHeader) Value() string { return h.Contents }
func (h *GenericHeader) String() string {
	return h.HeaderName + ": " + h.Contents
}
func (h *GenericHeader) Clone() Header {
	return &GenericHeader{HeaderName: h.HeaderName, Contents: h.Contents}
}

// ToHeader is the SIP 'To' header.
type ToHeader struct {
	DisplayName string
	Address     Uri
	Params      HeaderParams
}

func (h *ToHeader) Name() string { return "To" }
func (h *ToHeader) Value() string {
	var b strings.Builder
	if h.DisplayName != "" {
		fmt.Fprintf(&b, "%q ", h.DisplayName)
	}
	b.WriteString("<")
	b.WriteString(h.Address.String())
	b.WriteString(">")
	if len(h.Params) > 0 {
		b.WriteString(";")
		b.WriteString(h.Params.ToString(';'))
	}
	return b.String()
}
func (h *ToHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *ToHeader) Clone() Header {
	return &ToHeader{DisplayName: h.DisplayName, Address: h.Address.Clone(), Params: h.Params.Clone()}
}
func (h *ToHeader) Tag() (string, bool) { return h.Params.Get("tag") }

// FromHeader is the SIP 'From' header.
type FromHeader struct {
	DisplayName string
	Address     Uri
	Params      HeaderParams
}

func (h *FromHeader) Name() string { return "From" }
func (h *FromHeader) Value() string {
	var b strings.Builder
	if h.DisplayName != "" {
		fmt.Fprintf(&b, "%q ", h.DisplayName)
	}
	b.WriteString("<")
	b.WriteString(h.Address.String())
	b.WriteString(">")
	if len(h.Params) > 0 {
		b.WriteString(";")
		b.WriteString(h.Params.ToString(';'))
	}
	return b.String()
}
func (h *FromHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *FromHeader) Clone() Header {
	return &FromHeader{DisplayName: h.DisplayName, Address: h.Address.Clone(), Params: h.Params.Clone()}
}
func (h *FromHeader) Tag() (string, bool) { return h.Params.Get("tag") }

// ContactHeader is the SIP 'Contact' header.
type ContactHeader struct {
	DisplayName string
	Address     Uri
	Params      HeaderParams
}

func (h *ContactHeader) Name() string { return "Contact" }
func (h *ContactHeader) Value() string {
	var b strings.Builder
	if h.DisplayName != "" {
		fmt.Fprintf(&b, "%q ", h.DisplayName)
	}
	b.WriteString("<")
	b.WriteString(h.Address.String())
	b.WriteString(">")
	if len(h.Params) > 0 {
		b.WriteString(";")
		b.WriteString(h.Params.ToString(';'))
	}
	return b.String()
}
func (h *ContactHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *ContactHeader) Clone() Header {
	return &ContactHeader{DisplayName: h.DisplayName, Address: h.Address.Clone(), Params: h.Params.Clone()}
}

// CallIDHeader is the SIP 'Call-ID' header.
type CallIDHeader string

func (h CallIDHeader) Name() string  { return "Call-ID" }
func (h CallIDHeader) Value() string { return string(h) }
func (h CallIDHeader) String() string {
	return h.Name() + ": " + h.Value()
}
func (h CallIDHeader) Clone() Header { return h }

// CSeqHeader is the SIP 'CSeq' header.
type CSeqHeader struct {
	SeqNo      uint32
	MethodName RequestMethod
}

func (h *CSeqHeader) Name() string { return "CSeq" }
func (h *CSeqHeader) Value() string {
	return strconv.FormatUint(uint64(h.SeqNo), 10) + " " + string(h.MethodName)
}
func (h *CSeqHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *CSeqHeader) Clone() Header {
	return &CSeqHeader{SeqNo: h.SeqNo, MethodName: h.MethodName}
}

// ViaHeader is the SIP 'Via' header.
type ViaHeader struct {
	ProtocolName    string
	ProtocolVersion string
	Transport       string
	Host            string
	Port            int
	Params          HeaderParams
}

func (h *ViaHeader) Name() string { return "Via" }
func (h *ViaHeader) Value() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s/%s %s", h.ProtocolName, h.ProtocolVersion, h.Transport, h.Host)
	if h.Port > 0 {
		fmt.Fprintf(&b, ":%d", h.Port)
	}
	if len(h.Params) > 0 {
		b.WriteString(";")
		b.WriteString(h.Params.ToString(';'))
	}
	return b.String()
}
func (h *ViaHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *ViaHeader) Clone() Header {
	return &ViaHeader{
		ProtocolName:    h.ProtocolName,
		ProtocolVersion: h.ProtocolVersion,
		Transport:       h.Transport,
		Host:            h.Host,
		Port:            h.Port,
		Params:          h.Params.Clone(),
	}
}

// RouteHeader is a single SIP 'Route' header entry.
type RouteHeader struct {
	Address Uri
}

func (h *RouteHeader) Name() string   { return "Route" }
func (h *RouteHeader) Value() string  { return "<" + h.Address.String() + ">" }
func (h *RouteHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *RouteHeader) Clone() Header  { return &RouteHeader{Address: h.Address.Clone()} }

// RecordRouteHeader is a single SIP 'Record-Route' header entry.
type RecordRouteHeader struct {
	Address Uri
}

func (h *RecordRouteHeader) Name() string   { return "Record-Route" }
func (h *RecordRouteHeader) Value() string  { return "<" + h.Address.String() + ">" }
func (h *RecordRouteHeader) String() string { return h.Name() + ": " + h.Value() }
func (h *RecordRouteHeader) Clone() Header {
	return &RecordRouteHeader{Address: h.Address.Clone()}
}

// MaxForwardsHeader is the SIP 'Max-Forwards' header.
type MaxForwardsHeader uint32

func (h MaxForwardsHeader) Name() string  { return "Max-Forwards" }
func (h MaxForwardsHeader) Value() string { return strconv.Itoa(int(h)) }
func (h MaxForwardsHeader) String() string {
	return h.Name() + ": " + h.Value()
}
func (h MaxForwardsHeader) Clone() Header { return h }

// ContentLengthHeader is the SIP 'Content-Length' header.
type ContentLengthHeader uint32

func (h ContentLengthHeader) Name() string  { return "Content-Length" }
func (h ContentLengthHeader) Value() string { return strconv.Itoa(int(h)) }
func (h ContentLengthHeader) String() string {
	return h.Name() + ": " + h.Value()
}
func (h ContentLengthHeader) Clone() Header { return h }

// UserAgentHeader is the SIP 'User-Agent' header.
type UserAgentHeader string

func (h UserAgentHeader) Name() string  { return "User-Agent" }
func (h UserAgentHeader) Value() string { return string(h) }
func (h UserAgentHeader) String() string {
	return h.Name() + ": " + h.Value()
}
func (h UserAgentHeader) Clone() Header { return h }
