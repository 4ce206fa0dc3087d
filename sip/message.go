package sip

// Message is the common surface of Request and Response needed by header
// utilities (CopyHeaders, the Message Builder) and by transaction matching.
type Message interface {
	AppendHeader(h Header)
	GetHeader(name string) Header
	GetHeaders(name string) []Header
	RemoveHeader(name string)
	Headers() []Header
	CloneHeaders() []Header
	Body() []byte
	SetBody(b []byte)
}

func messageFrom(m Message) *FromHeader {
	if h := m.GetHeader("From"); h != nil {
		return h.(*FromHeader)
	}
	return nil
}

func messageTo(m Message) *ToHeader {
	if h := m.GetHeader("To"); h != nil {
		return h.(*ToHeader)
	}
	return nil
}

func messageCallID(m Message) (CallIDHeader, bool) {
	if h := m.GetHeader("Call-ID"); h != nil {
		return h.(CallIDHeader), true
	}
	return "", false
}

func messageCSeq(m Message) *CSeqHeader {
	if h := m.GetHeader("CSeq"); h != nil {
		return h.(*CSeqHeader)
	}
	return nil
}

func messageVia(m Message) *ViaHeader {
	if h := m.GetHeader("Via"); h != nil {
		return h.(*ViaHeader)
	}
	return nil
}

func messageContact(m Message) *ContactHeader {
	if h := m.GetHeader("Contact"); h != nil {
		return h.(*ContactHeader)
	}
	return nil
}
