package sip

// RequestMethod is a SIP request method token (RFC 3261 §7.1).
type RequestMethod string

func (m RequestMethod) String() string { return string(m) }

const (
	INVITE    RequestMethod = "INVITE"
	ACK       RequestMethod = "ACK"
	BYE       RequestMethod = "BYE"
	CANCEL    RequestMethod = "CANCEL"
	INFO      RequestMethod = "INFO"
	OPTIONS   RequestMethod = "OPTIONS"
	REGISTER  RequestMethod = "REGISTER"
	NOTIFY    RequestMethod = "NOTIFY"
	SUBSCRIBE RequestMethod = "SUBSCRIBE"
	UPDATE    RequestMethod = "UPDATE"
	PRACK     RequestMethod = "PRACK"
	REFER     RequestMethod = "REFER"
	MESSAGE   RequestMethod = "MESSAGE"
)
