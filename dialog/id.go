package dialog

import (
	"fmt"

	"github.com/sipcore/dialogcore/sip"
)

// ID is the immutable identifying triple of spec §3: (call_id, from_tag,
// to_tag). to_tag is empty on the client side until the first non-100
// response; once filled it is stable for the dialog's lifetime
// (invariant 5). Equality is three-way exact, via plain struct ==.
type ID struct {
	CallID  string
	FromTag string
	ToTag   string
}

func (id ID) String() string {
	return fmt.Sprintf("%s;from-tag=%s;to-tag=%s", id.CallID, id.FromTag, id.ToTag)
}

func (id ID) withToTag(tag string) ID {
	id.ToTag = tag
	return id
}

// idFromRequest builds the dialog ID as observed from the given role's
// perspective: from_tag is always the locally-owned tag, to_tag is always
// the peer-owned tag, regardless of which header (From/To) carries which
// on the wire.
func idFromRequest(req *sip.Request, role Role) (ID, error) {
	callID, ok := req.CallID()
	if !ok {
		return ID{}, &Error{Message: "missing Call-ID header"}
	}
	from := req.From()
	if from == nil {
		return ID{}, &Error{Message: "missing From header"}
	}
	to := req.To()
	if to == nil {
		return ID{}, &Error{Message: "missing To header"}
	}
	fromTag, _ := from.Tag()
	toTag, _ := to.Tag()

	switch role {
	case RoleClient:
		return ID{CallID: string(callID), FromTag: fromTag, ToTag: toTag}, nil
	default:
		// Server role: the request's From is the remote party (becomes our
		// to_tag-less peer side); our own tag is the request's To tag, which
		// we inject fresh before this call (see NewServerDialog).
		return ID{CallID: string(callID), FromTag: toTag, ToTag: fromTag}, nil
	}
}

// idFromResponse recomputes the dialog ID once a response carries the
// peer-assigned to_tag (spec §4.D: "recompute DialogId from the ACK").
func idFromResponse(res *sip.Response) (ID, error) {
	callID, ok := res.CallID()
	if !ok {
		return ID{}, &Error{Message: "missing Call-ID header"}
	}
	from := res.From()
	if from == nil {
		return ID{}, &Error{Message: "missing From header"}
	}
	to := res.To()
	if to == nil {
		return ID{}, &Error{Message: "missing To header"}
	}
	fromTag, ok := from.Tag()
	if !ok {
		return ID{}, &Error{Message: "missing tag param in From header"}
	}
	toTag, _ := to.Tag()
	return ID{CallID: string(callID), FromTag: fromTag, ToTag: toTag}, nil
}
