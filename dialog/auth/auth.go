// Package auth implements the Authentication Helper collaborator of
// spec §6: given a 401/407 challenge and a credential, it rebuilds the
// client transaction with Authorization/Proxy-Authorization headers
// attached and the CSeq updated, exactly as
// emiago-sipgo/dialog_client.go's digestTransactionRequest/
// digestProxyAuthRequest do, generalized to return the rebuilt request
// rather than directly re-issuing a transaction (the dialog core owns
// transaction lifecycle, per spec §9's "owned value passed through the
// helper and returned").
package auth

import (
	"fmt"

	"github.com/icholy/digest"

	"github.com/sipcore/dialogcore/sip"
)

// Credential is a digest credential for 401/407 retries (spec §3:
// DialogInner.credential).
type Credential struct {
	Username string
	Password string
}

// Rebuild returns a clone of req with Authorization (for 401) or
// Proxy-Authorization (for 407) computed against challenge, and CSeq set
// to newSeq. The caller is responsible for deciding newSeq (spec §4.D:
// incremented for ordinary methods, left alone for CANCEL).
func Rebuild(req *sip.Request, challenge *sip.Response, cred Credential, newSeq uint32) (*sip.Request, error) {
	var headerName, challengeHeader string
	switch challenge.StatusCode {
	case sip.StatusUnauthorized:
		headerName, challengeHeader = "Authorization", "WWW-Authenticate"
	case sip.StatusProxyAuthenticationRequired:
		headerName, challengeHeader = "Proxy-Authorization", "Proxy-Authenticate"
	default:
		return nil, fmt.Errorf("auth: %d is not a challenge status", challenge.StatusCode)
	}

	challengeHdr := challenge.GetHeader(challengeHeader)
	if challengeHdr == nil {
		return nil, fmt.Errorf("auth: response missing %s header", challengeHeader)
	}

	chal, err := digest.ParseChallenge(challengeHdr.Value())
	if err != nil {
		return nil, fmt.Errorf("auth: parsing challenge %q: %w", challengeHdr.Value(), err)
	}

	rebuilt := req.Clone()
	credentials, err := digest.Digest(chal, digest.Options{
		Method:   string(rebuilt.Method),
		URI:      rebuilt.Recipient.Addr(),
		Username: cred.Username,
		Password: cred.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("auth: computing digest: %w", err)
	}

	rebuilt.RemoveHeader(headerName)
	rebuilt.AppendHeader(sip.NewHeader(headerName, credentials.String()))

	if cseq := rebuilt.CSeq(); cseq != nil {
		cseq.SeqNo = newSeq
	}
	// The retry is a new client transaction and needs its own branch (RFC
	// 3261 §8.1.1.7); strip the cloned Via here and let the caller, which
	// owns the endpoint collaborator, append a fresh one.
	rebuilt.RemoveHeader("Via")
	return rebuilt, nil
}
