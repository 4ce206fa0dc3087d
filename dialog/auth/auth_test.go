package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sipcore/dialogcore/dialog/auth"
	"github.com/sipcore/dialogcore/sip"
)

func buildInvite() *sip.Request {
	recipient := sip.Uri{User: "bob", Host: "biloxi.example.com"}
	req := sip.NewRequest(sip.INVITE, recipient)
	req.AppendHeader(&sip.CSeqHeader{SeqNo: 1, MethodName: sip.INVITE})
	return req
}

func TestRebuildAddsAuthorizationAndBumpsCSeq(t *testing.T) {
	req := buildInvite()
	challenge := sip.NewResponse(sip.StatusUnauthorized, "Unauthorized")
	challenge.AppendHeader(sip.NewHeader("WWW-Authenticate", `Digest realm="example.com", nonce="abc123", algorithm=MD5`))

	rebuilt, err := auth.Rebuild(req, challenge, auth.Credential{Username: "alice", Password: "secret"}, 2)
	require.NoError(t, err)

	hdr := rebuilt.GetHeader("Authorization")
	require.NotNil(t, hdr)
	require.Contains(t, hdr.Value(), `username="alice"`)

	require.Equal(t, uint32(2), rebuilt.CSeq().SeqNo)
	require.Nil(t, rebuilt.GetHeader("Via"), "Via is stripped so the caller can append a fresh one with a new branch")
}

func TestRebuildUsesProxyAuthenticateFor407(t *testing.T) {
	req := buildInvite()
	challenge := sip.NewResponse(sip.StatusProxyAuthenticationRequired, "Proxy Authentication Required")
	challenge.AppendHeader(sip.NewHeader("Proxy-Authenticate", `Digest realm="example.com", nonce="xyz789", algorithm=MD5`))

	rebuilt, err := auth.Rebuild(req, challenge, auth.Credential{Username: "alice", Password: "secret"}, 2)
	require.NoError(t, err)
	require.NotNil(t, rebuilt.GetHeader("Proxy-Authorization"))
	require.Nil(t, rebuilt.GetHeader("Authorization"))
}

func TestRebuildRejectsNonChallengeStatus(t *testing.T) {
	req := buildInvite()
	ok := sip.NewResponse(sip.StatusOK, "OK")
	_, err := auth.Rebuild(req, ok, auth.Credential{Username: "alice", Password: "secret"}, 2)
	require.Error(t, err)
}

func TestRebuildRequiresChallengeHeader(t *testing.T) {
	req := buildInvite()
	challenge := sip.NewResponse(sip.StatusUnauthorized, "Unauthorized")
	_, err := auth.Rebuild(req, challenge, auth.Credential{Username: "alice", Password: "secret"}, 2)
	require.Error(t, err)
}
