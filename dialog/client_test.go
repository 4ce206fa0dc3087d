package dialog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sipcore/dialogcore/dialog"
	"github.com/sipcore/dialogcore/dialogtest"
	"github.com/sipcore/dialogcore/sip"
)

func buildInvite(fromTag string) *sip.Request {
	recipient := sip.Uri{User: "bob", Host: "biloxi.example.com"}
	req := sip.NewRequest(sip.INVITE, recipient)

	fromParams := sip.NewParams()
	fromParams.Add("tag", fromTag)
	req.AppendHeader(&sip.FromHeader{Address: sip.Uri{User: "alice", Host: "atlanta.example.com"}, Params: fromParams})
	req.AppendHeader(&sip.ToHeader{Address: recipient, Params: sip.NewParams()})
	req.AppendHeader(sip.CallIDHeader("call-1@atlanta.example.com"))
	req.AppendHeader(&sip.CSeqHeader{SeqNo: 1, MethodName: sip.INVITE})
	req.AppendHeader(&sip.ContactHeader{Address: sip.Uri{User: "alice", Host: "192.0.2.1", Port: 5060}})
	return req
}

func localContact() sip.Uri {
	return sip.Uri{User: "alice", Host: "192.0.2.1", Port: 5060}
}

// newScriptedClient wires a ClientInviteDialog whose single transaction
// attempt is served by tx, so ProcessInvite exercises the full
// doRequest/waitFinal loop without any real transport.
func newScriptedClient(t *testing.T, invite *sip.Request, tx *dialogtest.FakeClientTransaction) *dialog.ClientInviteDialog {
	t.Helper()
	c, err := dialog.NewClientInviteDialog(invite, localContact(), dialogtest.NewFakeEndpoint("192.0.2.1", 5060), func(req *sip.Request) (sip.ClientTransaction, error) {
		return tx, nil
	})
	require.NoError(t, err)
	return c
}

func TestProcessInviteHappyPath(t *testing.T) {
	invite := buildInvite("fromtag1")
	tx := dialogtest.NewFakeClientTransaction(8)
	c := newScriptedClient(t, invite, tx)

	tx.Push(testResponseFor(invite, sip.StatusTrying, "Trying", ""))
	tx.Push(testResponseFor(invite, sip.StatusRinging, "Ringing", "totag1"))
	tx.Push(testResponseFor(invite, sip.StatusOK, "OK", "totag1"))
	tx.Close()

	res, err := c.ProcessInvite(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, sip.StatusOK, res.StatusCode)

	ack := c.BuildAck(res)
	require.Equal(t, sip.ACK, ack.Method)
	c.Confirm(res)
}

func TestProcessInviteRejected(t *testing.T) {
	invite := buildInvite("fromtag2")
	tx := dialogtest.NewFakeClientTransaction(8)
	c := newScriptedClient(t, invite, tx)

	tx.Push(testResponseFor(invite, sip.StatusDecline, "Decline", "totag2"))
	tx.Close()

	res, err := c.ProcessInvite(context.Background())
	require.NoError(t, err)
	require.Equal(t, sip.StatusDecline, res.StatusCode)
}

func TestProcessInviteAuthRetry(t *testing.T) {
	invite := buildInvite("fromtag3")

	first := dialogtest.NewFakeClientTransaction(8)
	challenge := testResponseFor(invite, sip.StatusUnauthorized, "Unauthorized", "")
	challenge.AppendHeader(sip.NewHeader("WWW-Authenticate", `Digest realm="example.com", nonce="abc123", algorithm=MD5`))
	first.Push(challenge)
	first.Close()

	second := dialogtest.NewFakeClientTransaction(8)
	second.Push(testResponseFor(invite, sip.StatusOK, "OK", "totag3"))
	second.Close()

	calls := 0
	c, err := dialog.NewClientInviteDialog(invite, localContact(), dialogtest.NewFakeEndpoint("192.0.2.1", 5060), func(req *sip.Request) (sip.ClientTransaction, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return second, nil
	})
	require.NoError(t, err)
	c.SetCredential("alice", "secret")

	res, err := c.ProcessInvite(context.Background())
	require.NoError(t, err)
	require.Equal(t, sip.StatusOK, res.StatusCode)
	require.Equal(t, 2, calls, "exactly one authenticated retry")
}

func TestByeAndInfoRequireConfirmedDialog(t *testing.T) {
	invite := buildInvite("fromtag4")
	tx := dialogtest.NewFakeClientTransaction(8)
	c := newScriptedClient(t, invite, tx)

	err := c.Bye(context.Background())
	require.ErrorIs(t, err, dialog.ErrNotConfirmed)

	_, err = c.Info(context.Background(), nil)
	require.ErrorIs(t, err, dialog.ErrNotConfirmed)
}

func testResponseFor(req *sip.Request, status sip.StatusCode, reason, toTag string) *sip.Response {
	res := sip.NewResponseFromRequest(req, status, reason, nil)
	if toTag != "" {
		to := res.GetHeader("To").(*sip.ToHeader)
		to.Params.Add("tag", toTag)
	}
	res.AppendHeader(&sip.ContactHeader{Address: sip.Uri{User: "bob", Host: "192.0.2.2", Port: 5060}})
	return res
}
