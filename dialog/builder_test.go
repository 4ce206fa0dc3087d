package dialog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sipcore/dialogcore/sip"
)

func TestMakeRequestCarriesDialogIdentityAndFreshCSeq(t *testing.T) {
	req := testInvite("fromtag1")
	d, err := NewClientDialog(req, testLocalContact(), testEndpoint{})
	require.NoError(t, err)
	d.setRemoteTag("totag1")

	bye, err := d.makeRequest(sip.BYE, nil)
	require.NoError(t, err)
	require.Equal(t, sip.BYE, bye.Method)

	callID, ok := bye.CallID()
	require.True(t, ok)
	require.Equal(t, d.id.CallID, string(callID))

	toTag, _ := bye.To().Tag()
	require.Equal(t, "totag1", toTag)

	cseq := bye.CSeq()
	require.Equal(t, uint32(2), cseq.SeqNo, "second request after the INVITE's CSeq=1")
	require.Equal(t, sip.BYE, cseq.MethodName)

	via := bye.Via()
	require.NotNil(t, via)
	branch, _ := via.Params.Get("branch")
	require.NotEmpty(t, branch, "a fresh branch must be generated per request")

	require.NotNil(t, bye.GetHeader("User-Agent"))
	require.NotNil(t, bye.GetHeader("Max-Forwards"))
	require.Nil(t, bye.GetHeader("Content-Length"), "no body means no Content-Length")
}

func TestMakeRequestAttachesContentLengthWhenBodyPresent(t *testing.T) {
	req := testInvite("fromtag1")
	d, err := NewClientDialog(req, testLocalContact(), testEndpoint{})
	require.NoError(t, err)

	info, err := d.makeRequest(sip.INFO, []byte("signal=#"))
	require.NoError(t, err)
	cl := info.GetHeader("Content-Length")
	require.NotNil(t, cl)
	require.Equal(t, "8", cl.Value())
}

func TestMakeRequestKeepsRemoteUriAsRequestUriEvenWithRouteSet(t *testing.T) {
	req := testInvite("fromtag1")
	d, err := NewClientDialog(req, testLocalContact(), testEndpoint{})
	require.NoError(t, err)
	d.routeSet = []sip.Uri{{Host: "proxy1.example.com"}, {Host: "proxy2.example.com"}}

	bye, err := d.makeRequest(sip.BYE, nil)
	require.NoError(t, err)
	require.Equal(t, "biloxi.example.com", bye.Recipient.Host, "Request-URI is always remote_uri, never the route set head")

	routes := bye.GetHeaders("Route")
	require.Len(t, routes, 2)
}

func TestMakeCancelReusesInviteCSeq(t *testing.T) {
	invite := testInvite("fromtag1")
	cancel := makeCancel(invite)
	require.Equal(t, sip.CANCEL, cancel.Method)

	inviteSeq := invite.CSeq()
	cancelSeq := cancel.CSeq()
	require.Equal(t, inviteSeq.SeqNo, cancelSeq.SeqNo)
	require.Equal(t, sip.CANCEL, cancelSeq.MethodName)
}

func TestMakeResponseInjectsContactAndRecordRoute(t *testing.T) {
	req := testInvite("peerfromtag")
	req.AppendHeader(&sip.RecordRouteHeader{Address: sip.Uri{Host: "proxy1.example.com"}})
	d, err := NewServerDialog(req, testLocalContact(), "ourtotag", testEndpoint{})
	require.NoError(t, err)

	res := d.makeResponse(req, sip.StatusOK, "OK", nil)
	contact := res.Contact()
	require.NotNil(t, contact)
	require.Equal(t, testLocalContact().Host, contact.Address.Host)

	rrs := res.GetHeaders("Record-Route")
	require.Len(t, rrs, 1)
}

func TestMakeResponseUniquePushOverwrites(t *testing.T) {
	req := testInvite("peerfromtag")
	d, err := NewServerDialog(req, testLocalContact(), "ourtotag", testEndpoint{})
	require.NoError(t, err)

	replacement := &sip.ContactHeader{Address: sip.Uri{Host: "override.example.com"}}
	res := d.makeResponse(req, sip.StatusOK, "OK", nil, replacement)

	contacts := res.GetHeaders("Contact")
	require.Len(t, contacts, 1, "unique push must overwrite, not duplicate")
	require.Equal(t, "override.example.com", res.Contact().Address.Host)
}
