package dialog

import (
	"context"
	"sync"

	"github.com/sipcore/dialogcore/sip"
)

// testInvite builds a bare outbound INVITE with the headers the dialog core
// requires to exist (From/To/Call-ID/CSeq), mirroring the
// createTestInvite helper the teacher's own dialog_test.go uses.
func testInvite(fromTag string) *sip.Request {
	recipient := sip.Uri{User: "bob", Host: "biloxi.example.com"}
	req := sip.NewRequest(sip.INVITE, recipient)

	fromParams := sip.NewParams()
	fromParams.Add("tag", fromTag)
	req.AppendHeader(&sip.FromHeader{
		Address: sip.Uri{User: "alice", Host: "atlanta.example.com"},
		Params:  fromParams,
	})
	req.AppendHeader(&sip.ToHeader{
		Address: recipient,
		Params:  sip.NewParams(),
	})
	req.AppendHeader(sip.CallIDHeader("a84b4c76e66710@atlanta.example.com"))
	req.AppendHeader(&sip.CSeqHeader{SeqNo: 1, MethodName: sip.INVITE})
	req.AppendHeader(&sip.ContactHeader{Address: sip.Uri{User: "alice", Host: "192.0.2.1", Port: 5060}})
	return req
}

func testLocalContact() sip.Uri {
	return sip.Uri{User: "alice", Host: "192.0.2.1", Port: 5060}
}

// testEndpoint is a fixed sip.Endpoint for internal package tests, which
// cannot import dialogtest (it imports dialog, and dialog_test's external
// test files already cover dialogtest.FakeEndpoint).
type testEndpoint struct{}

func (testEndpoint) GetVia(branch string) (*sip.ViaHeader, error) {
	params := sip.NewParams()
	params.Add("branch", branch)
	return &sip.ViaHeader{
		ProtocolName:    "SIP",
		ProtocolVersion: "2.0",
		Transport:       "UDP",
		Host:            "192.0.2.1",
		Port:            5060,
		Params:          params,
	}, nil
}

func (testEndpoint) UserAgent() string { return "dialogcore-test" }

// testResponse builds a response to req carrying a to-tag, as a UAS would
// for a dialog-establishing 1xx/2xx.
func testResponse(req *sip.Request, status sip.StatusCode, reason, toTag string) *sip.Response {
	res := sip.NewResponseFromRequest(req, status, reason, nil)
	if toTag != "" {
		to := res.GetHeader("To").(*sip.ToHeader)
		to.Params.Add("tag", toTag)
	}
	res.AppendHeader(&sip.ContactHeader{Address: sip.Uri{User: "bob", Host: "192.0.2.2", Port: 5060}})
	return res
}

// testClientTx is a sip.ClientTransaction whose inbound stream is scripted
// by the test, mirroring dialogtest.FakeClientTransaction. It is
// reimplemented here rather than imported because dialogtest pulls in
// package dialog (for its logrus sink), which would make the import cycle
// back on this internal test package.
type testClientTx struct {
	mu    sync.Mutex
	inbox chan any
}

func newTestClientTx(buffer int) *testClientTx {
	return &testClientTx{inbox: make(chan any, buffer)}
}

func (tx *testClientTx) push(res *sip.Response) { tx.inbox <- res }
func (tx *testClientTx) close()                 { close(tx.inbox) }

func (tx *testClientTx) Send(ctx context.Context) error { return nil }

func (tx *testClientTx) Receive(ctx context.Context) (any, bool) {
	select {
	case msg, ok := <-tx.inbox:
		return msg, ok
	case <-ctx.Done():
		return nil, false
	}
}

func (tx *testClientTx) Destination() string   { return "" }
func (tx *testClientTx) SetDestination(string) {}
func (tx *testClientTx) Terminate()             {}

func (tx *testClientTx) SendAck(ctx context.Context, ack *sip.Request) error { return nil }
