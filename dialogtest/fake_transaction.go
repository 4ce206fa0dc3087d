// Package dialogtest provides scriptable fakes for the dialog core's
// external collaborators (sip.ClientTransaction, sip.ServerTransaction),
// grounded on emiago-sipgo/siptest's ClientTxRequester/ServerTxRecorder
// pattern and noop_transaction.go's NoOpTransaction/NoOpServerTransaction,
// adapted from sipgo's own internal transaction types to this module's
// collaborator interfaces so dialog tests never need a real transport.
package dialogtest

import (
	"context"
	"sync"

	"github.com/sipcore/dialogcore/sip"
)

// FakeClientTransaction is a sip.ClientTransaction whose inbound stream is
// entirely scripted by the test: queue responses with Push, and Receive
// drains them in order.
type FakeClientTransaction struct {
	mu          sync.Mutex
	destination string
	inbox       chan any
	acked       []*sip.Request
	terminated  bool
	sendErr     error
}

func NewFakeClientTransaction(buffer int) *FakeClientTransaction {
	return &FakeClientTransaction{inbox: make(chan any, buffer)}
}

// Push enqueues a response as if it arrived on the wire.
func (f *FakeClientTransaction) Push(res *sip.Response) {
	f.inbox <- res
}

// Close ends the stream: subsequent Receive calls return ok=false.
func (f *FakeClientTransaction) Close() {
	close(f.inbox)
}

// SetSendError makes every later Send call return err (pass nil to clear it).
func (f *FakeClientTransaction) SetSendError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

func (f *FakeClientTransaction) Send(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendErr
}

func (f *FakeClientTransaction) Receive(ctx context.Context) (any, bool) {
	select {
	case msg, ok := <-f.inbox:
		return msg, ok
	case <-ctx.Done():
		return nil, false
	}
}

func (f *FakeClientTransaction) Destination() string { return f.destination }
func (f *FakeClientTransaction) SetDestination(d string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destination = d
}

func (f *FakeClientTransaction) Terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = true
}

func (f *FakeClientTransaction) Terminated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminated
}

func (f *FakeClientTransaction) SendAck(ctx context.Context, ack *sip.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, ack)
	return nil
}

func (f *FakeClientTransaction) Acked() []*sip.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*sip.Request(nil), f.acked...)
}

// FakeServerTransaction is a sip.ServerTransaction recording every reply
// sent through it, with a scriptable Acks() channel for INVITE transactions
// awaiting the matching ACK.
type FakeServerTransaction struct {
	mu          sync.Mutex
	destination string
	replies     []*sip.Response
	acks        chan *sip.Request
	terminated  bool
}

func NewFakeServerTransaction() *FakeServerTransaction {
	return &FakeServerTransaction{acks: make(chan *sip.Request, 1)}
}

func (f *FakeServerTransaction) Send(ctx context.Context) error { return nil }

func (f *FakeServerTransaction) Receive(ctx context.Context) (any, bool) { return nil, false }

func (f *FakeServerTransaction) Destination() string { return f.destination }
func (f *FakeServerTransaction) SetDestination(d string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destination = d
}

func (f *FakeServerTransaction) Terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = true
}

func (f *FakeServerTransaction) Reply(ctx context.Context, res *sip.Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, res)
	return nil
}

func (f *FakeServerTransaction) Replies() []*sip.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*sip.Response(nil), f.replies...)
}

func (f *FakeServerTransaction) Acks() <-chan *sip.Request { return f.acks }

// PushAck delivers an ACK to the transaction's Acks() channel, as the
// transport layer would once it matched one on the wire.
func (f *FakeServerTransaction) PushAck(ack *sip.Request) {
	f.acks <- ack
}

// CloseAcks closes the Acks() channel, simulating the transaction giving up
// on ever seeing one (spec §7: treated as ErrCanceled by ServerInviteDialog.Accept).
func (f *FakeServerTransaction) CloseAcks() {
	close(f.acks)
}
