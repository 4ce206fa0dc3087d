package sip

import "context"

// Transaction is the external transport/transaction collaborator named by
// spec §6. The dialog core never retransmits or resolves addresses itself;
// it only drives one of these per request attempt.
type Transaction interface {
	// Send transmits the transaction's request. Suspends until accepted by
	// the transport layer (not until a response arrives).
	Send(ctx context.Context) error

	// Receive blocks for the next inbound message on this transaction's
	// stream. ok is false once the transaction has terminated (no more
	// messages will ever arrive).
	Receive(ctx context.Context) (msg any, ok bool)

	// Destination optionally overrides where the request is routed, for
	// loose/strict-route forwarding (spec §6).
	Destination() string
	SetDestination(string)

	// Terminate releases the transaction's resources. Safe to call more
	// than once.
	Terminate()
}

// ClientTransaction is a Transaction for a request this side originated.
type ClientTransaction interface {
	Transaction
	// SendAck sends a 2xx ACK, which RFC 3261 §17.1.1.3 treats as its own
	// transaction independent from the INVITE transaction it acknowledges.
	SendAck(ctx context.Context, ack *Request) error
}

// ServerTransaction is a Transaction for a request the peer sent us.
type ServerTransaction interface {
	Transaction
	// Reply sends a response on this transaction. Expected to already carry
	// correct headers (built via the dialog core's response builder).
	Reply(ctx context.Context, res *Response) error
	// Acks delivers ACKs received for a 2xx sent on an INVITE server
	// transaction (RFC 3261 §13.3.1.4 — out of band from the transaction).
	Acks() <-chan *Request
}

// Endpoint is the UA identity collaborator named by spec §6: opaque
// identity used only to embed Via and User-Agent.
type Endpoint interface {
	GetVia(branch string) (*ViaHeader, error)
	UserAgent() string
}
