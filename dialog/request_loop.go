package dialog

import (
	"context"
	"strconv"
	"time"

	"github.com/sipcore/dialogcore/dialog/auth"
	"github.com/sipcore/dialogcore/dialog/metrics"
	"github.com/sipcore/dialogcore/sip"
)

// requestSender creates (but does not yet send) a client transaction for
// req, grounded on emiago-sipgo/dialog_client.go's doRequest: the dialog
// core owns transaction creation so that the destination (derived from the
// route set or Request-URI) and the authentication retry loop stay in one
// place for every in-dialog request, rather than duplicated per call site.
type requestSender func(req *sip.Request) (sip.ClientTransaction, error)

// doRequest drives req through send as many transactions as needed to reach
// a final response (spec §4.D/§6): provisional responses are observed but
// never returned, a single 401/407 triggers exactly one authenticated
// retry using the dialog's stored credential, and any other final response
// (or an exhausted stream with none) ends the loop. Provisional handling is
// reported through onProvisional so callers can fold early-dialog state
// transitions (180/183) into the same pass without a second branch.
func (d *dialogInner) doRequest(ctx context.Context, req *sip.Request, send requestSender, onProvisional func(*sip.Response)) (result *sip.Response, err error) {
	method := req.Method
	started := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues(string(method), statusClass(result)).Observe(time.Since(started).Seconds())
	}()

	destination := requestDestination(req)
	req.SetDestination(destination)

	tx, err := send(req)
	if err != nil {
		return nil, err
	}
	defer tx.Terminate()
	if err := tx.Send(ctx); err != nil {
		return nil, err
	}

	res, err := waitFinal(ctx, tx, onProvisional)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}

	if res.StatusCode != sip.StatusUnauthorized && res.StatusCode != sip.StatusProxyAuthenticationRequired {
		return res, nil
	}

	d.mu.Lock()
	cred := d.credential
	d.mu.Unlock()
	if cred == nil {
		return res, nil
	}

	retry, err := auth.Rebuild(req, res, *cred, d.nextLocalSeq())
	if err != nil {
		return res, nil
	}
	d.mu.Lock()
	endpoint := d.endpoint
	d.mu.Unlock()
	via, err := endpoint.GetVia(newBranch())
	if err != nil {
		return res, nil
	}
	retry.AppendHeader(via)
	metrics.AuthRetries.WithLabelValues(string(req.Method)).Inc()
	retry.SetDestination(destination)

	tx2, err := send(retry)
	if err != nil {
		return nil, err
	}
	defer tx2.Terminate()
	if err := tx2.Send(ctx); err != nil {
		return nil, err
	}

	return waitFinal(ctx, tx2, onProvisional)
}

// waitFinal drains tx until a final response (>=200) arrives, surfacing
// every provisional along the way. Returns (nil, nil) if the transaction's
// stream ends without ever producing a final response (spec §4.D: "no
// further transition" in that case, not an error).
func waitFinal(ctx context.Context, tx sip.ClientTransaction, onProvisional func(*sip.Response)) (*sip.Response, error) {
	for {
		msg, ok := tx.Receive(ctx)
		if !ok {
			return nil, nil
		}
		res, ok := msg.(*sip.Response)
		if !ok {
			continue
		}
		if res.IsProvisional() {
			if onProvisional != nil {
				onProvisional(res)
			}
			continue
		}
		return res, nil
	}
}

// requestDestination extracts the transport destination hint from req's own
// first Route header, popping it so it is not also sent on the wire (spec
// §4.E step 1: "pop that header from the request ... must not appear
// twice"). The Request-URI field itself is never touched — RFC 3261
// §12.2.1.1 loose routing leaves it pointed at the remote target URI while
// routing occurs via the Route headers.
func requestDestination(req *sip.Request) string {
	if h := req.PopFirst("Route"); h != nil {
		if rr, ok := h.(*sip.RouteHeader); ok {
			return rr.Address.String()
		}
	}
	return req.Recipient.String()
}

func statusClass(res *sip.Response) string {
	if res == nil {
		return "none"
	}
	return strconv.Itoa(int(res.StatusCode)/100) + "xx"
}

