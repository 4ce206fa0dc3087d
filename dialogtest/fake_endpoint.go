package dialogtest

import "github.com/sipcore/dialogcore/sip"

// FakeEndpoint is a scriptable sip.Endpoint: GetVia always returns a Via
// built from the fixed Host/Port/Transport, carrying whatever branch the
// caller passed in.
type FakeEndpoint struct {
	Host      string
	Port      int
	Transport string
	Agent     string
}

// NewFakeEndpoint builds a FakeEndpoint addressed at host:port over UDP.
func NewFakeEndpoint(host string, port int) *FakeEndpoint {
	return &FakeEndpoint{Host: host, Port: port, Transport: "UDP", Agent: "dialogcore-test"}
}

func (e *FakeEndpoint) GetVia(branch string) (*sip.ViaHeader, error) {
	params := sip.NewParams()
	params.Add("branch", branch)
	return &sip.ViaHeader{
		ProtocolName:    "SIP",
		ProtocolVersion: "2.0",
		Transport:       e.Transport,
		Host:            e.Host,
		Port:            e.Port,
		Params:          params,
	}, nil
}

func (e *FakeEndpoint) UserAgent() string { return e.Agent }
