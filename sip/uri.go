package sip

import (
	"fmt"
	"strconv"
	"strings"
)

// Uri is a SIP or SIPS URI (RFC 3261 §19.1). Only the pieces the dialog
// core needs to build Request-URIs, Contact, and Route headers are kept.
type Uri struct {
	Encrypted bool
	User      string
	Password  string
	Host      string
	Port      int
	UriParams HeaderParams
	Headers   HeaderParams
}

func (uri Uri) String() string {
	var b strings.Builder
	if uri.Encrypted {
		b.WriteString("sips:")
	} else {
		b.WriteString("sip:")
	}
	if uri.User != "" {
		b.WriteString(uri.User)
		if uri.Password != "" {
			b.WriteString(":")
			b.WriteString(uri.Password)
		}
		b.WriteString("@")
	}
	b.WriteString(uri.Host)
	if uri.Port > 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(uri.Port))
	}
	for _, kv := range uri.UriParams {
		b.WriteString(";")
		b.WriteString(kv.K)
		if kv.V != "" {
			b.WriteString("=")
			b.WriteString(kv.V)
		}
	}
	return b.String()
}

func (uri Uri) Clone() Uri {
	n := uri
	n.UriParams = uri.UriParams.Clone()
	n.Headers = uri.Headers.Clone()
	return n
}

// Addr renders the URI without any parameters, as used in a digest
// "uri" credential field.
func (uri Uri) Addr() string {
	n := uri
	n.UriParams = nil
	n.Headers = nil
	return n.String()
}

// StripParamsExceptTransport removes all URI parameters except "transport",
// per the dialog identity derivation rules (spec §4.A: remote_uri strips
// all parameters except transport).
func (uri Uri) StripParamsExceptTransport() Uri {
	n := uri
	if tp, ok := uri.UriParams.Get("transport"); ok {
		n.UriParams = HeaderParams{{K: "transport", V: tp}}
	} else {
		n.UriParams = nil
	}
	n.Headers = nil
	return n
}

// ParseURI parses a minimal "sip:user@host:port;params" URI. It does not
// attempt to be a full RFC 3261 grammar implementation: the dialog core
// only ever parses URIs it previously serialized itself (Contact/Route
// values) or ones delivered in the Contact header of a request, not raw
// wire bytes (parsing the wire is the out-of-scope transport layer's job).
func ParseURI(s string) (Uri, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "<>")
	var u Uri
	if strings.HasPrefix(s, "sips:") {
		u.Encrypted = true
		s = s[len("sips:"):]
	} else if strings.HasPrefix(s, "sip:") {
		s = s[len("sip:"):]
	} else {
		return Uri{}, fmt.Errorf("sip: unsupported URI scheme in %q", s)
	}

	if i := strings.IndexByte(s, ';'); i >= 0 {
		params, rest := s[i+1:], s[:i]
		s = rest
		for _, p := range strings.Split(params, ";") {
			if p == "" {
				continue
			}
			kv := strings.SplitN(p, "=", 2)
			if len(kv) == 2 {
				u.UriParams.Add(kv[0], kv[1])
			} else {
				u.UriParams.Add(kv[0], "")
			}
		}
	}

	if i := strings.IndexByte(s, '@'); i >= 0 {
		userinfo := s[:i]
		s = s[i+1:]
		if j := strings.IndexByte(userinfo, ':'); j >= 0 {
			u.User = userinfo[:j]
			u.Password = userinfo[j+1:]
		} else {
			u.User = userinfo
		}
	}

	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		port, err := strconv.Atoi(s[i+1:])
		if err == nil {
			u.Host = s[:i]
			u.Port = port
			return u, nil
		}
	}
	u.Host = s
	return u, nil
}

// ExtractURIFromContact parses a Contact header value, stripping all URI
// parameters except "transport". When the value contains '<' ... '>', only
// the substring between them is parsed; otherwise the whole value is. An
// error is returned if that parse fails; no second form is tried.
func ExtractURIFromContact(value string) (Uri, error) {
	raw := value
	if i := strings.IndexByte(value, '<'); i >= 0 {
		if j := strings.IndexByte(value[i:], '>'); j >= 0 {
			raw = value[i+1 : i+j]
		}
	}
	u, err := ParseURI(raw)
	if err != nil {
		return Uri{}, fmt.Errorf("sip: extracting uri from contact %q: %w", value, err)
	}
	return u.StripParamsExceptTransport(), nil
}
