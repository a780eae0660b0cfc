package auth

import (
	"io"
	"net/http"
)

// Transport is an http.RoundTripper that injects the session's bearer token
// into every outgoing request.
//
// On a 401 response it forces one token refresh and replays the request, so
// a token revoked server-side (password change, session sweep) heals
// transparently. Requests with non-replayable bodies are not retried.
type Transport struct {
	session *Session
	base    http.RoundTripper
}

// NewTransport creates a Transport. If base is nil, http.DefaultTransport
// is used.
func NewTransport(session *Session, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{session: session, base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.session.Token(req.Context())
	if err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(t.withToken(req, token))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	// Token was rejected: refresh once and replay.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	token, err = t.session.Refresh(req.Context())
	if err != nil {
		return nil, err
	}

	retry := req
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry = req.Clone(req.Context())
		retry.Body = body
	}

	return t.base.RoundTrip(t.withToken(retry, token))
}

// withToken returns a clone of req carrying the Authorization header.
// RoundTrippers must not mutate the caller's request.
func (t *Transport) withToken(req *http.Request, token string) *http.Request {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return clone
}

// Ensure Transport implements http.RoundTripper
var _ http.RoundTripper = (*Transport)(nil)
