package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// loginPath is the catalog server's password-grant endpoint.
const loginPath = "/api/v1/auth/login"

// Credentials identify the account used to log in.
type Credentials struct {
	Username string
	Password string
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Config configures a Session.
type Config struct {
	// BaseURL is the catalog server URL (e.g. "https://music.example.com").
	BaseURL string

	// Credentials are the account credentials for the password grant.
	Credentials Credentials

	// HTTPClient is the HTTP client used for login requests.
	// If nil, a default client with a 15s timeout is used.
	HTTPClient *http.Client

	// RefreshSkew refreshes tokens this long before their actual expiry.
	// Default: 30 seconds
	RefreshSkew time.Duration

	// FallbackTTL is assumed for tokens that carry no expiry information.
	// Default: 1 hour
	FallbackTTL time.Duration
}

// Session owns the client's bearer token and refreshes it as needed.
//
// Contract:
// - Concurrency: safe for concurrent use; refreshes are coalesced.
// - Context: Token and Refresh honor cancellation of the login request.
// - Errors: credential rejection surfaces as ErrInvalidCredentials.
type Session struct {
	config Config

	mu        sync.RWMutex
	token     Token
	loggedOut bool

	sfGroup singleflight.Group // coalesces concurrent logins
}

// NewSession creates a session. No network traffic happens until the first
// Token call.
func NewSession(config Config) (*Session, error) {
	if strings.TrimSpace(config.BaseURL) == "" {
		return nil, fmt.Errorf("auth: base URL is required")
	}
	if err := config.Credentials.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if config.RefreshSkew <= 0 {
		config.RefreshSkew = 30 * time.Second
	}
	if config.FallbackTTL <= 0 {
		config.FallbackTTL = time.Hour
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Session{config: config}, nil
}

// Token returns a currently valid bearer token, logging in if the cached
// one is missing or about to expire.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.loggedOut {
		s.mu.RUnlock()
		return "", ErrSessionClosed
	}
	tok := s.token
	s.mu.RUnlock()

	if tok.Valid(s.config.RefreshSkew) {
		return tok.Value, nil
	}
	return s.Refresh(ctx)
}

// Refresh forces a login regardless of the cached token's state. Concurrent
// refreshes share one login request.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	v, err, _ := s.sfGroup.Do("login", func() (any, error) {
		return s.login(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Logout drops the cached token and marks the session unusable. Callers
// hold no server-side state, so no remote call is made.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = Token{}
	s.loggedOut = true
	s.mu.Unlock()
}

// Expiry returns the cached token's expiry, zero if none is held.
func (s *Session) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token.ExpiresAt
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in,omitempty"` // seconds, optional
}

// login performs the password grant and stores the resulting token.
func (s *Session) login(ctx context.Context) (string, error) {
	s.mu.RLock()
	closed := s.loggedOut
	s.mu.RUnlock()
	if closed {
		return "", ErrSessionClosed
	}

	body, err := json.Marshal(loginRequest{
		Username: s.config.Credentials.Username,
		Password: s.config.Credentials.Password,
	})
	if err != nil {
		return "", fmt.Errorf("auth: encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("auth: create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.config.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode.
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrInvalidCredentials
	default:
		return "", fmt.Errorf("%w: unexpected status %d", ErrLoginFailed, resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&lr); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrLoginFailed, err)
	}
	if lr.Token == "" {
		return "", fmt.Errorf("%w: empty token in response", ErrLoginFailed)
	}

	expiry := tokenExpiry(lr.Token, s.config.FallbackTTL)
	if lr.ExpiresIn > 0 {
		// An explicit server-provided lifetime wins over the JWT claim.
		expiry = time.Now().Add(time.Duration(lr.ExpiresIn) * time.Second)
	}

	s.mu.Lock()
	s.token = Token{Value: lr.Token, ExpiresAt: expiry}
	s.mu.Unlock()

	return lr.Token, nil
}
