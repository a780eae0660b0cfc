package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinel errors for catalog client configuration.
var (
	ErrMissingBaseURL = errors.New("catalog: base URL is required")
	ErrEmptyID        = errors.New("catalog: entity id is required")
	ErrEmptyQuery     = errors.New("catalog: search query is required")

	// ErrOffline is returned for any network operation while offline mode
	// is on. Cached data is still served.
	ErrOffline = errors.New("catalog: offline mode is on")
)

// Category classifies a request failure for retry and display decisions.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNetwork
	CategoryTimeout
	CategoryUnauthorized
	CategoryForbidden
	CategoryNotFound
	CategoryRateLimited
	CategoryServer
	CategoryClient
	CategoryOffline
)

func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryTimeout:
		return "timeout"
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryForbidden:
		return "forbidden"
	case CategoryNotFound:
		return "not-found"
	case CategoryRateLimited:
		return "rate-limited"
	case CategoryServer:
		return "server"
	case CategoryClient:
		return "client"
	case CategoryOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Error is a classified request failure.
type Error struct {
	Op         string   // operation name, e.g. "getAlbum"
	Category   Category // failure classification
	StatusCode int      // HTTP status, 0 for transport failures
	Err        error    // underlying cause, may be nil for pure HTTP errors
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("catalog: %s: %s (status %d): %v", e.Op, e.Category, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("catalog: %s: %s (status %d)", e.Op, e.Category, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("catalog: %s: %s: %v", e.Op, e.Category, e.Err)
	default:
		return fmt.Sprintf("catalog: %s: %s", e.Op, e.Category)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to a failure category.
func classifyStatus(status int) Category {
	switch {
	case status == http.StatusUnauthorized:
		return CategoryUnauthorized
	case status == http.StatusForbidden:
		return CategoryForbidden
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return CategoryTimeout
	case status >= 500:
		return CategoryServer
	case status >= 400:
		return CategoryClient
	default:
		return CategoryUnknown
	}
}

// httpError builds an Error for a non-2xx response.
func httpError(op string, status int) *Error {
	return &Error{Op: op, Category: classifyStatus(status), StatusCode: status}
}

// transportError builds an Error for a failure before any response arrived.
func transportError(op string, err error) *Error {
	cat := CategoryNetwork
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		cat = CategoryTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		cat = CategoryTimeout
	case errors.Is(err, context.Canceled):
		cat = CategoryUnknown
	}
	return &Error{Op: op, Category: cat, Err: err}
}

// Classify returns the failure category of err, CategoryUnknown if err does
// not originate from this package.
func Classify(err error) Category {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryUnknown
}

// IsRetryable reports whether retrying the request could plausibly succeed.
// Auth failures, missing entities, and offline rejections are permanent;
// transient transport and server conditions are not.
func IsRetryable(err error) bool {
	switch Classify(err) {
	case CategoryNetwork, CategoryTimeout, CategoryRateLimited, CategoryServer:
		return true
	default:
		return false
	}
}
