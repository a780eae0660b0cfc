package secret

import "context"

// Provider resolves a secret reference to its value. Implementations must
// be safe for concurrent use and must never log the values they return.
type Provider interface {
	// Name is the reference scheme this provider answers for, e.g. "env"
	// in "secretref:env:DASHTUNE_PASSWORD".
	Name() string

	// Resolve returns the secret the ref points at.
	Resolve(ctx context.Context, ref string) (string, error)

	// Close releases any backing handles, e.g. a keychain session.
	Close() error
}
