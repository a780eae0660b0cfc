package secret

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// refPrefix marks a settings value as a secret reference rather than a
// literal credential.
const refPrefix = "secretref:"

// refPattern matches a reference embedded inside a longer value, e.g.
// "Bearer secretref:env:DASHTUNE_API_TOKEN".
var refPattern = regexp.MustCompile(`secretref:([^:\s]+):([^\s]+)`)

// Resolver turns settings values into usable credentials. A value of the
// form "secretref:<provider>:<ref>" is looked up through the named
// provider; anything else goes through strict environment expansion and is
// returned as-is.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver creates a resolver over the given providers. In strict mode
// a provider answering with an empty string is an error, since an empty
// server password is never what the user meant.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider),
		strict:    strict,
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider, replacing any provider with the same name.
func (r *Resolver) Register(provider Provider) {
	if r == nil || provider == nil {
		return
	}
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[provider.Name()] = provider
}

// ResolveValue expands environment variables in value and resolves any
// secret references it carries. A nil resolver still expands, so settings
// loading works before the client is fully assembled.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}
	if r == nil {
		return expanded, nil
	}

	if providerName, ref, ok := ParseSecretRef(expanded); ok {
		return r.lookup(ctx, providerName, ref)
	}
	return r.expandInline(ctx, expanded)
}

// ResolveSlice resolves every value, failing on the first bad one.
func (r *Resolver) ResolveSlice(ctx context.Context, values []string) ([]string, error) {
	resolved := make([]string, len(values))
	for i, v := range values {
		out, err := r.ResolveValue(ctx, v)
		if err != nil {
			return nil, err
		}
		resolved[i] = out
	}
	return resolved, nil
}

// ResolveMap resolves every value of input, keyed errors included.
func (r *Resolver) ResolveMap(ctx context.Context, input map[string]string) (map[string]string, error) {
	if input == nil {
		return nil, nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		resolved, err := r.ResolveValue(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

// ParseSecretRef splits a whole-value reference of the form
// "secretref:<provider>:<ref>". ok is false when value is not one.
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	if !strings.HasPrefix(value, refPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(value, refPrefix)
	provider, ref, found := strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

// lookup asks the named provider for the ref's value.
func (r *Resolver) lookup(ctx context.Context, providerName string, ref string) (string, error) {
	if strings.TrimSpace(providerName) == "" {
		return "", errors.New("secret provider name is required")
	}
	if strings.TrimSpace(ref) == "" {
		return "", errors.New("secret ref is required")
	}
	provider, ok := r.providers[providerName]
	if !ok || provider == nil {
		return "", fmt.Errorf("secret provider %q is not registered", providerName)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && resolved == "" {
		return "", fmt.Errorf("secret provider %q returned empty value", providerName)
	}
	return resolved, nil
}

// expandInline replaces references embedded in a longer value, such as an
// Authorization header template. Replacement runs back to front so earlier
// match offsets stay valid.
func (r *Resolver) expandInline(ctx context.Context, value string) (string, error) {
	matches := refPattern.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return value, nil
	}

	out := value
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		resolved, err := r.lookup(ctx, out[m[2]:m[3]], out[m[4]:m[5]])
		if err != nil {
			return "", err
		}
		out = out[:m[0]] + resolved + out[m[1]:]
	}
	return out, nil
}
