package dedup

import (
	"fmt"
	"strings"
)

// keyDelimiter joins the operation name and its parameters.
const keyDelimiter = ":"

// Key builds a deterministic request key from an operation name and its
// ordered parameters.
//
// Contract:
//   - Determinism: identical operation + parameters always produce the same
//     key; a different parameter order produces a different key.
//   - Nil parameters are rendered as "nil" rather than dropped, so
//     ("search", nil, 1) and ("search", 1) stay distinct.
//
// Keys are human-readable for diagnostic logging but are never parsed.
// Delimiter collisions inside parameter values are accepted: the key is an
// internal cache identity, not a public identifier.
func Key(op string, params ...any) string {
	if len(params) == 0 {
		return op
	}

	var b strings.Builder
	b.WriteString(op)
	for _, p := range params {
		b.WriteString(keyDelimiter)
		if p == nil {
			b.WriteString("nil")
			continue
		}
		fmt.Fprintf(&b, "%v", p)
	}
	return b.String()
}
