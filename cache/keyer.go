package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Keyer derives deterministic cache keys from a scope and request input.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives a cache key for the given scope (e.g. "art", "search")
	// and input.
	Key(scope string, input any) (string, error)
}

// DefaultKeyer hashes the input with SHA-256 so that free-text search
// queries and long ID lists always fit under MaxKeyLength.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// keyHashBytes is how much of the digest lands in the key. Eight bytes is
// plenty for a single client's working set.
const keyHashBytes = 8

// Key derives a key of the form media:<scope>:<hash>, where hash is the
// hex-encoded truncated SHA-256 of the input's canonical JSON form.
func (k *DefaultKeyer) Key(scope string, input any) (string, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, input); err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize input: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return fmt.Sprintf("media:%s:%s", scope, hex.EncodeToString(sum[:keyHashBytes])), nil
}

// writeCanonical renders v as JSON with map keys in sorted order, so the
// digest does not depend on Go's map iteration order. Values that are
// neither maps nor slices go through encoding/json as-is.
func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(name)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(raw)
	}
	return nil
}

var _ Keyer = (*DefaultKeyer)(nil)
