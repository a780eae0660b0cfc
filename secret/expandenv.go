package secret

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var bracedVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands environment variables in s the way os.ExpandEnv
// does, with one tightening: a braced ${VAR} whose variable is unset is an
// error instead of silently becoming empty. A settings file that names
// ${DASHTUNE_PASSWORD} wants that variable present, not an empty
// credential. "$$" escapes a literal dollar sign.
func ExpandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00DASHTUNE_SECRET_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	var missing []string
	seen := make(map[string]bool)
	for _, match := range bracedVarPattern.FindAllStringSubmatch(s, -1) {
		key := match[1]
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := os.LookupEnv(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	s = os.ExpandEnv(s)
	return strings.ReplaceAll(s, dollarSentinel, "$"), nil
}
