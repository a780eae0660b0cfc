package secret

import (
	"strings"
	"testing"
)

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("DASHTUNE_TEST_HOST", "music.example.com")
	t.Setenv("DASHTUNE_TEST_USER", "alice")

	tests := []struct {
		name  string
		in    string
		want  string
		fails bool
	}{
		{"no variables", "hunter2", "hunter2", false},
		{"braced variable", "https://${DASHTUNE_TEST_HOST}", "https://music.example.com", false},
		{"two variables", "${DASHTUNE_TEST_USER}@${DASHTUNE_TEST_HOST}", "alice@music.example.com", false},
		{"unset braced variable", "${DASHTUNE_TEST_UNSET}", "", true},
		{"escaped dollar", "$$5 cover charge", "$5 cover charge", false},
		{"escape next to variable", "$$${DASHTUNE_TEST_USER}", "$alice", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnvStrict(tt.in)
			if tt.fails {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandEnvStrict() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandEnvStrict() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandEnvStrict_NamesAllMissingVars(t *testing.T) {
	t.Setenv("DASHTUNE_TEST_HOST", "music.example.com")

	_, err := ExpandEnvStrict("${DASHTUNE_TEST_HOST} ${DASHTUNE_MISSING_B} ${DASHTUNE_MISSING_A}")
	if err == nil {
		t.Fatal("expected error")
	}
	// Both missing names, sorted, so the user fixes everything in one go.
	if !strings.Contains(err.Error(), "DASHTUNE_MISSING_A, DASHTUNE_MISSING_B") {
		t.Errorf("error = %v, want both missing names in sorted order", err)
	}
}
