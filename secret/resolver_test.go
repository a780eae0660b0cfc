package secret

import (
	"context"
	"errors"
	"testing"
)

// fakeVault stands in for a keychain-style provider in tests.
type fakeVault struct {
	name    string
	entries map[string]string
	err     error
}

func (v *fakeVault) Name() string { return v.name }

func (v *fakeVault) Resolve(_ context.Context, ref string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.entries[ref], nil
}

func (v *fakeVault) Close() error { return nil }

func newVault(entries map[string]string) *fakeVault {
	return &fakeVault{name: "vault", entries: entries}
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		provider string
		ref      string
		ok       bool
	}{
		{"env ref", "secretref:env:DASHTUNE_PASSWORD", "env", "DASHTUNE_PASSWORD", true},
		{"ref with colons", "secretref:vault:accounts:navidrome", "vault", "accounts:navidrome", true},
		{"plain value", "hunter2", "", "", false},
		{"missing ref part", "secretref:env:", "", "", false},
		{"missing provider", "secretref::DASHTUNE_PASSWORD", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ref, ok := ParseSecretRef(tt.value)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if provider != tt.provider || ref != tt.ref {
				t.Errorf("parsed %q/%q, want %q/%q", provider, ref, tt.provider, tt.ref)
			}
		})
	}
}

func TestResolver_WholeValueRef(t *testing.T) {
	r := NewResolver(true, newVault(map[string]string{"password": "hunter2"}))

	got, err := r.ResolveValue(context.Background(), "secretref:vault:password")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "hunter2" {
		t.Errorf("ResolveValue() = %q, want hunter2", got)
	}
}

func TestResolver_InlineRef(t *testing.T) {
	r := NewResolver(true, newVault(map[string]string{"token": "tok-123"}))

	got, err := r.ResolveValue(context.Background(), "Bearer secretref:vault:token")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "Bearer tok-123" {
		t.Errorf("ResolveValue() = %q, want \"Bearer tok-123\"", got)
	}
}

func TestResolver_MultipleInlineRefs(t *testing.T) {
	r := NewResolver(true, newVault(map[string]string{"user": "alice", "pass": "hunter2"}))

	got, err := r.ResolveValue(context.Background(), "user=secretref:vault:user pass=secretref:vault:pass")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "user=alice pass=hunter2" {
		t.Errorf("ResolveValue() = %q, want \"user=alice pass=hunter2\"", got)
	}
}

func TestResolver_PlainValuePassesThrough(t *testing.T) {
	r := NewResolver(true, newVault(nil))

	got, err := r.ResolveValue(context.Background(), "https://music.example.com")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "https://music.example.com" {
		t.Errorf("ResolveValue() = %q, want the input untouched", got)
	}
}

func TestResolver_UnregisteredProvider(t *testing.T) {
	r := NewResolver(true, newVault(nil))

	_, err := r.ResolveValue(context.Background(), "secretref:keychain:password")
	if err == nil {
		t.Fatal("expected error for a provider nobody registered")
	}
}

func TestResolver_StrictRejectsEmptySecret(t *testing.T) {
	vault := newVault(map[string]string{"password": ""})

	if _, err := NewResolver(true, vault).ResolveValue(context.Background(), "secretref:vault:password"); err == nil {
		t.Error("strict mode should reject an empty credential")
	}
	if got, err := NewResolver(false, vault).ResolveValue(context.Background(), "secretref:vault:password"); err != nil || got != "" {
		t.Errorf("lenient mode = %q, %v; want empty value and no error", got, err)
	}
}

func TestResolver_ProviderErrorPropagates(t *testing.T) {
	vaultErr := errors.New("keychain locked")
	r := NewResolver(true, &fakeVault{name: "vault", err: vaultErr})

	_, err := r.ResolveValue(context.Background(), "secretref:vault:password")
	if !errors.Is(err, vaultErr) {
		t.Errorf("error = %v, want the provider's own failure", err)
	}
}

func TestResolver_SliceAndMap(t *testing.T) {
	r := NewResolver(true, newVault(map[string]string{"password": "hunter2"}))
	ctx := context.Background()

	slice, err := r.ResolveSlice(ctx, []string{"alice", "secretref:vault:password"})
	if err != nil {
		t.Fatalf("ResolveSlice() error = %v", err)
	}
	if slice[0] != "alice" || slice[1] != "hunter2" {
		t.Errorf("ResolveSlice() = %v", slice)
	}

	m, err := r.ResolveMap(ctx, map[string]string{"auth": "Basic secretref:vault:password"})
	if err != nil {
		t.Fatalf("ResolveMap() error = %v", err)
	}
	if m["auth"] != "Basic hunter2" {
		t.Errorf("ResolveMap()[auth] = %q, want \"Basic hunter2\"", m["auth"])
	}

	nilOut, err := r.ResolveMap(ctx, nil)
	if err != nil || nilOut != nil {
		t.Errorf("ResolveMap(nil) = %v, %v; want nil, nil", nilOut, err)
	}
}

func TestResolver_NilStillExpandsEnv(t *testing.T) {
	t.Setenv("DASHTUNE_TEST_HOST", "music.example.com")

	var r *Resolver
	got, err := r.ResolveValue(context.Background(), "https://${DASHTUNE_TEST_HOST}")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "https://music.example.com" {
		t.Errorf("ResolveValue() = %q", got)
	}
}
