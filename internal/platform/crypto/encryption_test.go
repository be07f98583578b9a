package crypto

import (
	"bytes"
	"testing"
)

func TestEncryptRoundTrip(t *testing.T) {
	svc, err := New("a-session-secret-that-is-long-enough")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected configured service")
	}

	sealed, err := svc.EncryptString("bearer-token-value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, []byte("bearer-token-value")) {
		t.Fatal("ciphertext leaks plaintext")
	}
	plain, err := svc.DecryptString(sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "bearer-token-value" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
}

func TestDecryptWithOtherSecretFails(t *testing.T) {
	a, _ := New("secret-one-secret-one-secret-one")
	b, _ := New("secret-two-secret-two-secret-two")
	sealed, err := a.EncryptString("token")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := b.DecryptString(sealed); err == nil {
		t.Fatal("expected decrypt with different key to fail")
	}
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, _ := svc.EncryptString("token")
	if string(sealed) != "token" {
		t.Fatalf("expected passthrough, got %q", sealed)
	}
}

func TestDeriveKeyIsPurposeBound(t *testing.T) {
	a, err := DeriveKey("shared-secret", PurposeTokenEncryption, 32)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	b, err := DeriveKey("shared-secret", PurposeCookieSigning, 32)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("expected different keys per purpose")
	}
	again, _ := DeriveKey("shared-secret", PurposeTokenEncryption, 32)
	if !bytes.Equal(a, again) {
		t.Fatal("expected deterministic derivation")
	}
	if _, err := DeriveKey("", PurposeCookieSigning, 32); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
