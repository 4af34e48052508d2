package crypto

import (
	"bytes"
	"strings"
	"testing"
)

const hexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealerRoundTrip(t *testing.T) {
	s, err := NewSealer(hexKey)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	if !s.Configured() {
		t.Fatalf("expected configured sealer")
	}
	plain := []byte(`{"bsn":"123456782"}`)
	sealed, err := s.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, []byte("123456782")) {
		t.Fatalf("sealed payload leaks plaintext")
	}
	opened, err := s.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Fatalf("expected %q, got %q", plain, opened)
	}
}

func TestSealerUsesFreshNonces(t *testing.T) {
	s, err := NewSealer(strings.Repeat("k!", 16))
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	a, _ := s.Encrypt([]byte("same"))
	b, _ := s.Encrypt([]byte("same"))
	if bytes.Equal(a, b) {
		t.Fatalf("expected distinct ciphertexts")
	}
}

func TestSealerRejectsTampering(t *testing.T) {
	s, _ := NewSealer(hexKey)
	sealed, _ := s.Encrypt([]byte("payload"))
	sealed[len(sealed)-1] ^= 0x01
	if _, err := s.Decrypt(sealed); err == nil {
		t.Fatalf("expected authentication failure")
	}
	if _, err := s.Decrypt([]byte{1, 2}); err != ErrCiphertextTooShort {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestSealerWithoutKeyPassesThrough(t *testing.T) {
	s, err := NewSealer("")
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	out, _ := s.Encrypt([]byte("plain"))
	if string(out) != "plain" {
		t.Fatalf("expected pass-through, got %q", out)
	}
}

func TestNewSealerRejectsShortKey(t *testing.T) {
	if _, err := NewSealer("short"); err == nil {
		t.Fatalf("expected error for short key")
	}
}
