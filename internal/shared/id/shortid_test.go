package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	id1, err := Generate(12)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(id1) != 12 {
		t.Errorf("Generate() length = %d, want 12", len(id1))
	}

	id2, err := Generate(12)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if id1 == id2 {
		t.Error("Generate() produced identical IDs on consecutive calls")
	}
}

func TestGenerateDefaultLength(t *testing.T) {
	id, err := Generate(0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(id) != DefaultLength {
		t.Errorf("Generate(0) length = %d, want %d", len(id), DefaultLength)
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	id, err := GenerateWithPrefix(PrefixSubscription, 12)
	if err != nil {
		t.Fatalf("GenerateWithPrefix() error = %v", err)
	}
	if !strings.HasPrefix(id, "sub_") {
		t.Errorf("GenerateWithPrefix() = %q, want sub_ prefix", id)
	}
}

func TestParsePrefixedID(t *testing.T) {
	prefix, shortID, err := ParsePrefixedID("sreq_xK9mP2vL3nQ4")
	if err != nil {
		t.Fatalf("ParsePrefixedID() error = %v", err)
	}
	if prefix != "sreq" {
		t.Errorf("prefix = %q, want sreq", prefix)
	}
	if shortID != "xK9mP2vL3nQ4" {
		t.Errorf("shortID = %q, want xK9mP2vL3nQ4", shortID)
	}

	if _, _, err := ParsePrefixedID("noprefix"); err == nil {
		t.Error("ParsePrefixedID() expected error for unprefixed input")
	}
}

func TestValidatePrefix(t *testing.T) {
	if err := ValidatePrefix("site_abc123", PrefixSite); err != nil {
		t.Errorf("ValidatePrefix() unexpected error = %v", err)
	}
	if err := ValidatePrefix("sub_abc123", PrefixSite); err == nil {
		t.Error("ValidatePrefix() expected error for wrong prefix")
	}
}
