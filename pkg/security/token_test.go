package security_test

import (
	"encoding/hex"
	"testing"

	"github.com/angelmondragon/vtps-backend/pkg/security"
)

func TestGenerateTokenLengthAndUniqueness(t *testing.T) {
	first, err := security.GenerateToken(20)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if len(first) != 40 {
		t.Fatalf("expected 40 hex chars, got %d", len(first))
	}
	if _, err := hex.DecodeString(first); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}

	second, err := security.GenerateToken(20)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens")
	}
}

func TestGenerateTokenDefaultsSize(t *testing.T) {
	token, err := security.GenerateToken(0)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if len(token) != 40 {
		t.Fatalf("expected default 40 hex chars, got %d", len(token))
	}
}
