package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordAndCheck(t *testing.T) {
	// Low cost keeps the test fast; correctness is cost-independent.
	hash, err := HashPassword("pw123456", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !CheckPassword("pw123456", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("pw1234567", hash) {
		t.Error("wrong password should not verify")
	}
	if CheckPassword("", hash) {
		t.Error("empty password should not verify")
	}
}

func TestHashPasswordRandomSalt(t *testing.T) {
	first, err := HashPassword("pw123456", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	second, err := HashPassword("pw123456", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if first == second {
		t.Error("same input should produce different hashes (random salt)")
	}
	if !CheckPassword("pw123456", first) || !CheckPassword("pw123456", second) {
		t.Error("both hashes should verify the original password")
	}
}

func TestHashPasswordCostClamping(t *testing.T) {
	// Out-of-range costs are clamped, not rejected.
	hash, err := HashPassword("pw123456", -1)
	if err != nil {
		t.Fatalf("HashPassword with invalid cost error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("unexpected hash format: %q", hash)
	}
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	if CheckPassword("pw123456", "not-a-bcrypt-hash") {
		t.Error("garbage hash should not verify")
	}
}
