package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

func TestGenerateAndValidateJWT(t *testing.T) {
	emails := []string{
		"alice@example.com",
		"bob.smith+tag@sub.example.org",
		"x@y.io",
	}

	for _, email := range emails {
		token, err := GenerateJWT(email, testSecret, 30*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT(%q) error: %v", email, err)
		}

		subject, err := ValidateJWT(token, testSecret)
		if err != nil {
			t.Fatalf("ValidateJWT error for %q: %v", email, err)
		}
		if subject != email {
			t.Errorf("subject = %q, want %q", subject, email)
		}
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("alice@example.com", "secret-a", 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	if _, err := ValidateJWT(token, "secret-b"); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	expired := mintWithTTL(t, "alice@example.com", testSecret, -1*time.Minute)
	if _, err := ValidateJWT(expired, testSecret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestGenerateJWTNonPositiveTTLUsesDefault(t *testing.T) {
	// GenerateJWT substitutes the default TTL for non-positive values,
	// so the minted token is valid.
	token, err := GenerateJWT("alice@example.com", testSecret, -1*time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}
	if _, err := ValidateJWT(token, testSecret); err != nil {
		t.Fatalf("default-TTL token should validate: %v", err)
	}
}

func TestValidateJWTZeroTTLBoundary(t *testing.T) {
	// Expiry is exclusive of now: a token expiring exactly now is
	// already invalid.
	token := mintWithTTL(t, "alice@example.com", testSecret, 0)
	if _, err := ValidateJWT(token, testSecret); err == nil {
		t.Fatal("expected zero-TTL token to be rejected")
	}
}

func TestValidateJWTMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c",
	}

	for _, tc := range cases {
		if _, err := ValidateJWT(tc, testSecret); err == nil {
			t.Errorf("ValidateJWT(%q) expected error", tc)
		}
	}
}

// mintWithTTL signs a token with an arbitrary expiry, bypassing the
// non-positive-TTL substitution in GenerateJWT.
func mintWithTTL(t *testing.T, email, secret string, ttl time.Duration) string {
	t.Helper()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestExtractTokenFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"", ""},
		{"abc123", ""},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"Bearer a b", ""},
	}

	for _, tc := range cases {
		if got := ExtractTokenFromHeader(tc.header); got != tc.want {
			t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
