package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestTokens(t *testing.T, ttl time.Duration) *Tokens {
	t.Helper()
	tok, err := NewTokens("test-signing-secret", ttl)
	if err != nil {
		t.Fatalf("NewTokens error: %v", err)
	}
	return tok
}

func TestNewTokensRejectsEmptySecret(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokens("   ", time.Hour); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

func TestIssueAndValidate(t *testing.T) {
	tok := newTestTokens(t, time.Hour)

	for _, userID := range []int64{1, 42, 1 << 40} {
		raw, err := tok.Issue(userID)
		if err != nil {
			t.Fatalf("Issue(%d) error: %v", userID, err)
		}
		got, ok := tok.Validate(raw)
		if !ok {
			t.Fatalf("expected token for user %d to validate", userID)
		}
		if got != userID {
			t.Fatalf("expected subject %d, got %d", userID, got)
		}
	}
}

func TestValidateExpiredToken(t *testing.T) {
	tok := newTestTokens(t, time.Nanosecond)

	raw, err := tok.Issue(1)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok := tok.Validate(raw); ok {
		t.Fatalf("expected expired token to be invalid")
	}
}

func TestValidateTamperedToken(t *testing.T) {
	tok := newTestTokens(t, time.Hour)

	raw, err := tok.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Corrupt one character of the payload segment.
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %d parts", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, ok := tok.Validate(tampered); ok {
		t.Fatalf("expected tampered token to be invalid")
	}
}

func TestValidateWrongKey(t *testing.T) {
	issuer := newTestTokens(t, time.Hour)
	verifier, err := NewTokens("a-different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens error: %v", err)
	}

	raw, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, ok := verifier.Validate(raw); ok {
		t.Fatalf("expected token signed with another key to be invalid")
	}
}

func TestValidateGarbage(t *testing.T) {
	tok := newTestTokens(t, time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0..", strings.Repeat("x", 4096)} {
		if _, ok := tok.Validate(raw); ok {
			t.Fatalf("expected %q to be invalid", raw)
		}
	}
}
