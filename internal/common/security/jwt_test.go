package security

import (
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := tokens.Issue("octocat", true, "583231")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}

	session, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if session.Username != "octocat" {
		t.Errorf("Username = %q, want octocat", session.Username)
	}
	if !session.IsAdmin {
		t.Errorf("IsAdmin = false, want true")
	}
	if session.IdentityKey != "583231" {
		t.Errorf("IdentityKey = %q, want 583231", session.IdentityKey)
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt %v is not in the future", session.ExpiresAt)
	}
}

func TestIssueWithoutIdentityKeyOmitsSubject(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour)
	token, err := tokens.Issue("admin", true, "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	session, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if session.IdentityKey != "" {
		t.Fatalf("IdentityKey = %q, want empty", session.IdentityKey)
	}
}

func TestIssueRejectsEmptyUsername(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour)
	if _, err := tokens.Issue("", false, ""); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tokens.Issue("student", false, "1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := tokens.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsInvalidTokens(t *testing.T) {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour)
	other := NewTokenManager([]byte("other-secret"), time.Hour)

	foreign, err := other.Issue("student", true, "1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	valid, err := tokens.Issue("student", false, "1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	parts := strings.Split(valid, ".")
	// Payload swapped for one claiming admin, original signature kept.
	forged := parts[0] + "." + strings.Split(foreign, ".")[1] + "." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage", "not-a-token"},
		{"signed with another secret", foreign},
		{"payload swapped", forged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Verify(tt.token); err == nil {
				t.Fatal("expected verification to fail")
			}
		})
	}
}

func TestSessionFromClaimsRequiresFields(t *testing.T) {
	if _, err := SessionFromClaims(map[string]interface{}{"isAdmin": true}); err == nil {
		t.Error("expected error for missing username")
	}
	if _, err := SessionFromClaims(map[string]interface{}{"username": "a"}); err == nil {
		t.Error("expected error for missing isAdmin")
	}
	if _, err := SessionFromClaims(map[string]interface{}{"username": "a", "isAdmin": "yes"}); err == nil {
		t.Error("expected error for non-boolean isAdmin")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("expected wrong password to be rejected")
	}
}
