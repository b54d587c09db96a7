package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/digistore/internal/model"
)

func TestSessionIssuer_IssueAndResolve_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.issuer.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	userID, err := env.issuer.Resolve(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Resolve() = %q, want %q", userID, "user-1")
	}
}

func TestSessionIssuer_Issue_TokenFormat(t *testing.T) {
	env := newTestEnv(t)

	issued, err := env.issuer.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(issued.Token)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) != tokenBytes {
		t.Errorf("token entropy = %d bytes, want %d", len(raw), tokenBytes)
	}
}

func TestSessionIssuer_Issue_UniqueTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		issued, err := env.issuer.Issue(ctx, "user-1")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if seen[issued.Token] {
			t.Fatalf("duplicate token issued: %q", issued.Token)
		}
		seen[issued.Token] = true
	}
}

// expires_at == now は無効、1ナノ秒前までは有効
func TestSessionIssuer_Resolve_ExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	issuedAt := env.clock.Now()

	issued, err := env.issuer.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"発行直後", issuedAt, false},
		{"期限の1ナノ秒前", issued.ExpiresAt.Add(-time.Nanosecond), false},
		{"期限ちょうど", issued.ExpiresAt, true},
		{"期限後", issued.ExpiresAt.Add(time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.clock.Set(tt.now)
			_, err := env.issuer.Resolve(ctx, issued.Token)
			if tt.wantErr && !errors.Is(err, ErrInvalidOrExpiredToken) {
				t.Errorf("Resolve() error = %v, want ErrInvalidOrExpiredToken", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Resolve() error = %v, want nil", err)
			}
		})
	}
}

// 解決しても有効期限は延長されない
func TestSessionIssuer_Resolve_DoesNotExtendExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, _ := env.issuer.Issue(ctx, "user-1")
	env.clock.Set(issued.ExpiresAt.Add(-time.Minute))
	if _, err := env.issuer.Resolve(ctx, issued.Token); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	stored, _ := env.sessions.FindByToken(ctx, issued.Token)
	if !stored.ExpiresAt.Equal(issued.ExpiresAt) {
		t.Errorf("ExpiresAt changed: %v -> %v", issued.ExpiresAt, stored.ExpiresAt)
	}
}

func TestSessionIssuer_Resolve_UnknownOrEmptyToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, token := range []string{"", "never-issued"} {
		if _, err := env.issuer.Resolve(ctx, token); !errors.Is(err, ErrInvalidOrExpiredToken) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidOrExpiredToken", token, err)
		}
	}
}

func TestSessionIssuer_RevokeAll_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, _ := env.issuer.Issue(ctx, "user-1")
	b, _ := env.issuer.Issue(ctx, "user-1")

	n, err := env.issuer.RevokeAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("RevokeAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("revoked = %d, want 2", n)
	}

	for _, token := range []string{a.Token, b.Token} {
		if _, err := env.issuer.Resolve(ctx, token); !errors.Is(err, ErrInvalidOrExpiredToken) {
			t.Errorf("Resolve(%q) after revoke error = %v", token, err)
		}
	}

	n, err = env.issuer.RevokeAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("second RevokeAll() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second revoke = %d, want 0", n)
	}
}

func TestSessionIssuer_StoreDown_DependencyUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.errFn = func(op string) error { return errors.New("timeout") }
	ctx := context.Background()

	_, err := env.issuer.Issue(ctx, "user-1")
	assertAPIErrorCode(t, err, model.ErrCodeDependencyUnavailable)

	_, err = env.issuer.Resolve(ctx, "some-token")
	assertAPIErrorCode(t, err, model.ErrCodeDependencyUnavailable)
	if errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Error("store failure must not be reported as an invalid token")
	}

	_, err = env.issuer.RevokeAll(ctx, "user-1")
	assertAPIErrorCode(t, err, model.ErrCodeDependencyUnavailable)
}

func TestNewSessionIssuer_DefaultsToWallClock(t *testing.T) {
	issuer := NewSessionIssuer(newMemSessionRepo(), SessionConfig{TTL: time.Hour})

	issued, err := issuer.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if d := time.Until(issued.ExpiresAt); d < 59*time.Minute || d > time.Hour {
		t.Errorf("ExpiresAt is %v from now, want about 1h", d)
	}
}
