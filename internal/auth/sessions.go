package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/digistore/internal/model"
	"github.com/hitoshi/digistore/internal/repository"
)

// tokenBytes はトークン生成に使う乱数のバイト数。
const tokenBytes = 32

// ErrInvalidOrExpiredToken はトークンが存在しないか期限切れであることを表す。
var ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

// SessionConfig はセッション発行の設定。
type SessionConfig struct {
	TTL time.Duration
	// Now は現在時刻を返す。nilの場合はtime.Nowを使う。
	Now func() time.Time
}

// IssuedSession は発行したトークンとその有効期限。
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// SessionIssuer はベアラートークンの発行・解決・失効を行う。
// 有効期限は発行時に固定され、解決によって延長されることはない。
type SessionIssuer struct {
	sessions repository.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionIssuer はSessionIssuerを生成する。
func NewSessionIssuer(sessions repository.SessionRepository, cfg SessionConfig) *SessionIssuer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &SessionIssuer{
		sessions: sessions,
		ttl:      cfg.TTL,
		now:      now,
	}
}

// Issue はユーザーに新しいトークンを発行する。既存のセッションには影響しない。
func (s *SessionIssuer) Issue(ctx context.Context, userID string) (*IssuedSession, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now().UTC()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, model.WrapDependencyError("create session", err)
	}

	return &IssuedSession{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Resolve はトークンに対応するユーザーIDを返す。
// トークンが空・未登録・期限切れ（expires_at <= now）の場合はErrInvalidOrExpiredTokenを返す。
func (s *SessionIssuer) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidOrExpiredToken
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return "", model.WrapDependencyError("find session", err)
	}
	if session == nil || !session.IsValidAt(s.now()) {
		return "", ErrInvalidOrExpiredToken
	}

	return session.UserID, nil
}

// RevokeAll はユーザーの全セッションを削除し、削除件数を返す。
// セッションが存在しない場合も成功とする。
func (s *SessionIssuer) RevokeAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, model.WrapDependencyError("delete sessions", err)
	}
	return n, nil
}

// generateToken は暗号的に安全なURLセーフのトークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
