package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/digistore/internal/model"
)

// EventRecorder は認証イベントの記録先。metrics.Collectorが実装する。
type EventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, string) {}

// AuthResult は登録・ログイン成功時に返す結果。
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.PublicUser
}

// Service は認証に関するユースケースを提供する。
type Service struct {
	credentials *CredentialStore
	sessions    *SessionIssuer
	guard       *Guard
	recorder    EventRecorder
}

// NewService はServiceを生成する。recorderがnilの場合はイベントを記録しない。
func NewService(credentials *CredentialStore, sessions *SessionIssuer, recorder EventRecorder) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		credentials: credentials,
		sessions:    sessions,
		guard:       NewGuard(sessions, credentials),
		recorder:    recorder,
	}
}

// Register はユーザーを登録し、そのままログイン状態にする。
// ユーザー作成後のトークン発行に失敗した場合、ユーザーはセッションなしで残る。
func (s *Service) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	user, err := s.credentials.Register(ctx, email, username, password)
	if err != nil {
		s.recorder.RecordAuthEvent("register", "failure")
		return nil, err
	}

	issued, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		s.recorder.RecordAuthEvent("register", "failure")
		return nil, err
	}

	s.recorder.RecordAuthEvent("register", "success")
	slog.Info("user registered", slog.String("user_id", user.ID))

	return &AuthResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user.Public()}, nil
}

// Login は認証情報を照合してトークンを発行する。既存のトークンは有効なまま残る。
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.credentials.Verify(ctx, email, password)
	if err != nil {
		s.recorder.RecordAuthEvent("login", "failure")
		slog.Warn("login failed", slog.String("error", err.Error()))
		return nil, err
	}

	issued, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		s.recorder.RecordAuthEvent("login", "failure")
		return nil, err
	}

	s.recorder.RecordAuthEvent("login", "success")
	slog.Info("user logged in", slog.String("user_id", user.ID))

	return &AuthResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user.Public()}, nil
}

// Logout はユーザーの全セッションを失効させる。
func (s *Service) Logout(ctx context.Context, user *model.User) error {
	n, err := s.sessions.RevokeAll(ctx, user.ID)
	if err != nil {
		return err
	}

	s.recorder.RecordAuthEvent("logout", "success")
	slog.Info("user logged out",
		slog.String("user_id", user.ID),
		slog.Int64("revoked_sessions", n),
	)
	return nil
}

// WhoAmI は認証済みユーザーの公開情報を返す。
func (s *Service) WhoAmI(user *model.User) model.PublicUser {
	return user.Public()
}

// Authenticate はトークンを検証してユーザーを返す。
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	return s.guard.Authenticate(ctx, token)
}
