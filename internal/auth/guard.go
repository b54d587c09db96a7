package auth

import (
	"context"
	"errors"

	"github.com/hitoshi/digistore/internal/model"
)

// TokenResolver はトークンからユーザーIDを解決する。
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// UserFinder はIDでユーザーを取得する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Guard はリクエストの認証と認可を行う。
type Guard struct {
	tokens TokenResolver
	users  UserFinder
}

// NewGuard はGuardを生成する。
func NewGuard(tokens TokenResolver, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate はトークンを検証し、対応するユーザーを返す。
// トークンが無効・期限切れ、またはユーザーが削除済みの場合はUnauthenticatedエラーを返す。
// データストア障害はDependencyUnavailableとしてそのまま返す。
func (g *Guard) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := g.tokens.Resolve(ctx, token)
	if errors.Is(err, ErrInvalidOrExpiredToken) {
		return nil, model.NewUnauthenticatedError()
	}
	if err != nil {
		return nil, err
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUnauthenticatedError()
	}
	return user, nil
}

// RequireAdmin はユーザーが管理者であることを確認する。
func RequireAdmin(user *model.User) (*model.User, error) {
	if user == nil || user.Role() != model.RoleAdmin {
		return nil, model.NewForbiddenError()
	}
	return user, nil
}
