// Package auth はパスワード認証、ベアラートークンによるセッション管理、
// およびロールに基づくアクセス制御を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/digistore/internal/model"
	"github.com/hitoshi/digistore/internal/repository"
	"github.com/hitoshi/digistore/internal/security"
)

// MinPasswordLength はパスワードの最小バイト数。
const MinPasswordLength = 6

// PasswordHasher はパスワードのハッシュ化と照合のインターフェース。
// security.PasswordHasherが実装する。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
	CompareDummy(password string)
}

// CredentialStore はユーザーの登録と認証情報の照合を行う。
type CredentialStore struct {
	users  repository.UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

// NewCredentialStore はCredentialStoreを生成する。
func NewCredentialStore(users repository.UserRepository, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{
		users:  users,
		hasher: hasher,
		now:    time.Now,
	}
}

// Register は新規ユーザーを作成する。is_adminは常にfalseで作成される。
// 同一メールアドレスが存在する場合はDuplicateEmailエラーを返す。
// 事前チェックをすり抜けた同時登録はusers.emailの一意制約で検出する。
func (c *CredentialStore) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	if err := validateRegistration(email, username, password); err != nil {
		return nil, err
	}

	existing, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, model.WrapDependencyError("find user by email", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError()
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      false,
		CreatedAt:    c.now().UTC(),
	}
	if err := c.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewDuplicateEmailError()
		}
		return nil, model.WrapDependencyError("create user", err)
	}

	return user, nil
}

// Verify はメールアドレスとパスワードを照合し、一致したユーザーを返す。
// 未登録メールアドレスとパスワード誤りは同一のInvalidCredentialsエラーとなる。
func (c *CredentialStore) Verify(ctx context.Context, email, password string) (*model.User, error) {
	user, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, model.WrapDependencyError("find user by email", err)
	}
	if user == nil {
		c.hasher.CompareDummy(password)
		return nil, model.NewInvalidCredentialsError()
	}

	if err := c.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// FindByID は指定IDのユーザーを返す。存在しない場合はnilを返す。
func (c *CredentialStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := c.users.FindByID(ctx, id)
	if err != nil {
		return nil, model.WrapDependencyError("find user by id", err)
	}
	return user, nil
}

func validateRegistration(email, username, password string) error {
	if !isPlausibleEmail(email) {
		return model.NewValidationError("メールアドレスの形式が正しくありません")
	}
	if strings.TrimSpace(username) == "" {
		return model.NewValidationError("ユーザー名は必須です")
	}
	if len(password) < MinPasswordLength {
		return model.NewValidationError(fmt.Sprintf("パスワードは%dバイト以上で指定してください", MinPasswordLength))
	}
	if len(password) > security.MaxPasswordBytes {
		return model.NewValidationError(fmt.Sprintf("パスワードは%dバイト以下で指定してください", security.MaxPasswordBytes))
	}
	return nil
}

// isPlausibleEmail は@の前後に文字があり空白を含まないかを判定する。
func isPlausibleEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}
