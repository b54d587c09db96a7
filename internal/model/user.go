// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptの自己記述形式（コスト・ソルトを含む）で保持する。
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Role はユーザーの権限を表す。is_adminフラグから導出する2値のロール。
type Role string

const (
	// RoleUser は一般ユーザー。
	RoleUser Role = "user"
	// RoleAdmin は管理者。
	RoleAdmin Role = "admin"
)

// Role はユーザーのロールを返す。
func (u *User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Public はパスワードハッシュを含まない公開用の射影を返す。
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}

// PublicUser はAPIレスポンスに含めるユーザー情報。
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Session はユーザーのログインセッションを表す。
// Tokenが唯一の検索キーであり、ExpiresAtは発行時に固定される（延長しない）。
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsValidAt は指定時刻においてセッションが有効かを返す。
// expires_atが厳密に未来である場合のみ有効。
func (s *Session) IsValidAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
