// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/digistore/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
var ErrDuplicateEmail = errors.New("email already registered")

// MaxListLimit は一覧取得で返す最大件数。
const MaxListLimit = 1000

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// SetAdmin は指定メールアドレスのユーザーの管理者フラグを更新する。
	// 対象ユーザーが存在しない場合はfalseを返す。
	SetAdmin(ctx context.Context, email string, isAdmin bool) (bool, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByToken はトークンでセッションを取得する。見つからない場合はnilを返す。
	// 有効期限の判定は呼び出し側で行う。
	FindByToken(ctx context.Context, token string) (*model.Session, error)

	// DeleteByUserID は指定ユーザーの全セッションを削除し、削除件数を返す。
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredBefore はcutoffより前に期限切れとなったセッションを削除する。
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProductRepository は商品データの永続化インターフェース。
type ProductRepository interface {
	// ListActive は公開中の商品をfilterで絞り込み、作成日時の降順で返す。
	ListActive(ctx context.Context, filter model.ProductFilter, limit int) ([]*model.Product, error)

	// ListAll は非公開を含む全商品を作成日時の降順で返す。
	ListAll(ctx context.Context, limit int) ([]*model.Product, error)

	// FindActiveByID は公開中の商品を取得する。見つからない場合はnilを返す。
	FindActiveByID(ctx context.Context, id string) (*model.Product, error)

	// Create は商品を作成する。
	Create(ctx context.Context, product *model.Product) error

	// UpdateActive は公開中の商品の編集可能フィールドを更新し、更新後の商品を返す。
	// 対象が存在しないか非公開の場合はnilを返す。
	UpdateActive(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)

	// Deactivate は公開中の商品を非公開にする。対象がなければfalseを返す。
	Deactivate(ctx context.Context, id string) (bool, error)
}

// OrderRepository は注文データの永続化インターフェース。
type OrderRepository interface {
	// Create は注文を作成する。
	Create(ctx context.Context, order *model.Order) error

	// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Order, error)
}
