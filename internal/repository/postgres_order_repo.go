package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hitoshi/digistore/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
// 注文明細はJSONB列にスナップショットとして保存する。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

// Create は注文を作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, o *model.Order) error {
	lines, err := json.Marshal(o.Products)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, user_email, products, total_amount, status, payment_method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.UserID, o.UserEmail, lines, o.TotalAmount, string(o.Status), o.PaymentMethod, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var (
		o      model.Order
		lines  []byte
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, user_email, products, total_amount, status, payment_method, created_at
		 FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.UserID, &o.UserEmail, &lines, &o.TotalAmount, &status, &o.PaymentMethod, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	if err := json.Unmarshal(lines, &o.Products); err != nil {
		return nil, fmt.Errorf("failed to decode order lines: %w", err)
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
