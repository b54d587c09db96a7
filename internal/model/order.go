// Package model はドメインモデルを定義する。
package model

import "time"

// OrderStatus は注文の決済状態を表す。
type OrderStatus string

const (
	// OrderStatusPending は決済待ち。
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCompleted は決済完了。
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusFailed は決済失敗。
	OrderStatusFailed OrderStatus = "failed"
)

// DefaultPaymentMethod は支払い方法が指定されなかった場合の値。
const DefaultPaymentMethod = "fedapay"

// OrderLine は注文に含まれる商品1件のスナップショット。
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// Order は注文を表す。UserID/UserEmailはゲスト注文では空になる。
type Order struct {
	ID            string      `json:"id"`
	UserID        *string     `json:"user_id"`
	UserEmail     *string     `json:"user_email"`
	Products      []OrderLine `json:"products"`
	TotalAmount   float64     `json:"total_amount"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderInput は注文作成リクエストで受け付けるフィールド。
// id、status、created_atはサーバー側で決定するため含まない。
type OrderInput struct {
	UserID        *string     `json:"user_id"`
	UserEmail     *string     `json:"user_email"`
	Products      []OrderLine `json:"products"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentMethod string      `json:"payment_method"`
}
