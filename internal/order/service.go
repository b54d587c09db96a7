// Package order は注文の作成と参照を提供する。
// 注文は商品のスナップショット（ID・名前・価格）を保持し、商品の後の変更の影響を受けない。
package order

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/digistore/internal/model"
	"github.com/hitoshi/digistore/internal/repository"
)

// Service は注文のユースケースを提供する。
type Service struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewService はServiceを生成する。
func NewService(orders repository.OrderRepository) *Service {
	return &Service{orders: orders, now: time.Now}
}

// Create は入力を検証して注文を作成する。
// id、status、created_atはサーバー側で決定する。
func (s *Service) Create(ctx context.Context, input model.OrderInput) (*model.Order, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	o := &model.Order{
		ID:            uuid.New().String(),
		UserID:        input.UserID,
		UserEmail:     input.UserEmail,
		Products:      input.Products,
		TotalAmount:   input.TotalAmount,
		Status:        model.OrderStatusPending,
		PaymentMethod: paymentMethod,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, model.WrapDependencyError("create order", err)
	}

	slog.Info("order created",
		slog.String("order_id", o.ID),
		slog.Int("lines", len(o.Products)),
		slog.Float64("total_amount", o.TotalAmount),
	)
	return o, nil
}

// Get は指定IDの注文を返す。存在しない場合はNotFoundエラーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, model.WrapDependencyError("find order", err)
	}
	if o == nil {
		return nil, model.NewOrderNotFoundError(id)
	}
	return o, nil
}

func validate(input model.OrderInput) error {
	if len(input.Products) == 0 {
		return model.NewValidationError("注文には1件以上の商品が必要です")
	}

	var sumCents int64
	for i, line := range input.Products {
		if strings.TrimSpace(line.ProductID) == "" {
			return model.NewValidationError(fmt.Sprintf("products[%d]: product_idは必須です", i))
		}
		if strings.TrimSpace(line.Name) == "" {
			return model.NewValidationError(fmt.Sprintf("products[%d]: nameは必須です", i))
		}
		if !isValidAmount(line.Price) {
			return model.NewValidationError(fmt.Sprintf("products[%d]: priceは0以上で指定してください", i))
		}
		sumCents += toCents(line.Price)
	}

	if !isValidAmount(input.TotalAmount) {
		return model.NewValidationError("total_amountは0以上で指定してください")
	}
	if toCents(input.TotalAmount) != sumCents {
		return model.NewValidationError("total_amountが商品価格の合計と一致しません")
	}

	if input.UserEmail != nil {
		addr, err := mail.ParseAddress(*input.UserEmail)
		if err != nil || addr.Address != *input.UserEmail {
			return model.NewValidationError("user_emailの形式が正しくありません")
		}
	}
	if input.UserID != nil {
		if _, err := uuid.Parse(*input.UserID); err != nil {
			return model.NewValidationError("user_idの形式が正しくありません")
		}
	}
	return nil
}

func isValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// toCents は金額をセント単位の整数に丸める。
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
