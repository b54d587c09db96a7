// Package catalog は商品カタログの閲覧と管理者による編集を提供する。
package catalog

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/digistore/internal/model"
	"github.com/hitoshi/digistore/internal/repository"
)

// Sanitizer は商品説明のHTMLをサニタイズする。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Service は商品カタログのユースケースを提供する。
type Service struct {
	products  repository.ProductRepository
	sanitizer Sanitizer
	now       func() time.Time
}

// NewService はServiceを生成する。
func NewService(products repository.ProductRepository, sanitizer Sanitizer) *Service {
	return &Service{
		products:  products,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// List は公開中の商品をfilterで絞り込んで返す。
func (s *Service) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	products, err := s.products.ListActive(ctx, filter, repository.MaxListLimit)
	if err != nil {
		return nil, model.WrapDependencyError("list products", err)
	}
	return products, nil
}

// ListAll は非公開を含む全商品を返す。管理画面用。
func (s *Service) ListAll(ctx context.Context) ([]*model.Product, error) {
	products, err := s.products.ListAll(ctx, repository.MaxListLimit)
	if err != nil {
		return nil, model.WrapDependencyError("list all products", err)
	}
	return products, nil
}

// Get は公開中の商品を返す。非公開または存在しない場合はNotFoundエラーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		return nil, model.WrapDependencyError("find product", err)
	}
	if product == nil {
		return nil, model.NewProductNotFoundError(id)
	}
	return product, nil
}

// Create は管理者として商品を作成する。
func (s *Service) Create(ctx context.Context, admin *model.User, input model.ProductInput) (*model.Product, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageBase64: input.ImageBase64,
		FileBase64:  input.FileBase64,
		FileName:    input.FileName,
		FileType:    input.FileType,
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
		CreatedBy:   admin.ID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, model.WrapDependencyError("create product", err)
	}

	slog.Info("product created",
		slog.String("product_id", product.ID),
		slog.String("admin_id", admin.ID),
	)
	return product, nil
}

// Update は公開中の商品の編集可能フィールドを全て置き換える。
// 非公開の商品は存在しない商品と同様にNotFoundエラーとなる。
func (s *Service) Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	product, err := s.products.UpdateActive(ctx, id, input)
	if err != nil {
		return nil, model.WrapDependencyError("update product", err)
	}
	if product == nil {
		return nil, model.NewProductNotFoundError(id)
	}

	slog.Info("product updated", slog.String("product_id", id))
	return product, nil
}

// Delete は商品を論理削除する。既に非公開の場合はNotFoundエラーとなる。
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.products.Deactivate(ctx, id)
	if err != nil {
		return model.WrapDependencyError("deactivate product", err)
	}
	if !ok {
		return model.NewProductNotFoundError(id)
	}

	slog.Info("product deactivated", slog.String("product_id", id))
	return nil
}

// Categories は固定のカテゴリ一覧を返す。
func (s *Service) Categories() []model.Category {
	return model.Categories()
}

// normalize は入力を検証し、説明文をサニタイズした入力を返す。
func (s *Service) normalize(input model.ProductInput) (model.ProductInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, model.NewValidationError("商品名は必須です")
	}
	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price < 0 {
		return input, model.NewValidationError("価格は0以上で指定してください")
	}
	if !model.IsValidCategory(input.Category) {
		return input, model.NewValidationError("カテゴリが不正です: " + input.Category)
	}
	input.Description = s.sanitizer.Sanitize(input.Description)
	return input, nil
}
