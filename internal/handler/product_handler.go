package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/digistore/internal/catalog"
	"github.com/hitoshi/digistore/internal/model"
)

// CatalogServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	ListAll(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, admin *model.User, input model.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	Categories() []model.Category
}

var _ CatalogServiceInterface = (*catalog.Service)(nil)

// ProductHandler は商品カタログのHTTPハンドラー。
type ProductHandler struct {
	service CatalogServiceInterface
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(service CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// ListProducts は公開中の商品一覧を返す。
// GET /api/products?category=...&search=...
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := model.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, nonNilProducts(products))
}

// GetProduct は公開中の商品を1件返す。
// GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// CreateProduct は商品を作成する。管理者のみ。
// POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input model.ProductInput
	if err := decodeJSON(w, r, maxProductBodyBytes, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	product, err := h.service.Create(r.Context(), admin, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// UpdateProduct は商品の編集可能フィールドを置き換える。管理者のみ。
// PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if err := decodeJSON(w, r, maxProductBodyBytes, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Product updated successfully"})
}

// DeleteProduct は商品を論理削除する。管理者のみ。
// DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// ListAllProducts は非公開を含む全商品を返す。管理者のみ。
// GET /api/admin/products
func (h *ProductHandler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, nonNilProducts(products))
}

// ListCategories は固定のカテゴリ一覧を返す。
// GET /api/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Categories())
}

// nonNilProducts は空の結果をnullではなく[]としてエンコードするための変換。
func nonNilProducts(products []*model.Product) []*model.Product {
	if products == nil {
		return []*model.Product{}
	}
	return products
}
