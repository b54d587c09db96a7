package handler

import (
	"context"

	"github.com/hitoshi/digistore/internal/auth"
	"github.com/hitoshi/digistore/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	registerFn func(ctx context.Context, email, username, password string) (*auth.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*auth.AuthResult, error)
	logoutFn   func(ctx context.Context, user *model.User) error
}

func (m *mockAuthService) Register(ctx context.Context, email, username, password string) (*auth.AuthResult, error) {
	return m.registerFn(ctx, email, username, password)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.AuthResult, error) {
	return m.loginFn(ctx, email, password)
}

func (m *mockAuthService) Logout(ctx context.Context, user *model.User) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, user)
	}
	return nil
}

func (m *mockAuthService) WhoAmI(user *model.User) model.PublicUser {
	return user.Public()
}

type mockCatalogService struct {
	listFn    func(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	listAllFn func(ctx context.Context) ([]*model.Product, error)
	getFn     func(ctx context.Context, id string) (*model.Product, error)
	createFn  func(ctx context.Context, admin *model.User, input model.ProductInput) (*model.Product, error)
	updateFn  func(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockCatalogService) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	return m.listFn(ctx, filter)
}

func (m *mockCatalogService) ListAll(ctx context.Context) ([]*model.Product, error) {
	return m.listAllFn(ctx)
}

func (m *mockCatalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogService) Create(ctx context.Context, admin *model.User, input model.ProductInput) (*model.Product, error) {
	return m.createFn(ctx, admin, input)
}

func (m *mockCatalogService) Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	return m.updateFn(ctx, id, input)
}

func (m *mockCatalogService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockCatalogService) Categories() []model.Category {
	return model.Categories()
}

type mockOrderService struct {
	createFn func(ctx context.Context, input model.OrderInput) (*model.Order, error)
	getFn    func(ctx context.Context, id string) (*model.Order, error)
}

func (m *mockOrderService) Create(ctx context.Context, input model.OrderInput) (*model.Order, error) {
	return m.createFn(ctx, input)
}

func (m *mockOrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	return m.getFn(ctx, id)
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(context.Context) error {
	return m.err
}
