package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/digistore/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     middleware.Authenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	AuthRateLimit     int // 登録・ログインのIPごとの req/min
	Logger            *slog.Logger
	HTTPMetrics       middleware.HTTPMetricsRecorder

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// サービス
	AuthService    AuthServiceInterface
	CatalogService CatalogServiceInterface
	OrderService   OrderServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CORS
//	  認証が必要なルート: Auth → RateLimit(ユーザーごと) [→ Admin]
//	  登録・ログイン:     RateLimit(IPごと)
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	productHandler := NewProductHandler(deps.CatalogService)
	orderHandler := NewOrderHandler(deps.OrderService)

	// authenticated は認証と認証済みユーザーごとのレート制限を適用する。
	authenticated := func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Authenticator))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
	}
	adminOnly := func(r chi.Router) {
		authenticated(r)
		r.Use(middleware.NewAdminMiddleware())
	}

	// --- 運用エンドポイント ---
	if deps.HealthChecker != nil {
		r.Get("/health", NewHealthHandler(deps.HealthChecker))
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// 認証
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.NewAuthRateLimitMiddleware(deps.AuthRateLimit))
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})
			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// 商品カタログ
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{id}", productHandler.GetProduct)

			r.Group(func(r chi.Router) {
				adminOnly(r)
				r.Post("/", productHandler.CreateProduct)
				r.Put("/{id}", productHandler.UpdateProduct)
				r.Delete("/{id}", productHandler.DeleteProduct)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			adminOnly(r)
			r.Get("/products", productHandler.ListAllProducts)
		})

		// 注文
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/{id}", orderHandler.GetOrder)
		})

		r.Get("/categories", productHandler.ListCategories)
	})

	return r
}
