package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avelasquez/stridemart-backend/api/controllers"
	"github.com/avelasquez/stridemart-backend/api/middleware"
	authsvc "github.com/avelasquez/stridemart-backend/internal/auth"
	cartsvc "github.com/avelasquez/stridemart-backend/internal/cart"
	"github.com/avelasquez/stridemart-backend/internal/catalog"
	ordersvc "github.com/avelasquez/stridemart-backend/internal/orders"
	"github.com/avelasquez/stridemart-backend/pkg/auth/session"
	"github.com/avelasquez/stridemart-backend/pkg/config"
	"github.com/avelasquez/stridemart-backend/pkg/db"
	"github.com/avelasquez/stridemart-backend/pkg/logger"
	"github.com/avelasquez/stridemart-backend/pkg/redis"
)

// SessionManager is the session surface the router hands to the actor
// middleware and the refresh handler. *session.Manager satisfies it.
type SessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions SessionManager
	Catalog  catalog.Service
	Cart     cartsvc.Service
	Orders   ordersvc.Service
	Auth     authsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	actor := middleware.Actor(cfg.JWT, deps.Sessions, cfg.Guest.CookieName, logg)

	var limiter interface {
		IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	}
	if deps.Redis != nil {
		limiter = deps.Redis
	}

	var cache controllers.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cache))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
			Post("/register", controllers.AuthRegister(deps.Auth, cfg.Guest, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, cfg.Guest, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
		r.With(actor).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(actor)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
			r.Get("/{productId}/reviews", controllers.ProductReviews(deps.Catalog, logg))
			r.Get("/{productId}/recommendations", controllers.ProductRecommendations(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, cfg.Guest, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
		})
	})

	return r
}
