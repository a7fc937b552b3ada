// Package kernel assembles the application: it wires repositories and
// services on top of the database and cache, and builds the HTTP handler with
// the global middleware stack.
package kernel

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodcourt/app/repositories"
	"github.com/shashiranjanraj/foodcourt/app/routes"
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/config"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/cache"
	"github.com/shashiranjanraj/foodcourt/pkg/database"
	"github.com/shashiranjanraj/foodcourt/pkg/event"
	"github.com/shashiranjanraj/foodcourt/pkg/logger"
	"github.com/shashiranjanraj/foodcourt/pkg/metrics"
	"github.com/shashiranjanraj/foodcourt/pkg/middleware"
	"github.com/shashiranjanraj/foodcourt/pkg/rbac"
	"github.com/shashiranjanraj/foodcourt/pkg/reqid"
	"github.com/shashiranjanraj/foodcourt/pkg/response"
	"github.com/shashiranjanraj/foodcourt/pkg/router"
)

// Options are the dependencies and tunables of a Kernel.
type Options struct {
	DB            *gorm.DB
	Cache         *cache.Store // nil disables caching
	Tokens        *auth.Tokens
	OwnerCacheTTL time.Duration
	RateLimit     int    // requests per client per minute
	CORSOrigins   string // comma-separated; empty allows any origin
}

// Kernel holds the wired application.
type Kernel struct {
	DB      *gorm.DB
	Cache   *cache.Store
	Events  *event.Dispatcher
	Guard   *rbac.Guard
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Orders  *services.OrderService

	limiter *middleware.Limiter
	cors    middleware.CORSOptions
}

// New wires repositories, the guard and the services.
func New(opts Options) *Kernel {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 200
	}

	users := repositories.NewUserRepository(opts.DB, opts.Cache)
	catalog := repositories.NewCatalogRepository(opts.DB, opts.Cache, opts.OwnerCacheTTL)
	orders := repositories.NewOrderRepository(opts.DB)

	guard := rbac.NewGuard(catalog).OnDenied(func(a rbac.Action, role auth.Role) {
		metrics.AuthzDenied.WithLabelValues(a.String(), role.String()).Inc()
	})

	events := event.NewDispatcher()
	services.RegisterListeners(events)

	return &Kernel{
		DB:      opts.DB,
		Cache:   opts.Cache,
		Events:  events,
		Guard:   guard,
		Auth:    services.NewAuthService(users, opts.Tokens, guard),
		Catalog: services.NewCatalogService(catalog, users, guard),
		Orders:  services.NewOrderService(orders, catalog, guard, events),
		limiter: middleware.NewLimiter(opts.RateLimit, time.Minute),
		cors:    middleware.DefaultCORSOptions(opts.CORSOrigins),
	}
}

// Boot connects to the configured database and Redis and wires a Kernel.
// An unreachable Redis is logged and the kernel runs without a cache.
func Boot(ctx context.Context) (*Kernel, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	db, err := database.Connect()
	if err != nil {
		return nil, err
	}

	store, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), "foodcourt:")
	if err != nil {
		logger.Warn("kernel: running without cache", "error", err)
	}

	return New(Options{
		DB:            db,
		Cache:         store,
		Tokens:        auth.NewTokens(config.JWTSecret(), config.TokenTTL()),
		OwnerCacheTTL: config.OwnerCacheTTL(),
		RateLimit:     config.RateLimitPerMinute(),
		CORSOrigins:   config.CORSAllowedOrigins(),
	}), nil
}

// Routes registers /metrics and the API on r.
func (k *Kernel) Routes(r *router.Router) {
	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())
	routes.RegisterAPI(r, routes.Deps{
		Auth:    k.Auth,
		Catalog: k.Catalog,
		Orders:  k.Orders,
		Guard:   k.Guard,
	})
}

// Router builds the router with the global middleware stack and all routes.
//
// Global middleware, outermost first:
//  1. Prometheus metrics, for total latency
//  2. Recovery
//  3. Request ID, before anything logs
//  4. Logger
//  5. CORS
//  6. Rate limiter
func (k *Kernel) Router() *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(k.cors))
	r.Use(k.limiter.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	k.Routes(r)
	return r
}

// Handler is the HTTP handler served by the API.
func (k *Kernel) Handler() http.Handler {
	return k.Router().Handler()
}

// RunJanitor evicts idle rate-limit buckets until ctx is done.
func (k *Kernel) RunJanitor(ctx context.Context) {
	k.limiter.RunJanitor(ctx)
}

// Close releases the cache and database.
func (k *Kernel) Close() error {
	var errs []error
	if err := k.Cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if k.DB != nil {
		sqlDB, err := k.DB.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
