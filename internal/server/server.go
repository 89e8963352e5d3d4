// Package server exposes the REST API: routing, request middleware
// (authentication gate, rate limiting, CORS, metrics, logging), and the
// translation of domain errors into the HTTP error taxonomy.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/config"
	"github.com/mmynk/fintrack/internal/service"
	"github.com/mmynk/fintrack/internal/storage"
)

// Server wires the domain services behind a fiber application.
type Server struct {
	app *fiber.App
	cfg *config.Config

	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager

	users        *service.UserService
	categories   *service.CategoryService
	transactions *service.TransactionService
}

// New builds the fiber application with all middleware and routes registered.
func New(cfg *config.Config, store storage.Store) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			ErrorHandler: fiberErrorHandler,
		}),
		cfg:           cfg,
		authenticator: auth.NewPasswordAuthenticator(store),
		jwtManager:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		users:         service.NewUserService(store),
		categories:    service.NewCategoryService(store),
		transactions:  service.NewTransactionService(store),
	}

	s.app.Use(corsMiddleware(cfg.CORSOrigin))
	s.app.Use(requestLogger())
	s.app.Use(metricsMiddleware())

	s.registerRoutes()
	return s
}

// App exposes the underlying fiber application, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server on the configured port.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Port)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api", rateLimit(s.cfg.RateLimitMax, s.cfg.RateLimitWindow))
	authGate := s.requireAuth()

	// Auth: registration and login carry their own, stricter limiter.
	authGroup := api.Group("/auth", rateLimit(s.cfg.AuthLimitMax, s.cfg.RateLimitWindow))
	authGroup.Post("/register", s.handleRegister)
	authGroup.Post("/login", s.handleLogin)

	// Profile
	api.Get("/users/profile", authGate, s.handleGetProfile)
	api.Put("/users/profile", authGate, s.handleUpdateProfile)
	api.Delete("/users/profile", authGate, s.handleDeleteProfile)

	// Categories
	api.Get("/categories", authGate, s.handleListCategories)
	api.Post("/categories", authGate, s.handleCreateCategory)
	api.Put("/categories/:id", authGate, s.handleUpdateCategory)
	api.Delete("/categories/:id", authGate, s.handleDeleteCategory)

	// Transactions. The export route is registered before /:id routes so it
	// is matched as a literal path segment.
	api.Get("/transactions/export/csv", authGate, s.handleExportTransactionsCSV)
	api.Get("/transactions", authGate, s.handleListTransactions)
	api.Post("/transactions", authGate, s.handleCreateTransaction)
	api.Put("/transactions/:id", authGate, s.handleUpdateTransaction)
	api.Delete("/transactions/:id", authGate, s.handleDeleteTransaction)
}

// corsMiddleware configures CORS for the given origin (defaults to * via config).
func corsMiddleware(origin string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: origin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	})
}

// rateLimit builds a fixed-window limiter keyed by client IP. Counters are
// an explicit per-route component (max requests per window), not ambient
// global state.
func rateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later",
			})
		},
	})
}
