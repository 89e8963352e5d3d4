package server

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Locals keys set by the authentication gate.
const (
	// UserIDKey is the locals key for the authenticated user ID.
	UserIDKey = "user_id"
	// EmailKey is the locals key for the authenticated user's email.
	EmailKey = "email"
)

// callerID extracts the authenticated user ID from the request.
// Returns empty string if the request did not pass the auth gate.
func callerID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}

// requireAuth is the authentication gate: it extracts a bearer token,
// verifies it, and attaches the resolved identity to the request. It never
// mutates persisted state.
//
// A missing header and a wrong scheme are treated identically. Malformed,
// expired, and tampered tokens all produce the same 401 response; the
// underlying cause is only logged server-side.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized, no token",
			})
		}

		claims, err := s.jwtManager.Validate(parts[1])
		if err != nil {
			slog.Warn("Token rejected", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized, token failed",
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(EmailKey, claims.Email)
		return c.Next()
	}
}

// requestLogger logs every request with method, path, status, and duration.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		slog.Info("Request completed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"user_id", callerID(c),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_http_requests_total",
			Help: "HTTP requests processed, by method, route, and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fintrack_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// metricsMiddleware records request counts and latencies. Routes are
// labelled by their registered pattern, not the raw path, to keep
// cardinality bounded.
func metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
