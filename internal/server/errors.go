package server

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/service"
)

// writeError translates a domain error into the HTTP taxonomy:
// validation -> 400, bad credentials -> 401, wrong owner -> 403,
// missing resource -> 404, duplicate email -> 400, anything else -> 500.
// Unexpected errors are logged with context and never leaked to the caller.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	case errors.Is(err, auth.ErrWeakPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	default:
		slog.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
}

// badRequest responds 400 with a caller-facing message.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// validationMessage strips the sentinel prefix so the caller sees only the
// human-readable part ("amount must be greater than zero").
func validationMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

// fiberErrorHandler renders errors fiber raises itself (unknown routes,
// body size limits) in the same JSON shape as the rest of the API.
func fiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
