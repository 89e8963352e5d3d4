package server

import (
	"log/slog"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mmynk/fintrack/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the body of a successful register or login: the identity
// plus a freshly minted bearer token. The password never appears here in
// any form.
type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// handleRegister creates an account, seeds the default categories, and
// issues a token so the client is logged in immediately.
func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 2 || len(req.Name) > 50 {
		return badRequest(c, "Name must be between 2 and 50 characters")
	}
	if !validEmail(req.Email) {
		return badRequest(c, "Please provide a valid email")
	}
	if len(req.Password) < 6 {
		return badRequest(c, "Password must be at least 6 characters long")
	}

	user, err := s.authenticator.Register(c.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		return writeError(c, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return writeError(c, err)
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return c.Status(fiber.StatusCreated).JSON(newAuthResponse(user, token))
}

// handleLogin verifies credentials and issues a token. Unknown emails and
// wrong passwords are indistinguishable in the response.
func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	user, err := s.authenticator.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email)
		return writeError(c, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return writeError(c, err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return c.JSON(newAuthResponse(user, token))
}

func newAuthResponse(user *models.User, token string) authResponse {
	return authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
