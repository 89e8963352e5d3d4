package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/service"
)

// profileResponse is the caller-facing view of their own account. No token,
// no password material.
type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// handleGetProfile returns the authenticated user's profile.
func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	user, err := s.users.Profile(c.Context(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(newProfileResponse(user))
}

// handleUpdateProfile merge-patches name, email, and/or password.
func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		if n := len(*req.Name); n < 2 || n > 50 {
			return badRequest(c, "Name must be between 2 and 50 characters")
		}
	}
	if req.Email != nil && !validEmail(*req.Email) {
		return badRequest(c, "Please provide a valid email")
	}
	if req.Password != nil && len(*req.Password) < 6 {
		return badRequest(c, "Password must be at least 6 characters long")
	}

	user, err := s.users.UpdateProfile(c.Context(), callerID(c), service.ProfilePatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(newProfileResponse(user))
}

// handleDeleteProfile deletes the authenticated user's account. The user's
// categories and transactions go with it.
func (s *Server) handleDeleteProfile(c *fiber.Ctx) error {
	if err := s.users.DeleteAccount(c.Context(), callerID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User account deleted successfully"})
}

func newProfileResponse(user *models.User) profileResponse {
	return profileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
