package server

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mmynk/fintrack/internal/service"
)

var hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

// handleListCategories returns the caller's categories, newest first.
func (s *Server) handleListCategories(c *fiber.Ctx) error {
	categories, err := s.categories.List(c.Context(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(categories)
}

// handleCreateCategory adds a category owned by the caller.
func (s *Server) handleCreateCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if msg, ok := validateCategoryFields(req.Name, req.Color, true); !ok {
		return badRequest(c, msg)
	}

	category, err := s.categories.Create(c.Context(), callerID(c), req.Name, req.Icon, req.Color)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// handleUpdateCategory merge-patches a category owned by the caller.
func (s *Server) handleUpdateCategory(c *fiber.Ctx) error {
	var req updateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	name, color := "", ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Color != nil {
		color = *req.Color
	}
	if msg, ok := validateCategoryFields(name, color, req.Name != nil); !ok {
		return badRequest(c, msg)
	}

	category, err := s.categories.Update(c.Context(), callerID(c), c.Params("id"), service.CategoryPatch{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(category)
}

// handleDeleteCategory deletes a category owned by the caller.
func (s *Server) handleDeleteCategory(c *fiber.Ctx) error {
	if err := s.categories.Delete(c.Context(), callerID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// validateCategoryFields checks the name length (when nameRequired) and the
// color format (when a color was provided).
func validateCategoryFields(name, color string, nameRequired bool) (string, bool) {
	if nameRequired {
		if len(name) < 2 || len(name) > 50 {
			return "Category name must be between 2 and 50 characters", false
		}
	}
	if color != "" && !hexColorRe.MatchString(color) {
		return "Color must be a valid hex color", false
	}
	return "", true
}
