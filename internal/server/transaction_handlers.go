package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mmynk/fintrack/internal/export"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/service"
)

type createTransactionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type updateTransactionRequest struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Type        *string  `json:"type"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
}

// handleListTransactions returns the caller's transactions, most recent
// date first, with category names populated.
func (s *Server) handleListTransactions(c *fiber.Ctx) error {
	transactions, err := s.transactions.List(c.Context(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transactions)
}

// handleCreateTransaction records a transaction owned by the caller.
func (s *Server) handleCreateTransaction(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Description == "" || req.Amount == 0 || req.Type == "" || req.Category == "" || req.Date == "" {
		return badRequest(c, "All fields are required")
	}
	if len(req.Description) > 200 {
		return badRequest(c, "Description must not exceed 200 characters")
	}
	if req.Amount <= 0 {
		return badRequest(c, "Amount must be greater than 0")
	}
	if !models.ValidTransactionType(req.Type) {
		return badRequest(c, "Type must be either income or expense")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "Invalid date format")
	}

	tx, err := s.transactions.Create(c.Context(), callerID(c), &models.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.Category,
		Date:        date,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tx)
}

// handleUpdateTransaction merge-patches a transaction owned by the caller:
// only fields present in the body overwrite stored values.
func (s *Server) handleUpdateTransaction(c *fiber.Ctx) error {
	var req updateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Description != nil && len(*req.Description) > 200 {
		return badRequest(c, "Description must not exceed 200 characters")
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return badRequest(c, "Amount must be greater than 0")
	}
	if req.Type != nil && *req.Type != "" && !models.ValidTransactionType(*req.Type) {
		return badRequest(c, "Type must be either income or expense")
	}

	patch := service.TransactionPatch{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.Category,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			return badRequest(c, "Invalid date format")
		}
		patch.Date = &date
	}

	tx, err := s.transactions.Update(c.Context(), callerID(c), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(tx)
}

// handleDeleteTransaction deletes a transaction owned by the caller.
func (s *Server) handleDeleteTransaction(c *fiber.Ctx) error {
	if err := s.transactions.Delete(c.Context(), callerID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

// handleExportTransactionsCSV streams the caller's transactions as a CSV
// download, in the same order the list endpoint returns them.
func (s *Server) handleExportTransactionsCSV(c *fiber.Ctx) error {
	transactions, err := s.transactions.List(c.Context(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}

	csvData, err := export.TransactionsCSV(transactions)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	return c.Send(csvData)
}

// parseDate accepts a bare date (YYYY-MM-DD) or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
