// Package export renders owner-scoped transaction lists into downloadable
// formats. It is a pure, order-preserving transform: one output row per
// transaction, in exactly the order the list was given.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/mmynk/fintrack/internal/models"
)

// csvHeader is the fixed header row of a transaction export.
var csvHeader = []string{"Date", "Description", "Type", "Category", "Amount"}

// TransactionsCSV renders transactions as CSV. Dates are YYYY-MM-DD,
// amounts have two decimals, and a transaction whose category no longer
// exists is exported with the category "Unknown".
func TransactionsCSV(transactions []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, tx := range transactions {
		category := tx.CategoryName
		if category == "" {
			category = "Unknown"
		}
		record := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Type,
			category,
			fmt.Sprintf("%.2f", tx.Amount),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// Filename returns the date-stamped download name for an export generated
// at the given time.
func Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", now.Format("2006-01-02"))
}
