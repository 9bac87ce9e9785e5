package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"gitlab.com/spendwatch/spendwatch/internal/models"
)

// ExpensesCSV generates a CSV export from a list of expenses.
func ExpensesCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Date", "Amount", "Category", "Description", "Vendor", "Payment Method", "Project"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		row := []string{
			strconv.FormatInt(expenses[i].ID, 10),
			expenses[i].Date.Format("2006-01-02 15:04:05"),
			expenses[i].Amount.StringFixed(2),
			expenses[i].Category,
			expenses[i].Description,
			expenses[i].Vendor,
			expenses[i].PaymentMethod,
			expenses[i].Project,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
