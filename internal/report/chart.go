package report

import (
	"fmt"

	"github.com/go-analyze/charts"
	"gitlab.com/spendwatch/spendwatch/internal/models"
)

// RenderCategoryChart creates a pie chart showing spending breakdown by
// category. Returns PNG image bytes.
func RenderCategoryChart(totals []models.CategoryTotal, periodLabel string) ([]byte, error) {
	if len(totals) == 0 {
		return nil, fmt.Errorf("no spending to chart")
	}

	values := make([]float64, 0, len(totals))
	names := make([]string, 0, len(totals))
	for _, t := range totals {
		names = append(names, t.Category)
		values = append(values, t.TotalAmount.InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Spending Breakdown - %s", periodLabel),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}
