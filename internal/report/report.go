// Package report renders transactions and summaries for terminals and files.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TransactionTable prints one row per transaction followed by the page footer.
func TransactionTable(w io.Writer, p models.TransactionPage) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Description", "Category", "Type", "Amount", "Status", "Counterparty"})
	table.SetAutoWrapText(false)
	for _, tx := range p.Data {
		amount := tx.Amount.StringFixed(2)
		if tx.Type == models.TxnDebit {
			amount = "-" + amount
		}
		table.Append([]string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Category,
			string(tx.Type),
			amount + " " + tx.Currency,
			string(tx.Status),
			tx.Counterparty,
		})
	}
	table.Render()
	fmt.Fprintf(w, "page %d of %d (%d total)\n", p.Pagination.Page, p.Pagination.TotalPages, p.Pagination.Total)
	if p.Error != "" {
		fmt.Fprintf(w, "error: %s\n", p.Error)
	}
}

func SummaryTable(w io.Writer, rows []models.MonthlySummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Month", "Income", "Expenses", "Net"})
	for _, r := range rows {
		table.Append([]string{
			r.Month,
			r.Income.StringFixed(2),
			r.Expenses.StringFixed(2),
			r.Income.Sub(r.Expenses).StringFixed(2),
		})
	}
	table.Render()
}

func SpendingTable(w io.Writer, rows []models.CategorySpending) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Spent"})
	for _, r := range rows {
		table.Append([]string{r.Category, r.Amount.StringFixed(2)})
	}
	table.Render()
}

var (
	incomeStyle  = chart.Style{FillColor: drawing.ColorFromHex("2e7d32"), StrokeColor: drawing.ColorFromHex("2e7d32")}
	expenseStyle = chart.Style{FillColor: drawing.ColorFromHex("c62828"), StrokeColor: drawing.ColorFromHex("c62828")}
)

// SummaryChart renders income and expense bars per month as PNG.
func SummaryChart(w io.Writer, rows []models.MonthlySummary) error {
	if len(rows) == 0 {
		return fmt.Errorf("nothing to chart")
	}
	var bars []chart.Value
	top := decimal.NewFromInt(1)
	for _, r := range rows {
		bars = append(bars,
			chart.Value{Label: r.Month + " in", Value: r.Income.InexactFloat64(), Style: incomeStyle},
			chart.Value{Label: r.Month + " out", Value: r.Expenses.InexactFloat64(), Style: expenseStyle},
		)
		top = decimal.Max(top, r.Income, r.Expenses)
	}

	bc := chart.BarChart{
		Title: "Monthly income and expenses",
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:    120 * len(bars),
		Height:   400,
		BarWidth: 40,
		Bars:     bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top.InexactFloat64() * 1.1},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
	}
	if bc.Width < 400 {
		bc.Width = 400
	}
	return bc.Render(chart.PNG, w)
}
