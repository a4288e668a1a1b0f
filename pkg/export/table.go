package export

import (
	"path/filepath"
	"strings"

	"github.com/pocketledger/pocketledger/pkg/budget"
	"github.com/pocketledger/pocketledger/pkg/expense"
)

// Table is a listing flattened to text cells, ready for any renderer.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

func BudgetTable(category budget.Category, entries []budget.Entry) (Table, error) {
	def, err := category.Def()
	if err != nil {
		return Table{}, err
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.Date(), entry.Label, entry.Amount.StringFixed(2), entry.Description})
	}
	return Table{
		Title:  def.DisplayName + " budget",
		Header: []string{"Date", def.LabelField, "Amount", "Description"},
		Rows:   rows,
	}, nil
}

func ExpenseTable(expenses []expense.Expense) Table {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{e.Date(), e.Type, e.Amount.StringFixed(2), e.Description})
	}
	return Table{
		Title:  "Expenses",
		Header: []string{"Date", "Type", "Amount", "Description"},
		Rows:   rows,
	}
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatForFile picks the format from the file extension. Anything but .xlsx is CSV.
func FormatForFile(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}
