// Package export turns ledger listings into CSV or spreadsheet documents.
package export

import (
	"context"
	"fmt"

	"github.com/pocketledger/pocketledger/pkg/budget"
	"github.com/pocketledger/pocketledger/pkg/expense"
)

type Renderer interface {
	Render(table Table) ([]byte, error)
}

// Document is a rendered export. Rows counts the data rows, header excluded.
type Document struct {
	Data []byte
	Rows int
}

type Service interface {
	ExportBudget(ctx context.Context, category budget.Category, format Format, limit int) (Document, error)
	ExportExpenses(ctx context.Context, startDate, endDate string, format Format, limit int) (Document, error)
}

// ServiceImpl goes through the list operations, so exports see the same rows a listing would.
type ServiceImpl struct {
	budgets   budget.BudgetService
	expenses  expense.Service
	renderers map[Format]Renderer
}

func NewService(budgets budget.BudgetService, expenses expense.Service) *ServiceImpl {
	return &ServiceImpl{
		budgets:  budgets,
		expenses: expenses,
		renderers: map[Format]Renderer{
			FormatCSV:  NewCsvRenderer(),
			FormatXLSX: NewXlsxRenderer(),
		},
	}
}

func (s *ServiceImpl) ExportBudget(ctx context.Context, category budget.Category, format Format, limit int) (Document, error) {
	entries, err := s.budgets.ListByCategory(ctx, category, limit)
	if err != nil {
		return Document{}, fmt.Errorf("could not list %s budget for export: %w", category, err)
	}
	table, err := BudgetTable(category, entries)
	if err != nil {
		return Document{}, err
	}
	return s.render(format, table)
}

func (s *ServiceImpl) ExportExpenses(ctx context.Context, startDate, endDate string, format Format, limit int) (Document, error) {
	expenses, err := s.expenses.List(ctx, startDate, endDate, limit)
	if err != nil {
		return Document{}, fmt.Errorf("could not list expenses for export: %w", err)
	}
	return s.render(format, ExpenseTable(expenses))
}

func (s *ServiceImpl) render(format Format, table Table) (Document, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return Document{}, fmt.Errorf("unsupported export format %q", format)
	}
	data, err := renderer.Render(table)
	if err != nil {
		return Document{}, err
	}
	return Document{Data: data, Rows: len(table.Rows)}, nil
}
