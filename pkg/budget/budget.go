package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/pocketledger/pocketledger/pkg/validation"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryExpense      Category = "expense"
	CategorySubscription Category = "subscription"
	CategoryIncome       Category = "income"
	CategorySaving       Category = "saving"
	CategoryInvestment   Category = "investment"
)

var ErrUnknownCategory = fmt.Errorf("%w: unknown budget category", validation.ErrValidation)

// CategoryDef describes how a category is labelled wherever it is shown.
type CategoryDef struct {
	Category Category
	// LabelField names what the label of a line means in this category.
	LabelField  string
	DisplayName string
}

var categories = []CategoryDef{
	{Category: CategoryExpense, LabelField: "Type", DisplayName: "Expense"},
	{Category: CategorySubscription, LabelField: "Type", DisplayName: "Subscription"},
	{Category: CategoryIncome, LabelField: "Type", DisplayName: "Income"},
	{Category: CategorySaving, LabelField: "Group", DisplayName: "Saving"},
	{Category: CategoryInvestment, LabelField: "Purpose", DisplayName: "Investment"},
}

// Categories returns all categories in display order.
func Categories() []CategoryDef {
	defs := make([]CategoryDef, len(categories))
	copy(defs, categories)
	return defs
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, def := range categories {
		if string(def.Category) == s {
			return def.Category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) Def() (CategoryDef, error) {
	for _, def := range categories {
		if def.Category == c {
			return def, nil
		}
	}
	return CategoryDef{}, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

// Entry is one stored budget line.
type Entry struct {
	ID          int64
	AccountID   string
	Category    Category
	Label       string
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

func (e Entry) Date() string {
	return e.CreatedAt.Format(utils.DateLayout)
}

// Line is one raw line of a budget form, as typed.
type Line struct {
	Label       string
	Amount      string
	Description string
}

func (l Line) qualifies() bool {
	return validation.IsNonEmpty(l.Label) && validation.IsNonEmpty(l.Amount)
}
