package expense

import (
	"time"

	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64
	AccountID   string
	OccurredAt  time.Time
	Type        string
	Amount      decimal.Decimal
	Description string
}

func (e Expense) Date() string {
	return e.OccurredAt.Format(utils.DateLayout)
}
