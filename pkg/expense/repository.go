package expense

import (
	"context"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, accountId string, expense Expense) (int64, error)
	// FindBetween returns expenses whose date lies in [startDate, endDate], newest first.
	FindBetween(ctx context.Context, accountId string, startDate, endDate string, limit int) ([]Expense, error)
}

type RepositoryImpl struct {
	engine *database.Engine
}

func NewRepository(engine *database.Engine) *RepositoryImpl {
	return &RepositoryImpl{engine: engine}
}

func (r *RepositoryImpl) Store(ctx context.Context, accountId string, expense Expense) (int64, error) {
	query := `INSERT INTO expense_entry (account_id, occurred_at, type, amount, description) VALUES (?, ?, ?, ?, ?)`

	result, err := r.engine.Exec(ctx, query,
		accountId,
		utils.FormatTimestamp(expense.OccurredAt),
		expense.Type,
		expense.Amount.String(),
		expense.Description,
	)
	if err != nil {
		log.Errorf("could not store expense: %v", err)
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) FindBetween(ctx context.Context, accountId string, startDate, endDate string, limit int) ([]Expense, error) {
	// fixed width dates compare as text in calendar order. DATE() is avoided: it turns a bound like 2024-13-01 into NULL
	query := `SELECT expense_id, account_id, occurred_at, type, amount, description
				FROM expense_entry
				WHERE account_id = ? AND substr(occurred_at, 1, 10) BETWEEN ? AND ?
				ORDER BY occurred_at DESC, expense_id DESC
				LIMIT ?`

	expenses := []Expense{}
	err := r.engine.Query(ctx, query, []any{accountId, startDate, endDate, limit}, func(row database.Scanner) error {
		var expense Expense
		var occurredAt, amount string
		if err := row.Scan(
			&expense.ID,
			&expense.AccountID,
			&occurredAt,
			&expense.Type,
			&amount,
			&expense.Description,
		); err != nil {
			return fmt.Errorf("could not scan expense: %w", err)
		}

		var err error
		if expense.OccurredAt, err = utils.ParseTimestamp(occurredAt); err != nil {
			return fmt.Errorf("could not parse date of expense %d: %w", expense.ID, err)
		}
		if expense.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("could not parse amount of expense %d: %w", expense.ID, err)
		}
		expenses = append(expenses, expense)
		return nil
	})
	if err != nil {
		log.Errorf("could not list expenses between %s and %s: %v", startDate, endDate, err)
		return nil, err
	}
	return expenses, nil
}
