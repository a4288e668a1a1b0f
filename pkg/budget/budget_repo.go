package budget

import (
	"context"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetRepo interface {
	// Store stores one budget entry and returns its id
	Store(ctx context.Context, accountId string, entry Entry) (int64, error)
	// GetByCategory returns the newest entries of one category first.
	GetByCategory(ctx context.Context, accountId string, category Category, limit int) ([]Entry, error)
}

type BudgetRepoImpl struct {
	engine *database.Engine
}

func NewBudgetRepo(engine *database.Engine) *BudgetRepoImpl {
	return &BudgetRepoImpl{engine: engine}
}

func (r *BudgetRepoImpl) Store(ctx context.Context, accountId string, entry Entry) (int64, error) {
	query := `INSERT INTO budget_entry (
                    account_id,
                    category,
                    label,
                    amount,
                    description,
                    created_at
				) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.engine.Exec(ctx, query,
		accountId,
		string(entry.Category),
		entry.Label,
		entry.Amount.String(),
		entry.Description,
		utils.FormatTimestamp(entry.CreatedAt),
	)
	if err != nil {
		log.Errorf("could not store budget entry: %v", err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return lastInsertID, nil
}

func (r *BudgetRepoImpl) GetByCategory(ctx context.Context, accountId string, category Category, limit int) ([]Entry, error) {
	query := `SELECT entry_id, account_id, category, label, amount, description, created_at
				FROM budget_entry
				WHERE account_id = ? AND category = ?
				ORDER BY created_at DESC, entry_id DESC
				LIMIT ?`

	entries := []Entry{}
	err := r.engine.Query(ctx, query, []any{accountId, string(category), limit}, func(row database.Scanner) error {
		var entry Entry
		var amount, createdAt string
		if err := row.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Category,
			&entry.Label,
			&amount,
			&entry.Description,
			&createdAt,
		); err != nil {
			return fmt.Errorf("could not scan budget entry: %w", err)
		}

		var err error
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("could not parse amount of budget entry %d: %w", entry.ID, err)
		}
		if entry.CreatedAt, err = utils.ParseTimestamp(createdAt); err != nil {
			return fmt.Errorf("could not parse creation time of budget entry %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		log.Errorf("could not list %s budget entries: %v", category, err)
		return nil, err
	}
	return entries, nil
}
