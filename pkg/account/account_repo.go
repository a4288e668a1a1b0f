package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrAccountNotFound = errors.New("account not found")

type Repo interface {
	CreateAccount(ctx context.Context, account Account) error
	GetAccount(ctx context.Context, id string) (Account, error)
	// GetAllAccounts returns every account in creation order.
	GetAllAccounts(ctx context.Context) ([]Account, error)
}

type AccountRepoImpl struct {
	engine *database.Engine
}

func NewAccountRepo(engine *database.Engine) *AccountRepoImpl {
	return &AccountRepoImpl{engine: engine}
}

func (r *AccountRepoImpl) CreateAccount(ctx context.Context, account Account) error {
	query := `INSERT INTO account (account_id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.engine.Exec(ctx, query,
		account.Id,
		account.Username,
		account.PasswordHash,
		utils.FormatTimestamp(account.CreatedAt),
	)
	if err != nil {
		log.Errorf("failed to create account: %v", err)
		return err
	}
	return nil
}

func (r *AccountRepoImpl) GetAccount(ctx context.Context, id string) (Account, error) {
	query := `SELECT account_id, username, password_hash, created_at FROM account WHERE account_id = ?`
	accounts, err := r.query(ctx, query, id)
	if err != nil {
		log.Errorf("failed to get account: %v", err)
		return Account{}, err
	}
	if len(accounts) == 0 {
		log.Debugf("account with id %s not found", id)
		return Account{}, ErrAccountNotFound
	}
	return accounts[0], nil
}

func (r *AccountRepoImpl) GetAllAccounts(ctx context.Context) ([]Account, error) {
	query := `SELECT account_id, username, password_hash, created_at FROM account ORDER BY rowid`
	accounts, err := r.query(ctx, query)
	if err != nil {
		log.Errorf("failed to get accounts: %v", err)
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepoImpl) query(ctx context.Context, query string, args ...any) ([]Account, error) {
	accounts := make([]Account, 0, 10)
	err := r.engine.Query(ctx, query, args, func(row database.Scanner) error {
		var account Account
		var createdAt string
		if err := row.Scan(&account.Id, &account.Username, &account.PasswordHash, &createdAt); err != nil {
			return fmt.Errorf("could not scan account: %w", err)
		}
		parsed, err := utils.ParseTimestamp(createdAt)
		if err != nil {
			return fmt.Errorf("could not parse account creation time: %w", err)
		}
		account.CreatedAt = parsed
		accounts = append(accounts, account)
		return nil
	})
	return accounts, err
}
