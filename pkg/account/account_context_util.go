package account

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const AccountKey contextKey = "account"

var ErrNoActiveSession = errors.New("no active session")

// CurrentId retrieves the active account's ID from the context. Returns ErrNoActiveSession if not present.
func CurrentId(ctx context.Context) (string, error) {
	account, err := CurrentAccount(ctx)
	if err != nil {
		return "", err
	}
	return account.Id, nil
}

func CurrentAccount(ctx context.Context) (Account, error) {
	account, ok := ctx.Value(AccountKey).(Account)
	if !ok || account.Id == "" {
		log.Trace("account not found in context")
		return Account{}, ErrNoActiveSession
	}
	return account, nil
}

func WithAccount(ctx context.Context, account Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}
