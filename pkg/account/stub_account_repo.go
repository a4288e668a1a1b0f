package account

import (
	"context"
)

type StubAccountRepository struct {
	data []Account
	// Err, when set, is returned by every call.
	Err error
}

func NewStubAccountRepository() *StubAccountRepository {
	return &StubAccountRepository{}
}

func (s *StubAccountRepository) CreateAccount(ctx context.Context, account Account) error {
	if s.Err != nil {
		return s.Err
	}
	s.data = append(s.data, account)
	return nil
}

func (s *StubAccountRepository) GetAccount(ctx context.Context, id string) (Account, error) {
	if s.Err != nil {
		return Account{}, s.Err
	}
	for _, account := range s.data {
		if account.Id == id {
			return account, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (s *StubAccountRepository) GetAllAccounts(ctx context.Context) ([]Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	accounts := make([]Account, len(s.data))
	copy(accounts, s.data)
	return accounts, nil
}

func (s *StubAccountRepository) Cleanup() {
	s.data = nil
	s.Err = nil
}
