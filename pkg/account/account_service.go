package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/pocketledger/pocketledger/pkg/validation"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username is taken")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrCredentialMismatch = errors.New("credentials do not match")
	ErrUnknownUsername    = fmt.Errorf("%w: unknown username", ErrCredentialMismatch)
	ErrWrongPassword      = fmt.Errorf("%w: wrong password", ErrCredentialMismatch)
	ErrPasswordTooLong    = fmt.Errorf("%w: password is longer than 72 bytes", validation.ErrValidation)
)

type Service interface {
	// Register creates an account when the username is unused and both passwords match.
	// When both checks fail the error matches ErrUsernameTaken and ErrPasswordMismatch.
	Register(ctx context.Context, username, password, confirmPassword string) (Account, error)
	// Authenticate finds the account for username and checks its password.
	Authenticate(ctx context.Context, username, password string) (Account, error)
	GetCurrentAccount(ctx context.Context) (Account, error)
}

type AccountServiceImpl struct {
	repo     Repo
	clock    utils.Clock
	hashCost int
}

func NewAccountService(repo Repo, clock utils.Clock) *AccountServiceImpl {
	return &AccountServiceImpl{
		repo:     repo,
		clock:    clock,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AccountServiceImpl) Register(ctx context.Context, username, password, confirmPassword string) (Account, error) {
	err := validation.RequireNonEmpty(
		validation.Field{Name: "username", Value: username},
		validation.Field{Name: "password", Value: password},
	)
	if err != nil {
		return Account{}, err
	}

	accounts, err := s.repo.GetAllAccounts(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("could not check existing usernames: %w", err)
	}
	taken := false
	for _, existing := range accounts {
		if existing.Username == username {
			taken = true
			break
		}
	}
	mismatch := password != confirmPassword

	switch {
	case taken && mismatch:
		return Account{}, errors.Join(ErrUsernameTaken, ErrPasswordMismatch)
	case taken:
		return Account{}, ErrUsernameTaken
	case mismatch:
		return Account{}, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Account{}, validation.NewFieldError("password", ErrPasswordTooLong)
		}
		return Account{}, fmt.Errorf("could not hash password: %w", err)
	}

	account := Account{
		Id:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		// the scan and the insert are separate statements; the unique index decides
		if errors.Is(err, database.ErrConstraint) {
			log.Warnf("username %q was taken between check and insert", username)
			return Account{}, ErrUsernameTaken
		}
		return Account{}, fmt.Errorf("could not create account: %w", err)
	}

	log.Debugf("registered account %s", account.Id)
	return account, nil
}

func (s *AccountServiceImpl) Authenticate(ctx context.Context, username, password string) (Account, error) {
	accounts, err := s.repo.GetAllAccounts(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("could not read accounts: %w", err)
	}

	for _, candidate := range accounts {
		if candidate.Username != username {
			continue
		}
		// first username match decides
		err := bcrypt.CompareHashAndPassword([]byte(candidate.PasswordHash), []byte(password))
		if err != nil {
			if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				log.Warnf("stored password hash for account %s is unreadable: %v", candidate.Id, err)
			}
			return Account{}, ErrWrongPassword
		}
		return candidate, nil
	}
	return Account{}, ErrUnknownUsername
}

func (s *AccountServiceImpl) GetCurrentAccount(ctx context.Context) (Account, error) {
	accountId, err := CurrentId(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get current account: %w", err)
	}
	return s.repo.GetAccount(ctx, accountId)
}
