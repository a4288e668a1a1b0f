package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/event_bus"
	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/pocketledger/pocketledger/pkg/account"
	"github.com/pocketledger/pocketledger/pkg/validation"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Add records an expense on date at the current time of day.
	Add(ctx context.Context, date, expenseType, amount, description string) (Expense, error)
	// List returns expenses dated between startDate and endDate inclusive, newest first.
	List(ctx context.Context, startDate, endDate string, limit int) ([]Expense, error)
}

type ServiceImpl struct {
	repo         Repository
	clock        utils.Clock
	bus          *event_bus.EventBus
	defaultLimit int
}

func NewService(repo Repository, clock utils.Clock, bus *event_bus.EventBus, cfg config.Ledger) *ServiceImpl {
	return &ServiceImpl{
		repo:         repo,
		clock:        clock,
		bus:          bus,
		defaultLimit: cfg.ListLimit,
	}
}

func (s *ServiceImpl) Add(ctx context.Context, date, expenseType, amount, description string) (Expense, error) {
	accountId, err := account.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current account: %w", err)
	}

	if err := validation.ValidateCalendarDate(date); err != nil {
		return Expense{}, validation.NewFieldError("date", err)
	}
	err = validation.RequireNonEmpty(
		validation.Field{Name: "type", Value: expenseType},
		validation.Field{Name: "amount", Value: amount},
	)
	if err != nil {
		return Expense{}, err
	}
	parsedAmount, err := validation.ParseAmount(amount)
	if err != nil {
		return Expense{}, validation.NewFieldError("amount", err)
	}

	day, err := time.ParseInLocation(utils.DateLayout, date, time.Local)
	if err != nil {
		return Expense{}, validation.NewFieldError("date", validation.ErrInvalidDate)
	}
	now := s.clock.Now()
	expense := Expense{
		AccountID:   accountId,
		OccurredAt:  time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.Local),
		Type:        strings.TrimSpace(expenseType),
		Amount:      parsedAmount,
		Description: strings.TrimSpace(description),
	}

	id, err := s.repo.Store(ctx, accountId, expense)
	if err != nil {
		return Expense{}, fmt.Errorf("could not add expense: %w", err)
	}
	expense.ID = id

	if s.bus != nil {
		err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ExpenseAddedType, event_bus.ExpenseAdded{
			AccountId: accountId,
			ExpenseId: id,
			Date:      expense.Date(),
		}))
		if err != nil {
			log.Warnf("could not publish added expense: %v", err)
		}
	}
	return expense, nil
}

func (s *ServiceImpl) List(ctx context.Context, startDate, endDate string, limit int) ([]Expense, error) {
	accountId, err := account.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current account: %w", err)
	}
	if !validation.IsValidDate(startDate) {
		return nil, validation.NewFieldError("start date", validation.ErrInvalidDate)
	}
	if !validation.IsValidDate(endDate) {
		return nil, validation.NewFieldError("end date", validation.ErrInvalidDate)
	}
	if startDate > endDate {
		log.Debugf("empty expense range %s to %s", startDate, endDate)
		return []Expense{}, nil
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.repo.FindBetween(ctx, accountId, startDate, endDate, limit)
}
