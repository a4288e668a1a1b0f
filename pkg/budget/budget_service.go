package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/event_bus"
	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/pocketledger/pocketledger/pkg/account"
	"github.com/pocketledger/pocketledger/pkg/validation"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoValidLine  = fmt.Errorf("%w: no line has both a label and an amount", validation.ErrValidation)
	ErrTooManyLines = fmt.Errorf("%w: too many budget lines", validation.ErrValidation)
)

type BudgetService interface {
	// SubmitLines stores every line that has a label and an amount, all with one timestamp.
	SubmitLines(ctx context.Context, category Category, lines []Line) (int, error)
	// ListByCategory returns the newest entries first. A limit of zero or less means the configured default.
	ListByCategory(ctx context.Context, category Category, limit int) ([]Entry, error)
}

type BudgetServiceImpl struct {
	repo         BudgetRepo
	clock        utils.Clock
	bus          *event_bus.EventBus
	maxLines     int
	defaultLimit int
}

func NewBudgetServiceImpl(repo BudgetRepo, clock utils.Clock, bus *event_bus.EventBus, cfg config.Ledger) *BudgetServiceImpl {
	return &BudgetServiceImpl{
		repo:         repo,
		clock:        clock,
		bus:          bus,
		maxLines:     cfg.MaxBudgetLines,
		defaultLimit: cfg.ListLimit,
	}
}

func (s *BudgetServiceImpl) SubmitLines(ctx context.Context, category Category, lines []Line) (int, error) {
	accountId, err := account.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current account: %w", err)
	}
	if _, err := category.Def(); err != nil {
		return 0, err
	}
	if len(lines) > s.maxLines {
		return 0, validation.NewFieldError("lines", fmt.Errorf("%w: got %d, at most %d", ErrTooManyLines, len(lines), s.maxLines))
	}

	entries := make([]Entry, 0, len(lines))
	for i, line := range lines {
		if !line.qualifies() {
			log.Tracef("skipping incomplete %s budget line %d", category, i+1)
			continue
		}
		amount, err := validation.ParseAmount(line.Amount)
		if err != nil {
			return 0, validation.NewFieldError(fmt.Sprintf("line %d amount", i+1), err)
		}
		entries = append(entries, Entry{
			AccountID:   accountId,
			Category:    category,
			Label:       strings.TrimSpace(line.Label),
			Amount:      amount,
			Description: strings.TrimSpace(line.Description),
		})
	}
	if len(entries) == 0 {
		return 0, ErrNoValidLine
	}

	createdAt := s.clock.Now()
	inserted := 0
	for _, entry := range entries {
		entry.CreatedAt = createdAt
		if _, err := s.repo.Store(ctx, accountId, entry); err != nil {
			// lines are independent; the ones already stored stay stored
			s.publishSubmitted(ctx, accountId, category, inserted)
			return inserted, fmt.Errorf("stored %d of %d budget lines: %w", inserted, len(entries), err)
		}
		inserted++
	}

	s.publishSubmitted(ctx, accountId, category, inserted)
	return inserted, nil
}

func (s *BudgetServiceImpl) ListByCategory(ctx context.Context, category Category, limit int) ([]Entry, error) {
	accountId, err := account.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current account: %w", err)
	}
	if _, err := category.Def(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.repo.GetByCategory(ctx, accountId, category, limit)
}

func (s *BudgetServiceImpl) publishSubmitted(ctx context.Context, accountId string, category Category, count int) {
	if s.bus == nil || count == 0 {
		return
	}
	err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetLinesSubmittedType, event_bus.BudgetLinesSubmitted{
		AccountId: accountId,
		Category:  string(category),
		Count:     count,
	}))
	if err != nil {
		log.Warnf("could not publish budget submission: %v", err)
	}
}
