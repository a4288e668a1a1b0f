package expense

import (
	"context"
	"sort"
)

type StubRepository struct {
	nextId int64
	data   []Expense
	Err    error
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (s *StubRepository) Store(ctx context.Context, accountId string, expense Expense) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.nextId++
	expense.ID = s.nextId
	expense.AccountID = accountId
	s.data = append(s.data, expense)
	return expense.ID, nil
}

func (s *StubRepository) FindBetween(ctx context.Context, accountId string, startDate, endDate string, limit int) ([]Expense, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	expenses := make([]Expense, 0, len(s.data))
	for _, expense := range s.data {
		date := expense.Date()
		if expense.AccountID == accountId && date >= startDate && date <= endDate {
			expenses = append(expenses, expense)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].OccurredAt.Equal(expenses[j].OccurredAt) {
			return expenses[i].OccurredAt.After(expenses[j].OccurredAt)
		}
		return expenses[i].ID > expenses[j].ID
	})
	if len(expenses) > limit {
		expenses = expenses[:limit]
	}
	return expenses, nil
}

func (s *StubRepository) Cleanup() {
	s.nextId = 0
	s.data = nil
	s.Err = nil
}
