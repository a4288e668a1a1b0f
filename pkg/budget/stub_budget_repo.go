package budget

import (
	"context"
	"sort"
)

type StubBudgetRepo struct {
	nextId int64
	data   []Entry
	// Err is returned by Store once FailAfter entries have been stored.
	Err       error
	FailAfter int
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{}
}

func (s *StubBudgetRepo) Store(ctx context.Context, accountId string, entry Entry) (int64, error) {
	if s.Err != nil && len(s.data) >= s.FailAfter {
		return 0, s.Err
	}
	s.nextId++
	entry.ID = s.nextId
	entry.AccountID = accountId
	s.data = append(s.data, entry)
	return entry.ID, nil
}

func (s *StubBudgetRepo) GetByCategory(ctx context.Context, accountId string, category Category, limit int) ([]Entry, error) {
	entries := make([]Entry, 0, len(s.data))
	for _, entry := range s.data {
		if entry.AccountID == accountId && entry.Category == category {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.nextId = 0
	s.data = nil
	s.Err = nil
	s.FailAfter = 0
}
