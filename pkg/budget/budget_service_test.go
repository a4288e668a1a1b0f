package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/internal/event_bus"
	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/pocketledger/pocketledger/pkg/account"
	"github.com/pocketledger/pocketledger/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = account.WithAccount(context.Background(), account.Account{Id: "account-1", Username: "alice"})

var budgetRepoStub = NewStubBudgetRepo()

var clock = &utils.MockClock{FixedNow: time.Date(2024, 2, 15, 9, 30, 0, 0, time.Local)}

var submitted []event_bus.BudgetLinesSubmitted

var service BudgetService

func setup(t *testing.T) func() {
	bus := event_bus.NewEventBus()
	submitted = nil
	event_bus.SubscribeTyped(bus, event_bus.BudgetLinesSubmittedType, func(e event_bus.EventT[event_bus.BudgetLinesSubmitted]) error {
		submitted = append(submitted, e.Data)
		return nil
	})
	service = NewBudgetServiceImpl(budgetRepoStub, clock, bus, config.Ledger{ListLimit: 100, MaxBudgetLines: 3})
	return func() {
		t.Log("Teardown after test")
		budgetRepoStub.Cleanup()
	}
}

func TestBudgetServiceImpl_SubmitLines(t *testing.T) {
	t.Run("should store only the complete line", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		count, err := service.SubmitLines(ctx, CategoryExpense, []Line{
			{Label: "Food", Amount: "12.50", Description: "lunch"},
			{},
			{},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		entries, err := service.ListByCategory(ctx, CategoryExpense, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Food", entries[0].Label)
		assert.True(t, decimal.RequireFromString("12.50").Equal(entries[0].Amount))
		assert.Equal(t, "lunch", entries[0].Description)
		assert.Equal(t, clock.Now(), entries[0].CreatedAt)
		require.Len(t, submitted, 1)
		assert.Equal(t, event_bus.BudgetLinesSubmitted{AccountId: "account-1", Category: "expense", Count: 1}, submitted[0])
	})

	t.Run("should skip lines missing a label or an amount", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		count, err := service.SubmitLines(ctx, CategorySaving, []Line{
			{Label: "Holiday", Amount: ""},
			{Label: "  ", Amount: "10"},
			{Label: "Car", Amount: "250", Description: "new tyres"},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		entries, _ := service.ListByCategory(ctx, CategorySaving, 0)
		require.Len(t, entries, 1)
		assert.Equal(t, "Car", entries[0].Label)
	})

	t.Run("should give every line of a batch the same timestamp", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		count, err := service.SubmitLines(ctx, CategoryIncome, []Line{
			{Label: "Salary", Amount: "3000"},
			{Label: "Bonus", Amount: "500"},
			{Label: "Interest", Amount: "1.25"},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		entries, _ := service.ListByCategory(ctx, CategoryIncome, 0)
		require.Len(t, entries, 3)
		for _, entry := range entries {
			assert.Equal(t, clock.Now(), entry.CreatedAt)
		}
		assert.Equal(t, "Interest", entries[0].Label)
	})

	t.Run("should fail with no valid line when every line is empty", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		count, err := service.SubmitLines(ctx, CategoryExpense, []Line{{}, {}, {}})

		// then
		assert.ErrorIs(t, err, ErrNoValidLine)
		assert.Zero(t, count)
		entries, _ := service.ListByCategory(ctx, CategoryExpense, 0)
		assert.Empty(t, entries)
		assert.Empty(t, submitted)
	})

	t.Run("should reject the whole batch when an amount is not a number", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.SubmitLines(ctx, CategoryExpense, []Line{
			{Label: "Food", Amount: "12.50"},
			{Label: "Rent", Amount: "a lot"},
		})

		// then
		assert.ErrorIs(t, err, validation.ErrInvalidAmount)
		var fieldErr *validation.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "line 2 amount", fieldErr.Field)
		entries, _ := service.ListByCategory(ctx, CategoryExpense, 0)
		assert.Empty(t, entries)
	})

	t.Run("should reject more lines than configured", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.SubmitLines(ctx, CategoryExpense, []Line{
			{Label: "a", Amount: "1"}, {Label: "b", Amount: "1"}, {Label: "c", Amount: "1"}, {Label: "d", Amount: "1"},
		})

		assert.ErrorIs(t, err, ErrTooManyLines)
		assert.ErrorIs(t, err, validation.ErrValidation)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.SubmitLines(ctx, Category("travel"), []Line{{Label: "Train", Amount: "20"}})

		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("should keep the lines stored before a storage failure", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		budgetRepoStub.Err = &database.Error{Op: "exec", Kind: database.ErrUnavailable, Err: errors.New("disk full")}
		budgetRepoStub.FailAfter = 1

		// when
		count, err := service.SubmitLines(ctx, CategoryInvestment, []Line{
			{Label: "Pension", Amount: "100"},
			{Label: "Stocks", Amount: "50"},
		})

		// then
		assert.ErrorIs(t, err, database.ErrUnavailable)
		assert.Equal(t, 1, count)
		entries, _ := service.ListByCategory(ctx, CategoryInvestment, 0)
		require.Len(t, entries, 1)
		assert.Equal(t, "Pension", entries[0].Label)
	})

	t.Run("should fail closed without an active session", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.SubmitLines(context.Background(), CategoryExpense, []Line{{Label: "Food", Amount: "1"}})

		assert.ErrorIs(t, err, account.ErrNoActiveSession)
		assert.Contains(t, err.Error(), "failed to get current account")
	})
}

func TestBudgetServiceImpl_ListByCategory(t *testing.T) {
	t.Run("should return the newest entries first up to the limit", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		for _, label := range []string{"first", "second", "third"} {
			_, err := service.SubmitLines(ctx, CategorySubscription, []Line{{Label: label, Amount: "9.99"}})
			require.NoError(t, err)
			clock.Advance(time.Minute)
		}
		defer clock.SetNow(time.Date(2024, 2, 15, 9, 30, 0, 0, time.Local))

		// when
		entries, err := service.ListByCategory(ctx, CategorySubscription, 2)

		// then
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "third", entries[0].Label)
		assert.Equal(t, "second", entries[1].Label)
	})

	t.Run("should not show another account's entries", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		other := account.WithAccount(context.Background(), account.Account{Id: "account-2"})
		_, err := service.SubmitLines(other, CategoryExpense, []Line{{Label: "Secret", Amount: "1"}})
		require.NoError(t, err)

		// when
		entries, err := service.ListByCategory(ctx, CategoryExpense, 0)

		// then
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("should fail closed without an active session", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.ListByCategory(context.Background(), CategoryExpense, 0)

		assert.ErrorIs(t, err, account.ErrNoActiveSession)
	})
}
