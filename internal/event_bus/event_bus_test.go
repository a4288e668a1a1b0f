package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var calls []string
		bus.Subscribe(ExpenseAddedType, func(e Event) error { calls = append(calls, "first"); return nil })
		bus.Subscribe(ExpenseAddedType, func(e Event) error { calls = append(calls, "second"); return nil })
		bus.Subscribe(SessionEndedType, func(e Event) error { calls = append(calls, "other"); return nil })

		// when
		err := bus.Publish(NewEvent(context.Background(), ExpenseAddedType, ExpenseAdded{ExpenseId: 1}))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("should keep going after a failing or panicking handler", func(t *testing.T) {
		// given
		bus := NewEventBus()
		reached := false
		bus.Subscribe(SessionEndedType, func(e Event) error { return errors.New("boom") })
		bus.Subscribe(SessionEndedType, func(e Event) error { panic("bad handler") })
		bus.Subscribe(SessionEndedType, func(e Event) error { reached = true; return nil })

		// when
		err := bus.Publish(NewEvent(context.Background(), SessionEndedType, SessionEnded{AccountId: "a"}))

		// then
		assert.True(t, reached)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("should not publish on a cancelled context", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(SessionEndedType, func(e Event) error { called = true; return nil })
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, SessionEndedType, SessionEnded{}))

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("should stop calling a handler after unsubscribe", func(t *testing.T) {
		bus := NewEventBus()
		count := 0
		unsubscribe := bus.Subscribe(SessionEndedType, func(e Event) error { count++; return nil })

		require.NoError(t, bus.Publish(NewEvent(context.Background(), SessionEndedType, SessionEnded{})))
		unsubscribe()
		require.NoError(t, bus.Publish(NewEvent(context.Background(), SessionEndedType, SessionEnded{})))

		assert.Equal(t, 1, count)
	})
}

func TestSubscribeTyped(t *testing.T) {
	// given
	bus := NewEventBus()
	var got []BudgetLinesSubmitted
	SubscribeTyped(bus, BudgetLinesSubmittedType, func(e EventT[BudgetLinesSubmitted]) error {
		got = append(got, e.Data)
		return nil
	})

	// when
	require.NoError(t, bus.Publish(NewEvent(context.Background(), BudgetLinesSubmittedType, "not a payload")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), BudgetLinesSubmittedType,
		BudgetLinesSubmitted{AccountId: "a", Category: "income", Count: 2})))

	// then
	require.Len(t, got, 1)
	assert.Equal(t, "income", got[0].Category)
	assert.Equal(t, 2, got[0].Count)
}
