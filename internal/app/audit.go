package app

import (
	"github.com/pocketledger/pocketledger/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// SubscribeAudit logs every session change and ledger write. Passwords never reach the bus.
func SubscribeAudit(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubscribers := []func(){
		event_bus.SubscribeTyped(bus, event_bus.SessionStartedType, func(e event_bus.EventT[event_bus.SessionStarted]) error {
			log.WithFields(log.Fields{"account": e.Data.AccountId, "username": e.Data.Username}).Info("session started")
			return nil
		}),
		event_bus.SubscribeTyped(bus, event_bus.SessionEndedType, func(e event_bus.EventT[event_bus.SessionEnded]) error {
			log.WithField("account", e.Data.AccountId).Info("session ended")
			return nil
		}),
		event_bus.SubscribeTyped(bus, event_bus.BudgetLinesSubmittedType, func(e event_bus.EventT[event_bus.BudgetLinesSubmitted]) error {
			log.WithFields(log.Fields{
				"account":  e.Data.AccountId,
				"category": e.Data.Category,
				"count":    e.Data.Count,
			}).Info("budget lines stored")
			return nil
		}),
		event_bus.SubscribeTyped(bus, event_bus.ExpenseAddedType, func(e event_bus.EventT[event_bus.ExpenseAdded]) error {
			log.WithFields(log.Fields{
				"account": e.Data.AccountId,
				"expense": e.Data.ExpenseId,
				"date":    e.Data.Date,
			}).Info("expense stored")
			return nil
		}),
	}

	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}
