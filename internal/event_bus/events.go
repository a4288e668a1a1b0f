package event_bus

const (
	SessionStartedType       EventType = "session.started"
	SessionEndedType         EventType = "session.ended"
	BudgetLinesSubmittedType EventType = "budget.lines_submitted"
	ExpenseAddedType         EventType = "expense.added"
)

type SessionStarted struct {
	AccountId string
	Username  string
}

type SessionEnded struct {
	AccountId string
}

type BudgetLinesSubmitted struct {
	AccountId string
	Category  string
	Count     int
}

type ExpenseAdded struct {
	AccountId string
	ExpenseId int64
	// Date is the yyyy-mm-dd part of the expense timestamp.
	Date string
}
