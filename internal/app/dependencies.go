package app

import (
	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/internal/event_bus"
	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/pocketledger/pocketledger/pkg/account"
	"github.com/pocketledger/pocketledger/pkg/budget"
	"github.com/pocketledger/pocketledger/pkg/expense"
	"github.com/pocketledger/pocketledger/pkg/export"
	"github.com/pocketledger/pocketledger/pkg/session"
)

// Dependencies holds all repositories and services of the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	AccountRepo    account.Repo
	AccountService *account.AccountServiceImpl
	Sessions       *session.Manager

	BudgetRepo    budget.BudgetRepo
	BudgetService *budget.BudgetServiceImpl

	ExpenseRepo    expense.Repository
	ExpenseService *expense.ServiceImpl

	ExportService *export.ServiceImpl
}

// BuildDependencies initializes and wires all application services.
func BuildDependencies(engine *database.Engine, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.AccountRepo = account.NewAccountRepo(engine)
	deps.AccountService = account.NewAccountService(deps.AccountRepo, deps.Clock)
	deps.Sessions = session.NewManager(deps.AccountService, deps.EventBus)

	deps.BudgetRepo = budget.NewBudgetRepo(engine)
	deps.BudgetService = budget.NewBudgetServiceImpl(deps.BudgetRepo, deps.Clock, deps.EventBus, cfg.Ledger)

	deps.ExpenseRepo = expense.NewRepository(engine)
	deps.ExpenseService = expense.NewService(deps.ExpenseRepo, deps.Clock, deps.EventBus, cfg.Ledger)

	deps.ExportService = export.NewService(deps.BudgetService, deps.ExpenseService)

	return deps
}
