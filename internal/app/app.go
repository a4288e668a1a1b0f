package app

import (
	"context"
	"io"

	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/internal/shell"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, the ledger file and the console.
type Application struct {
	cfg    config.Application
	engine *database.Engine
	deps   *Dependencies
	shell  *shell.Shell
}

// NewApplication prepares the ledger file and everything on top of it, ready to Run().
func NewApplication(cfg config.Application, stdin io.Reader, stdout io.Writer) (*Application, error) {
	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}
	engine, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	deps := BuildDependencies(engine, cfg)
	SubscribeAudit(deps.EventBus)

	console := shell.New(shell.Services{
		Sessions: deps.Sessions,
		Budgets:  deps.BudgetService,
		Expenses: deps.ExpenseService,
		Exports:  deps.ExportService,
	}, cfg.Ledger, stdin, stdout)

	return &Application{cfg: cfg, engine: engine, deps: deps, shell: console}, nil
}

// Run serves the console until the user quits or input ends.
func (a *Application) Run(ctx context.Context) error {
	log.Infof("Using ledger at %s", a.cfg.Database.Path)
	return a.shell.Run(ctx)
}

func (a *Application) Close() error {
	return a.engine.Close()
}
