// Package shell is the interactive console in front of the ledger.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/database"
	"github.com/pocketledger/pocketledger/pkg/account"
	"github.com/pocketledger/pocketledger/pkg/budget"
	"github.com/pocketledger/pocketledger/pkg/expense"
	"github.com/pocketledger/pocketledger/pkg/export"
	"github.com/pocketledger/pocketledger/pkg/session"
	"github.com/pocketledger/pocketledger/pkg/validation"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

type Services struct {
	Sessions *session.Manager
	Budgets  budget.BudgetService
	Expenses expense.Service
	Exports  export.Service
}

type Shell struct {
	Services
	maxLines  int
	listLimit int

	stdin io.Reader
	in    *bufio.Reader
	out   io.Writer
	// pending carries the result of a read still blocked on stdin
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

type command struct {
	usage string
	help  string
	run   func(s *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"register":   {usage: "register", help: "create an account", run: (*Shell).register},
		"login":      {usage: "login", help: "start a session", run: (*Shell).login},
		"logout":     {usage: "logout", help: "end the session", run: (*Shell).logout},
		"whoami":     {usage: "whoami", help: "show the logged in account", run: (*Shell).whoami},
		"budget":     {usage: "budget add <category> | budget list <category> [limit]", help: "plan budget lines", run: (*Shell).budget},
		"expense":    {usage: "expense add | expense list <start> <end> [limit]", help: "record and list expenses", run: (*Shell).expense},
		"export":     {usage: "export budget <category> <file> [limit] | export expense <start> <end> <file> [limit]", help: "write a listing as CSV, or as a spreadsheet for .xlsx files", run: (*Shell).export},
		"categories": {usage: "categories", help: "show the budget categories", run: (*Shell).categories},
		"help":       {usage: "help", help: "show this list", run: (*Shell).help},
	}
}

var commandOrder = []string{"register", "login", "logout", "whoami", "budget", "expense", "export", "categories", "help"}

func New(services Services, cfg config.Ledger, stdin io.Reader, stdout io.Writer) *Shell {
	return &Shell{
		Services: services,
		maxLines:  cfg.MaxBudgetLines,
		listLimit: cfg.ListLimit,
		stdin:     stdin,
		in:        bufio.NewReader(stdin),
		out:       stdout,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "pocketledger. Type help for a list of commands.")
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(s.out)
			return nil
		}
		line, err := s.prompt(ctx, s.promptLabel())
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := strings.ToLower(fields[0])
		if name == "quit" || name == "exit" {
			return nil
		}

		cmd, ok := commands[name]
		if !ok {
			fmt.Fprintf(s.out, "Unknown command %q. Type help for a list of commands.\n", fields[0])
			continue
		}
		if err := cmd.run(s, ctx, fields[1:]); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				fmt.Fprintln(s.out)
				return nil
			}
			s.report(err)
		}
	}
}

func (s *Shell) promptLabel() string {
	if current, ok := s.Sessions.CurrentAccount(); ok {
		return current.Username + "> "
	}
	return "> "
}

func (s *Shell) register(ctx context.Context, _ []string) error {
	username, err := s.prompt(ctx, "Username: ")
	if err != nil {
		return err
	}
	password, err := s.promptPassword(ctx, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := s.promptPassword(ctx, "Confirm password: ")
	if err != nil {
		return err
	}

	created, err := s.Sessions.Register(ctx, username, password, confirm)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Account %s created. You can log in now.\n", created.Username)
	return nil
}

func (s *Shell) login(ctx context.Context, _ []string) error {
	username, err := s.prompt(ctx, "Username: ")
	if err != nil {
		return err
	}
	password, err := s.promptPassword(ctx, "Password: ")
	if err != nil {
		return err
	}

	loggedIn, err := s.Sessions.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Welcome, %s.\n", loggedIn.Username)
	return nil
}

func (s *Shell) logout(ctx context.Context, _ []string) error {
	if err := s.Sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Logged out.")
	return nil
}

func (s *Shell) whoami(_ context.Context, _ []string) error {
	current, ok := s.Sessions.CurrentAccount()
	if !ok {
		return account.ErrNoActiveSession
	}
	fmt.Fprintf(s.out, "%s (%s)\n", current.Username, current.Id)
	return nil
}

func (s *Shell) budget(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return s.usage("budget")
	}
	category, err := budget.ParseCategory(args[1])
	if err != nil {
		return err
	}
	ctx = s.Sessions.Context(ctx)

	switch args[0] {
	case "add":
		if _, err := account.CurrentId(ctx); err != nil {
			return err
		}
		return s.addBudget(ctx, category)
	case "list":
		limit, err := parseLimit(args[2:])
		if err != nil {
			return err
		}
		return s.listBudget(ctx, category, limit)
	default:
		return s.usage("budget")
	}
}

func (s *Shell) addBudget(ctx context.Context, category budget.Category) error {
	def, err := category.Def()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s budget, up to %d lines. Leave a line empty to skip it.\n", def.DisplayName, s.maxLines)

	lines := make([]budget.Line, 0, s.maxLines)
	for i := 1; i <= s.maxLines; i++ {
		var line budget.Line
		if line.Label, err = s.prompt(ctx, fmt.Sprintf("%s %d: ", def.LabelField, i)); err != nil {
			return err
		}
		if line.Amount, err = s.prompt(ctx, fmt.Sprintf("Amount %d: ", i)); err != nil {
			return err
		}
		if line.Description, err = s.prompt(ctx, fmt.Sprintf("Description %d: ", i)); err != nil {
			return err
		}
		lines = append(lines, line)
	}

	count, err := s.Budgets.SubmitLines(ctx, category, lines)
	if err != nil {
		if count > 0 {
			fmt.Fprintf(s.out, "Saved %d line(s) before the failure.\n", count)
		}
		return err
	}
	fmt.Fprintf(s.out, "Saved %d line(s).\n", count)
	return nil
}

func (s *Shell) listBudget(ctx context.Context, category budget.Category, limit int) error {
	def, err := category.Def()
	if err != nil {
		return err
	}
	entries, err := s.Budgets.ListByCategory(ctx, category, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(s.out, "No %s budget lines yet.\n", category)
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Date\t%s\tAmount\tDescription\n", def.LabelField)
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Date(), entry.Label, entry.Amount.StringFixed(2), entry.Description)
	}
	return w.Flush()
}

func (s *Shell) expense(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return s.usage("expense")
	}
	ctx = s.Sessions.Context(ctx)

	switch args[0] {
	case "add":
		if _, err := account.CurrentId(ctx); err != nil {
			return err
		}
		return s.addExpense(ctx)
	case "list":
		if len(args) < 3 {
			return s.usage("expense")
		}
		limit, err := parseLimit(args[3:])
		if err != nil {
			return err
		}
		return s.listExpenses(ctx, args[1], args[2], limit)
	default:
		return s.usage("expense")
	}
}

func (s *Shell) addExpense(ctx context.Context) error {
	date, err := s.prompt(ctx, "Date (yyyy-mm-dd): ")
	if err != nil {
		return err
	}
	expenseType, err := s.prompt(ctx, "Type: ")
	if err != nil {
		return err
	}
	amount, err := s.prompt(ctx, "Amount: ")
	if err != nil {
		return err
	}
	description, err := s.prompt(ctx, "Description: ")
	if err != nil {
		return err
	}

	added, err := s.Expenses.Add(ctx, date, expenseType, amount, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Expense saved for %s.\n", added.Date())
	return nil
}

func (s *Shell) listExpenses(ctx context.Context, startDate, endDate string, limit int) error {
	expenses, err := s.Expenses.List(ctx, startDate, endDate, limit)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintf(s.out, "No expenses between %s and %s.\n", startDate, endDate)
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tType\tAmount\tDescription")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Date(), e.Type, e.Amount.StringFixed(2), e.Description)
	}
	return w.Flush()
}

func (s *Shell) export(ctx context.Context, args []string) error {
	ctx = s.Sessions.Context(ctx)

	var document export.Document
	var file string
	var limit int
	var err error
	switch {
	case len(args) >= 3 && len(args) <= 4 && args[0] == "budget":
		category, parseErr := budget.ParseCategory(args[1])
		if parseErr != nil {
			return parseErr
		}
		file = args[2]
		if limit, err = parseLimit(args[3:]); err != nil {
			return err
		}
		document, err = s.Exports.ExportBudget(ctx, category, export.FormatForFile(file), limit)
	case len(args) >= 4 && len(args) <= 5 && args[0] == "expense":
		file = args[3]
		if limit, err = parseLimit(args[4:]); err != nil {
			return err
		}
		document, err = s.Exports.ExportExpenses(ctx, args[1], args[2], export.FormatForFile(file), limit)
	default:
		return s.usage("export")
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(file, document.Data, 0644); err != nil {
		return fmt.Errorf("could not write export file: %w", err)
	}
	fmt.Fprintf(s.out, "Exported %d row(s) to %s.\n", document.Rows, file)
	if limit == 0 {
		limit = s.listLimit
	}
	if document.Rows >= limit {
		fmt.Fprintf(s.out, "Only the newest %d row(s) were exported. Add a larger limit to export more.\n", limit)
	}
	return nil
}

func (s *Shell) categories(_ context.Context, _ []string) error {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tLabel\tName")
	for _, def := range budget.Categories() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Category, def.LabelField, def.DisplayName)
	}
	return w.Flush()
}

func (s *Shell) help(_ context.Context, _ []string) error {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, name := range commandOrder {
		cmd := commands[name]
		fmt.Fprintf(w, "%s\t%s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintf(w, "quit\tleave\n")
	return w.Flush()
}

func (s *Shell) usage(name string) error {
	fmt.Fprintf(s.out, "Usage: %s\n", commands[name].usage)
	return nil
}

// report turns a failed command into the message the user sees.
func (s *Shell) report(err error) {
	var fieldErr *validation.FieldError
	switch {
	case errors.Is(err, account.ErrUsernameTaken) || errors.Is(err, account.ErrPasswordMismatch):
		if errors.Is(err, account.ErrUsernameTaken) {
			fmt.Fprintln(s.out, "That username is taken.")
		}
		if errors.Is(err, account.ErrPasswordMismatch) {
			fmt.Fprintln(s.out, "Those passwords didn't match.")
		}
	case errors.Is(err, account.ErrUnknownUsername):
		fmt.Fprintln(s.out, "Your username may be incorrect.")
	case errors.Is(err, account.ErrWrongPassword):
		fmt.Fprintln(s.out, "Your password may be incorrect.")
	case errors.Is(err, account.ErrNoActiveSession):
		fmt.Fprintln(s.out, "Please log in first.")
	case errors.Is(err, budget.ErrNoValidLine):
		fmt.Fprintln(s.out, "Please enter your budget.")
	case errors.Is(err, budget.ErrUnknownCategory):
		fmt.Fprintln(s.out, "Unknown category. Type categories to see them.")
	case errors.Is(err, validation.ErrInvalidDate):
		fmt.Fprintln(s.out, "Please enter date as yyyy-mm-dd.")
	case errors.Is(err, validation.ErrInvalidAmount):
		fmt.Fprintln(s.out, "Please enter the amount as a number.")
	case errors.Is(err, validation.ErrEmpty) && errors.As(err, &fieldErr):
		fmt.Fprintf(s.out, "Please fill in the %s.\n", fieldErr.Field)
	case errors.Is(err, validation.ErrValidation):
		fmt.Fprintf(s.out, "%v.\n", err)
	case errors.Is(err, database.ErrUnavailable):
		log.Errorf("ledger unavailable: %v", err)
		fmt.Fprintln(s.out, "The ledger is unavailable right now, please try again.")
	default:
		log.Errorf("command failed: %v", err)
		fmt.Fprintln(s.out, "Something went wrong, please try again.")
	}
}

func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.readLine(ctx)
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readLine waits for the next line or for ctx to be done. A read abandoned on cancellation
// is picked up by the next call.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	if s.pending == nil {
		s.pending = make(chan readResult, 1)
		go func(result chan<- readResult) {
			line, err := s.in.ReadString('\n')
			result <- readResult{line: line, err: err}
		}(s.pending)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-s.pending:
		s.pending = nil
		return r.line, r.err
	}
}

// promptPassword does not echo when stdin is a terminal. Input already buffered
// ahead of the prompt is read in order through the line reader.
func (s *Shell) promptPassword(ctx context.Context, label string) (string, error) {
	f, ok := s.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || s.pending != nil || s.in.Buffered() > 0 {
		return s.prompt(ctx, label)
	}

	fmt.Fprint(s.out, label)
	bytePassword, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(s.out)
	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}

func parseLimit(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	limit, err := strconv.Atoi(args[0])
	if err != nil || limit < 1 {
		return 0, validation.NewFieldError("limit", fmt.Errorf("%w: must be a positive whole number", validation.ErrValidation))
	}
	return limit, nil
}
