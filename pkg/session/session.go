// Package session holds the one account identity that is active in this process.
package session

import (
	"context"
	"sync"

	"github.com/pocketledger/pocketledger/internal/event_bus"
	"github.com/pocketledger/pocketledger/pkg/account"
	log "github.com/sirupsen/logrus"
)

type Manager struct {
	accounts account.Service
	bus      *event_bus.EventBus

	mu      sync.RWMutex
	current *account.Account
}

func NewManager(accounts account.Service, bus *event_bus.EventBus) *Manager {
	return &Manager{accounts: accounts, bus: bus}
}

// Register creates an account. It does not log the new account in.
func (m *Manager) Register(ctx context.Context, username, password, confirmPassword string) (account.Account, error) {
	return m.accounts.Register(ctx, username, password, confirmPassword)
}

// Login authenticates and makes the account the active identity, replacing any previous one.
// A failed login leaves the current identity untouched.
func (m *Manager) Login(ctx context.Context, username, password string) (account.Account, error) {
	authenticated, err := m.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return account.Account{}, err
	}

	m.mu.Lock()
	previous := m.current
	m.current = &authenticated
	m.mu.Unlock()

	if previous != nil {
		m.publish(ctx, event_bus.SessionEndedType, event_bus.SessionEnded{AccountId: previous.Id})
	}
	m.publish(account.WithAccount(ctx, authenticated), event_bus.SessionStartedType, event_bus.SessionStarted{
		AccountId: authenticated.Id,
		Username:  authenticated.Username,
	})
	return authenticated, nil
}

// Logout ends the session. Without one it returns account.ErrNoActiveSession.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	previous := m.current
	m.current = nil
	m.mu.Unlock()

	if previous == nil {
		return account.ErrNoActiveSession
	}
	m.publish(ctx, event_bus.SessionEndedType, event_bus.SessionEnded{AccountId: previous.Id})
	return nil
}

func (m *Manager) CurrentAccount() (account.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return account.Account{}, false
	}
	return *m.current, true
}

// Context attaches the active identity to ctx. Without a session ctx is returned as is,
// so ledger calls made with it fail with account.ErrNoActiveSession.
func (m *Manager) Context(ctx context.Context) context.Context {
	current, ok := m.CurrentAccount()
	if !ok {
		return ctx
	}
	return account.WithAccount(ctx, current)
}

func (m *Manager) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("could not publish %s: %v", eventType, err)
	}
}
