// Package workflow – Manager
//
// The Manager keeps at most one live wizard per user and applies the global
// generation-limit gate that precedes step 0: when a user's cumulative
// generation-call count has reached the configured maximum, the wizard they
// receive is already in the terminal limit view.
package workflow

import (
	"context"
	"sync"
)

// UsageSource reports how many generation calls a user has made so far.
type UsageSource interface {
	GenerationCount(ctx context.Context, userID string) (int, error)
}

// Manager hands out per-user wizard instances. It is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	byUser map[string]*Workflow

	cfg   Config
	usage UsageSource

	// MaxGenerations caps generation calls per user; 0 disables the gate.
	MaxGenerations int
}

// NewManager constructs a Manager creating wizards with cfg and gating them
// against usage.
func NewManager(cfg Config, usage UsageSource, maxGenerations int) *Manager {
	return &Manager{
		byUser:         make(map[string]*Workflow),
		cfg:            cfg,
		usage:          usage,
		MaxGenerations: maxGenerations,
	}
}

// Get returns the user's live wizard, creating one at step 0 when none
// exists. The generation-limit gate runs on every call so a wizard created
// before the limit was hit flips to the terminal view on next access.
func (m *Manager) Get(ctx context.Context, userID string) (*Workflow, error) {
	m.mu.Lock()
	w, ok := m.byUser[userID]
	if !ok {
		w = New(userID, m.cfg)
		m.byUser[userID] = w
	}
	m.mu.Unlock()

	if m.MaxGenerations > 0 && m.usage != nil {
		used, err := m.usage.GenerationCount(ctx, userID)
		if err != nil {
			return nil, err
		}
		if used >= m.MaxGenerations {
			w.MarkLimitReached()
		}
	}
	return w, nil
}

// Abandon cancels and discards the user's wizard, if any. In-flight external
// calls observe the cancellation; a later Get starts a fresh wizard.
func (m *Manager) Abandon(userID string) {
	m.mu.Lock()
	w, ok := m.byUser[userID]
	delete(m.byUser, userID)
	m.mu.Unlock()

	if ok {
		w.Abandon()
	}
}
