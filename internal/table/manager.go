package table

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Session is anything the manager can track: the dealer hand and the
// multiplayer table both qualify.
type Session interface {
	ID() string
	Run() error
}

// Manager enforces the one-session-per-channel rule. Starting a session
// on a channel that already has one fails with ErrSessionConflict before
// any state is created or any coin moves.
type Manager struct {
	mu     sync.Mutex
	active map[string]Session
	logger *log.Logger
}

// NewManager creates an empty registry
func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		active: make(map[string]Session),
		logger: logger.WithPrefix("manager"),
	}
}

// Active returns the running session on the channel, or nil
func (m *Manager) Active(channel string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[channel]
}

// Begin registers the session against its channel and runs it to
// completion, releasing the channel on the way out regardless of how the
// session ends.
func (m *Manager) Begin(channel string, s Session) error {
	m.mu.Lock()
	if existing, ok := m.active[channel]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: session %s", ErrSessionConflict, existing.ID())
	}
	m.active[channel] = s
	m.mu.Unlock()

	m.logger.Info("Session started", "channel", channel, "session", s.ID())
	defer func() {
		m.mu.Lock()
		delete(m.active, channel)
		m.mu.Unlock()
		m.logger.Info("Session finished", "channel", channel, "session", s.ID())
	}()

	return s.Run()
}
