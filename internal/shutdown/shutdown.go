// Package shutdown coordinates interrupt handling for long-running
// commands such as the assistant chat session.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// CleanupFunc releases a resource when the command exits.
type CleanupFunc func(ctx context.Context) error

type cleanupEntry struct {
	name string
	fn   CleanupFunc
}

// Manager cancels its context on the first interrupt signal and runs
// registered cleanups when the command finishes, last registered first.
type Manager struct {
	mu       sync.Mutex
	cleanups []cleanupEntry

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	stop   chan struct{}
}

// NewManager creates a manager. Call Listen to start signal handling.
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:    ctx,
		cancel: cancel,
		stop:   make(chan struct{}),
	}
}

// Context is cancelled when an interrupt arrives or Trigger is called.
// Pass it to blocking operations so Ctrl+C aborts them.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// OnExit registers a cleanup to run during Close.
func (m *Manager) OnExit(name string, fn CleanupFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, cleanupEntry{name: name, fn: fn})
}

// Listen starts a goroutine that triggers shutdown on SIGINT or SIGTERM.
func (m *Manager) Listen() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			m.Trigger()
		case <-m.stop:
		}
		signal.Stop(sigCh)
	}()
}

// Trigger cancels the context. Safe to call more than once.
func (m *Manager) Trigger() {
	m.once.Do(m.cancel)
}

// Close stops signal handling and runs the cleanups in LIFO order.
// The first cleanup error is returned; later cleanups still run.
func (m *Manager) Close(ctx context.Context) error {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}

	m.mu.Lock()
	cleanups := make([]cleanupEntry, len(m.cleanups))
	copy(cleanups, m.cleanups)
	m.mu.Unlock()

	var firstErr error
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i].fn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
