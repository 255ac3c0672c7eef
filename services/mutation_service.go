package services

import (
	"context"
	"errors"
	"sync"

	"pg-portal/config"
	"pg-portal/models"
)

// MutationState is where an optimistic write ended up.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationPending
	MutationCommitted
	MutationRolledBack
	MutationRejected
	MutationSkipped
)

func (s MutationState) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationPending:
		return "pending"
	case MutationCommitted:
		return "committed"
	case MutationRolledBack:
		return "rolled_back"
	case MutationRejected:
		return "rejected"
	case MutationSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Mutation describes one optimistic write against the backend.
//
// Validate runs first: a *ValidationError rejects the write, ErrNoChange skips it.
// Apply changes local state before the call and Revert restores it when the call fails.
// Commit merges the authoritative result.
type Mutation[T any] struct {
	Key      string
	Validate func() error
	Apply    func()
	Call     func(ctx context.Context) (T, error)
	Commit   func(T)
	Revert   func(err error)
	Success  string
	Failure  string
}

// MutationResult is the outcome of RunMutation.
type MutationResult[T any] struct {
	State MutationState
	Value T
	Err   error
}

// MutationController tracks which keys have a write in flight.
type MutationController struct {
	notifier Notifier

	mu   sync.Mutex
	busy map[string]struct{}
}

func NewMutationController(notifier Notifier) *MutationController {
	return &MutationController{notifier: notifier, busy: make(map[string]struct{})}
}

// Busy reports whether key has a write in flight.
func (c *MutationController) Busy(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.busy[key]
	return ok
}

// BusyKeys lists keys currently in flight.
func (c *MutationController) BusyKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.busy))
	for k := range c.busy {
		keys = append(keys, k)
	}
	return keys
}

func (c *MutationController) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.busy[key]; ok {
		return false
	}
	c.busy[key] = struct{}{}
	return true
}

func (c *MutationController) release(key string) {
	c.mu.Lock()
	delete(c.busy, key)
	c.mu.Unlock()
}

func (c *MutationController) notify(level, message string) {
	if c.notifier != nil && message != "" {
		c.notifier.Notify(level, message)
	}
}

// RunMutation drives m through Idle → Pending → Committed | RolledBack.
// There are no retries.
func RunMutation[T any](ctx context.Context, c *MutationController, m Mutation[T]) MutationResult[T] {
	if m.Validate != nil {
		if err := m.Validate(); err != nil {
			if errors.Is(err, ErrNoChange) {
				return MutationResult[T]{State: MutationSkipped}
			}
			var vErr *ValidationError
			if errors.As(err, &vErr) && vErr.Notice != "" {
				c.notify(models.LevelWarning, vErr.Notice)
			}
			return MutationResult[T]{State: MutationRejected, Err: err}
		}
	}

	if !c.acquire(m.Key) {
		return MutationResult[T]{State: MutationSkipped, Err: ErrMutationInFlight}
	}
	defer c.release(m.Key)

	if m.Apply != nil {
		m.Apply()
	}

	value, err := m.Call(ctx)
	if err != nil {
		config.Log.WithError(err).WithField("key", m.Key).Error("❌ Mutation failed, rolling back")
		if m.Revert != nil {
			m.Revert(err)
		}
		c.notify(models.LevelError, m.Failure)
		return MutationResult[T]{State: MutationRolledBack, Err: err}
	}

	if m.Commit != nil {
		m.Commit(value)
	}
	c.notify(models.LevelSuccess, m.Success)
	return MutationResult[T]{State: MutationCommitted, Value: value}
}
