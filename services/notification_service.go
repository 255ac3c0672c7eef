package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pg-portal/config"
	"pg-portal/models"
)

// Notifier raises a transient message for the operator.
type Notifier interface {
	Notify(level, message string)
}

const (
	successTTL = 3 * time.Second
	failureTTL = 4 * time.Second
)

// NotificationCenter queues notifications until they expire or are dismissed.
type NotificationCenter struct {
	now func() time.Time

	mu    sync.Mutex
	items map[string]models.Notification
}

func NewNotificationCenter(now func() time.Time) *NotificationCenter {
	if now == nil {
		now = time.Now
	}
	return &NotificationCenter{now: now, items: make(map[string]models.Notification)}
}

// Notify queues message. Success and info messages live 3s, warnings and errors 4s.
func (c *NotificationCenter) Notify(level, message string) {
	if message == "" {
		return
	}
	ttl := successTTL
	if level == models.LevelError || level == models.LevelWarning {
		ttl = failureTTL
	}

	now := c.now()
	n := models.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	c.mu.Lock()
	c.items[n.ID] = n
	c.pruneLocked(now)
	c.mu.Unlock()

	config.Log.WithField("level", level).Debug(message)
}

// Active lists unexpired notifications, oldest first.
func (c *NotificationCenter) Active() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(c.now())

	out := make([]models.Notification, 0, len(c.items))
	for _, n := range c.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Dismiss removes a notification; it reports whether one was removed.
func (c *NotificationCenter) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

func (c *NotificationCenter) pruneLocked(now time.Time) {
	for id, n := range c.items {
		if !now.Before(n.ExpiresAt) {
			delete(c.items, id)
		}
	}
}
