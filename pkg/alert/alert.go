package alert

import (
	"context"
	"fmt"

	"github.com/elonfeng/aitrending/pkg/trend"
)

// Notification is the data sent to alert destinations.
type Notification struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	URL   string         `json:"url"`
	Range string         `json:"range"`
	Repos []trend.Ranked `json:"repos"`
}

// Notifier delivers alerts to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager holds the configured alert destinations.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Notifiers returns the registered notifiers in registration order.
func (m *Manager) Notifiers() []Notifier {
	return m.notifiers
}

// repoLine formats one repository for chat destinations.
func repoLine(r trend.Ranked) string {
	return fmt.Sprintf("#%d %s +%d today (%d stars)", r.Rank, r.FullName(), r.Growth, r.Stars)
}

// headLimit caps how many repositories a chat message lists.
func headLimit(n *Notification) int {
	if len(n.Repos) < 5 {
		return len(n.Repos)
	}
	return 5
}
