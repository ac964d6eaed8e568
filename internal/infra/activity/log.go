// Package activity keeps the rolling per-user activity log and the
// scheduled-notification records. Both are JSON-shaped arrays with no
// schema versioning, capped and kept in process memory — this state is
// advisory and safe to lose on restart.
package activity

import (
	"sync"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
)

// MaxEntries is the hard cap per user. Appending past it drops the
// oldest entries.
const MaxEntries = 100

// Log is a thread-safe capped per-user activity log.
type Log struct {
	mu      sync.RWMutex
	entries map[string][]domain.ActivityEntry
	sched   map[string][]domain.Notification
}

// NewLog creates an empty activity log.
func NewLog() *Log {
	return &Log{
		entries: make(map[string][]domain.ActivityEntry),
		sched:   make(map[string][]domain.Notification),
	}
}

// Append adds an entry for a user, newest last, dropping the oldest
// entries beyond MaxEntries.
func (l *Log) Append(userID string, e domain.ActivityEntry) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := append(l.entries[userID], e)
	if len(list) > MaxEntries {
		list = list[len(list)-MaxEntries:]
	}
	l.entries[userID] = list
}

// Entries returns a copy of a user's log, oldest first.
func (l *Log) Entries(userID string) []domain.ActivityEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := l.entries[userID]
	out := make([]domain.ActivityEntry, len(list))
	copy(out, list)
	return out
}

// Schedule stores a scheduled-notification record for a user.
func (l *Log) Schedule(userID string, n domain.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sched[userID] = append(l.sched[userID], n)
}

// Scheduled returns a copy of a user's scheduled notifications.
func (l *Log) Scheduled(userID string) []domain.Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := l.sched[userID]
	out := make([]domain.Notification, len(list))
	copy(out, list)
	return out
}

// ClearScheduled drops all scheduled notifications for a user.
func (l *Log) ClearScheduled(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.sched, userID)
}
