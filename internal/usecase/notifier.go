package usecase

import (
	"sync"
	"time"
)

type NotificationLevel string

const (
	NotifyInfo  NotificationLevel = "info"
	NotifyError NotificationLevel = "error"
)

// Notification is a user-facing message, the headless equivalent of a toast.
type Notification struct {
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Level   NotificationLevel `json:"level"`
	At      time.Time         `json:"at"`
}

// Notifier receives user-facing notifications emitted by the services.
type Notifier interface {
	Notify(n Notification)
}

// RingNotifier keeps the most recent notifications in memory until a surface
// drains them. Overflow drops the oldest entries.
type RingNotifier struct {
	mu    sync.Mutex
	buf   []Notification
	limit int
}

func NewRingNotifier(limit int) *RingNotifier {
	if limit <= 0 {
		limit = 32
	}
	return &RingNotifier{limit: limit}
}

func (r *RingNotifier) Notify(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, n)
	if len(r.buf) > r.limit {
		r.buf = r.buf[len(r.buf)-r.limit:]
	}
}

// Drain returns and clears all pending notifications.
func (r *RingNotifier) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.buf
	r.buf = nil
	return out
}
