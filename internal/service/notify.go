package service

import "sync"

// NotificationLevel is the severity of a toast notification.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// User-facing notification messages.
const (
	MsgLoadFailed = "Erreur lors du chargement des données"
)

// Notification is a message queued for the next response of a session.
// Blocking notifications must be acknowledged by the user.
type Notification struct {
	Level    NotificationLevel `json:"level"`
	Message  string            `json:"message"`
	Blocking bool              `json:"blocking,omitempty"`
}

// maxQueuedNotifications bounds the queue of a session nobody reads.
const maxQueuedNotifications = 20

// notificationQueue is a bounded FIFO; the oldest entries are dropped on overflow.
type notificationQueue struct {
	mu    sync.Mutex
	items []Notification
}

func (q *notificationQueue) push(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if over := len(q.items) - maxQueuedNotifications; over > 0 {
		q.items = append(q.items[:0:0], q.items[over:]...)
	}
}

func (q *notificationQueue) drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
