package testutil

import (
	"sync"

	"tasker/internal/view"
)

// Recorder is a view.Notifier that keeps every notification.
type Recorder struct {
	mu            sync.Mutex
	notifications []view.Notification
}

// Notify implements view.Notifier.
func (r *Recorder) Notify(n view.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []view.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]view.Notification(nil), r.notifications...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (view.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return view.Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// Errors returns the messages of error notifications.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []string
	for _, n := range r.notifications {
		if n.Level == view.LevelError {
			msgs = append(msgs, n.Message)
		}
	}
	return msgs
}
