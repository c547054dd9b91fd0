package view

// Level is the severity of a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notification is a transient message for the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives notifications as they happen.
type Notifier interface {
	Notify(n Notification)
}

type discard struct{}

func (discard) Notify(Notification) {}

func notifierOrDiscard(n Notifier) Notifier {
	if n == nil {
		return discard{}
	}
	return n
}
