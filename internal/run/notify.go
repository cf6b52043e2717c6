package run

import "go.uber.org/zap"

// EventType classifies run lifecycle notifications.
type EventType string

const (
	EventLaunched  EventType = "launched"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
)

// Event is one lifecycle notification. Title and Body are display text for
// the notification transport; RunID correlates events from a single launch.
type Event struct {
	RunID string
	Type  EventType
	Title string
	Body  string
}

// Notifier delivers lifecycle events to an external transport (desktop
// notifications, chat hooks, ...). It is injected into the coordinator at
// construction; its lifecycle belongs to the caller.
type Notifier interface {
	Notify(Event)
}

// LogNotifier writes events to a structured log. It is the default
// transport when no desktop notifier is wired in.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Notify(e Event) {
	n.Log.Info("run notification",
		zap.String("run_id", e.RunID),
		zap.String("type", string(e.Type)),
		zap.String("title", e.Title),
		zap.String("body", e.Body),
	)
}

// NopNotifier drops all events.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}
