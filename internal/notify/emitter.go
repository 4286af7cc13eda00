package notify

import (
	"context"
	"time"
)

// Event names emitted by the services.
const (
	EventPointsAwarded     = "points_awarded"
	EventLevelUp           = "level_up"
	EventBadgeEarned       = "badge_earned"
	EventStreakUpdated     = "streak_updated"
	EventTaskCompleted     = "task_completed"
	EventTopicCompleted    = "topic_completed"
	EventPomodoroCompleted = "pomodoro_completed"
	EventTaskOverdue       = "task_overdue"
)

// Event is a notification addressed to a single user.
type Event struct {
	Name   string                 `json:"name"`
	UserID string                 `json:"user_id"`
	At     time.Time              `json:"at"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Emitter delivers events to whatever transport is listening. Emit must not
// block the caller; delivery is best effort.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// NoopEmitter discards all events. Used by the CLI, where gamification
// feedback is printed directly.
type NoopEmitter struct{}

func (NoopEmitter) Emit(context.Context, Event) {}

// ChannelEmitter pushes events onto a buffered channel. Useful in tests to
// assert on what the services emit.
type ChannelEmitter struct {
	C chan Event
}

// NewChannelEmitter creates a ChannelEmitter with the given buffer size.
func NewChannelEmitter(size int) *ChannelEmitter {
	return &ChannelEmitter{C: make(chan Event, size)}
}

func (e *ChannelEmitter) Emit(_ context.Context, ev Event) {
	select {
	case e.C <- ev:
	default:
	}
}
