package domain

import "time"

// DefaultPomodoroMin is the work session length used when none is given.
const DefaultPomodoroMin = 25

type Task struct {
	ID           string
	UserID       string
	PlanID       string // empty when the task is not linked to a plan
	Title        string
	Subject      string
	Topic        string
	Type         string
	Priority     Priority
	Difficulty   Difficulty
	Status       TaskStatus
	Scheduled    time.Time // date component of the slot
	StartTime    string    // "HH:MM" within Scheduled's day
	EndTime      string    // "HH:MM"
	EstimatedMin int
	ActualMin    int
	Completion   *Completion
	Sessions     []PomodoroSession
	Reminders    []Reminder
	Recurrence   string // "", "daily", "weekly", "monthly"
	Tags         []string
	Color        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Completion struct {
	Percentage  int
	CompletedAt time.Time
	Notes       string
	Rating      int // 1-5, 0 when not rated
}

type PomodoroSession struct {
	StartedAt   time.Time
	EndedAt     *time.Time
	DurationMin int
	Completed   bool
	Kind        SessionKind
}

type Reminder struct {
	At   time.Time
	Sent bool
}

// scheduledEnd combines the scheduled date with the end time-of-day.
// An unset or unparseable end time means the slot runs to end of day.
func (t *Task) scheduledEnd() time.Time {
	y, m, d := t.Scheduled.Date()
	end, err := time.Parse("15:04", t.EndTime)
	if err != nil {
		return time.Date(y, m, d, 23, 59, 59, 0, t.Scheduled.Location())
	}
	return time.Date(y, m, d, end.Hour(), end.Minute(), 0, 0, t.Scheduled.Location())
}

// IsOverdue reports whether the task's slot has passed while it is still
// pending. Completed and cancelled tasks are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status != TaskPending {
		return false
	}
	return now.After(t.scheduledEnd())
}

// RefreshOverdue applies the lazy pending -> overdue transition. It is
// called on read and save paths rather than by a background job. Returns
// true when the status changed.
func (t *Task) RefreshOverdue(now time.Time) bool {
	if !t.IsOverdue(now) {
		return false
	}
	t.Status = TaskOverdue
	t.UpdatedAt = now
	return true
}

// StartPomodoro appends an open work session and moves the task to
// in_progress. Terminal tasks reject the start. The source system allowed
// several open sessions on one task at once; that permissiveness is kept.
func (t *Task) StartPomodoro(now time.Time, durationMin int) bool {
	if t.Status.IsTerminal() {
		return false
	}
	if durationMin <= 0 {
		durationMin = DefaultPomodoroMin
	}
	t.Sessions = append(t.Sessions, PomodoroSession{
		StartedAt:   now,
		DurationMin: durationMin,
		Kind:        SessionWork,
	})
	t.Status = TaskInProgress
	t.UpdatedAt = now
	return true
}

// StartBreak appends an open break session without touching task status.
// Terminal tasks reject the start, same as StartPomodoro.
func (t *Task) StartBreak(now time.Time, durationMin int, kind SessionKind) bool {
	if t.Status.IsTerminal() {
		return false
	}
	t.Sessions = append(t.Sessions, PomodoroSession{
		StartedAt:   now,
		DurationMin: durationMin,
		Kind:        kind,
	})
	t.UpdatedAt = now
	return true
}

// CompletePomodoro closes the session at index and folds its duration into
// the task's actual minutes. Returns false when the index does not refer to
// an open session; the task is untouched in that case.
func (t *Task) CompletePomodoro(index int, now time.Time) bool {
	if index < 0 || index >= len(t.Sessions) {
		return false
	}
	s := &t.Sessions[index]
	if s.Completed {
		return false
	}
	endedAt := now
	s.EndedAt = &endedAt
	s.Completed = true
	if s.Kind == SessionWork {
		t.ActualMin += s.DurationMin
	}
	t.UpdatedAt = now
	return true
}

// TotalStudyMin sums the durations of completed work sessions.
func (t *Task) TotalStudyMin() int {
	var total int
	for _, s := range t.Sessions {
		if s.Completed && s.Kind == SessionWork {
			total += s.DurationMin
		}
	}
	return total
}

// Complete finishes the task with an optional note and 1-5 rating. Returns
// false from terminal states. Rating zero means unrated; out-of-range
// ratings are clamped into the valid band.
func (t *Task) Complete(now time.Time, notes string, rating int) bool {
	if t.Status.IsTerminal() {
		return false
	}
	if rating != 0 {
		if rating < 1 {
			rating = 1
		}
		if rating > 5 {
			rating = 5
		}
	}
	t.Status = TaskCompleted
	t.Completion = &Completion{
		Percentage:  100,
		CompletedAt: now,
		Notes:       notes,
		Rating:      rating,
	}
	t.UpdatedAt = now
	return true
}

// Cancel moves the task to the terminal cancelled state. Returns false when
// the task is already terminal.
func (t *Task) Cancel(now time.Time) bool {
	if t.Status.IsTerminal() {
		return false
	}
	t.Status = TaskCancelled
	t.UpdatedAt = now
	return true
}

// NextReminder returns the earliest unsent reminder strictly after now,
// or nil when none is pending.
func (t *Task) NextReminder(now time.Time) *Reminder {
	var next *Reminder
	for i := range t.Reminders {
		r := &t.Reminders[i]
		if r.Sent || !r.At.After(now) {
			continue
		}
		if next == nil || r.At.Before(next.At) {
			next = r
		}
	}
	return next
}
