package service

import "errors"

var (
	// ErrEmailTaken indicates a registration attempt with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login. The caller cannot tell
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTaskTerminal indicates an attempted transition out of completed or
	// cancelled.
	ErrTaskTerminal = errors.New("task is already completed or cancelled")

	// ErrInvalidTaskType indicates an unrecognized task type string.
	ErrInvalidTaskType = errors.New("invalid task type")

	ErrNoSuchTopic           = errors.New("no topic at that position")
	ErrTopicAlreadyCompleted = errors.New("topic already completed")

	ErrNoSuchSession        = errors.New("no pomodoro session at that position")
	ErrSessionAlreadyClosed = errors.New("pomodoro session already completed")
)
