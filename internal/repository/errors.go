package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrSubtaskNotFound is returned when a task has no subtask with the given id
	ErrSubtaskNotFound = errors.New("subtask not found")

	// ErrMilestoneNotFound is returned when a milestone is not found
	ErrMilestoneNotFound = errors.New("milestone not found")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrNotificationNotFound is returned when a notification is not found
	ErrNotificationNotFound = errors.New("notification not found")
)
