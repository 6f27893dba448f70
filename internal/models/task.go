package models

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DueDateLayout is the calendar-date format of Task.DueDate.
const DueDateLayout = time.DateOnly

type Task struct {
	ID          string
	UserID      string
	ProjectID   *string
	Title       string
	Description string
	Status      string
	Priority    string
	Prioritized bool
	DueDate     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
