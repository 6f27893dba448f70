package models

import "time"

type Project struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectWithCount struct {
	Project
	TaskCount int
}
