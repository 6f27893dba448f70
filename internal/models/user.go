package models

import "time"

type User struct {
	ID        string
	Email     string
	Password  string
	FullName  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
