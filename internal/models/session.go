package models

import "time"

// Session is a signed-in device. UserEmail is filled only by lookups that
// join the owner.
type Session struct {
	ID           string
	UserID       string
	UserEmail    string
	Fingerprint  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
