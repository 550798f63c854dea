package domain

import "time"

// Session describes an issued login session.
type Session struct {
	ID        string
	UserID    int64
	Token     string
	ExpiresAt time.Time
}
