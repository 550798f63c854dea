package domain

import "time"

// Follow is a directed subscription edge owned by the follower.
type Follow struct {
	ID           int64
	FollowerID   int64
	FollowerName string
	FollowedID   int64
	FollowedName string
	CreatedAt    time.Time
}

// OwnedBy reports whether userID is the follower.
func (f *Follow) OwnedBy(userID int64) bool {
	return f != nil && f.FollowerID == userID
}
