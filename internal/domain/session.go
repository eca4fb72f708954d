package domain

import "time"

// Session binds an opaque token to a user. Only the token leaves the server.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
}

// Expired reports whether the session is older than ttl. A zero ttl never expires.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.CreatedAt) >= ttl
}
