// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/carterperez-dev/epic-events/internal/department"
)

// Session is the caller identity decoded from a valid token. It is never
// mutated; a new login produces a new Session.
type Session struct {
	UserID     int64
	Username   string
	Department department.Department
	TokenID    string
	ExpiresAt  time.Time
}

func (s *Session) IsExpired() bool {
	return !time.Now().Before(s.ExpiresAt)
}

func (s *Session) Is(d department.Department) bool {
	return s != nil && s.Department == d
}

// UserInfo is what the identity provider needs from the user store.
type UserInfo struct {
	ID           int64
	Username     string
	PasswordHash string
	Department   department.Department
}
