package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is a server-side login session. The session cookie only carries a
// signed reference to it.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:",pk" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `bun:",nullzero" json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
