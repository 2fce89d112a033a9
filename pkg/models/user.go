package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:",pk" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	FirstName    string    `bun:",nullzero" json:"first_name"`
	LastName     string    `bun:",nullzero" json:"last_name"`
	Email        string    `bun:",nullzero" json:"email"`
	Username     string    `bun:",nullzero" json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Role         Role      `bun:",nullzero" json:"role"`
}

func (u *User) Name() string {
	return u.LastName + ", " + u.FirstName
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
