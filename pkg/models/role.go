package models

// Role is the privilege level of a user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleUser      Role = "user"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleLibrarian, RoleUser}

// ParseRole returns the role named by s and whether it is valid.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}
