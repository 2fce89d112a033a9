package database

import (
	"strings"
)

// IsUniqueViolation reports whether err was caused by a UNIQUE constraint on
// table.column.
func IsUniqueViolation(err error, table, column string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: "+table+"."+column)
}
