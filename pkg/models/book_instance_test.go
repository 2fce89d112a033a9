package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookInstanceIsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, (&BookInstance{DueBack: now.Add(-time.Hour)}).IsOverdue(now))
	assert.False(t, (&BookInstance{DueBack: now.Add(time.Hour)}).IsOverdue(now))
	assert.False(t, (&BookInstance{DueBack: now}).IsOverdue(now))
}

func TestBookInstanceDueBackFormats(t *testing.T) {
	t.Parallel()

	bi := &BookInstance{DueBack: time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "07/04/2026", bi.DueBackFormatted())
	assert.Equal(t, "2026-07-04", bi.DueBackForm())
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, ok := ParseRole("librarian")
	assert.True(t, ok)
	assert.Equal(t, RoleLibrarian, r)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestUserHasRole(t *testing.T) {
	t.Parallel()

	u := &User{Role: RoleLibrarian}
	assert.True(t, u.HasRole(RoleAdmin, RoleLibrarian))
	assert.False(t, u.HasRole(RoleAdmin))
}
