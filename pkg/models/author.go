package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const (
	formDateLayout = "2006-01-02"
	monthLayout    = "Jan"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID          string     `bun:",pk" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FirstName   string     `json:"first_name"`
	FamilyName  string     `bun:",nullzero" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

// Name returns the display name in "family, first" order. Authors without a
// first name are displayed by family name alone.
func (a *Author) Name() string {
	if a.FirstName == "" {
		return a.FamilyName
	}
	return a.FamilyName + ", " + a.FirstName
}

func (a *Author) URL() string {
	return "/catalog/author/" + a.ID
}

// Lifespan describes the author's birth and death dates, e.g.
// "Jan 2nd, 1920 - Mar 3rd, 1986". Missing dates are reported as "Unknown"
// for the birth side and left empty for the death side.
func (a *Author) Lifespan() string {
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return "Unknown"
	}
	born := detailDate(a.DateOfBirth)
	if born == "" {
		born = "Unknown"
	}
	return born + " - " + detailDate(a.DateOfDeath)
}

func (a *Author) DateOfBirthForm() string {
	return formDate(a.DateOfBirth)
}

func (a *Author) DateOfDeathForm() string {
	return formDate(a.DateOfDeath)
}

func formDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(formDateLayout)
}

func detailDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	u := t.UTC()
	return fmt.Sprintf("%s %d%s, %d", u.Format(monthLayout), u.Day(), ordinalSuffix(u.Day()), u.Year())
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
