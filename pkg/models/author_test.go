package models

import (
	"testing"
	"time"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
)

func TestAuthorName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Tolkien, J.R.R.", (&Author{FirstName: "J.R.R.", FamilyName: "Tolkien"}).Name())
	assert.Equal(t, "Homer", (&Author{FamilyName: "Homer"}).Name())
}

func TestAuthorLifespan(t *testing.T) {
	t.Parallel()

	born := time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC)
	died := time.Date(1992, time.April, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		author *Author
		want   string
	}{
		{"no dates", &Author{}, "Unknown"},
		{"both dates", &Author{DateOfBirth: &born, DateOfDeath: &died}, "Jan 2nd, 1920 - Apr 6th, 1992"},
		{"living", &Author{DateOfBirth: &born}, "Jan 2nd, 1920 - "},
		{"death only", &Author{DateOfDeath: &died}, "Unknown - Apr 6th, 1992"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.author.Lifespan())
		})
	}
}

func TestOrdinalSuffix(t *testing.T) {
	t.Parallel()

	for day, want := range map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 23: "rd", 31: "st"} {
		assert.Equal(t, want, ordinalSuffix(day), "day %d", day)
	}
}

func TestAuthorFormDates(t *testing.T) {
	t.Parallel()

	a := &Author{DateOfBirth: pointerutil.Time(time.Date(1947, time.September, 21, 0, 0, 0, 0, time.UTC))}
	assert.Equal(t, "1947-09-21", a.DateOfBirthForm())
	assert.Empty(t, a.DateOfDeathForm())
}
