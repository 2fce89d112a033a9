package authors

import (
	"context"
	"net/url"
	"regexp"

	"github.com/locallibrary/catalog/pkg/validation"
)

// Letters (of any script), spaces, periods, apostrophes and hyphens.
var authorNameRE = regexp.MustCompile(`^[\p{L}\p{M} .'-]+$`)

var authorSchema = validation.Schema{
	{Name: "first_name", Sanitize: "trim", Optional: true, Rules: []validation.Rule{
		validation.Length(0, 100, "First name should be no more than 100 characters long"),
		validation.Matches(authorNameRE, "Illegal First Name"),
	}},
	{Name: "family_name", Sanitize: "trim", Rules: []validation.Rule{
		validation.Required("Family name should not be empty"),
		validation.Length(1, 100, "Family name should be no more than 100 characters long"),
		validation.Matches(authorNameRE, "Illegal Family Name"),
	}},
	{Name: "date_of_birth", Sanitize: "trim", Optional: true, Rules: []validation.Rule{
		validation.Tag(validation.ISO8601Tag, "Invalid date of birth"),
	}},
	{Name: "date_of_death", Sanitize: "trim", Optional: true, Rules: []validation.Rule{
		validation.Tag(validation.ISO8601Tag, "Invalid date of death"),
		validation.Custom("Date of death must be after date of birth", diedAfterBirth),
	}},
}

// diedAfterBirth only compares two valid dates. A missing or malformed birth
// date is reported on its own field.
func diedAfterBirth(_ context.Context, value string, values url.Values) (bool, error) {
	born, err := validation.ParseDate(values.Get("date_of_birth"))
	if err != nil {
		return true, nil
	}
	died, err := validation.ParseDate(value)
	if err != nil {
		return true, nil
	}
	return !died.Before(born), nil
}
