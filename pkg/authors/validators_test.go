package authors

import (
	"context"
	"net/url"
	"testing"

	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form url.Values
		want []validation.FieldError
	}{
		{
			name: "valid with dates",
			form: url.Values{"first_name": {"Ursula K."}, "family_name": {"Le Guin"}, "date_of_birth": {"1929-10-21"}, "date_of_death": {"2018-01-22"}},
		},
		{
			name: "family name only",
			form: url.Values{"family_name": {"Homer"}},
		},
		{
			name: "blank family name",
			form: url.Values{"first_name": {"Frank"}, "family_name": {"   "}},
			want: []validation.FieldError{{Field: "family_name", Message: "Family name should not be empty"}},
		},
		{
			name: "illegal characters",
			form: url.Values{"first_name": {"<b>"}, "family_name": {"Herbert1"}},
			want: []validation.FieldError{
				{Field: "first_name", Message: "Illegal First Name"},
				{Field: "family_name", Message: "Illegal Family Name"},
			},
		},
		{
			name: "invalid dates",
			form: url.Values{"family_name": {"Herbert"}, "date_of_birth": {"yesterday"}, "date_of_death": {"1986-02-30"}},
			want: []validation.FieldError{
				{Field: "date_of_birth", Message: "Invalid date of birth"},
				{Field: "date_of_death", Message: "Invalid date of death"},
			},
		},
		{
			name: "died before born",
			form: url.Values{"family_name": {"Herbert"}, "date_of_birth": {"1920-10-08"}, "date_of_death": {"1910-01-01"}},
			want: []validation.FieldError{{Field: "date_of_death", Message: "Date of death must be after date of birth"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := authorSchema.Validate(context.Background(), tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Errors)
		})
	}
}
