package genres

import "github.com/locallibrary/catalog/pkg/validation"

var genreSchema = validation.Schema{
	{Name: "name", Sanitize: "trim,escape", Rules: []validation.Rule{
		validation.Required("Genre name required"),
		validation.Length(1, 100, "Genre name must be between 1 and 100 in length"),
	}},
}
