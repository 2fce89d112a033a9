package books

import (
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/locallibrary/catalog/pkg/validation"
)

func bookSchema(checker *integrity.Checker) validation.Schema {
	return validation.Schema{
		{Name: "title", Sanitize: "trim,escape", Rules: []validation.Rule{
			validation.Required("Title must not be empty."),
			validation.Length(1, 200, "Title must be no more than 200 characters long"),
		}},
		{Name: "author", Sanitize: "trim", Rules: []validation.Rule{
			validation.Required("Author must not be empty."),
			validation.Exists("Cannot find author", checker.AuthorExists),
		}},
		{Name: "summary", Sanitize: "trim,escape", Rules: []validation.Rule{
			validation.Required("Summary must not be empty."),
		}},
		{Name: "isbn", Sanitize: "trim,escape", Rules: []validation.Rule{
			validation.Required("ISBN must not be empty"),
		}},
		{Name: "genre", Multi: true, Sanitize: "trim", Rules: []validation.Rule{
			validation.AllExist("Cannot find genre", checker.GenresExist),
		}},
	}
}
