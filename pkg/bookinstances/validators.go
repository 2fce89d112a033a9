package bookinstances

import (
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/locallibrary/catalog/pkg/validation"
)

func bookInstanceSchema(checker *integrity.Checker) validation.Schema {
	schema := validation.Schema{
		{Name: "book", Sanitize: "trim", Rules: []validation.Rule{
			validation.Required("Book must be specified"),
			validation.Exists("Cannot find book", checker.BookExists),
		}},
		{Name: "imprint", Sanitize: "trim,escape", Rules: []validation.Rule{
			validation.Length(1, 100, "Imprint must be non-empty and with length under 100"),
		}},
		{Name: "due_back", Sanitize: "trim", Optional: true, Rules: []validation.Rule{
			validation.Tag(validation.ISO8601Tag, "Invalid due back date"),
		}},
	}
	return append(schema, lifecycleFields(checker)...)
}
