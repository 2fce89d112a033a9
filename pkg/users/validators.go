package users

import (
	"regexp"

	"github.com/locallibrary/catalog/pkg/validation"
)

var (
	personNameRE = regexp.MustCompile(`^[a-zA-Z-]+$`)
	usernameRE   = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
)

var registerSchema = validation.Schema{
	{Name: "first_name", Sanitize: "trim,escape", Rules: []validation.Rule{
		validation.Length(1, 100, "First name must be between 1 and 100 characters long"),
		validation.Matches(personNameRE, "First name must only contain letters and hyphen"),
	}},
	{Name: "last_name", Sanitize: "trim,escape", Rules: []validation.Rule{
		validation.Length(1, 100, "Last name must be between 1 and 100 characters long"),
		validation.Matches(personNameRE, "Last name must only contain letters and hyphen"),
	}},
	{Name: "username", Sanitize: "trim", Rules: []validation.Rule{
		validation.Length(4, 40, "Username must be between 4 and 40 characters long"),
		validation.Tag("ascii", "Username contains Illegal Characters"),
		validation.Matches(usernameRE, "Username contains Illegal Characters"),
	}},
	{Name: "email", Sanitize: "trim,lcase", Rules: []validation.Rule{
		validation.Tag("email", "Invalid email"),
	}},
	{Name: "password", Rules: []validation.Rule{
		validation.Length(8, 0, "Password must be at least 8 characters long"),
	}},
	{Name: "password2", Rules: []validation.Rule{
		validation.EqualsField("password", "Passwords do not match"),
	}},
}
