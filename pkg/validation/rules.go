package validation

import (
	"context"
	"net/url"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// DateLayout is the calendar date layout used by HTML date inputs.
const DateLayout = "2006-01-02"

// ISO8601Tag is the validator tag accepting a date or an RFC 3339 timestamp.
const ISO8601Tag = "datetime=2006-01-02|datetime=2006-01-02T15:04:05Z07:00"

var validate = validator.New()

// CheckFunc decides whether a single value passes. values holds every
// sanitized field of the form.
type CheckFunc func(ctx context.Context, value string, values url.Values) (bool, error)

// ListCheckFunc decides whether the complete list of a multi-value field
// passes.
type ListCheckFunc func(ctx context.Context, items []string, values url.Values) (bool, error)

// Rule is one check with the message reported when it fails.
type Rule struct {
	message string
	check   CheckFunc
	list    ListCheckFunc
}

func (r Rule) Message() string {
	return r.message
}

// Required fails on blank values. On multi-value fields it requires at least
// one entry.
func Required(msg string) Rule {
	return Rule{message: msg, list: func(_ context.Context, items []string, _ url.Values) (bool, error) {
		return !isBlank(items), nil
	}}
}

// Length bounds the number of characters. A max of zero means unbounded.
func Length(min, max int, msg string) Rule {
	return Custom(msg, func(_ context.Context, value string, _ url.Values) (bool, error) {
		n := utf8.RuneCountInString(value)
		return n >= min && (max == 0 || n <= max), nil
	})
}

func Matches(re *regexp.Regexp, msg string) Rule {
	return Custom(msg, func(_ context.Context, value string, _ url.Values) (bool, error) {
		return re.MatchString(value), nil
	})
}

// Tag checks the value with a go-playground/validator tag such as "email".
func Tag(tag, msg string) Rule {
	return Custom(msg, func(ctx context.Context, value string, _ url.Values) (bool, error) {
		err := validate.VarCtx(ctx, value, tag)
		if err == nil {
			return true, nil
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return false, nil
		}
		return false, errors.WithStack(err)
	})
}

func OneOf(msg string, allowed ...string) Rule {
	return Custom(msg, func(_ context.Context, value string, _ url.Values) (bool, error) {
		for _, a := range allowed {
			if value == a {
				return true, nil
			}
		}
		return false, nil
	})
}

// EqualsField requires the value to equal the sanitized value of another
// field.
func EqualsField(other, msg string) Rule {
	return Custom(msg, func(_ context.Context, value string, values url.Values) (bool, error) {
		return value == values.Get(other), nil
	})
}

func Custom(msg string, fn CheckFunc) Rule {
	return Rule{message: msg, check: fn}
}

// Exists requires lookup to find a stored record for the value. Errors from
// lookup abort validation.
func Exists(msg string, lookup func(ctx context.Context, id string) (bool, error)) Rule {
	return Custom(msg, func(ctx context.Context, value string, _ url.Values) (bool, error) {
		return lookup(ctx, value)
	})
}

// AllExist is the multi-value variant of Exists. lookup receives the whole
// list at once.
func AllExist(msg string, lookup func(ctx context.Context, ids []string) (bool, error)) Rule {
	return Rule{message: msg, list: func(ctx context.Context, items []string, _ url.Values) (bool, error) {
		if len(items) == 0 {
			return true, nil
		}
		return lookup(ctx, items)
	}}
}
