// Package validation evaluates submitted form values against an ordered
// schema of fields. Each field is sanitized first, then checked rule by rule,
// and the first failing rule of every field contributes one error message.
package validation

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
)

// FieldError is a single user-facing validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// Field describes how one form field is normalized and validated.
type Field struct {
	Name string
	// Multi fields may carry any number of values. An absent key becomes an
	// empty list and a scalar becomes a one-element list.
	Multi bool
	// Sanitize is a comma separated list of modifiers (e.g. "trim,escape").
	// Rules see the value after every modifier except escape, which is applied
	// once the rules have run so lengths count characters as typed.
	Sanitize string
	// Optional fields skip their rules when blank.
	Optional bool
	Rules    []Rule
}

// Schema is an ordered list of fields. Errors are reported in schema order.
type Schema []Field

// Result holds the sanitized values of every field in the schema along with
// the collected errors. Values are always populated so that a form can be
// redisplayed with the user's input.
type Result struct {
	Values url.Values
	Errors []FieldError
}

// Validate sanitizes and checks form against the schema. A non-nil error is a
// hard failure (e.g. the store behind an Exists rule is unavailable) and is
// distinct from the user-facing failures collected in Result.Errors.
func (s Schema) Validate(ctx context.Context, form url.Values) (*Result, error) {
	checked := url.Values{}
	for _, f := range s {
		values := normalize(form, f)
		before, _ := splitEscape(f.Sanitize)
		for i := range values {
			v, err := sanitize(ctx, values[i], before)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to sanitize %s", f.Name)
			}
			values[i] = v
		}
		if f.Multi {
			values = compact(values)
		}
		checked[f.Name] = values
	}

	result := &Result{Values: url.Values{}}
	for _, f := range s {
		msg, err := checkField(ctx, f, checked)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			result.Errors = append(result.Errors, FieldError{Field: f.Name, Message: msg})
		}

		values := checked[f.Name]
		if _, escape := splitEscape(f.Sanitize); escape {
			escaped := make([]string, len(values))
			for i, v := range values {
				if escaped[i], err = sanitize(ctx, v, escapeTag); err != nil {
					return nil, errors.Wrapf(err, "failed to sanitize %s", f.Name)
				}
			}
			values = escaped
		}
		result.Values[f.Name] = values
	}

	return result, nil
}

// splitEscape removes the escape modifier from tags and reports whether it
// was present.
func splitEscape(tags string) (string, bool) {
	if tags == "" {
		return "", false
	}
	kept := make([]string, 0, 2)
	found := false
	for _, tag := range strings.Split(tags, ",") {
		if tag == escapeTag {
			found = true
			continue
		}
		kept = append(kept, tag)
	}
	return strings.Join(kept, ","), found
}

func checkField(ctx context.Context, f Field, values url.Values) (string, error) {
	items := values[f.Name]
	if f.Optional && isBlank(items) {
		return "", nil
	}
	if !f.Multi {
		items = []string{values.Get(f.Name)}
	}
	for _, rule := range f.Rules {
		if rule.list != nil {
			ok, err := rule.list(ctx, items, values)
			if err != nil {
				return "", errors.WithStack(err)
			}
			if !ok {
				return rule.message, nil
			}
			continue
		}
		for _, item := range items {
			ok, err := rule.check(ctx, item, values)
			if err != nil {
				return "", errors.WithStack(err)
			}
			if !ok {
				return rule.message, nil
			}
		}
	}
	return "", nil
}

func normalize(form url.Values, f Field) []string {
	raw := form[f.Name]
	if !f.Multi {
		if len(raw) == 0 {
			return []string{""}
		}
		return []string{raw[0]}
	}
	// Browsers and some clients join multi-selects with commas.
	values := make([]string, 0, len(raw))
	for _, r := range raw {
		values = append(values, strings.Split(r, ",")...)
	}
	return values
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isBlank(items []string) bool {
	for _, v := range items {
		if v != "" {
			return false
		}
	}
	return true
}

// Valid reports whether no field failed.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Get returns the sanitized single value of a field.
func (r *Result) Get(name string) string {
	return r.Values.Get(name)
}

// List returns the sanitized values of a multi-value field, never nil.
func (r *Result) List(name string) []string {
	values := r.Values[name]
	if values == nil {
		return []string{}
	}
	return values
}

// ErrorFor returns the message reported for the named field, if any.
func (r *Result) ErrorFor(name string) string {
	for _, e := range r.Errors {
		if e.Field == name {
			return e.Message
		}
	}
	return ""
}

// AddError appends an error discovered after schema validation, such as a
// cross-field or uniqueness check.
func (r *Result) AddError(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Date parses the named field as an ISO-8601 date. A blank field yields nil.
func (r *Result) Date(name string) (*time.Time, error) {
	v := r.Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := ParseDate(v)
	if err != nil {
		return nil, err
	}
	return pointerutil.Time(t), nil
}

// ParseDate accepts either a calendar date or a full RFC 3339 timestamp.
func ParseDate(v string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q", v)
	}
	return t.UTC(), nil
}
