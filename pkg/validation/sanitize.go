package validation

import (
	"context"
	"strings"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/pkg/errors"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

var htmlUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#x27;", "'",
	"&#x2F;", "/",
	"&#x5C;", `\`,
	"&#96;", "`",
)

const escapeTag = "escape"

var conform = newConform()

func newConform() *mold.Transformer {
	t := modifiers.New()
	t.Register(escapeTag, escapeModifier)
	return t
}

func escapeModifier(_ context.Context, fl mold.FieldLevel) error {
	fl.Field().SetString(Escape(fl.Field().String()))
	return nil
}

// Escape replaces HTML-significant characters with entities.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Unescape reverses Escape, for redisplaying stored free text.
func Unescape(s string) string {
	return htmlUnescaper.Replace(s)
}

func sanitize(ctx context.Context, value, tags string) (string, error) {
	if tags == "" {
		return value, nil
	}
	if err := conform.Field(ctx, &value, tags); err != nil {
		return "", errors.WithStack(err)
	}
	return value, nil
}
