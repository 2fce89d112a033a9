package errcodes

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGeneratePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantSlug string
	}{
		{
			name:     "not found",
			err:      errors.WithStack(NotFound("Book")),
			wantCode: http.StatusNotFound,
			wantMsg:  "Book not found.",
			wantSlug: "not_found",
		},
		{
			name:     "forbidden",
			err:      Forbidden("Editing the catalog"),
			wantCode: http.StatusForbidden,
			wantMsg:  "Editing the catalog is not allowed.",
			wantSlug: "forbidden",
		},
		{
			name:     "echo error",
			err:      echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantCode: http.StatusMethodNotAllowed,
			wantMsg:  "Method Not Allowed",
			wantSlug: "method_not_allowed",
		},
		{
			name:     "untyped error",
			err:      errors.New("disk I/O error"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Something went wrong. Please try again later.",
			wantSlug: "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page := NewHandler(false).generatePage(tt.err)
			assert.Equal(t, tt.wantCode, page.StatusCode)
			assert.Equal(t, tt.wantMsg, page.Message)
			assert.Equal(t, tt.wantSlug, page.Code)
			assert.Empty(t, page.Detail)
		})
	}
}

func TestGeneratePage_DevelopmentDetail(t *testing.T) {
	t.Parallel()

	page := NewHandler(true).generatePage(errors.New("disk I/O error"))
	assert.Equal(t, "Something went wrong. Please try again later.", page.Message)
	assert.Contains(t, page.Detail, "disk I/O error")
}

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(NotFound("Author"))
	assert.True(t, errors.Is(err, NotFound("Author")))
	assert.False(t, errors.Is(err, NotFound("Genre")))

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusNotFound, e.HTTPCode)
}
