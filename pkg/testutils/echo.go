package testutils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/require"
)

// NewEcho returns an echo instance wired like the server (form binder, error
// pages, recording renderer) where every request is made by user. A nil user
// is anonymous.
func NewEcho(t *testing.T, user *models.User) (*echo.Echo, *Renderer) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	r := NewRenderer()
	e.Renderer = r
	e.HTTPErrorHandler = errcodes.NewHandler(true).Handle
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				c.Set("user", user)
			}
			return next(c)
		}
	})
	return e, r
}

func Get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// PostForm submits form url-encoded, as a browser would.
func PostForm(e *echo.Echo, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
