package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/testutils"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestEcho(t *testing.T) (*echo.Echo, *testutils.Renderer, *bun.DB) {
	t.Helper()

	db := testutils.NewDB(t)
	e := echo.New()
	r := testutils.NewRenderer()
	e.Renderer = r
	RegisterRoutesWithGroup(e.Group("/users"), db, audit.NewLogger(audit.NewService(db)))
	return e, r, db
}

func register(e *echo.Echo, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validRegistration() url.Values {
	return url.Values{
		"first_name": {"Mary-Ann"},
		"last_name":  {"Shelley"},
		"username":   {"mshelley"},
		"email":      {" MShelley@Example.com "},
		"password":   {"frankenstein"},
		"password2":  {"frankenstein"},
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	e, _, db := newTestEcho(t)

	rec := register(e, validRegistration())
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/login", rec.Header().Get(echo.HeaderLocation))

	user, err := NewService(db).RetrieveByUsername(context.Background(), "mshelley")
	require.NoError(t, err)
	assert.Equal(t, "mshelley@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	e, r, _ := newTestEcho(t)

	form := validRegistration()
	form.Set("username", "ab")
	form.Set("password2", "frankenstien")

	rec := register(e, form)
	assert.Equal(t, http.StatusOK, rec.Code)

	render, ok := r.Last()
	require.True(t, ok)
	page := render.Data.(*RegisterPage)
	assert.Equal(t, []validation.FieldError{
		{Field: "username", Message: "Username must be between 4 and 40 characters long"},
		{Field: "password2", Message: "Passwords do not match"},
	}, page.Errors)
	assert.Equal(t, "Mary-Ann", page.User.FirstName)
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	e, r, db := newTestEcho(t)
	testutils.CreateUser(t, db, "mshelley", models.RoleUser)

	rec := register(e, validRegistration())
	assert.Equal(t, http.StatusOK, rec.Code)

	render, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "register", render.Name)
	assert.Equal(t, DuplicateUsername, render.Data.(*RegisterPage).Dup)
}
