package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	admin := &models.User{Role: models.RoleAdmin}
	librarian := &models.User{Role: models.RoleLibrarian}
	reader := &models.User{Role: models.RoleUser}

	assert.True(t, Allowed(CategoryRead, nil))
	assert.True(t, Allowed(CategoryRead, reader))

	assert.False(t, Allowed(CategoryCatalogWrite, nil))
	assert.False(t, Allowed(CategoryCatalogWrite, reader))
	assert.True(t, Allowed(CategoryCatalogWrite, librarian))
	assert.True(t, Allowed(CategoryCatalogWrite, admin))

	assert.False(t, Allowed(RouteCategory("unknown"), admin))
}

func TestRequire(t *testing.T) {
	t.Parallel()

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	run := func(user *models.User) (*httptest.ResponseRecorder, error) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/catalog/book/create", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if user != nil {
			c.Set(ContextKeyUser, user)
		}
		return rec, Require(CategoryCatalogWrite)(ok)(c)
	}

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		rec, err := run(nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/users/login?next=%2Fcatalog%2Fbook%2Fcreate", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		_, err := run(&models.User{Role: models.RoleUser})
		require.Error(t, err)
		var e *errcodes.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, http.StatusForbidden, e.HTTPCode)
	})

	t.Run("librarian passes", func(t *testing.T) {
		rec, err := run(&models.User{Role: models.RoleLibrarian})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
