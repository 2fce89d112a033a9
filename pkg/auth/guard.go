package auth

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
)

// RouteCategory groups routes that share an access policy.
type RouteCategory string

const (
	// CategoryRead covers catalog browsing and is open to everyone.
	CategoryRead RouteCategory = "read"
	// CategoryCatalogWrite covers every create, update and delete route of
	// the catalog entities.
	CategoryCatalogWrite RouteCategory = "catalog_write"
)

// LoginPath is where anonymous users are sent when a route needs a login.
const LoginPath = "/users/login"

// categoryRoles lists the roles allowed per category. A nil list means the
// category is public.
var categoryRoles = map[RouteCategory][]models.Role{
	CategoryRead:         nil,
	CategoryCatalogWrite: {models.RoleAdmin, models.RoleLibrarian},
}

// Allowed reports whether user may access routes of the category. A nil user
// is anonymous.
func Allowed(category RouteCategory, user *models.User) bool {
	roles, ok := categoryRoles[category]
	if !ok {
		return false
	}
	if roles == nil {
		return true
	}
	return user != nil && user.HasRole(roles...)
}

// Require gates a route behind a category. Anonymous users are redirected to
// the login page and logged-in users without an allowed role get a 403. It
// must run after LoadPrincipal.
func Require(category RouteCategory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if Allowed(category, user) {
				return next(c)
			}
			if user == nil {
				target := LoginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}
			return errcodes.Forbidden("Changing the catalog")
		}
	}
}
