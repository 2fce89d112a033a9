package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/models"
)

// ContextKeyUser is the echo context key holding the current user.
const ContextKeyUser = "user"

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// LoadPrincipal resolves the session cookie once per request and stores the
// user in the context. Anonymous requests carry no user, and a cookie that no
// longer resolves is cleared.
func (m *Middleware) LoadPrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		user, err := m.authService.ResolvePrincipal(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}
		if user == nil {
			clearCookie(c)
			return next(c)
		}

		c.Set(ContextKeyUser, user)
		return next(c)
	}
}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(ContextKeyUser).(*models.User)
	return user
}

func setCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(c echo.Context) {
	setCookie(c, "", -1)
}
