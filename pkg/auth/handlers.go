package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const defaultRedirect = "/catalog"

// LoginPage is the view-model of the login form.
type LoginPage struct {
	Title    string
	Username string
	Next     string
	Error    string
}

type handler struct {
	authService *Service
}

func (h *handler) loginForm(c echo.Context) error {
	params := LoginQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	return c.Render(http.StatusOK, "login", &LoginPage{Title: "Login", Next: safeRedirect(params.Next)})
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		var e *errcodes.Error
		if errors.As(err, &e) {
			return c.Render(http.StatusOK, "login", &LoginPage{
				Title:    "Login",
				Username: params.Username,
				Next:     safeRedirect(params.Next),
				Error:    e.Message,
			})
		}
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		var e *errcodes.Error
		if errors.As(err, &e) {
			logger.FromContext(ctx).Info("failed login", logger.Data{"username": params.Username})
			return c.Render(http.StatusOK, "login", &LoginPage{
				Title:    "Login",
				Username: params.Username,
				Next:     safeRedirect(params.Next),
				Error:    e.Message,
			})
		}
		return errors.WithStack(err)
	}

	token, err := h.authService.StartSession(ctx, user)
	if err != nil {
		return errors.WithStack(err)
	}
	setCookie(c, token, int(h.authService.MaxAge().Seconds()))

	return c.Redirect(http.StatusFound, safeRedirect(params.Next))
}

func (h *handler) logout(c echo.Context) error {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := h.authService.EndSession(c.Request().Context(), cookie.Value); err != nil {
			return errors.WithStack(err)
		}
	}
	clearCookie(c)
	return c.Redirect(http.StatusFound, defaultRedirect)
}

// safeRedirect only allows local paths so the login form cannot be used as an
// open redirect.
func safeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultRedirect
	}
	return next
}
