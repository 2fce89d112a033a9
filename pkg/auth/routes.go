package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers the login and logout routes.
func RegisterRoutesWithGroup(g *echo.Group, authService *Service) {
	h := &handler{
		authService: authService,
	}

	g.GET("/login", h.loginForm)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
}
