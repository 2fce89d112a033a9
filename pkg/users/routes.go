package users

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the self-service registration routes.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, auditLogger *audit.Logger) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
		audit:       auditLogger,
	}

	g.GET("/register", h.registerForm)
	g.POST("/register", h.register)

	return userService
}
