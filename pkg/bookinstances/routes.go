package bookinstances

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book copy routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, auditLogger *audit.Logger) {
	checker := integrity.NewChecker(db)

	h := &handler{
		config:              cfg,
		bookInstanceService: NewService(db),
		bookService:         books.NewService(db),
		userService:         users.NewService(db),
		checker:             checker,
		schema:              bookInstanceSchema(checker),
		audit:               auditLogger,
	}

	write := auth.Require(auth.CategoryCatalogWrite)

	g.GET("/bookinstances", h.list)
	g.GET("/bookinstance/create", h.createForm, write)
	g.POST("/bookinstance/create", h.create, write)
	g.GET("/bookinstance/:id", h.retrieve)
	g.GET("/bookinstance/:id/update", h.updateForm, write)
	g.POST("/bookinstance/:id/update", h.update, write)
	g.GET("/bookinstance/:id/delete", h.deleteForm, write)
	g.POST("/bookinstance/:id/delete", h.delete, write)
}
