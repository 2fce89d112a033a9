package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers author routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, auditLogger *audit.Logger) {
	h := &handler{
		config:        cfg,
		authorService: NewService(db),
		checker:       integrity.NewChecker(db),
		audit:         auditLogger,
	}

	write := auth.Require(auth.CategoryCatalogWrite)

	g.GET("/authors", h.list)
	g.GET("/author/create", h.createForm, write)
	g.POST("/author/create", h.create, write)
	g.GET("/author/:id", h.retrieve)
	g.GET("/author/:id/update", h.updateForm, write)
	g.POST("/author/:id/update", h.update, write)
	g.GET("/author/:id/delete", h.deleteForm, write)
	g.POST("/author/:id/delete", h.delete, write)
}
