package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, auditLogger *audit.Logger) {
	h := &handler{
		config:       cfg,
		genreService: NewService(db),
		checker:      integrity.NewChecker(db),
		audit:        auditLogger,
	}

	write := auth.Require(auth.CategoryCatalogWrite)

	g.GET("/genres", h.list)
	g.GET("/genre/create", h.createForm, write)
	g.POST("/genre/create", h.create, write)
	g.GET("/genre/:id", h.retrieve)
	g.GET("/genre/:id/update", h.updateForm, write)
	g.POST("/genre/:id/update", h.update, write)
	g.GET("/genre/:id/delete", h.deleteForm, write)
	g.POST("/genre/:id/delete", h.delete, write)
}
