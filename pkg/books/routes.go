package books

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/genres"
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, auditLogger *audit.Logger) {
	checker := integrity.NewChecker(db)

	h := &handler{
		config:        cfg,
		bookService:   NewService(db),
		authorService: authors.NewService(db),
		genreService:  genres.NewService(db),
		checker:       checker,
		schema:        bookSchema(checker),
		audit:         auditLogger,
	}

	write := auth.Require(auth.CategoryCatalogWrite)

	g.GET("/books", h.list)
	g.GET("/book/create", h.createForm, write)
	g.POST("/book/create", h.create, write)
	g.GET("/book/:id", h.retrieve)
	g.GET("/book/:id/update", h.updateForm, write)
	g.POST("/book/:id/update", h.update, write)
	g.GET("/book/:id/delete", h.deleteForm, write)
	g.POST("/book/:id/delete", h.delete, write)
}
