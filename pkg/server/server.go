package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/bookinstances"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/catalog"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/genres"
	"github.com/locallibrary/catalog/pkg/sessions"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/locallibrary/catalog/pkg/views"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, sessionStore sessions.Store) (*http.Server, error) {
	e, err := newEcho(cfg, db, sessionStore)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, sessionStore sessions.Store) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	renderer, err := views.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Renderer = renderer

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)

	authService := auth.NewService(db, sessionStore, cfg.SessionSecret, cfg.SessionMaxAge)
	authMiddleware := auth.NewMiddleware(authService)
	e.Use(authMiddleware.LoadPrincipal)

	auditLogger := audit.NewLogger(audit.NewService(db))

	usersGroup := e.Group("/users")
	auth.RegisterRoutesWithGroup(usersGroup, authService)
	users.RegisterRoutesWithGroup(usersGroup, db, auditLogger)

	catalogGroup := e.Group("/catalog")
	catalog.RegisterRoutesWithGroup(catalogGroup, db)
	authors.RegisterRoutesWithGroup(catalogGroup, db, cfg, auditLogger)
	genres.RegisterRoutesWithGroup(catalogGroup, db, cfg, auditLogger)
	books.RegisterRoutesWithGroup(catalogGroup, db, cfg, auditLogger)
	bookinstances.RegisterRoutesWithGroup(catalogGroup, db, cfg, auditLogger)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/catalog")
	})

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler(cfg.Development).Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
