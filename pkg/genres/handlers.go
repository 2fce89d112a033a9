package genres

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"golang.org/x/sync/errgroup"
)

const (
	listPath = "/catalog/genres"

	nameTakenMessage = "Genre name already exists"
)

type ListPage struct {
	Title  string
	Genres []*models.Genre
	Page   pagination.Page
}

type DetailPage struct {
	Title string
	Genre *models.Genre
	Books []*models.Book
}

type FormPage struct {
	Title  string
	Genre  *models.Genre
	Errors []validation.FieldError
}

type DeletePage struct {
	Title string
	Genre *models.Genre
	Books []*models.Book
}

type handler struct {
	config       *config.Config
	genreService *Service
	checker      *integrity.Checker
	audit        *audit.Logger
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	params = params.Clamp(h.config.PageSize, h.config.MaxPageSize)
	offset := params.Offset()

	genres, total, err := h.genreService.ListGenresWithTotal(ctx, ListGenresOptions{
		Limit:  &params.Limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "genre_list", &ListPage{
		Title:  "Genre List",
		Genres: genres,
		Page:   pagination.New(params, total),
	})
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var genre *models.Genre
	var books []*models.Book

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genre, err = h.genreService.RetrieveGenre(gctx, RetrieveGenreOptions{ID: &id})
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.genreService.ListBooks(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "genre_detail", &DetailPage{
		Title: "Genre Detail",
		Genre: genre,
		Books: books,
	})
}

func (h *handler) createForm(c echo.Context) error {
	return c.Render(http.StatusOK, "genre_form", &FormPage{
		Title: "Create Genre",
		Genre: &models.Genre{},
	})
}

// create reuses an existing genre of the same name instead of adding a
// duplicate.
func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	draft := &models.Genre{Name: result.Get("name")}

	if !result.Valid() {
		return c.Render(http.StatusOK, "genre_form", &FormPage{
			Title:  "Create Genre",
			Genre:  draft,
			Errors: result.Errors,
		})
	}

	genre, created, err := h.genreService.FindOrCreateGenre(ctx, draft.Name)
	if err != nil {
		return errors.WithStack(err)
	}
	if created {
		h.audit.Record(ctx, models.AuditCategoryGenre, models.AuditOperationCreate, genre)
	} else {
		logger.FromContext(ctx).Info("genre already exists", logger.Data{"genre_id": genre.ID})
	}

	return c.Redirect(http.StatusFound, genre.URL())
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	genre, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "genre_form", &FormPage{
		Title: "Update Genre",
		Genre: genre,
	})
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	genre, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	genre.Name = result.Get("name")

	if result.Valid() {
		taken, err := h.genreService.NameTaken(ctx, genre.Name, genre.ID)
		if err != nil {
			return errors.WithStack(err)
		}
		if taken {
			result.AddError("name", nameTakenMessage)
		}
	}
	if !result.Valid() {
		return h.renderUpdateErrors(c, genre, result.Errors)
	}

	err = h.genreService.UpdateGenre(ctx, genre, UpdateGenreOptions{Columns: []string{"name"}})
	if errors.Is(err, ErrNameTaken) {
		return h.renderUpdateErrors(c, genre, []validation.FieldError{{Field: "name", Message: nameTakenMessage}})
	}
	if err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryGenre, models.AuditOperationUpdate, genre)

	return c.Redirect(http.StatusFound, genre.URL())
}

func (h *handler) renderUpdateErrors(c echo.Context, genre *models.Genre, errs []validation.FieldError) error {
	return c.Render(http.StatusOK, "genre_form", &FormPage{
		Title:  "Update Genre",
		Genre:  genre,
		Errors: errs,
	})
}

func (h *handler) deleteForm(c echo.Context) error {
	genre, check, err := h.loadForDelete(c, c.Param("id"))
	if err != nil {
		return err
	}
	if genre == nil {
		return c.Redirect(http.StatusFound, listPath)
	}

	return c.Render(http.StatusOK, "genre_delete", &DeletePage{
		Title: "Delete Genre",
		Genre: genre,
		Books: check.BlockingBooks,
	})
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	genre, check, err := h.loadForDelete(c, id)
	if err != nil {
		return err
	}
	if genre == nil {
		return c.Redirect(http.StatusFound, listPath)
	}
	if !check.Allowed {
		logger.FromContext(ctx).Info("genre delete blocked", logger.Data{
			"genre_id": id,
			"books":    len(check.BlockingBooks),
		})
		return c.Render(http.StatusOK, "genre_delete", &DeletePage{
			Title: "Delete Genre",
			Genre: genre,
			Books: check.BlockingBooks,
		})
	}

	if err := h.genreService.DeleteGenre(ctx, id); err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryGenre, models.AuditOperationDelete, genre)

	return c.Redirect(http.StatusFound, listPath)
}

// loadForDelete returns a nil genre when there is nothing to delete.
func (h *handler) loadForDelete(c echo.Context, id string) (*models.Genre, *integrity.DeleteCheck, error) {
	ctx := c.Request().Context()

	check, err := h.checker.CanDelete(ctx, integrity.EntityGenre, id)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !check.Found {
		return nil, check, nil
	}

	genre, err := h.genreService.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
	if errors.Is(err, errcodes.NotFound("Genre")) {
		return nil, check, nil
	}
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return genre, check, nil
}

func (h *handler) validate(c echo.Context) (*validation.Result, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, errcodes.MalformedPayload()
	}
	result, err := genreSchema.Validate(c.Request().Context(), form)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return result, nil
}
