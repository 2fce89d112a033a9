package authors

import (
	"net/http"
	"net/url"

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

const listPath = "/catalog/authors"

type ListPage struct {
	Title   string
	Authors []*models.Author
	Page    pagination.Page
}

type DetailPage struct {
	Title  string
	Author *models.Author
	Books  []*models.Book
}

type FormPage struct {
	Title  string
	Author *models.Author
	Errors []validation.FieldError
	// Values holds the sanitized submission when it is redisplayed with
	// errors, so dates that failed to parse come back as typed.
	Values url.Values
}

func (p *FormPage) DateOfBirth() string {
	if p.Values != nil {
		return p.Values.Get("date_of_birth")
	}
	return p.Author.DateOfBirthForm()
}

func (p *FormPage) DateOfDeath() string {
	if p.Values != nil {
		return p.Values.Get("date_of_death")
	}
	return p.Author.DateOfDeathForm()
}

// DeletePage lists the books that keep the author from being deleted.
type DeletePage struct {
	Title  string
	Author *models.Author
	Books  []*models.Book
}

type handler struct {
	config        *config.Config
	authorService *Service
	checker       *integrity.Checker
	audit         *audit.Logger
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	params = params.Clamp(h.config.PageSize, h.config.MaxPageSize)
	offset := params.Offset()

	authors, total, err := h.authorService.ListAuthorsWithTotal(ctx, ListAuthorsOptions{
		Limit:  &params.Limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "author_list", &ListPage{
		Title:   "Author List",
		Authors: authors,
		Page:    pagination.New(params, total),
	})
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var author *models.Author
	var books []*models.Book

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		author, err = h.authorService.RetrieveAuthor(gctx, RetrieveAuthorOptions{ID: &id})
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.authorService.ListBooks(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "author_detail", &DetailPage{
		Title:  "Author Detail",
		Author: author,
		Books:  books,
	})
}

func (h *handler) createForm(c echo.Context) error {
	return c.Render(http.StatusOK, "author_form", &FormPage{
		Title:  "Create Author",
		Author: &models.Author{},
	})
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	author := &models.Author{}
	applyResult(author, result)

	if !result.Valid() {
		return c.Render(http.StatusOK, "author_form", &FormPage{
			Title:  "Create Author",
			Author: author,
			Errors: result.Errors,
			Values: result.Values,
		})
	}

	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryAuthor, models.AuditOperationCreate, author)

	return c.Redirect(http.StatusFound, author.URL())
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "author_form", &FormPage{
		Title:  "Update Author",
		Author: author,
	})
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	applyResult(author, result)

	if !result.Valid() {
		return c.Render(http.StatusOK, "author_form", &FormPage{
			Title:  "Update Author",
			Author: author,
			Errors: result.Errors,
			Values: result.Values,
		})
	}

	err = h.authorService.UpdateAuthor(ctx, author, UpdateAuthorOptions{
		Columns: []string{"first_name", "family_name", "date_of_birth", "date_of_death"},
	})
	if err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryAuthor, models.AuditOperationUpdate, author)

	return c.Redirect(http.StatusFound, author.URL())
}

func (h *handler) deleteForm(c echo.Context) error {
	author, check, err := h.loadForDelete(c, c.Param("id"))
	if err != nil {
		return err
	}
	if author == nil {
		return c.Redirect(http.StatusFound, listPath)
	}

	return c.Render(http.StatusOK, "author_delete", &DeletePage{
		Title:  "Delete Author",
		Author: author,
		Books:  check.BlockingBooks,
	})
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	author, check, err := h.loadForDelete(c, id)
	if err != nil {
		return err
	}
	if author == nil {
		return c.Redirect(http.StatusFound, listPath)
	}
	if !check.Allowed {
		logger.FromContext(ctx).Info("author delete blocked", logger.Data{
			"author_id": id,
			"books":     len(check.BlockingBooks),
		})
		return c.Render(http.StatusOK, "author_delete", &DeletePage{
			Title:  "Delete Author",
			Author: author,
			Books:  check.BlockingBooks,
		})
	}

	if err := h.authorService.DeleteAuthor(ctx, id); err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryAuthor, models.AuditOperationDelete, author)

	return c.Redirect(http.StatusFound, listPath)
}

// loadForDelete returns a nil author when there is nothing to delete.
func (h *handler) loadForDelete(c echo.Context, id string) (*models.Author, *integrity.DeleteCheck, error) {
	ctx := c.Request().Context()

	check, err := h.checker.CanDelete(ctx, integrity.EntityAuthor, id)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !check.Found {
		return nil, check, nil
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
	if errors.Is(err, errcodes.NotFound("Author")) {
		return nil, check, nil
	}
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return author, check, nil
}

func (h *handler) validate(c echo.Context) (*validation.Result, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, errcodes.MalformedPayload()
	}
	result, err := authorSchema.Validate(c.Request().Context(), form)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return result, nil
}

// applyResult copies the submitted fields onto author. Dates that do not
// parse are left empty.
func applyResult(author *models.Author, result *validation.Result) {
	author.FirstName = result.Get("first_name")
	author.FamilyName = result.Get("family_name")
	author.DateOfBirth, _ = result.Date("date_of_birth")
	author.DateOfDeath, _ = result.Date("date_of_death")
}
