package books

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/genres"
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/locallibrary/catalog/pkg/isbn"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"golang.org/x/sync/errgroup"
)

const listPath = "/catalog/books"

type ListPage struct {
	Title string
	Books []*models.Book
	Page  pagination.Page
}

type DetailPage struct {
	Title     string
	Book      *models.Book
	Instances []*models.BookInstance
}

// FormPage carries the choices for the author select and genre checkboxes.
// Genres in the book's genre list are marked Selected.
type FormPage struct {
	Title   string
	Book    *models.Book
	Authors []*models.Author
	Genres  []*models.Genre
	Errors  []validation.FieldError
}

type DeletePage struct {
	Title     string
	Book      *models.Book
	Instances []*models.BookInstance
}

type handler struct {
	config        *config.Config
	bookService   *Service
	authorService *authors.Service
	genreService  *genres.Service
	checker       *integrity.Checker
	schema        validation.Schema
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

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:  &params.Limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "book_list", &ListPage{
		Title: "Book List",
		Books: books,
		Page:  pagination.New(params, total),
	})
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var book *models.Book
	var instances []*models.BookInstance

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		book, err = h.bookService.RetrieveBook(gctx, RetrieveBookOptions{ID: &id})
		return err
	})
	g.Go(func() error {
		var err error
		instances, err = h.bookService.ListInstances(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "book_detail", &DetailPage{
		Title:     book.Title,
		Book:      book,
		Instances: instances,
	})
}

func (h *handler) createForm(c echo.Context) error {
	return h.renderForm(c, "Create Book", &models.Book{}, nil)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	book := &models.Book{}
	applyResult(book, result)

	if !result.Valid() {
		return h.renderForm(c, "Create Book", book, result.Errors)
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryBook, models.AuditOperationCreate, book)

	return c.Redirect(http.StatusFound, book.URL())
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderForm(c, "Update Book", book, nil)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	applyResult(book, result)

	if !result.Valid() {
		return h.renderForm(c, "Update Book", book, result.Errors)
	}

	err = h.bookService.UpdateBook(ctx, book, UpdateBookOptions{
		Columns:      []string{"title", "author_id", "summary", "isbn"},
		UpdateGenres: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryBook, models.AuditOperationUpdate, book)

	return c.Redirect(http.StatusFound, book.URL())
}

func (h *handler) deleteForm(c echo.Context) error {
	book, check, err := h.loadForDelete(c, c.Param("id"))
	if err != nil {
		return err
	}
	if book == nil {
		return c.Redirect(http.StatusFound, listPath)
	}

	return c.Render(http.StatusOK, "book_delete", &DeletePage{
		Title:     "Delete Book",
		Book:      book,
		Instances: check.BlockingInstances,
	})
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	book, check, err := h.loadForDelete(c, id)
	if err != nil {
		return err
	}
	if book == nil {
		return c.Redirect(http.StatusFound, listPath)
	}
	if !check.Allowed {
		logger.FromContext(ctx).Info("book delete blocked", logger.Data{
			"book_id":   id,
			"instances": len(check.BlockingInstances),
		})
		return c.Render(http.StatusOK, "book_delete", &DeletePage{
			Title:     "Delete Book",
			Book:      book,
			Instances: check.BlockingInstances,
		})
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryBook, models.AuditOperationDelete, book)

	return c.Redirect(http.StatusFound, listPath)
}

// loadForDelete returns a nil book when there is nothing to delete.
func (h *handler) loadForDelete(c echo.Context, id string) (*models.Book, *integrity.DeleteCheck, error) {
	ctx := c.Request().Context()

	check, err := h.checker.CanDelete(ctx, integrity.EntityBook, id)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !check.Found {
		return nil, check, nil
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if errors.Is(err, errcodes.NotFound("Book")) {
		return nil, check, nil
	}
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return book, check, nil
}

// renderForm fetches the author and genre choices concurrently and renders
// the book form.
func (h *handler) renderForm(c echo.Context, title string, book *models.Book, errs []validation.FieldError) error {
	ctx := c.Request().Context()

	allAuthors, allGenres, err := h.formChoices(ctx)
	if err != nil {
		return err
	}

	selected := map[string]struct{}{}
	for _, id := range book.GenreIDs() {
		selected[id] = struct{}{}
	}
	for _, g := range allGenres {
		_, g.Selected = selected[g.ID]
	}

	return c.Render(http.StatusOK, "book_form", &FormPage{
		Title:   title,
		Book:    book,
		Authors: allAuthors,
		Genres:  allGenres,
		Errors:  errs,
	})
}

func (h *handler) formChoices(ctx context.Context) ([]*models.Author, []*models.Genre, error) {
	var allAuthors []*models.Author
	var allGenres []*models.Genre

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allAuthors, err = h.authorService.ListAuthors(gctx, authors.ListAuthorsOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		allGenres, err = h.genreService.ListGenres(gctx, genres.ListGenresOptions{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return allAuthors, allGenres, nil
}

func (h *handler) validate(c echo.Context) (*validation.Result, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, errcodes.MalformedPayload()
	}
	result, err := h.schema.Validate(c.Request().Context(), form)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return result, nil
}

// applyResult copies the submitted fields onto book. The submitted genre ids
// replace any loaded genres. A well-formed ISBN is stored normalized, anything
// else as entered.
func applyResult(book *models.Book, result *validation.Result) {
	book.Title = result.Get("title")
	book.AuthorID = result.Get("author")
	book.Author = nil
	book.Summary = result.Get("summary")
	book.ISBN = result.Get("isbn")
	if isbn.Valid(book.ISBN) {
		book.ISBN = isbn.Normalize(book.ISBN)
	}
	book.Genres = nil
	book.GenreIDList = result.List("genre")
}
