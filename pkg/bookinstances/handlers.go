package bookinstances

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const listPath = "/catalog/bookinstances"

type ListPage struct {
	Title     string
	Instances []*models.BookInstance
	Page      pagination.Page
}

type DetailPage struct {
	Title    string
	Instance *models.BookInstance
}

// FormPage carries the choices for the book and borrower selects.
type FormPage struct {
	Title    string
	Instance *models.BookInstance
	Books    []*models.Book
	Users    []*models.User
	Statuses []models.BookInstanceStatus
	Errors   []validation.FieldError
	// Values holds the sanitized submission when it is redisplayed with
	// errors, so a due date that failed to parse comes back as typed.
	Values url.Values
}

func (p *FormPage) DueBack() string {
	if p.Values != nil {
		return p.Values.Get("due_back")
	}
	if p.Instance.DueBack.IsZero() {
		return ""
	}
	return p.Instance.DueBackForm()
}

type DeletePage struct {
	Title    string
	Instance *models.BookInstance
}

type handler struct {
	config              *config.Config
	bookInstanceService *Service
	bookService         *books.Service
	userService         *users.Service
	checker             *integrity.Checker
	schema              validation.Schema
	audit               *audit.Logger
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	params = params.Clamp(h.config.PageSize, h.config.MaxPageSize)
	offset := params.Offset()

	instances, total, err := h.bookInstanceService.ListBookInstancesWithTotal(ctx, ListBookInstancesOptions{
		Limit:  &params.Limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "bookinstance_list", &ListPage{
		Title:     "Book Instance List",
		Instances: instances,
		Page:      pagination.New(params, total),
	})
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	inst, err := h.bookInstanceService.RetrieveBookInstance(ctx, RetrieveBookInstanceOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "bookinstance_detail", &DetailPage{
		Title:    "Copy: " + inst.Book.Title,
		Instance: inst,
	})
}

func (h *handler) createForm(c echo.Context) error {
	inst := &models.BookInstance{Status: DefaultStatus}
	// Preselect the book when linked from a book page.
	inst.BookID = c.QueryParam("book")
	return h.renderForm(c, "Create Copy", inst, nil)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	inst := &models.BookInstance{}
	applyResult(inst, result)

	if !result.Valid() {
		return h.renderForm(c, "Create Copy", inst, result)
	}

	if err := h.bookInstanceService.CreateBookInstance(ctx, inst); err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryBookInstance, models.AuditOperationCreate, inst)

	return c.Redirect(http.StatusFound, inst.URL())
}

func (h *handler) updateForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	inst, err := h.bookInstanceService.RetrieveBookInstance(ctx, RetrieveBookInstanceOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.renderForm(c, "Update Copy", inst, nil)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	inst, err := h.bookInstanceService.RetrieveBookInstance(ctx, RetrieveBookInstanceOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := h.validate(c)
	if err != nil {
		return err
	}
	applyResult(inst, result)

	if !result.Valid() {
		return h.renderForm(c, "Update Copy", inst, result)
	}

	err = h.bookInstanceService.UpdateBookInstance(ctx, inst, UpdateBookInstanceOptions{
		Columns: []string{"book_id", "imprint", "status", "due_back", "borrower_id"},
	})
	if err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryBookInstance, models.AuditOperationUpdate, inst)

	return c.Redirect(http.StatusFound, inst.URL())
}

func (h *handler) deleteForm(c echo.Context) error {
	inst, err := h.loadForDelete(c, c.Param("id"))
	if err != nil {
		return err
	}
	if inst == nil {
		return c.Redirect(http.StatusFound, listPath)
	}

	return c.Render(http.StatusOK, "bookinstance_delete", &DeletePage{
		Title:    "Delete Copy",
		Instance: inst,
	})
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	inst, err := h.loadForDelete(c, id)
	if err != nil {
		return err
	}
	if inst == nil {
		return c.Redirect(http.StatusFound, listPath)
	}

	if err := h.bookInstanceService.DeleteBookInstance(ctx, id); err != nil {
		return errors.WithStack(err)
	}
	h.audit.Record(ctx, models.AuditCategoryBookInstance, models.AuditOperationDelete, inst)

	return c.Redirect(http.StatusFound, listPath)
}

// loadForDelete returns a nil copy when there is nothing to delete. Copies
// have no dependents, so a found copy may always be deleted.
func (h *handler) loadForDelete(c echo.Context, id string) (*models.BookInstance, error) {
	ctx := c.Request().Context()

	check, err := h.checker.CanDelete(ctx, integrity.EntityBookInstance, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !check.Found {
		return nil, nil
	}

	inst, err := h.bookInstanceService.RetrieveBookInstance(ctx, RetrieveBookInstanceOptions{ID: &id})
	if errors.Is(err, errcodes.NotFound("Book copy")) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return inst, nil
}

// renderForm fetches the book and borrower choices concurrently and renders
// the copy form. result is nil when nothing has been submitted yet.
func (h *handler) renderForm(c echo.Context, title string, inst *models.BookInstance, result *validation.Result) error {
	allBooks, allUsers, err := h.formChoices(c.Request().Context())
	if err != nil {
		return err
	}

	page := &FormPage{
		Title:    title,
		Instance: inst,
		Books:    allBooks,
		Users:    allUsers,
		Statuses: models.BookInstanceStatuses,
	}
	if result != nil {
		page.Errors = result.Errors
		page.Values = result.Values
	}
	return c.Render(http.StatusOK, "bookinstance_form", page)
}

func (h *handler) formChoices(ctx context.Context) ([]*models.Book, []*models.User, error) {
	var allBooks []*models.Book
	var allUsers []*models.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allBooks, err = h.bookService.ListBooks(gctx, books.ListBooksOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		allUsers, err = h.userService.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return allBooks, allUsers, nil
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

// applyResult copies the submitted fields onto inst and moves it into the
// submitted status. A blank or malformed due date keeps the current one.
func applyResult(inst *models.BookInstance, result *validation.Result) {
	inst.BookID = result.Get("book")
	inst.Book = nil
	inst.Imprint = result.Get("imprint")
	if due, err := result.Date("due_back"); err == nil && due != nil {
		inst.DueBack = *due
	}

	status, ok := ParseStatus(result.Get("status"))
	if !ok {
		// Keep the submitted value so the form can redisplay it.
		status = models.BookInstanceStatus(result.Get("status"))
	}
	Transition(inst, status, result.Get("borrower"))
}
