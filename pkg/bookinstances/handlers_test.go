package bookinstances

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/audit"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/testutils"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type fixture struct {
	e        *echo.Echo
	r        *testutils.Renderer
	db       *bun.DB
	book     *models.Book
	borrower *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutils.NewDB(t)
	librarian := testutils.CreateUser(t, db, "librarian", models.RoleLibrarian)
	e, r := testutils.NewEcho(t, librarian)
	RegisterRoutesWithGroup(e.Group("/catalog"), db, config.NewForTest(), audit.NewLogger(audit.NewService(db)))

	author := testutils.CreateAuthor(t, db, "Frank", "Herbert")
	return &fixture{
		e:        e,
		r:        r,
		db:       db,
		book:     testutils.CreateBook(t, db, "Dune", author),
		borrower: testutils.CreateUser(t, db, "reader", models.RoleUser),
	}
}

func (f *fixture) onlyInstance(t *testing.T) *models.BookInstance {
	t.Helper()
	instances, err := NewService(f.db).ListBookInstances(context.Background(), ListBookInstancesOptions{})
	require.NoError(t, err)
	require.Len(t, instances, 1)
	return instances[0]
}

func (f *fixture) lastForm(t *testing.T) *FormPage {
	t.Helper()
	render, ok := f.r.Last()
	require.True(t, ok)
	require.Equal(t, "bookinstance_form", render.Name)
	return render.Data.(*FormPage)
}

func TestCreateBookInstance_Defaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	before := time.Now().Add(-time.Second)

	rec := testutils.PostForm(f.e, "/catalog/bookinstance/create", url.Values{
		"book":    {f.book.ID},
		"imprint": {"Ace Books, 2005"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	inst := f.onlyInstance(t)
	assert.Equal(t, inst.URL(), rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, models.BookInstanceStatusMaintenance, inst.Status)
	assert.Nil(t, inst.BorrowerID)
	assert.True(t, inst.DueBack.After(before))
}

func TestCreateBookInstance_Loaned(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := testutils.PostForm(f.e, "/catalog/bookinstance/create", url.Values{
		"book":     {f.book.ID},
		"imprint":  {"Ace Books, 2005"},
		"status":   {"Loaned"},
		"due_back": {"2026-11-01"},
		"borrower": {f.borrower.ID},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	inst := f.onlyInstance(t)
	assert.Equal(t, models.BookInstanceStatusLoaned, inst.Status)
	require.NotNil(t, inst.BorrowerID)
	assert.Equal(t, f.borrower.ID, *inst.BorrowerID)
	assert.Equal(t, "11/01/2026", inst.DueBackFormatted())
}

func TestCreateBookInstance_LoanRequiresExistingUser(t *testing.T) {
	t.Parallel()

	for name, borrower := range map[string]string{"no borrower": "", "unknown borrower": "ghost"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			rec := testutils.PostForm(f.e, "/catalog/bookinstance/create", url.Values{
				"book":     {f.book.ID},
				"imprint":  {"Ace Books, 2005"},
				"status":   {"Loaned"},
				"borrower": {borrower},
			})
			assert.Equal(t, http.StatusOK, rec.Code)

			page := f.lastForm(t)
			assert.Equal(t, []validation.FieldError{{Field: "borrower", Message: "Cannot find user"}}, page.Errors)
			assert.Len(t, page.Books, 1)
			assert.Len(t, page.Users, 2)

			count, err := f.db.NewSelect().Model((*models.BookInstance)(nil)).Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestCreateBookInstance_Invalid(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := testutils.PostForm(f.e, "/catalog/bookinstance/create", url.Values{
		"book":     {""},
		"imprint":  {""},
		"status":   {"Lost"},
		"due_back": {"soon"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	page := f.lastForm(t)
	assert.Equal(t, []validation.FieldError{
		{Field: "book", Message: "Book must be specified"},
		{Field: "imprint", Message: "Imprint must be non-empty and with length under 100"},
		{Field: "due_back", Message: "Invalid due back date"},
		{Field: "status", Message: "Illegal status"},
	}, page.Errors)
	assert.Equal(t, models.BookInstanceStatus("Lost"), page.Instance.Status)
}

func TestUpdateBookInstance_ReturnClearsBorrower(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	inst := testutils.CreateBookInstance(t, f.db, f.book, models.BookInstanceStatusLoaned, f.borrower)

	rec := testutils.PostForm(f.e, "/catalog/bookinstance/"+inst.ID+"/update", url.Values{
		"book":     {f.book.ID},
		"imprint":  {"Ace Books, 2005"},
		"status":   {"Available"},
		"borrower": {f.borrower.ID},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, inst.URL(), rec.Header().Get(echo.HeaderLocation))

	got, err := NewService(f.db).RetrieveBookInstance(context.Background(), RetrieveBookInstanceOptions{ID: &inst.ID})
	require.NoError(t, err)
	assert.Equal(t, models.BookInstanceStatusAvailable, got.Status)
	assert.Nil(t, got.BorrowerID)
	assert.Nil(t, got.Borrower)
}

func TestUpdateBookInstance_LoanRequiresExistingUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	inst := testutils.CreateBookInstance(t, f.db, f.book, models.BookInstanceStatusAvailable, nil)

	rec := testutils.PostForm(f.e, "/catalog/bookinstance/"+inst.ID+"/update", url.Values{
		"book":     {f.book.ID},
		"imprint":  {"Ace Books, 2005"},
		"status":   {"Loaned"},
		"borrower": {"ghost"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	page := f.lastForm(t)
	assert.Equal(t, []validation.FieldError{{Field: "borrower", Message: "Cannot find user"}}, page.Errors)
	assert.Equal(t, "Update Copy", page.Title)

	got, err := NewService(f.db).RetrieveBookInstance(context.Background(), RetrieveBookInstanceOptions{ID: &inst.ID})
	require.NoError(t, err)
	assert.Equal(t, models.BookInstanceStatusAvailable, got.Status)
	assert.Nil(t, got.BorrowerID)
}

func TestUpdateBookInstance_InvalidDueBackRedisplayed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	inst := testutils.CreateBookInstance(t, f.db, f.book, models.BookInstanceStatusAvailable, nil)

	rec := testutils.PostForm(f.e, "/catalog/bookinstance/"+inst.ID+"/update", url.Values{
		"book":     {f.book.ID},
		"imprint":  {"Ace Books, 2005"},
		"status":   {"Available"},
		"due_back": {" 2026-13-45 "},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	page := f.lastForm(t)
	assert.Equal(t, []validation.FieldError{{Field: "due_back", Message: "Invalid due back date"}}, page.Errors)
	assert.Equal(t, "2026-13-45", page.DueBack())

	got, err := NewService(f.db).RetrieveBookInstance(context.Background(), RetrieveBookInstanceOptions{ID: &inst.ID})
	require.NoError(t, err)
	assert.Equal(t, inst.DueBackForm(), got.DueBackForm())
}

func TestFormPage_DueBack(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)

	page := &FormPage{Instance: &models.BookInstance{DueBack: due}}
	assert.Equal(t, "2026-11-01", page.DueBack())

	page = &FormPage{Instance: &models.BookInstance{}}
	assert.Empty(t, page.DueBack())

	page = &FormPage{Instance: &models.BookInstance{DueBack: due}, Values: url.Values{"due_back": {"soon"}}}
	assert.Equal(t, "soon", page.DueBack())
}

func TestUpdateBookInstance_Missing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := testutils.PostForm(f.e, "/catalog/bookinstance/missing/update", url.Values{
		"book":    {f.book.ID},
		"imprint": {"Ace Books, 2005"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRetrieveBookInstance(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	inst := testutils.CreateBookInstance(t, f.db, f.book, models.BookInstanceStatusLoaned, f.borrower)

	rec := testutils.Get(f.e, "/catalog/bookinstance/"+inst.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	render, _ := f.r.Last()
	page := render.Data.(*DetailPage)
	assert.Equal(t, "Copy: Dune", page.Title)
	require.NotNil(t, page.Instance.Borrower)
	assert.Equal(t, "reader", page.Instance.Borrower.Username)
}

func TestDeleteBookInstance(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	inst := testutils.CreateBookInstance(t, f.db, f.book, models.BookInstanceStatusAvailable, nil)

	rec := testutils.Get(f.e, "/catalog/bookinstance/"+inst.ID+"/delete")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = testutils.PostForm(f.e, "/catalog/bookinstance/"+inst.ID+"/delete", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/bookinstances", rec.Header().Get(echo.HeaderLocation))

	rec = testutils.PostForm(f.e, "/catalog/bookinstance/"+inst.ID+"/delete", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/bookinstances", rec.Header().Get(echo.HeaderLocation))
}

func TestListBookInstances(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for i := 0; i < 3; i++ {
		testutils.CreateBookInstance(t, f.db, f.book, models.BookInstanceStatusAvailable, nil)
	}

	rec := testutils.Get(f.e, "/catalog/bookinstances?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	render, _ := f.r.Last()
	page := render.Data.(*ListPage)
	assert.Len(t, page.Instances, 2)
	assert.Equal(t, 3, page.Page.Total)
	assert.True(t, page.Page.HasNext())
	assert.Equal(t, "Dune", page.Instances[0].Book.Title)
}
