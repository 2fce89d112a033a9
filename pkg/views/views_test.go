package views

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/bookinstances"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/genres"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(user *models.User) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if user != nil {
		c.Set("user", user)
	}
	return c
}

func render(t *testing.T, name string, data interface{}, user *models.User) string {
	t.Helper()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data, newContext(user)))
	return buf.String()
}

func TestNew_ParsesEveryPage(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	pages := []string{"index", "login", "register", errcodes.ErrorTemplate}
	for _, entity := range []string{"author", "genre", "book", "bookinstance"} {
		for _, kind := range []string{"list", "detail", "form", "delete"} {
			pages = append(pages, entity+"_"+kind)
		}
	}
	for _, p := range pages {
		assert.True(t, r.Has(p), p)
	}
	assert.False(t, r.Has("layout"))
}

func TestRender_UnknownTemplate(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "nope", nil, newContext(nil)))
}

func TestRender_StoredTextIsEscapedOnce(t *testing.T) {
	t.Parallel()

	genre := &models.Genre{ID: "g1", Name: validation.Escape("Sci-Fi & <Fantasy>")}
	out := render(t, "genre_detail", &genres.DetailPage{Title: "Genre Detail", Genre: genre}, nil)

	assert.Contains(t, out, "Sci-Fi &amp; &lt;Fantasy&gt;")
	assert.NotContains(t, out, "&amp;amp;")
	assert.NotContains(t, out, "<Fantasy>")
}

func TestRender_CurrentUser(t *testing.T) {
	t.Parallel()

	page := &authors.ListPage{Title: "Author List", Page: pagination.New(pagination.Query{Limit: 10, Page: 1}, 0)}

	anonymous := render(t, "author_list", page, nil)
	assert.Contains(t, anonymous, `href="/users/login"`)
	assert.NotContains(t, anonymous, "Create new author")

	librarian := &models.User{Username: "marian", Role: models.RoleLibrarian}
	out := render(t, "author_list", page, librarian)
	assert.Contains(t, out, "Signed in as marian")
	assert.Contains(t, out, "Create new author")

	reader := &models.User{Username: "reader", Role: models.RoleUser}
	out = render(t, "author_list", page, reader)
	assert.Contains(t, out, "Signed in as reader")
	assert.NotContains(t, out, "Create new author")
}

func TestRender_Pagination(t *testing.T) {
	t.Parallel()

	page := &books.ListPage{
		Title: "Book List",
		Books: []*models.Book{{ID: "b1", Title: "Dune", Author: &models.Author{FamilyName: "Herbert", FirstName: "Frank"}}},
		Page:  pagination.New(pagination.Query{Limit: 1, Page: 2}, 3),
	}
	out := render(t, "book_list", page, nil)

	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Herbert, Frank")
	assert.Contains(t, out, "Page 2 of 3")
	assert.Contains(t, out, "/catalog/books?limit=1&page=1")
	assert.Contains(t, out, "/catalog/books?limit=1&page=3")
}

func TestRender_BookForm(t *testing.T) {
	t.Parallel()

	page := &books.FormPage{
		Title:   "Create Book",
		Book:    &models.Book{Title: "Dune", AuthorID: "a2"},
		Authors: []*models.Author{{ID: "a1", FamilyName: "Asimov"}, {ID: "a2", FamilyName: "Herbert"}},
		Genres:  []*models.Genre{{ID: "g1", Name: "Poetry"}, {ID: "g2", Name: "Science Fiction", Selected: true}},
		Errors:  []validation.FieldError{{Field: "isbn", Message: "ISBN must not be empty"}},
	}
	out := render(t, "book_form", page, nil)

	assert.Contains(t, out, "ISBN must not be empty")
	assert.Contains(t, out, `<option value="a2" selected>`)
	assert.NotContains(t, out, `<option value="a1" selected>`)
	assert.Contains(t, out, `value="g2" checked>`)
	assert.NotContains(t, out, `value="g1" checked>`)
}

func TestRender_BookInstanceForm(t *testing.T) {
	t.Parallel()

	borrowerID := "u1"
	page := &bookinstances.FormPage{
		Title: "Update Copy",
		Instance: &models.BookInstance{
			BookID:     "b1",
			Imprint:    "Ace Books, 2005",
			Status:     models.BookInstanceStatusLoaned,
			DueBack:    time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
			BorrowerID: &borrowerID,
		},
		Books:    []*models.Book{{ID: "b1", Title: "Dune"}},
		Users:    []*models.User{{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Username: "ada"}},
		Statuses: models.BookInstanceStatuses,
	}
	out := render(t, "bookinstance_form", page, nil)

	assert.Contains(t, out, `<option value="b1" selected>`)
	assert.Contains(t, out, `<option value="Loaned" selected>`)
	assert.Contains(t, out, `<option value="u1" selected>`)
	assert.Contains(t, out, `value="2026-11-01"`)
}

func TestRender_ErrorPage(t *testing.T) {
	t.Parallel()

	out := render(t, errcodes.ErrorTemplate, &errcodes.ErrorPage{
		Title:      "Not Found",
		StatusCode: http.StatusNotFound,
		Message:    "Author not found.",
	}, nil)

	assert.Contains(t, out, "404")
	assert.Contains(t, out, "Author not found.")
	assert.NotContains(t, out, "<pre>")
}
