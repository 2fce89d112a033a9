package catalog

import (
	"net/http"
	"testing"

	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	e, r := testutils.NewEcho(t, nil)
	RegisterRoutesWithGroup(e.Group("/catalog"), db)

	author := testutils.CreateAuthor(t, db, "Frank", "Herbert")
	testutils.CreateGenre(t, db, "Science Fiction")
	testutils.CreateGenre(t, db, "Classic")
	book := testutils.CreateBook(t, db, "Dune", author)
	testutils.CreateBookInstance(t, db, book, models.BookInstanceStatusAvailable, nil)
	testutils.CreateBookInstance(t, db, book, models.BookInstanceStatusMaintenance, nil)

	rec := testutils.Get(e, "/catalog")
	require.Equal(t, http.StatusOK, rec.Code)

	render, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "index", render.Name)
	assert.Equal(t, &Counts{
		Books:              1,
		BookInstances:      2,
		AvailableInstances: 1,
		Authors:            1,
		Genres:             2,
	}, render.Data.(*IndexPage).Counts)
}
