// Package integrity enforces cross-entity references that the store itself
// does not: deletes are refused while dependents exist, and writes may only
// reference records that exist.
package integrity

import (
	"context"

	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// EntityType names a catalog entity.
type EntityType string

const (
	EntityAuthor       EntityType = "author"
	EntityGenre        EntityType = "genre"
	EntityBook         EntityType = "book"
	EntityBookInstance EntityType = "bookinstance"
)

// DeleteCheck is the outcome of CanDelete.
type DeleteCheck struct {
	// Found is false when the record does not exist.
	Found   bool
	Allowed bool
	// BlockingBooks holds the books referencing an author or genre.
	BlockingBooks []*models.Book
	// BlockingInstances holds the copies of a book.
	BlockingInstances []*models.BookInstance
}

type Checker struct {
	db bun.IDB
}

func NewChecker(db bun.IDB) *Checker {
	return &Checker{db}
}

// CanDelete reports whether the record may be deleted and, if not, which
// records depend on it. Store failures are returned as errors and never
// reported as a missing record.
func (c *Checker) CanDelete(ctx context.Context, entity EntityType, id string) (*DeleteCheck, error) {
	check := &DeleteCheck{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := c.exists(ctx, entity, id)
		check.Found = found
		return err
	})

	switch entity {
	case EntityAuthor:
		g.Go(func() error {
			books := []*models.Book{}
			err := c.db.NewSelect().
				Model(&books).
				Where("b.author_id = ?", id).
				Order("b.title ASC").
				Scan(ctx)
			check.BlockingBooks = books
			return errors.WithStack(err)
		})
	case EntityGenre:
		g.Go(func() error {
			books := []*models.Book{}
			err := c.db.NewSelect().
				Model(&books).
				Join("JOIN book_genres AS bg ON bg.book_id = b.id").
				Where("bg.genre_id = ?", id).
				Order("b.title ASC").
				Scan(ctx)
			check.BlockingBooks = books
			return errors.WithStack(err)
		})
	case EntityBook:
		g.Go(func() error {
			instances := []*models.BookInstance{}
			err := c.db.NewSelect().
				Model(&instances).
				Where("bi.book_id = ?", id).
				Order("bi.imprint ASC").
				Scan(ctx)
			check.BlockingInstances = instances
			return errors.WithStack(err)
		})
	case EntityBookInstance:
	default:
		return nil, errors.Errorf("unknown entity type %q", entity)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	check.Allowed = check.Found && len(check.BlockingBooks) == 0 && len(check.BlockingInstances) == 0
	return check, nil
}

func (c *Checker) exists(ctx context.Context, entity EntityType, id string) (bool, error) {
	var model interface{}
	switch entity {
	case EntityAuthor:
		model = (*models.Author)(nil)
	case EntityGenre:
		model = (*models.Genre)(nil)
	case EntityBook:
		model = (*models.Book)(nil)
	case EntityBookInstance:
		model = (*models.BookInstance)(nil)
	default:
		return false, errors.Errorf("unknown entity type %q", entity)
	}
	exists, err := c.db.NewSelect().
		Model(model).
		Where("id = ?", id).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

func (c *Checker) AuthorExists(ctx context.Context, id string) (bool, error) {
	return c.exists(ctx, EntityAuthor, id)
}

func (c *Checker) BookExists(ctx context.Context, id string) (bool, error) {
	return c.exists(ctx, EntityBook, id)
}

// BorrowerExists reports whether a user with the id exists.
func (c *Checker) BorrowerExists(ctx context.Context, userID string) (bool, error) {
	exists, err := c.db.NewSelect().
		Model((*models.User)(nil)).
		Where("id = ?", userID).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

// GenresExist reports whether every id names a stored genre. Repeated ids
// count once.
func (c *Checker) GenresExist(ctx context.Context, ids []string) (bool, error) {
	unique := map[string]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return true, nil
	}
	distinct := make([]string, 0, len(unique))
	for id := range unique {
		distinct = append(distinct, id)
	}

	count, err := c.db.NewSelect().
		Model((*models.Genre)(nil)).
		Where("id IN (?)", bun.In(distinct)).
		Count(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return count == len(distinct), nil
}
