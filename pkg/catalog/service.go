package catalog

import (
	"context"

	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// Counts summarizes the size of the catalog.
type Counts struct {
	Books              int
	BookInstances      int
	AvailableInstances int
	Authors            int
	Genres             int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Counts runs every count concurrently.
func (svc *Service) Counts(ctx context.Context) (*Counts, error) {
	counts := &Counts{}

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int, model interface{}, filters ...func(*bun.SelectQuery) *bun.SelectQuery) {
		g.Go(func() error {
			q := svc.db.NewSelect().Model(model)
			for _, f := range filters {
				q = q.Apply(f)
			}
			n, err := q.Count(ctx)
			*dst = n
			return errors.WithStack(err)
		})
	}
	count(&counts.Books, (*models.Book)(nil))
	count(&counts.BookInstances, (*models.BookInstance)(nil))
	count(&counts.AvailableInstances, (*models.BookInstance)(nil), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("bi.status = ?", models.BookInstanceStatusAvailable)
	})
	count(&counts.Authors, (*models.Author)(nil))
	count(&counts.Genres, (*models.Genre)(nil))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
