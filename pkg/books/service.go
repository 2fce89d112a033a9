package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/database"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *string
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
	// UpdateGenres replaces the stored genres with book.GenreIDs().
	UpdateGenres bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook stores the book together with its genre links.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt
	genreIDs := book.GenreIDs()

	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return insertBookGenres(ctx, tx, book.ID, genreIDs)
	})
	return errors.WithStack(err)
}

func insertBookGenres(ctx context.Context, tx bun.Tx, bookID string, genreIDs []string) error {
	seen := map[string]struct{}{}
	links := make([]*models.BookGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, &models.BookGenre{BookID: bookID, GenreID: id})
	}
	if len(links) == 0 {
		return nil
	}
	_, err := tx.
		NewInsert().
		Model(&links).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("Genres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("g.name ASC")
		})

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Order("b.title ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && !opts.UpdateGenres {
		return nil
	}
	genreIDs := book.GenreIDs()

	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		book.UpdatedAt = time.Now()
		columns := append(opts.Columns, "updated_at")

		res, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book")
		}

		if !opts.UpdateGenres {
			return nil
		}
		// Replace all previous genres with the submitted ones.
		_, err = tx.
			NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", book.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return insertBookGenres(ctx, tx, book.ID, genreIDs)
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteBook removes the book together with its genre links.
func (svc *Service) DeleteBook(ctx context.Context, id string) error {
	err := database.RunInTx(ctx, svc.db, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
	return errors.WithStack(err)
}

// ListInstances returns the copies of the book.
func (svc *Service) ListInstances(ctx context.Context, bookID string) ([]*models.BookInstance, error) {
	instances := []*models.BookInstance{}
	err := svc.db.NewSelect().
		Model(&instances).
		Relation("Borrower").
		Where("bi.book_id = ?", bookID).
		Order("bi.imprint ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return instances, nil
}
