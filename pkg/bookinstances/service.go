package bookinstances

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookInstanceOptions struct {
	ID *string
}

type ListBookInstancesOptions struct {
	Limit  *int
	Offset *int
	Status *models.BookInstanceStatus

	includeTotal bool
}

type UpdateBookInstanceOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBookInstance stores a copy. A copy without a due date is due back
// at creation time.
func (svc *Service) CreateBookInstance(ctx context.Context, inst *models.BookInstance) error {
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	now := time.Now()
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = now
	}
	inst.UpdatedAt = inst.CreatedAt
	if inst.DueBack.IsZero() {
		inst.DueBack = inst.CreatedAt
	}
	if inst.Status == "" {
		inst.Status = DefaultStatus
	}

	_, err := svc.db.
		NewInsert().
		Model(inst).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBookInstance(ctx context.Context, opts RetrieveBookInstanceOptions) (*models.BookInstance, error) {
	inst := &models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(inst).
		Relation("Book").
		Relation("Borrower")

	if opts.ID != nil {
		q = q.Where("bi.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book copy")
		}
		return nil, errors.WithStack(err)
	}

	return inst, nil
}

func (svc *Service) ListBookInstances(ctx context.Context, opts ListBookInstancesOptions) ([]*models.BookInstance, error) {
	i, _, err := svc.listBookInstancesWithTotal(ctx, opts)
	return i, errors.WithStack(err)
}

func (svc *Service) ListBookInstancesWithTotal(ctx context.Context, opts ListBookInstancesOptions) ([]*models.BookInstance, int, error) {
	opts.includeTotal = true
	return svc.listBookInstancesWithTotal(ctx, opts)
}

func (svc *Service) listBookInstancesWithTotal(ctx context.Context, opts ListBookInstancesOptions) ([]*models.BookInstance, int, error) {
	var instances []*models.BookInstance
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Order("book.title ASC", "bi.imprint ASC", "bi.id ASC")

	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}
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

	return instances, total, nil
}

func (svc *Service) UpdateBookInstance(ctx context.Context, inst *models.BookInstance, opts UpdateBookInstanceOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	inst.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(inst).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Book copy")
	}
	return nil
}

func (svc *Service) DeleteBookInstance(ctx context.Context, id string) error {
	_, err := svc.db.NewDelete().
		Model((*models.BookInstance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}
