package audit

import (
	"context"
	"time"

	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListAuditLogsOptions struct {
	Category *string
	AfterID  *int
	Limit    *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := svc.db.
		NewInsert().
		Model(log).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) ListAuditLogs(ctx context.Context, opts ListAuditLogsOptions) ([]*models.AuditLog, error) {
	logs := []*models.AuditLog{}

	q := svc.db.
		NewSelect().
		Model(&logs).
		Order("al.id ASC")

	if opts.Category != nil {
		q = q.Where("al.category = ?", *opts.Category)
	}
	if opts.AfterID != nil {
		q = q.Where("al.id > ?", *opts.AfterID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return logs, nil
}
