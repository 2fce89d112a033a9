package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// DBStore keeps sessions in the sessions table.
type DBStore struct {
	db *bun.DB
}

var _ Store = (*DBStore)(nil)

func NewDBStore(db *bun.DB) *DBStore {
	return &DBStore{db}
}

func (s *DBStore) Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.
		NewInsert().
		Model(session).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return session, nil
}

func (s *DBStore) Get(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.
		NewSelect().
		Model(session).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	if session.IsExpired(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.
		NewDelete().
		Model((*models.Session)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

// DeleteExpired removes every session that expired before now and returns
// how many were removed.
func (s *DBStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.
		NewDelete().
		Model((*models.Session)(nil)).
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	return n, errors.WithStack(err)
}
