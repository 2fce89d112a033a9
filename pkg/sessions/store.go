// Package sessions persists login sessions server-side. The browser only
// holds a signed reference to a session, so logging out or expiring a
// session takes effect immediately.
package sessions

import (
	"context"
	"time"

	"github.com/locallibrary/catalog/pkg/models"
)

// Store persists sessions. Get returns nil without an error when the session
// does not exist or has expired.
type Store interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
