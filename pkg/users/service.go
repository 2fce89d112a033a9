package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/database"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Duplicate markers reported when registering.
const (
	DuplicateUsername = "username"
	DuplicateEmail    = "email"
)

// Service handles user operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
	Role      models.Role
}

// DuplicateError reports which unique field of a new user is already taken.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

// Create hashes the password and stores a new user. A taken username or
// email fails with a *DuplicateError.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	dup, err := s.FindDuplicate(ctx, opts.Username, opts.Email)
	if err != nil {
		return nil, err
	}
	if dup != "" {
		return nil, &DuplicateError{dup}
	}

	if opts.Role == "" {
		opts.Role = models.RoleUser
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
		FirstName:    opts.FirstName,
		LastName:     opts.LastName,
		Email:        opts.Email,
		Username:     opts.Username,
		PasswordHash: hashedPassword,
		Role:         opts.Role,
	}

	_, err = s.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		// Another registration may have won the race since FindDuplicate.
		if database.IsUniqueViolation(err, "users", "username") {
			return nil, &DuplicateError{DuplicateUsername}
		}
		if database.IsUniqueViolation(err, "users", "email") {
			return nil, &DuplicateError{DuplicateEmail}
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// FindDuplicate returns DuplicateUsername or DuplicateEmail when another user
// already holds the value, or "" when both are free.
func (s *Service) FindDuplicate(ctx context.Context, username, email string) (string, error) {
	existing := []*models.User{}
	err := s.db.NewSelect().
		Model(&existing).
		Where("u.username = ?", username).
		WhereOr("u.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(existing) == 0 {
		return "", nil
	}
	if existing[0].Username == username {
		return DuplicateUsername, nil
	}
	return DuplicateEmail, nil
}

// Retrieve gets a user by ID.
func (s *Service) Retrieve(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// RetrieveByUsername gets a user by username.
func (s *Service) RetrieveByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// List returns every user ordered by name, for borrower selection.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.NewSelect().
		Model(&users).
		Order("u.last_name ASC", "u.first_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return users, nil
}

// UpdateRole changes the role of the user with the given username.
func (s *Service) UpdateRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	user, err := s.RetrieveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedAt = time.Now()
	_, err = s.db.NewUpdate().
		Model(user).
		Column("role", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return user, nil
}
