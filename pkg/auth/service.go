package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/sessions"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 12
	// CookieName is the name of the session cookie.
	CookieName = "locallibrary_session"
)

// SessionClaims is the signed payload of the session cookie. It references a
// server-side session rather than carrying the principal itself.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	jwt.RegisteredClaims
}

// Service handles authentication operations.
type Service struct {
	db       *bun.DB
	sessions sessions.Store
	secret   []byte
	maxAge   time.Duration
}

// NewService creates a new auth service.
func NewService(db *bun.DB, store sessions.Store, secret string, maxAge time.Duration) *Service {
	return &Service{
		db:       db,
		sessions: store,
		secret:   []byte(secret),
		maxAge:   maxAge,
	}
}

// MaxAge is how long a session and its cookie stay valid.
func (s *Service) MaxAge() time.Duration {
	return s.maxAge
}

// Authenticate validates credentials and returns the user if valid. Unknown
// usernames and wrong passwords fail with the same message.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.Unauthorized("Invalid username or password")
		}
		return nil, errors.WithStack(err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, errcodes.Unauthorized("Invalid username or password")
	}

	return user, nil
}

// StartSession creates a server-side session for the user and returns the
// signed cookie value that refers to it.
func (s *Service) StartSession(ctx context.Context, user *models.User) (string, error) {
	session, err := s.sessions.Create(ctx, user.ID, s.maxAge)
	if err != nil {
		return "", err
	}

	claims := SessionClaims{
		SessionID: session.ID,
		UserID:    user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken verifies the signature and expiry of a cookie value.
func (s *Service) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ResolvePrincipal maps a cookie value to the logged-in user. A bad
// signature, an expired or deleted session, or a deleted user all resolve to
// nil (anonymous). Only store failures are returned as errors.
func (s *Service) ResolvePrincipal(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, nil
	}
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, nil
	}

	user := &models.User{}
	err = s.db.NewSelect().
		Model(user).
		Where("u.id = ?", session.UserID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// EndSession deletes the session referenced by the cookie value. Invalid
// values are ignored.
func (s *Service) EndSession(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hashedPassword), nil
}

// CheckPassword compares a password with a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
