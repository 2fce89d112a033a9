package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plain-text password of every user created by CreateUser.
const Password = "correct-horse-battery"

func CreateAuthor(t *testing.T, db *bun.DB, firstName, familyName string) *models.Author {
	t.Helper()

	now := time.Now()
	author := &models.Author{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
		FirstName:  firstName,
		FamilyName: familyName,
	}
	_, err := db.NewInsert().Model(author).Exec(context.Background())
	require.NoError(t, err)
	return author
}

func CreateGenre(t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()

	now := time.Now()
	genre := &models.Genre{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
	}
	_, err := db.NewInsert().Model(genre).Exec(context.Background())
	require.NoError(t, err)
	return genre
}

func CreateBook(t *testing.T, db *bun.DB, title string, author *models.Author, genres ...*models.Genre) *models.Book {
	t.Helper()

	ctx := context.Background()
	now := time.Now()
	book := &models.Book{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		AuthorID:  author.ID,
		Summary:   "A summary of " + title,
		ISBN:      "9780441013593",
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	for _, g := range genres {
		_, err = db.NewInsert().Model(&models.BookGenre{BookID: book.ID, GenreID: g.ID}).Exec(ctx)
		require.NoError(t, err)
	}
	book.Genres = genres
	return book
}

func CreateBookInstance(t *testing.T, db *bun.DB, book *models.Book, status models.BookInstanceStatus, borrower *models.User) *models.BookInstance {
	t.Helper()

	now := time.Now()
	inst := &models.BookInstance{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		BookID:    book.ID,
		Imprint:   "Ace Books, 2005",
		Status:    status,
		DueBack:   now,
	}
	if borrower != nil {
		inst.BorrowerID = &borrower.ID
	}
	_, err := db.NewInsert().Model(inst).Exec(context.Background())
	require.NoError(t, err)
	return inst
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t *testing.T, db *bun.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
		FirstName:    "Test",
		LastName:     username,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	_, err = db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)
	return user
}
