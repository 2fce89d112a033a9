package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        string    `bun:",pk" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	AuthorID  string    `bun:",nullzero" json:"author_id"`
	Author    *Author   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Summary   string    `bun:",nullzero" json:"summary"`
	ISBN      string    `bun:"isbn,nullzero" json:"isbn"`
	Genres    []*Genre  `bun:"m2m:book_genres,join:Book=Genre" json:"genres,omitempty"`

	// GenreIDList holds the submitted genre ids of a draft that has not been
	// persisted (and therefore has no loaded Genres relation).
	GenreIDList []string `bun:"-" json:"genre_ids,omitempty"`
}

func (b *Book) URL() string {
	return "/catalog/book/" + b.ID
}

// GenreIDs returns the ids of the book's genres, preferring the loaded
// relation over the draft id list.
func (b *Book) GenreIDs() []string {
	if len(b.Genres) == 0 {
		return b.GenreIDList
	}
	ids := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
