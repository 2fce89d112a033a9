package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookInstanceStatus string

const (
	BookInstanceStatusAvailable   BookInstanceStatus = "Available"
	BookInstanceStatusMaintenance BookInstanceStatus = "Maintenance"
	BookInstanceStatusLoaned      BookInstanceStatus = "Loaned"
	BookInstanceStatusReserved    BookInstanceStatus = "Reserved"
)

// BookInstanceStatuses lists every copy status in display order.
var BookInstanceStatuses = []BookInstanceStatus{
	BookInstanceStatusMaintenance,
	BookInstanceStatusAvailable,
	BookInstanceStatusLoaned,
	BookInstanceStatusReserved,
}

// BookInstance is a physical copy of a Book.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID         string             `bun:",pk" json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	BookID     string             `bun:",nullzero" json:"book_id"`
	Book       *Book              `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint    string             `bun:",nullzero" json:"imprint"`
	Status     BookInstanceStatus `bun:",nullzero" json:"status"`
	DueBack    time.Time          `json:"due_back"`
	BorrowerID *string            `json:"borrower_id,omitempty"`
	Borrower   *User              `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
}

func (bi *BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID
}

// IsOverdue reports whether the copy was due back before now. It is derived
// on every call and never stored.
func (bi *BookInstance) IsOverdue(now time.Time) bool {
	return bi.DueBack.Before(now)
}

func (bi *BookInstance) DueBackFormatted() string {
	return bi.DueBack.UTC().Format("01/02/2006")
}

func (bi *BookInstance) DueBackForm() string {
	return bi.DueBack.UTC().Format(formDateLayout)
}
