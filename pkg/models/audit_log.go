package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Audit operations.
const (
	AuditOperationCreate = "create"
	AuditOperationUpdate = "update"
	AuditOperationDelete = "delete"
)

// Audit categories, one per catalog entity.
const (
	AuditCategoryAuthor       = "author"
	AuditCategoryBook         = "book"
	AuditCategoryGenre        = "genre"
	AuditCategoryBookInstance = "bookinstance"
	AuditCategoryUser         = "user"
)

type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Category  string    `bun:",nullzero" json:"category"`
	Message   string    `bun:",nullzero" json:"message"`
	Data      *string   `json:"data,omitempty"`
}
