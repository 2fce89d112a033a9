package bookinstances

import (
	"context"
	"net/url"

	"github.com/locallibrary/catalog/pkg/integrity"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/validation"
	"github.com/robinjoseph08/golib/pointerutil"
)

// DefaultStatus is given to copies submitted without a status.
const DefaultStatus = models.BookInstanceStatusMaintenance

// ParseStatus maps a submitted status to a copy status. A blank value is the
// default status. Unknown values report false.
func ParseStatus(s string) (models.BookInstanceStatus, bool) {
	if s == "" {
		return DefaultStatus, true
	}
	for _, st := range models.BookInstanceStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Transition moves a copy into status. Every status can be reached from every
// other one. Only Loaned copies keep a borrower.
func Transition(inst *models.BookInstance, status models.BookInstanceStatus, borrowerID string) {
	inst.Status = status
	inst.Borrower = nil
	if status == models.BookInstanceStatusLoaned && borrowerID != "" {
		inst.BorrowerID = pointerutil.String(borrowerID)
		return
	}
	inst.BorrowerID = nil
}

func statusNames() []string {
	names := make([]string, 0, len(models.BookInstanceStatuses))
	for _, st := range models.BookInstanceStatuses {
		names = append(names, string(st))
	}
	return names
}

// lifecycleFields validates the status and borrower of a copy. A Loaned copy
// needs a borrower that resolves to a stored user.
func lifecycleFields(checker *integrity.Checker) []validation.Field {
	return []validation.Field{
		{Name: "status", Sanitize: "trim", Optional: true, Rules: []validation.Rule{
			validation.OneOf("Illegal status", statusNames()...),
		}},
		{Name: "borrower", Sanitize: "trim", Rules: []validation.Rule{
			validation.Custom("Cannot find user", func(ctx context.Context, value string, values url.Values) (bool, error) {
				if values.Get("status") != string(models.BookInstanceStatusLoaned) {
					return true, nil
				}
				if value == "" {
					return false, nil
				}
				return checker.BorrowerExists(ctx, value)
			}),
		}},
	}
}
