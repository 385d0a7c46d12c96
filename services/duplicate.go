// services/duplicate.go
package services

import (
	"context"
	"log"
	"os"

	"github.com/careerlanka/careerlink_backend/models"
)

// DuplicateChecker answers whether any committed account conflicts with a
// set of identity fields. It reports only existence, never which field or
// record collided.
type DuplicateChecker struct {
	store  AccountStore
	logger *log.Logger
}

func NewDuplicateChecker(store AccountStore) *DuplicateChecker {
	return &DuplicateChecker{
		store:  store,
		logger: log.New(os.Stdout, "duplicate-checker: ", log.LstdFlags),
	}
}

// Exists reports a conflict for any non-empty subset of identity fields.
// Lookup failures count as a conflict: a degraded database blocks
// registration instead of letting a duplicate slip through.
func (d *DuplicateChecker) Exists(ctx context.Context, q models.DuplicateQuery) bool {
	if q.IsEmpty() {
		return false
	}

	exists, err := d.store.FindConflict(ctx, q)
	if err != nil {
		d.logger.Printf("conflict lookup failed, treating as duplicate: %v", err)
		return true
	}
	return exists
}
