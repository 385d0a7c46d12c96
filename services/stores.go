// services/stores.go
package services

import (
	"context"

	"github.com/careerlanka/careerlink_backend/models"
)

// AccountStore is the persistence boundary for committed accounts. Create
// calls must be backed by storage-level uniqueness constraints on email,
// phone and (for organizations) regNumber, and return ErrConflict when one
// fires; an application-side check-then-insert is not sufficient.
type AccountStore interface {
	FindConflict(ctx context.Context, q models.DuplicateQuery) (bool, error)
	CreateIndividual(ctx context.Context, individual *models.Individual) error
	CreateOrganization(ctx context.Context, org *models.Organization) error
	FindIndividualByEmail(ctx context.Context, email string) (*models.Individual, error)
	FindOrganizationByEmail(ctx context.Context, email string) (*models.Organization, error)
	FindOrganizationByName(ctx context.Context, name string) (*models.Organization, error)
	FindOrganizationByID(ctx context.Context, id string) (*models.Organization, error)
	UpdateOrganizationLogo(ctx context.Context, id, logoHash, logoURL string) error
}

// PendingStore persists PendingVerification records keyed uniquely by email,
// so concurrent issue/verify calls for one address are serialized by the
// store rather than by in-process state.
type PendingStore interface {
	// Put inserts or replaces the record for its email
	Put(ctx context.Context, pending *models.PendingVerification) error
	Get(ctx context.Context, email string) (*models.PendingVerification, error)
	Delete(ctx context.Context, email string) error
	// IncrementAttempts adds one failed attempt and returns the new count
	IncrementAttempts(ctx context.Context, email string) (int, error)
}
