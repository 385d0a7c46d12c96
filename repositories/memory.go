package repositories

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/services"
)

// In-memory store implementations mirroring the Mongo repositories. They
// enforce the same uniqueness rules the Mongo indexes do, so the services
// can be exercised without a database.

var errLookupsDisabled = errors.New("lookups disabled")

// MemoryAccountStore implements services.AccountStore over maps
type MemoryAccountStore struct {
	mu            sync.Mutex
	individuals   map[string]*models.Individual
	organizations map[string]*models.Organization

	// FailLookups makes FindConflict return an error, standing in for a
	// degraded database.
	FailLookups bool
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		individuals:   make(map[string]*models.Individual),
		organizations: make(map[string]*models.Organization),
	}
}

func (s *MemoryAccountStore) FindConflict(_ context.Context, q models.DuplicateQuery) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailLookups {
		return false, errLookupsDisabled
	}

	for _, individual := range s.individuals {
		if (q.Email != "" && individual.Email == q.Email) ||
			(q.Phone != "" && individual.Phone == q.Phone) {
			return true, nil
		}
	}
	for _, org := range s.organizations {
		if (q.Email != "" && org.Email == q.Email) ||
			(q.Phone != "" && org.Phone == q.Phone) ||
			(q.Name != "" && org.NameLower == strings.ToLower(q.Name)) ||
			(q.RegNumber != "" && org.RegNumber == q.RegNumber) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryAccountStore) CreateIndividual(_ context.Context, individual *models.Individual) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailOrPhoneTaken(individual.Email, individual.Phone) {
		return services.ErrConflict
	}
	s.individuals[individual.ID.Hex()] = individual
	return nil
}

func (s *MemoryAccountStore) CreateOrganization(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailOrPhoneTaken(org.Email, org.Phone) {
		return services.ErrConflict
	}
	if org.RegNumber != "" {
		for _, existing := range s.organizations {
			if existing.RegNumber == org.RegNumber {
				return services.ErrConflict
			}
		}
	}
	s.organizations[org.ID.Hex()] = org
	return nil
}

// emailOrPhoneTaken mirrors the cross-collection unique indexes
func (s *MemoryAccountStore) emailOrPhoneTaken(email, phone string) bool {
	for _, individual := range s.individuals {
		if individual.Email == email || individual.Phone == phone {
			return true
		}
	}
	for _, org := range s.organizations {
		if org.Email == email || org.Phone == phone {
			return true
		}
	}
	return false
}

func (s *MemoryAccountStore) FindIndividualByEmail(_ context.Context, email string) (*models.Individual, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, individual := range s.individuals {
		if individual.Email == email {
			return individual, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *MemoryAccountStore) FindOrganizationByEmail(_ context.Context, email string) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, org := range s.organizations {
		if org.Email == email {
			return org, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *MemoryAccountStore) FindOrganizationByName(_ context.Context, name string) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nameLower := strings.ToLower(strings.TrimSpace(name))
	for _, org := range s.organizations {
		if org.NameLower == nameLower {
			return org, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *MemoryAccountStore) FindOrganizationByID(_ context.Context, id string) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.organizations[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return org, nil
}

func (s *MemoryAccountStore) UpdateOrganizationLogo(_ context.Context, id, logoHash, logoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.organizations[id]
	if !ok {
		return services.ErrNotFound
	}
	org.LogoHash = logoHash
	if logoURL != "" {
		org.LogoURL = logoURL
	}
	return nil
}

// MemoryPendingStore implements services.PendingStore over a map keyed by
// email, matching the unique index of the Mongo collection.
type MemoryPendingStore struct {
	mu      sync.Mutex
	records map[string]*models.PendingVerification
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{records: make(map[string]*models.PendingVerification)}
}

func (s *MemoryPendingStore) Put(_ context.Context, pending *models.PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *pending
	s.records[pending.Email] = &copied
	return nil
}

func (s *MemoryPendingStore) Get(_ context.Context, email string) (*models.PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[email]
	if !ok {
		return nil, services.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *MemoryPendingStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, email)
	return nil
}

func (s *MemoryPendingStore) IncrementAttempts(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[email]
	if !ok {
		return 0, services.ErrNotFound
	}
	record.Attempts++
	return record.Attempts, nil
}

// ExpireNow force-expires a pending record, a test hook standing in for the
// TTL index.
func (s *MemoryPendingStore) ExpireNow(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.records[email]; ok {
		record.ExpiresAt = record.ExpiresAt.AddDate(-1, 0, 0)
	}
}
