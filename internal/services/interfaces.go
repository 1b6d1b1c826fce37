package services

import (
	"context"

	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/entities"
)

// DepartmentRepository persists departments.
// Lookups that find nothing return a domain.NotFoundError.
type DepartmentRepository interface {
	Create(ctx context.Context, d *domain.Department) (*domain.Department, error)
	GetAll(ctx context.Context) ([]domain.Department, error)
	GetByID(ctx context.Context, id uint) (*domain.Department, error)
	GetByCode(ctx context.Context, code string) (*domain.Department, error)
	Update(ctx context.Context, d *domain.Department) (*domain.Department, error)
	Delete(ctx context.Context, id uint) error
	CountAuthors(ctx context.Context, id uint) (int64, error)
}

// AuthorRepository persists authors. Delete also removes the author's
// Scopus accounts.
type AuthorRepository interface {
	Create(ctx context.Context, a *domain.Author) (*domain.Author, error)
	GetAll(ctx context.Context) ([]domain.Author, error)
	GetByID(ctx context.Context, id uint) (*domain.Author, error)
	GetByDNI(ctx context.Context, dni string) (*domain.Author, error)
	GetByDepartmentID(ctx context.Context, departmentID uint) ([]domain.Author, error)
	SearchByName(ctx context.Context, term string) ([]domain.Author, error)
	Update(ctx context.Context, a *domain.Author) (*domain.Author, error)
	Delete(ctx context.Context, id uint) error
}

// ScopusAccountRepository persists Scopus accounts.
type ScopusAccountRepository interface {
	Create(ctx context.Context, s *domain.ScopusAccount) (*domain.ScopusAccount, error)
	GetAll(ctx context.Context) ([]domain.ScopusAccount, error)
	GetByID(ctx context.Context, id uint) (*domain.ScopusAccount, error)
	GetByUsername(ctx context.Context, username string) (*domain.ScopusAccount, error)
	GetByAuthorID(ctx context.Context, authorID uint) ([]domain.ScopusAccount, error)
	GetByAuthorIDs(ctx context.Context, authorIDs []uint) ([]domain.ScopusAccount, error)
	Update(ctx context.Context, s *domain.ScopusAccount) (*domain.ScopusAccount, error)
	Delete(ctx context.Context, id uint) error
}

// MutationRecorder receives one call per attempted create, update or delete.
// A nil err means the mutation succeeded. Implementations must not block.
type MutationRecorder interface {
	RecordMutation(ctx context.Context, m Mutation)
}

// Mutation describes a single write performed by a service.
type Mutation struct {
	Type        entities.AuditEventType
	EntityType  string
	EntityID    uint
	Description string
	Err         error
}

type noopRecorder struct{}

func (noopRecorder) RecordMutation(context.Context, Mutation) {}

func recorderOrNoop(r MutationRecorder) MutationRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
