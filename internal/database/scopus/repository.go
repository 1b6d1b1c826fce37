// Package scopus provides database operations for Scopus accounts.
//
// This package implements the services.ScopusAccountRepository interface.
package scopus

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/entities"
)

// Repository handles all Scopus account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Scopus accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the account and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, s *domain.ScopusAccount) (*domain.ScopusAccount, error) {
	model := &entities.ScopusAccount{
		Username:    s.Username,
		Affiliation: s.Affiliation,
		AuthorID:    s.AuthorID,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(err, s)
	}
	return toDomain(model)
}

// GetAll returns every account ordered by ID.
func (r *Repository) GetAll(ctx context.Context) ([]domain.ScopusAccount, error) {
	var models []entities.ScopusAccount
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainList(models)
}

// GetByID returns the account or a domain.NotFoundError.
func (r *Repository) GetByID(ctx context.Context, id uint) (*domain.ScopusAccount, error) {
	var model entities.ScopusAccount
	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Resource: "scopus account", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model)
}

// GetByUsername returns the account holding username (exact match) or a
// domain.NotFoundError.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.ScopusAccount, error) {
	var model entities.ScopusAccount
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Resource: "scopus account"}
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model)
}

// GetByAuthorID returns the accounts of one author ordered by ID.
func (r *Repository) GetByAuthorID(ctx context.Context, authorID uint) ([]domain.ScopusAccount, error) {
	return r.GetByAuthorIDs(ctx, []uint{authorID})
}

// GetByAuthorIDs returns the accounts of several authors in one query.
func (r *Repository) GetByAuthorIDs(ctx context.Context, authorIDs []uint) ([]domain.ScopusAccount, error) {
	if len(authorIDs) == 0 {
		return []domain.ScopusAccount{}, nil
	}
	var models []entities.ScopusAccount
	err := r.db.WithContext(ctx).Where("author_id IN ?", authorIDs).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(models)
}

// Update writes all fields of s in a single statement.
func (r *Repository) Update(ctx context.Context, s *domain.ScopusAccount) (*domain.ScopusAccount, error) {
	result := r.db.WithContext(ctx).Model(&entities.ScopusAccount{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"username":    s.Username,
			"affiliation": s.Affiliation,
			"author_id":   s.AuthorID,
		})
	if result.Error != nil {
		return nil, translateError(result.Error, s)
	}
	if result.RowsAffected == 0 {
		return nil, &domain.NotFoundError{Resource: "scopus account", ID: s.ID}
	}
	return s, nil
}

// Delete removes the account.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.ScopusAccount{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "scopus account", ID: id}
	}
	return nil
}

func translateError(err error, s *domain.ScopusAccount) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &domain.ConflictError{Resource: "scopus account", Field: "username", Value: s.Username}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &domain.ValidationError{
			Field:   "author_id",
			Message: fmt.Sprintf("author %d not found", s.AuthorID),
		}
	}
	return err
}

func toDomain(m *entities.ScopusAccount) (*domain.ScopusAccount, error) {
	s, err := domain.NewScopusAccount(m.ID, m.Username, m.Affiliation, m.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("scopus account %d: stored row is invalid: %v", m.ID, err)
	}
	return s, nil
}

func toDomainList(models []entities.ScopusAccount) ([]domain.ScopusAccount, error) {
	out := make([]domain.ScopusAccount, 0, len(models))
	for i := range models {
		s, err := toDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}
