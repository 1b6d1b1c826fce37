// Package departments provides database operations for departments.
//
// This package implements the services.DepartmentRepository interface.
//
//	repo := departments.NewRepository(db.DB)
//	dep, err := repo.GetByID(ctx, 3)
package departments

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/entities"
)

// Repository handles all department database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new departments repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the department and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, d *domain.Department) (*domain.Department, error) {
	model := &entities.Department{
		Code:        d.Code,
		Name:        d.Name,
		FacultyName: d.FacultyName,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(err, d.Code)
	}
	return toDomain(model)
}

// GetAll returns every department ordered by ID.
func (r *Repository) GetAll(ctx context.Context) ([]domain.Department, error) {
	var models []entities.Department
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainList(models)
}

// GetByID returns the department or a domain.NotFoundError.
func (r *Repository) GetByID(ctx context.Context, id uint) (*domain.Department, error) {
	var model entities.Department
	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Resource: "department", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model)
}

// GetByCode returns the department holding code or a domain.NotFoundError.
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	var model entities.Department
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Resource: "department"}
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model)
}

// Update writes all fields of d in a single statement.
func (r *Repository) Update(ctx context.Context, d *domain.Department) (*domain.Department, error) {
	result := r.db.WithContext(ctx).Model(&entities.Department{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"code":         d.Code,
			"name":         d.Name,
			"faculty_name": d.FacultyName,
		})
	if result.Error != nil {
		return nil, translateError(result.Error, d.Code)
	}
	if result.RowsAffected == 0 {
		return nil, &domain.NotFoundError{Resource: "department", ID: d.ID}
	}
	return d, nil
}

// Delete removes the department. Callers check CountAuthors first; an author
// added since then trips the foreign key and surfaces as a conflict.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Department{}, id)
	if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
		return &domain.ConflictError{
			Resource: "department",
			Message:  fmt.Sprintf("department %d still has authors", id),
		}
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "department", ID: id}
	}
	return nil
}

// CountAuthors returns how many authors reference the department.
func (r *Repository) CountAuthors(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Author{}).Where("department_id = ?", id).Count(&count).Error
	return count, err
}

func translateError(err error, code string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{Resource: "department", Field: "code", Value: code}
	}
	return err
}

// toDomain rebuilds the record through the domain constructor so a corrupt
// row surfaces as an error instead of an invalid value.
func toDomain(m *entities.Department) (*domain.Department, error) {
	d, err := domain.NewDepartment(m.ID, m.Code, m.Name, m.FacultyName)
	if err != nil {
		return nil, fmt.Errorf("department %d: stored row is invalid: %v", m.ID, err)
	}
	return d, nil
}

func toDomainList(models []entities.Department) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(models))
	for i := range models {
		d, err := toDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}
