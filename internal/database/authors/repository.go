// Package authors provides database operations for authors.
//
// This package implements the services.AuthorRepository interface.
package authors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/academia/internal/database"
	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the author and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	model := toModel(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(err, a)
	}
	created := *a
	created.ID = model.ID
	return &created, nil
}

// GetAll returns every author ordered by ID.
func (r *Repository) GetAll(ctx context.Context) ([]domain.Author, error) {
	var models []entities.Author
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainList(models)
}

// GetByID returns the author or a domain.NotFoundError.
func (r *Repository) GetByID(ctx context.Context, id uint) (*domain.Author, error) {
	var model entities.Author
	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Resource: "author", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model)
}

// GetByDNI returns the author holding dni (exact match) or a domain.NotFoundError.
func (r *Repository) GetByDNI(ctx context.Context, dni string) (*domain.Author, error) {
	var model entities.Author
	err := r.db.WithContext(ctx).Where("dni = ?", dni).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Resource: "author"}
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model)
}

// GetByDepartmentID returns the authors of a department ordered by ID.
func (r *Repository) GetByDepartmentID(ctx context.Context, departmentID uint) ([]domain.Author, error) {
	var models []entities.Author
	err := r.db.WithContext(ctx).Where("department_id = ?", departmentID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(models)
}

// SearchByName matches term (case-insensitive substring) against first name,
// last name and both "first last" and "last first" concatenations.
// LIKE wildcards in term match literally.
func (r *Repository) SearchByName(ctx context.Context, term string) ([]domain.Author, error) {
	var models []entities.Author
	pattern := "%" + likeEscaper.Replace(database.FoldCase(strings.TrimSpace(term))) + "%"
	err := r.db.WithContext(ctx).
		Where(searchClause(r.db.Dialector.Name()), pattern, pattern, pattern, pattern).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(models)
}

var searchColumns = []string{
	"first_name",
	"last_name",
	"first_name || ' ' || last_name",
	"last_name || ' ' || first_name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchClause ORs one case-insensitive LIKE per column. Postgres folds with
// ILIKE; sqlite goes through database.FoldFunc.
func searchClause(dialect string) string {
	clauses := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		if dialect == database.DriverPostgres {
			clauses[i] = col + ` ILIKE ? ESCAPE '\'`
		} else {
			clauses[i] = database.FoldFunc + "(" + col + `) LIKE ? ESCAPE '\'`
		}
	}
	return strings.Join(clauses, " OR ")
}

// Update writes all fields of a in a single statement.
func (r *Repository) Update(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	result := r.db.WithContext(ctx).Model(&entities.Author{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"dni":           a.DNI.String(),
			"title":         a.Title,
			"first_name":    a.FirstName,
			"last_name":     a.LastName,
			"birth_date":    a.BirthDate,
			"gender":        string(a.Gender),
			"position":      a.Position,
			"department_id": a.DepartmentID,
		})
	if result.Error != nil {
		return nil, translateError(result.Error, a)
	}
	if result.RowsAffected == 0 {
		return nil, &domain.NotFoundError{Resource: "author", ID: a.ID}
	}
	return a, nil
}

// Delete removes the author together with its Scopus accounts in one transaction.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&entities.ScopusAccount{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Author{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &domain.NotFoundError{Resource: "author", ID: id}
		}
		return nil
	})
}

func translateError(err error, a *domain.Author) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &domain.ConflictError{Resource: "author", Field: "dni", Value: a.DNI.String()}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &domain.ValidationError{
			Field:   "department_id",
			Message: fmt.Sprintf("department %d not found", a.DepartmentID),
		}
	}
	return err
}

func toModel(a *domain.Author) *entities.Author {
	return &entities.Author{
		ID:           a.ID,
		DNI:          a.DNI.String(),
		Title:        a.Title,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		BirthDate:    a.BirthDate,
		Gender:       string(a.Gender),
		Position:     a.Position,
		DepartmentID: a.DepartmentID,
	}
}

func toDomain(m *entities.Author) (*domain.Author, error) {
	a, err := domain.NewAuthor(domain.AuthorParams{
		ID:           m.ID,
		DNI:          m.DNI,
		Title:        m.Title,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		BirthDate:    m.BirthDate,
		Gender:       domain.Gender(m.Gender),
		Position:     m.Position,
		DepartmentID: m.DepartmentID,
	})
	if err != nil {
		return nil, fmt.Errorf("author %d: stored row is invalid: %v", m.ID, err)
	}
	return a, nil
}

func toDomainList(models []entities.Author) ([]domain.Author, error) {
	out := make([]domain.Author, 0, len(models))
	for i := range models {
		a, err := toDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}
