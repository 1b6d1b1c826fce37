package services

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/academia/internal/domain"
)

// Request DTOs only check shape (lengths, formats, enums). Required-field and
// business invariants are enforced by the domain constructors so that blank
// values surface as domain.EmptyFieldError.

// ========================================
// DEPARTMENT DTOs
// ========================================

type DepartmentCreateRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	FacultyName string `json:"faculty_name"`
}

func (r DepartmentCreateRequest) Validate() error {
	return toDomainError(validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.RuneLength(0, 10)),
		validation.Field(&r.Name, validation.RuneLength(0, 100)),
		validation.Field(&r.FacultyName, validation.RuneLength(0, 100)),
	))
}

// DepartmentUpdateRequest is a partial update; omitted fields stay unchanged.
type DepartmentUpdateRequest struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	FacultyName *string `json:"faculty_name,omitempty"`
}

func (r DepartmentUpdateRequest) Validate() error {
	return toDomainError(validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.RuneLength(0, 10)),
		validation.Field(&r.Name, validation.RuneLength(0, 100)),
		validation.Field(&r.FacultyName, validation.RuneLength(0, 100)),
	))
}

type DepartmentResponse struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	FacultyName string `json:"faculty_name"`
}

func newDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Code: d.Code, Name: d.Name, FacultyName: d.FacultyName}
}

// ========================================
// AUTHOR DTOs
// ========================================

type AuthorCreateRequest struct {
	DNI          string `json:"dni"`
	Title        string `json:"title,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BirthDate    string `json:"birth_date"` // YYYY-MM-DD
	Gender       string `json:"gender"`
	Position     string `json:"position"`
	DepartmentID uint   `json:"department_id"`
}

func (r AuthorCreateRequest) Validate() error {
	return toDomainError(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.RuneLength(0, 50)),
		validation.Field(&r.FirstName, validation.RuneLength(0, 100)),
		validation.Field(&r.LastName, validation.RuneLength(0, 100)),
		validation.Field(&r.BirthDate, validation.Date(domain.DateLayout).Error("must be a date in YYYY-MM-DD format")),
		validation.Field(&r.Gender, validation.In(string(domain.GenderMale), string(domain.GenderFemale)).Error("must be 'M' or 'F'")),
		validation.Field(&r.Position, validation.RuneLength(0, 100)),
	))
}

func (r AuthorCreateRequest) params() (domain.AuthorParams, error) {
	p := domain.AuthorParams{
		DNI:          r.DNI,
		Title:        r.Title,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Gender:       domain.Gender(r.Gender),
		Position:     r.Position,
		DepartmentID: r.DepartmentID,
	}
	if r.BirthDate != "" {
		d, err := domain.ParseDate(r.BirthDate)
		if err != nil {
			return p, err
		}
		p.BirthDate = d
	}
	return p, nil
}

// AuthorUpdateRequest is a partial update. An explicit empty title clears it.
type AuthorUpdateRequest struct {
	DNI          *string `json:"dni,omitempty"`
	Title        *string `json:"title,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	BirthDate    *string `json:"birth_date,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	Position     *string `json:"position,omitempty"`
	DepartmentID *uint   `json:"department_id,omitempty"`
}

func (r AuthorUpdateRequest) Validate() error {
	return toDomainError(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.RuneLength(0, 50)),
		validation.Field(&r.FirstName, validation.RuneLength(0, 100)),
		validation.Field(&r.LastName, validation.RuneLength(0, 100)),
		validation.Field(&r.BirthDate, validation.Date(domain.DateLayout).Error("must be a date in YYYY-MM-DD format")),
		validation.Field(&r.Gender, validation.In(string(domain.GenderMale), string(domain.GenderFemale)).Error("must be 'M' or 'F'")),
		validation.Field(&r.Position, validation.RuneLength(0, 100)),
	))
}

func (r AuthorUpdateRequest) patch() (domain.AuthorPatch, error) {
	p := domain.AuthorPatch{
		DNI:          r.DNI,
		Title:        r.Title,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Position:     r.Position,
		DepartmentID: r.DepartmentID,
	}
	if r.BirthDate != nil {
		if *r.BirthDate == "" {
			return p, &domain.EmptyFieldError{Field: "birth_date"}
		}
		d, err := domain.ParseDate(*r.BirthDate)
		if err != nil {
			return p, err
		}
		p.BirthDate = &d
	}
	if r.Gender != nil {
		g := domain.Gender(*r.Gender)
		p.Gender = &g
	}
	return p, nil
}

// ScopusAccountSummary is the account shape embedded in author responses.
type ScopusAccountSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Affiliation string `json:"affiliation"`
}

type AuthorResponse struct {
	ID             uint                   `json:"id"`
	DNI            string                 `json:"dni"`
	Title          string                 `json:"title"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	BirthDate      string                 `json:"birth_date"`
	Gender         string                 `json:"gender"`
	Position       string                 `json:"position"`
	DepartmentID   uint                   `json:"department_id"`
	ScopusAccounts []ScopusAccountSummary `json:"scopus_accounts"`
}

func newAuthorResponse(a *domain.Author, accounts []domain.ScopusAccount) AuthorResponse {
	summaries := make([]ScopusAccountSummary, 0, len(accounts))
	for _, s := range accounts {
		summaries = append(summaries, ScopusAccountSummary{ID: s.ID, Username: s.Username, Affiliation: s.Affiliation})
	}
	return AuthorResponse{
		ID:             a.ID,
		DNI:            a.DNI.String(),
		Title:          a.Title,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		BirthDate:      a.BirthDate.Format(domain.DateLayout),
		Gender:         string(a.Gender),
		Position:       a.Position,
		DepartmentID:   a.DepartmentID,
		ScopusAccounts: summaries,
	}
}

// AuthorScopusIDs lists the Scopus account IDs of one author matched by name.
type AuthorScopusIDs struct {
	AuthorID         uint   `json:"author_id"`
	FullName         string `json:"full_name"`
	DNI              string `json:"dni"`
	ScopusAccountIDs []uint `json:"scopus_account_ids"`
}

// ========================================
// SCOPUS ACCOUNT DTOs
// ========================================

type ScopusAccountCreateRequest struct {
	Username    string `json:"username"`
	Affiliation string `json:"affiliation"`
	AuthorID    uint   `json:"author_id"`
}

func (r ScopusAccountCreateRequest) Validate() error {
	return toDomainError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.RuneLength(0, 100)),
		validation.Field(&r.Affiliation, validation.RuneLength(0, 200)),
	))
}

type ScopusAccountUpdateRequest struct {
	Username    *string `json:"username,omitempty"`
	Affiliation *string `json:"affiliation,omitempty"`
	AuthorID    *uint   `json:"author_id,omitempty"`
}

func (r ScopusAccountUpdateRequest) Validate() error {
	return toDomainError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.RuneLength(0, 100)),
		validation.Field(&r.Affiliation, validation.RuneLength(0, 200)),
	))
}

type ScopusAccountResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Affiliation string `json:"affiliation"`
	AuthorID    uint   `json:"author_id"`
}

func newScopusAccountResponse(s *domain.ScopusAccount) ScopusAccountResponse {
	return ScopusAccountResponse{ID: s.ID, Username: s.Username, Affiliation: s.Affiliation, AuthorID: s.AuthorID}
}

// toDomainError turns ozzo field errors into a domain.ValidationError naming
// the first offending field in alphabetical order.
func toDomainError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &domain.ValidationError{Field: keys[0], Message: fieldErrs[keys[0]].Error()}
}
