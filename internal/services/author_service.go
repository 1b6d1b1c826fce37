package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/entities"
)

// AuthorService implements the author use cases. Responses embed each
// author's Scopus accounts.
type AuthorService struct {
	authors     AuthorRepository
	departments DepartmentRepository
	accounts    ScopusAccountRepository
	recorder    MutationRecorder
}

// NewAuthorService creates an AuthorService. recorder may be nil.
func NewAuthorService(authors AuthorRepository, departments DepartmentRepository, accounts ScopusAccountRepository, recorder MutationRecorder) *AuthorService {
	return &AuthorService{
		authors:     authors,
		departments: departments,
		accounts:    accounts,
		recorder:    recorderOrNoop(recorder),
	}
}

func (s *AuthorService) Create(ctx context.Context, req AuthorCreateRequest) (*AuthorResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	params, err := req.params()
	if err != nil {
		return nil, err
	}
	author, err := domain.NewAuthor(params)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDNIFree(ctx, author.DNI.String(), 0); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, author.DepartmentID); err != nil {
		return nil, err
	}

	created, err := s.authors.Create(ctx, author)
	var id uint
	if created != nil {
		id = created.ID
	}
	s.record(ctx, entities.AuditEventCreate, id, "Created author: "+author.String(), err)
	if err != nil {
		return nil, wrap("create author", err)
	}
	resp := newAuthorResponse(created, nil)
	return &resp, nil
}

func (s *AuthorService) List(ctx context.Context) ([]AuthorResponse, error) {
	authors, err := s.authors.GetAll(ctx)
	if err != nil {
		return nil, wrap("list authors", err)
	}
	return s.withAccounts(ctx, authors)
}

func (s *AuthorService) Get(ctx context.Context, id uint) (*AuthorResponse, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.GetByAuthorID(ctx, id)
	if err != nil {
		return nil, wrap("load scopus accounts", err)
	}
	resp := newAuthorResponse(author, accounts)
	return &resp, nil
}

// ListByDepartment returns the department's authors. An unknown department
// yields an empty list.
func (s *AuthorService) ListByDepartment(ctx context.Context, departmentID uint) ([]AuthorResponse, error) {
	authors, err := s.authors.GetByDepartmentID(ctx, departmentID)
	if err != nil {
		return nil, wrap("list department authors", err)
	}
	return s.withAccounts(ctx, authors)
}

// Update applies the supplied fields only.
func (s *AuthorService) Update(ctx context.Context, id uint, req AuthorUpdateRequest) (*AuthorResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	patch, err := req.patch()
	if err != nil {
		return nil, err
	}
	current, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := current.Apply(patch)
	if err != nil {
		return nil, err
	}
	if next.DNI != current.DNI {
		if err := s.ensureDNIFree(ctx, next.DNI.String(), id); err != nil {
			return nil, err
		}
	}
	if next.DepartmentID != current.DepartmentID {
		if err := s.ensureDepartment(ctx, next.DepartmentID); err != nil {
			return nil, err
		}
	}

	updated, err := s.authors.Update(ctx, next)
	s.record(ctx, entities.AuditEventUpdate, id, "Updated author: "+next.String(), err)
	if err != nil {
		return nil, wrap("update author", err)
	}
	accounts, err := s.accounts.GetByAuthorID(ctx, id)
	if err != nil {
		return nil, wrap("load scopus accounts", err)
	}
	resp := newAuthorResponse(updated, accounts)
	return &resp, nil
}

// Delete removes the author and its Scopus accounts.
func (s *AuthorService) Delete(ctx context.Context, id uint) error {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.authors.Delete(ctx, id)
	s.record(ctx, entities.AuditEventDelete, id, "Deleted author: "+author.String(), err)
	if err != nil {
		return wrap("delete author", err)
	}
	return nil
}

// SearchByName matches a case-insensitive substring of the author's names.
func (s *AuthorService) SearchByName(ctx context.Context, term string) ([]AuthorResponse, error) {
	authors, err := s.search(ctx, term)
	if err != nil {
		return nil, err
	}
	return s.withAccounts(ctx, authors)
}

// ScopusIDsByName lists the Scopus account IDs of the authors matching term.
// Authors without accounts are left out.
func (s *AuthorService) ScopusIDsByName(ctx context.Context, term string) ([]AuthorScopusIDs, error) {
	authors, err := s.search(ctx, term)
	if err != nil {
		return nil, err
	}
	byAuthor, err := s.accountsByAuthor(ctx, authors)
	if err != nil {
		return nil, err
	}

	out := make([]AuthorScopusIDs, 0, len(authors))
	for i := range authors {
		accounts := byAuthor[authors[i].ID]
		if len(accounts) == 0 {
			continue
		}
		ids := make([]uint, 0, len(accounts))
		for _, acc := range accounts {
			ids = append(ids, acc.ID)
		}
		out = append(out, AuthorScopusIDs{
			AuthorID:         authors[i].ID,
			FullName:         authors[i].FullName(),
			DNI:              authors[i].DNI.String(),
			ScopusAccountIDs: ids,
		})
	}
	return out, nil
}

func (s *AuthorService) search(ctx context.Context, term string) ([]domain.Author, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, &domain.ValidationError{Field: "search_term", Message: "search term must not be empty"}
	}
	authors, err := s.authors.SearchByName(ctx, term)
	if err != nil {
		return nil, wrap("search authors", err)
	}
	return authors, nil
}

func (s *AuthorService) withAccounts(ctx context.Context, authors []domain.Author) ([]AuthorResponse, error) {
	byAuthor, err := s.accountsByAuthor(ctx, authors)
	if err != nil {
		return nil, err
	}
	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		out = append(out, newAuthorResponse(&authors[i], byAuthor[authors[i].ID]))
	}
	return out, nil
}

func (s *AuthorService) accountsByAuthor(ctx context.Context, authors []domain.Author) (map[uint][]domain.ScopusAccount, error) {
	ids := make([]uint, 0, len(authors))
	for i := range authors {
		ids = append(ids, authors[i].ID)
	}
	accounts, err := s.accounts.GetByAuthorIDs(ctx, ids)
	if err != nil {
		return nil, wrap("load scopus accounts", err)
	}
	byAuthor := make(map[uint][]domain.ScopusAccount, len(authors))
	for _, acc := range accounts {
		byAuthor[acc.AuthorID] = append(byAuthor[acc.AuthorID], acc)
	}
	return byAuthor, nil
}

func (s *AuthorService) ensureDNIFree(ctx context.Context, dni string, selfID uint) error {
	existing, err := s.authors.GetByDNI(ctx, dni)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return wrap("check author dni", err)
	case existing.ID != selfID:
		return &domain.ConflictError{Resource: "author", Field: "dni", Value: dni}
	}
	return nil
}

func (s *AuthorService) ensureDepartment(ctx context.Context, id uint) error {
	_, err := s.departments.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ValidationError{Field: "department_id", Message: err.Error()}
	}
	return wrap("check department", err)
}

func (s *AuthorService) record(ctx context.Context, t entities.AuditEventType, id uint, description string, err error) {
	s.recorder.RecordMutation(ctx, Mutation{
		Type:        t,
		EntityType:  entities.EntityAuthor,
		EntityID:    id,
		Description: description,
		Err:         err,
	})
}
