package services

import (
	"context"
	"errors"

	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/entities"
)

// ScopusAccountService implements the Scopus account use cases.
type ScopusAccountService struct {
	accounts ScopusAccountRepository
	authors  AuthorRepository
	recorder MutationRecorder
}

// NewScopusAccountService creates a ScopusAccountService. recorder may be nil.
func NewScopusAccountService(accounts ScopusAccountRepository, authors AuthorRepository, recorder MutationRecorder) *ScopusAccountService {
	return &ScopusAccountService{accounts: accounts, authors: authors, recorder: recorderOrNoop(recorder)}
}

func (s *ScopusAccountService) Create(ctx context.Context, req ScopusAccountCreateRequest) (*ScopusAccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	account, err := domain.NewScopusAccount(0, req.Username, req.Affiliation, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAuthor(ctx, account.AuthorID); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, account.Username, 0); err != nil {
		return nil, err
	}

	created, err := s.accounts.Create(ctx, account)
	var id uint
	if created != nil {
		id = created.ID
	}
	s.record(ctx, entities.AuditEventCreate, id, "Created scopus account: "+account.String(), err)
	if err != nil {
		return nil, wrap("create scopus account", err)
	}
	resp := newScopusAccountResponse(created)
	return &resp, nil
}

func (s *ScopusAccountService) List(ctx context.Context) ([]ScopusAccountResponse, error) {
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return nil, wrap("list scopus accounts", err)
	}
	return toScopusAccountResponses(accounts), nil
}

func (s *ScopusAccountService) Get(ctx context.Context, id uint) (*ScopusAccountResponse, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newScopusAccountResponse(account)
	return &resp, nil
}

// GetByUsername looks an account up by its exact username.
func (s *ScopusAccountService) GetByUsername(ctx context.Context, username string) (*ScopusAccountResponse, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := newScopusAccountResponse(account)
	return &resp, nil
}

// ListByAuthor returns the accounts of an existing author.
func (s *ScopusAccountService) ListByAuthor(ctx context.Context, authorID uint) ([]ScopusAccountResponse, error) {
	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.GetByAuthorID(ctx, authorID)
	if err != nil {
		return nil, wrap("list author scopus accounts", err)
	}
	return toScopusAccountResponses(accounts), nil
}

// Update applies the supplied fields only.
func (s *ScopusAccountService) Update(ctx context.Context, id uint, req ScopusAccountUpdateRequest) (*ScopusAccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := current.Apply(domain.ScopusAccountPatch{
		Username:    req.Username,
		Affiliation: req.Affiliation,
		AuthorID:    req.AuthorID,
	})
	if err != nil {
		return nil, err
	}
	if next.Username != current.Username {
		if err := s.ensureUsernameFree(ctx, next.Username, id); err != nil {
			return nil, err
		}
	}
	if next.AuthorID != current.AuthorID {
		if err := s.ensureAuthor(ctx, next.AuthorID); err != nil {
			return nil, err
		}
	}

	updated, err := s.accounts.Update(ctx, next)
	s.record(ctx, entities.AuditEventUpdate, id, "Updated scopus account: "+next.String(), err)
	if err != nil {
		return nil, wrap("update scopus account", err)
	}
	resp := newScopusAccountResponse(updated)
	return &resp, nil
}

func (s *ScopusAccountService) Delete(ctx context.Context, id uint) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.accounts.Delete(ctx, id)
	s.record(ctx, entities.AuditEventDelete, id, "Deleted scopus account: "+account.String(), err)
	if err != nil {
		return wrap("delete scopus account", err)
	}
	return nil
}

func (s *ScopusAccountService) ensureAuthor(ctx context.Context, id uint) error {
	_, err := s.authors.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ValidationError{Field: "author_id", Message: err.Error()}
	}
	return wrap("check author", err)
}

func (s *ScopusAccountService) ensureUsernameFree(ctx context.Context, username string, selfID uint) error {
	existing, err := s.accounts.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return wrap("check scopus username", err)
	case existing.ID != selfID:
		return &domain.ConflictError{Resource: "scopus account", Field: "username", Value: username}
	}
	return nil
}

func (s *ScopusAccountService) record(ctx context.Context, t entities.AuditEventType, id uint, description string, err error) {
	s.recorder.RecordMutation(ctx, Mutation{
		Type:        t,
		EntityType:  entities.EntityScopusAccount,
		EntityID:    id,
		Description: description,
		Err:         err,
	})
}

func toScopusAccountResponses(accounts []domain.ScopusAccount) []ScopusAccountResponse {
	out := make([]ScopusAccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, newScopusAccountResponse(&accounts[i]))
	}
	return out
}
