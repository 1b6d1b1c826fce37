package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/entities"
)

// DepartmentService implements the department use cases.
type DepartmentService struct {
	repo     DepartmentRepository
	recorder MutationRecorder
}

// NewDepartmentService creates a DepartmentService. recorder may be nil.
func NewDepartmentService(repo DepartmentRepository, recorder MutationRecorder) *DepartmentService {
	return &DepartmentService{repo: repo, recorder: recorderOrNoop(recorder)}
}

func (s *DepartmentService) Create(ctx context.Context, req DepartmentCreateRequest) (*DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dep, err := domain.NewDepartment(0, req.Code, req.Name, req.FacultyName)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, dep.Code, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, dep)
	s.record(ctx, entities.AuditEventCreate, idOf(created), "Created department: "+dep.String(), err)
	if err != nil {
		return nil, wrap("create department", err)
	}
	resp := newDepartmentResponse(created)
	return &resp, nil
}

func (s *DepartmentService) List(ctx context.Context) ([]DepartmentResponse, error) {
	deps, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, wrap("list departments", err)
	}
	out := make([]DepartmentResponse, 0, len(deps))
	for i := range deps {
		out = append(out, newDepartmentResponse(&deps[i]))
	}
	return out, nil
}

func (s *DepartmentService) Get(ctx context.Context, id uint) (*DepartmentResponse, error) {
	dep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newDepartmentResponse(dep)
	return &resp, nil
}

// Update applies the supplied fields only.
func (s *DepartmentService) Update(ctx context.Context, id uint, req DepartmentUpdateRequest) (*DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := current.Apply(domain.DepartmentPatch{
		Code:        req.Code,
		Name:        req.Name,
		FacultyName: req.FacultyName,
	})
	if err != nil {
		return nil, err
	}
	if next.Code != current.Code {
		if err := s.ensureCodeFree(ctx, next.Code, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, next)
	s.record(ctx, entities.AuditEventUpdate, id, "Updated department: "+next.String(), err)
	if err != nil {
		return nil, wrap("update department", err)
	}
	resp := newDepartmentResponse(updated)
	return &resp, nil
}

// Delete removes a department that no author references.
func (s *DepartmentService) Delete(ctx context.Context, id uint) error {
	dep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountAuthors(ctx, id)
	if err != nil {
		return wrap("count department authors", err)
	}
	if count > 0 {
		return &domain.ConflictError{
			Resource: "department",
			Message:  fmt.Sprintf("department %s still has %d author(s)", dep.Code, count),
		}
	}

	err = s.repo.Delete(ctx, id)
	s.record(ctx, entities.AuditEventDelete, id, "Deleted department: "+dep.String(), err)
	if err != nil {
		return wrap("delete department", err)
	}
	return nil
}

func (s *DepartmentService) ensureCodeFree(ctx context.Context, code string, selfID uint) error {
	existing, err := s.repo.GetByCode(ctx, code)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return wrap("check department code", err)
	case existing.ID != selfID:
		return &domain.ConflictError{Resource: "department", Field: "code", Value: code}
	}
	return nil
}

func (s *DepartmentService) record(ctx context.Context, t entities.AuditEventType, id uint, description string, err error) {
	s.recorder.RecordMutation(ctx, Mutation{
		Type:        t,
		EntityType:  entities.EntityDepartment,
		EntityID:    id,
		Description: description,
		Err:         err,
	})
}

func idOf(d *domain.Department) uint {
	if d == nil {
		return 0
	}
	return d.ID
}

// wrap adds op context to storage faults. Classified domain errors pass
// through untouched so their message reaches the client as is.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || domain.IsClientError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
