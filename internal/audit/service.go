package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/academia/internal/database/audit"
	"github.com/mrlokans/academia/internal/entities"
	"github.com/mrlokans/academia/internal/services"
)

const writeTimeout = 5 * time.Second

// MutationCounter is notified of every recorded mutation.
type MutationCounter interface {
	RecordMutation(entity, operation, status string)
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	counter MutationCounter
	wg      sync.WaitGroup
}

// NewService creates a new audit service. counter may be nil.
func NewService(repo *audit.Repository, counter MutationCounter) *Service {
	return &Service{repo: repo, counter: counter}
}

// Log records an audit event synchronously.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The write outlives the request, so it runs on its own context.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Error().Err(err).Str("action", event.Action).Msg("failed to log audit event")
		}
	}()
}

// Wait blocks until every pending asynchronous write has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// RecordMutation turns a service mutation into an audit event, attaching the
// request metadata carried by ctx.
func (s *Service) RecordMutation(ctx context.Context, m services.Mutation) {
	info := RequestInfoFrom(ctx)
	event := &entities.AuditEvent{
		EventType:   m.Type,
		Action:      m.EntityType + "_" + string(m.Type),
		Description: truncate(m.Description, 500),
		EntityType:  m.EntityType,
		RequestID:   info.RequestID,
		IPAddress:   info.IPAddress,
		UserAgent:   truncate(info.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
	}
	if m.EntityID > 0 {
		id := m.EntityID
		event.EntityID = &id
	}
	if m.Err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(m.Err.Error(), 500)
	}

	if s.counter != nil {
		s.counter.RecordMutation(m.EntityType, string(m.Type), string(event.Status))
	}
	s.LogAsync(event)
}

// Events lists audit events, most recent first. page starts at 1.
func (s *Service) Events(ctx context.Context, filter audit.Filter, page, limit int) ([]entities.AuditEvent, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.GetEvents(ctx, filter, limit, (page-1)*limit)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
