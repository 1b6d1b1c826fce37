package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/academia/internal/audit"
	auditRepo "github.com/mrlokans/academia/internal/database/audit"
	"github.com/mrlokans/academia/internal/database/authors"
	"github.com/mrlokans/academia/internal/database/departments"
	"github.com/mrlokans/academia/internal/database/scopus"
	"github.com/mrlokans/academia/internal/http"
	"github.com/mrlokans/academia/internal/metrics"
	"github.com/mrlokans/academia/internal/scheduler"
	"github.com/mrlokans/academia/internal/services"
	"github.com/mrlokans/academia/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.DepartmentRepository = (*departments.Repository)(nil)
var _ services.AuthorRepository = (*authors.Repository)(nil)
var _ services.ScopusAccountRepository = (*scopus.Repository)(nil)

// =============================================================================
// Audit & Metrics
// =============================================================================

var _ services.MutationRecorder = (*audit.Service)(nil)
var _ audit.MutationCounter = (*metrics.Collector)(nil)
var _ http.RejectionRecorder = (*metrics.Collector)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*auditRepo.Repository)(nil)
var _ tasks.PurgeRecorder = (*metrics.Collector)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
