package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrlokans/academia/internal/audit"
	"github.com/mrlokans/academia/internal/database"
	"github.com/mrlokans/academia/internal/metrics"
	"github.com/mrlokans/academia/internal/readonly"
	"github.com/mrlokans/academia/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database       *database.Database
	Departments    *services.DepartmentService
	Authors        *services.AuthorService
	ScopusAccounts *services.ScopusAccountService

	// Audit log (optional)
	AuditService *audit.Service

	// Metrics (optional). Gatherer backs the /metrics endpoint.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// Read-only mode (optional)
	ReadOnly *readonly.Middleware

	// Rate limiting (optional)
	RateLimiter *RateLimiter

	// Allowed CORS origins; empty disables CORS headers.
	CORSOrigins []string

	// Application info
	Version string
}
