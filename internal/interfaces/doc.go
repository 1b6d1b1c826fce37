// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - DepartmentRepository: department storage (internal/services/interfaces.go)
//   - AuthorRepository: author storage and name search (internal/services/interfaces.go)
//   - ScopusAccountRepository: Scopus account storage (internal/services/interfaces.go)
//
// ## Audit & Metrics Interfaces
//
//   - MutationRecorder: receives every create/update/delete attempt
//     (internal/services/interfaces.go), implemented by audit.Service
//   - MutationCounter: counts recorded mutations (internal/audit/service.go)
//   - RejectionRecorder: counts rate-limited requests (internal/http/ratelimit.go)
//
// ## Background Work Interfaces
//
//   - AuditEventCleaner: deletes expired audit events (internal/tasks/cleanup_audit.go)
//   - PurgeRecorder: counts purged audit events (internal/tasks/cleanup_audit.go)
//   - CleanupEnqueuer: hands scheduled cleanups to the task queue
//     (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Resource
//
//  1. Add the validated domain type in internal/domain/ with a smart constructor
//     and an Apply method for partial updates.
//
//  2. Add the GORM model in internal/entities/ and register it in
//     database.Open's AutoMigrate call.
//
//  3. Create a sub-package internal/database/<resource>/:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  4. Declare the repository interface and the service in internal/services/,
//     recording mutations through MutationRecorder.
//
//  5. Add a controller in internal/http/ and register its routes in router.go.
//
//  6. Add compile-time checks to checks.go:
//
//     var _ services.GrantRepository = (*grants.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
