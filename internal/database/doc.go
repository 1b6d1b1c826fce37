// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── departments/     # Department CRUD and author counting
//	├── authors/         # Author CRUD and name search
//	├── scopus/          # Scopus account CRUD
//	└── audit/           # Audit event log and retention cleanup
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type working on domain values:
//
//	// Initialize database connection
//	db, err := database.Open(database.Options{Driver: "sqlite", Path: "./academia.db"})
//
//	// Create domain-specific repositories
//	deptRepo := departments.NewRepository(db.DB)
//	authorRepo := authors.NewRepository(db.DB)
//
//	// Use repositories
//	dept, err := deptRepo.GetByCode(ctx, "PHY")
//	matches, err := authorRepo.SearchByName(ctx, "garcia")
//
// Repositories return domain errors (domain.NotFoundError, domain.ConflictError)
// so callers classify failures with errors.Is. Unique constraint violations
// are detected through GORM's TranslateError option.
//
// # Interface Implementations
//
//   - departments.Repository: implements services.DepartmentRepository
//   - authors.Repository: implements services.AuthorRepository
//   - scopus.Repository: implements services.ScopusAccountRepository
//   - audit.Repository: implements tasks.AuditEventCleaner
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
