package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/academia/internal/metrics"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestInfoMiddleware())
	router.Use(AccessLogMiddleware())

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	if len(cfg.CORSOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.CORSOrigins))
	}

	// Operational endpoints bypass rate limiting and read-only mode.
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	api := router.Group("")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Middleware())
	}
	if cfg.ReadOnly != nil && cfg.ReadOnly.IsEnabled() {
		api.Use(cfg.ReadOnly.Handler())
	}

	if cfg.Departments != nil {
		departments := NewDepartmentsController(cfg.Departments)
		api.POST("/departments", departments.Create)
		api.GET("/departments", departments.List)
		api.GET("/departments/:id", departments.Get)
		api.PUT("/departments/:id", departments.Update)
		api.DELETE("/departments/:id", departments.Delete)
	}

	if cfg.Authors != nil {
		authors := NewAuthorsController(cfg.Authors)
		api.POST("/authors", authors.Create)
		api.GET("/authors", authors.List)
		api.GET("/authors/department/:id", authors.ListByDepartment)
		api.GET("/authors/search/:term", authors.Search)
		api.GET("/authors/scopus-ids/:term", authors.ScopusIDs)
		api.GET("/authors/:id", authors.Get)
		api.PUT("/authors/:id", authors.Update)
		api.DELETE("/authors/:id", authors.Delete)
	}

	if cfg.ScopusAccounts != nil {
		accounts := NewScopusAccountsController(cfg.ScopusAccounts)
		api.POST("/scopus-accounts", accounts.Create)
		api.GET("/scopus-accounts", accounts.List)
		api.GET("/scopus-accounts/author/:id", accounts.ListByAuthor)
		api.GET("/scopus-accounts/:id", accounts.Get)
		api.PUT("/scopus-accounts/:id", accounts.Update)
		api.DELETE("/scopus-accounts/:id", accounts.Delete)
	}

	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		api.GET("/api/audit", auditController.GetAuditEvents)
	}

	return router
}
