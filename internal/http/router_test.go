package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/academia/internal/audit"
	"github.com/mrlokans/academia/internal/database"
	auditRepo "github.com/mrlokans/academia/internal/database/audit"
	"github.com/mrlokans/academia/internal/database/authors"
	"github.com/mrlokans/academia/internal/database/departments"
	"github.com/mrlokans/academia/internal/database/scopus"
	"github.com/mrlokans/academia/internal/metrics"
	"github.com/mrlokans/academia/internal/readonly"
	"github.com/mrlokans/academia/internal/services"
)

type testAPI struct {
	router *gin.Engine
	audit  *audit.Service
}

type apiOption func(*RouterConfig)

func setupTestAPI(t *testing.T, opts ...apiOption) (*testAPI, func()) {
	t.Helper()

	dbPath := "./test_api_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	auditService := audit.NewService(auditRepo.NewRepository(db.DB), collector)

	depRepo := departments.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	accountRepo := scopus.NewRepository(db.DB)

	cfg := RouterConfig{
		Database:       db,
		Departments:    services.NewDepartmentService(depRepo, auditService),
		Authors:        services.NewAuthorService(authorRepo, depRepo, accountRepo, auditService),
		ScopusAccounts: services.NewScopusAccountService(accountRepo, authorRepo, auditService),
		AuditService:   auditService,
		Metrics:        collector,
		Gatherer:       reg,
		Version:        "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cleanup := func() {
		auditService.Wait()
		if cfg.RateLimiter != nil {
			cfg.RateLimiter.Stop()
		}
		db.Close()
		os.Remove(dbPath)
	}
	return &testAPI{router: NewRouter(cfg), audit: auditService}, cleanup
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) createDepartment(t *testing.T, code string) services.DepartmentResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/departments", gin.H{
		"code":         code,
		"name":         "Department " + code,
		"faculty_name": "Sciences",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.DepartmentResponse](t, w)
}

func (a *testAPI) createAuthor(t *testing.T, dni, first, last string, departmentID uint) services.AuthorResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/authors", authorBody(dni, first, last, departmentID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.AuthorResponse](t, w)
}

func (a *testAPI) createAccount(t *testing.T, username string, authorID uint) services.ScopusAccountResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/scopus-accounts", gin.H{
		"username":    username,
		"affiliation": "National University",
		"author_id":   authorID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.ScopusAccountResponse](t, w)
}

func authorBody(dni, first, last string, departmentID uint) gin.H {
	return gin.H{
		"dni":           dni,
		"title":         "PhD",
		"first_name":    first,
		"last_name":     last,
		"birth_date":    "1975-03-09",
		"gender":        "M",
		"position":      "Lecturer",
		"department_id": departmentID,
	}
}

func TestRouter_Departments(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	dept := api.createDepartment(t, "PHY")
	assert.NotZero(t, dept.ID)
	assert.Equal(t, "PHY", dept.Code)

	t.Run("list and get", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/departments", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]services.DepartmentResponse](t, w), 1)

		w = api.do(t, http.MethodGet, fmt.Sprintf("/departments/%d", dept.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Department PHY", decode[services.DepartmentResponse](t, w).Name)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		w := api.do(t, http.MethodPut, fmt.Sprintf("/departments/%d", dept.ID), gin.H{"name": "Physics"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decode[services.DepartmentResponse](t, w)
		assert.Equal(t, "Physics", updated.Name)
		assert.Equal(t, "PHY", updated.Code)
		assert.Equal(t, "Sciences", updated.FacultyName)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/departments", gin.H{"code": "PHY", "name": "Other", "faculty_name": "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeConflict, decode[ErrorResponse](t, w).Code)
	})

	t.Run("blank name is an empty field error", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/departments", gin.H{"code": "CHE", "name": "  ", "faculty_name": "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeEmptyField, decode[ErrorResponse](t, w).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/departments", `{"code":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decode[ErrorResponse](t, w).Error)
	})

	t.Run("unknown and invalid ids", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/departments/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, w).Code)

		w = api.do(t, http.MethodGet, "/departments/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete with authors is rejected", func(t *testing.T) {
		api.createAuthor(t, "1710034065", "Ana", "Lopez", dept.ID)

		w := api.do(t, http.MethodDelete, fmt.Sprintf("/departments/%d", dept.ID), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeConflict, decode[ErrorResponse](t, w).Code)
	})

	t.Run("delete empty department", func(t *testing.T) {
		empty := api.createDepartment(t, "MAT")

		w := api.do(t, http.MethodDelete, fmt.Sprintf("/departments/%d", empty.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"department deleted"}`, w.Body.String())

		w = api.do(t, http.MethodGet, fmt.Sprintf("/departments/%d", empty.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_Authors(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	dept := api.createDepartment(t, "CS")
	other := api.createDepartment(t, "EE")
	maria := api.createAuthor(t, "1710034065", "Maria", "Garcia", dept.ID)
	jose := api.createAuthor(t, "0926687856", "Jose", "Martinez", other.ID)
	api.createAccount(t, "mgarcia", maria.ID)
	api.createAccount(t, "mgarcia2", maria.ID)

	t.Run("create response shape", func(t *testing.T) {
		w := api.do(t, http.MethodGet, fmt.Sprintf("/authors/%d", maria.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[services.AuthorResponse](t, w)
		assert.Equal(t, "1975-03-09", got.BirthDate)
		assert.Len(t, got.ScopusAccounts, 2)

		w = api.do(t, http.MethodGet, fmt.Sprintf("/authors/%d", jose.ID), nil)
		assert.Contains(t, w.Body.String(), `"scopus_accounts":[]`)
	})

	t.Run("invalid dni", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/authors", authorBody("1710034066", "Bad", "Dni", dept.ID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeValidation, decode[ErrorResponse](t, w).Code)
	})

	t.Run("duplicate dni", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/authors", authorBody("1710034065", "Copy", "Cat", dept.ID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeConflict, decode[ErrorResponse](t, w).Code)
	})

	t.Run("unknown department", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/authors", authorBody("0102030400", "No", "Dept", 999))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeValidation, decode[ErrorResponse](t, w).Code)
	})

	t.Run("by department", func(t *testing.T) {
		w := api.do(t, http.MethodGet, fmt.Sprintf("/authors/department/%d", other.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]services.AuthorResponse](t, w)
		require.Len(t, got, 1)
		assert.Equal(t, jose.ID, got[0].ID)
	})

	t.Run("search by name", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/authors/search/mar", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]services.AuthorResponse](t, w), 2)

		w = api.do(t, http.MethodGet, "/authors/search/Maria%20Gar", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]services.AuthorResponse](t, w), 1)

		w = api.do(t, http.MethodGet, "/authors/search/%20%20", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("scopus ids by name", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/authors/scopus-ids/mar", nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]services.AuthorScopusIDs](t, w)
		require.Len(t, got, 1)
		assert.Equal(t, maria.ID, got[0].AuthorID)
		assert.Len(t, got[0].ScopusAccountIDs, 2)
	})

	t.Run("update", func(t *testing.T) {
		w := api.do(t, http.MethodPut, fmt.Sprintf("/authors/%d", jose.ID), gin.H{"position": "Dean", "department_id": dept.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[services.AuthorResponse](t, w)
		assert.Equal(t, "Dean", got.Position)
		assert.Equal(t, dept.ID, got.DepartmentID)
		assert.Equal(t, "Jose", got.FirstName)
	})

	t.Run("update with bad gender", func(t *testing.T) {
		w := api.do(t, http.MethodPut, fmt.Sprintf("/authors/%d", jose.ID), gin.H{"gender": "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete removes accounts", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, fmt.Sprintf("/authors/%d", maria.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"author deleted"}`, w.Body.String())

		w = api.do(t, http.MethodGet, "/scopus-accounts", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]services.ScopusAccountResponse](t, w))

		w = api.do(t, http.MethodGet, fmt.Sprintf("/authors/%d", maria.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_ScopusAccounts(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	dept := api.createDepartment(t, "BIO")
	author := api.createAuthor(t, "2400000002", "Lucia", "Perez", dept.ID)
	second := api.createAuthor(t, "0100000009", "Pablo", "Ruiz", dept.ID)
	account := api.createAccount(t, "lperez", author.ID)

	t.Run("filter by username", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/scopus-accounts?username=lperez", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, account.ID, decode[services.ScopusAccountResponse](t, w).ID)

		w = api.do(t, http.MethodGet, "/scopus-accounts?username=nobody", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/scopus-accounts", gin.H{"username": "lperez", "affiliation": "X", "author_id": second.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeConflict, decode[ErrorResponse](t, w).Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/scopus-accounts", gin.H{"username": "ghost", "affiliation": "X", "author_id": 999})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeValidation, decode[ErrorResponse](t, w).Code)
	})

	t.Run("by author", func(t *testing.T) {
		w := api.do(t, http.MethodGet, fmt.Sprintf("/scopus-accounts/author/%d", author.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]services.ScopusAccountResponse](t, w), 1)

		w = api.do(t, http.MethodGet, "/scopus-accounts/author/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("reassign to another author", func(t *testing.T) {
		w := api.do(t, http.MethodPut, fmt.Sprintf("/scopus-accounts/%d", account.ID), gin.H{"author_id": second.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[services.ScopusAccountResponse](t, w)
		assert.Equal(t, second.ID, got.AuthorID)
		assert.Equal(t, "lperez", got.Username)
	})

	t.Run("delete", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, fmt.Sprintf("/scopus-accounts/%d", account.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"scopus account deleted"}`, w.Body.String())

		w = api.do(t, http.MethodDelete, fmt.Sprintf("/scopus-accounts/%d", account.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_AuditEvents(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	dept := api.createDepartment(t, "HIS")
	api.do(t, http.MethodPut, fmt.Sprintf("/departments/%d", dept.ID), gin.H{"name": "History"})
	api.audit.Wait()

	w := api.do(t, http.MethodGet, "/api/audit?entity_type=department", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Events []struct {
			Action    string `json:"action"`
			RequestID string `json:"request_id"`
		} `json:"events"`
		TotalEvents int64 `json:"total_events"`
		Page        int   `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.TotalEvents)
	assert.Equal(t, 1, body.Page)
	require.Len(t, body.Events, 2)
	assert.Equal(t, "department_update", body.Events[0].Action)
	assert.NotEmpty(t, body.Events[0].RequestID)

	w = api.do(t, http.MethodGet, "/api/audit?type=delete", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(0), body.TotalEvents)

	w = api.do(t, http.MethodGet, "/api/audit?entity_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ReadOnly(t *testing.T) {
	api, cleanup := setupTestAPI(t, func(cfg *RouterConfig) {
		cfg.ReadOnly = readonly.NewMiddleware(true)
	})
	defer cleanup()

	w := api.do(t, http.MethodPost, "/departments", gin.H{"code": "PHY", "name": "Physics", "faculty_name": "Sciences"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/departments", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	api, cleanup := setupTestAPI(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = NewRateLimiter(RateLimitConfig{RequestsPerSecond: 0.01, Burst: 2}, cfg.Metrics)
	})
	defer cleanup()

	for i := 0; i < 2; i++ {
		w := api.do(t, http.MethodGet, "/departments", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := api.do(t, http.MethodGet, "/departments", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[ErrorResponse](t, w).Code)

	// Health checks are never limited.
	w = api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MetricsAndRequestID(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	api.createDepartment(t, "ART")
	api.audit.Wait()

	w := api.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `academia_mutations_total{entity="department",operation="create",status="success"} 1`)
	assert.Contains(t, w.Body.String(), `route="/departments"`)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
