package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/academia/internal/services"
)

type DepartmentsController struct {
	service *services.DepartmentService
}

func NewDepartmentsController(service *services.DepartmentService) *DepartmentsController {
	return &DepartmentsController{service: service}
}

// Create adds a department.
// POST /departments
func (dc *DepartmentsController) Create(c *gin.Context) {
	var req services.DepartmentCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	dept, err := dc.service.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create department")
		return
	}
	respondCreated(c, dept)
}

// List returns every department.
// GET /departments
func (dc *DepartmentsController) List(c *gin.Context) {
	depts, err := dc.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list departments")
		return
	}
	c.JSON(http.StatusOK, depts)
}

// Get returns a single department.
// GET /departments/:id
func (dc *DepartmentsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dept, err := dc.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get department")
		return
	}
	c.JSON(http.StatusOK, dept)
}

// Update applies a partial update.
// PUT /departments/:id
func (dc *DepartmentsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.DepartmentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	dept, err := dc.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "update department")
		return
	}
	c.JSON(http.StatusOK, dept)
}

// Delete removes a department that has no authors.
// DELETE /departments/:id
func (dc *DepartmentsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := dc.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "delete department")
		return
	}
	respondSuccess(c, "department deleted")
}
