package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/academia/internal/services"
)

type AuthorsController struct {
	service *services.AuthorService
}

func NewAuthorsController(service *services.AuthorService) *AuthorsController {
	return &AuthorsController{service: service}
}

// Create adds an author.
// POST /authors
func (ac *AuthorsController) Create(c *gin.Context) {
	var req services.AuthorCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	author, err := ac.service.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create author")
		return
	}
	respondCreated(c, author)
}

// List returns every author with their Scopus accounts.
// GET /authors
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// GET /authors/:id
func (ac *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := ac.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// GET /authors/department/:id
func (ac *AuthorsController) ListByDepartment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	authors, err := ac.service.ListByDepartment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "list department authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// Search matches authors by name, case-insensitively.
// GET /authors/search/:term
func (ac *AuthorsController) Search(c *gin.Context) {
	authors, err := ac.service.SearchByName(c.Request.Context(), c.Param("term"))
	if err != nil {
		respondServiceError(c, err, "search authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// ScopusIDs returns the account ids of authors matching a name.
// GET /authors/scopus-ids/:term
func (ac *AuthorsController) ScopusIDs(c *gin.Context) {
	result, err := ac.service.ScopusIDsByName(c.Request.Context(), c.Param("term"))
	if err != nil {
		respondServiceError(c, err, "author scopus ids")
		return
	}
	c.JSON(http.StatusOK, result)
}

// PUT /authors/:id
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AuthorUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	author, err := ac.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// Delete removes an author together with their Scopus accounts.
// DELETE /authors/:id
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "delete author")
		return
	}
	respondSuccess(c, "author deleted")
}
