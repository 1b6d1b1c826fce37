package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/academia/internal/services"
)

type ScopusAccountsController struct {
	service *services.ScopusAccountService
}

func NewScopusAccountsController(service *services.ScopusAccountService) *ScopusAccountsController {
	return &ScopusAccountsController{service: service}
}

// POST /scopus-accounts
func (sc *ScopusAccountsController) Create(c *gin.Context) {
	var req services.ScopusAccountCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := sc.service.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create scopus account")
		return
	}
	respondCreated(c, account)
}

// List returns every account. With ?username= it returns the single
// matching account instead.
// GET /scopus-accounts
func (sc *ScopusAccountsController) List(c *gin.Context) {
	if username, ok := c.GetQuery("username"); ok {
		account, err := sc.service.GetByUsername(c.Request.Context(), username)
		if err != nil {
			respondServiceError(c, err, "get scopus account by username")
			return
		}
		c.JSON(http.StatusOK, account)
		return
	}

	accounts, err := sc.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list scopus accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// GET /scopus-accounts/:id
func (sc *ScopusAccountsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	account, err := sc.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get scopus account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// GET /scopus-accounts/author/:id
func (sc *ScopusAccountsController) ListByAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	accounts, err := sc.service.ListByAuthor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "list author scopus accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// PUT /scopus-accounts/:id
func (sc *ScopusAccountsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.ScopusAccountUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := sc.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "update scopus account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// DELETE /scopus-accounts/:id
func (sc *ScopusAccountsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sc.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "delete scopus account")
		return
	}
	respondSuccess(c, "scopus account deleted")
}
