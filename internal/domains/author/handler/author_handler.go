package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"royalty-backend/internal/domains/author/model"
	"royalty-backend/internal/domains/author/service"
	"royalty-backend/internal/shared/response"
	"royalty-backend/internal/shared/utils"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/authors
// ════════════════════════════════════════════════════════════════

// Create adopts an existing author with the same name (200) or creates a
// new one (201).
func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	a, created, err := h.service.GetOrCreate(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GetByID - GET /v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, a.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: List - GET /v1/authors?search=&page=1&page_size=50
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	filter := model.AuthorFilter{
		Search: c.Query("search"),
		Page:   utils.PageFromQuery(c, utils.DefaultPageSize),
	}

	authors, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]model.AuthorResponse, len(authors))
	for i := range authors {
		out[i] = authors[i].ToResponse()
	}

	response.SuccessWithMeta(c, http.StatusOK, out, response.PageMeta(filter.Page, total))
}
