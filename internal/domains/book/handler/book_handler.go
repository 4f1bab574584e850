package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"royalty-backend/internal/domains/book/model"
	"royalty-backend/internal/domains/book/service"
	"royalty-backend/internal/shared/response"
	"royalty-backend/internal/shared/utils"
)

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/books?q=&published_before=&sort=&page=&page_size=&all=
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) ListBooks(c *gin.Context) {
	filter := model.BookFilter{
		Search: c.Query("q"),
		Sort:   utils.SortParam(c),
		Page:   utils.PageFromQuery(c, utils.DefaultPageSize),
	}

	if raw := c.Query("published_before"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "published_before must be a date (YYYY-MM-DD)")
			return
		}
		filter.PublishedBefore = &t
	}

	books, total, err := h.service.ListBooks(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]model.BookResponse, len(books))
	for i := range books {
		out[i] = model.ToBookResponse(&books[i])
	}
	response.SuccessWithMeta(c, http.StatusOK, out, response.PageMeta(filter.Page, total))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/books
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, model.ToBookResponse(b))
}

// ════════════════════════════════════════════════════════════════
// DETAIL: GET /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	b, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToBookResponse(b))
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToBookResponse(b))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ════════════════════════════════════════════════════════════════
// CONTRACTS: GET / PUT /v1/books/:id/contracts
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) GetContracts(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	contracts, err := h.service.GetContracts(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToContractResponses(contracts))
}

func (h *BookHandler) ReplaceContracts(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.ReplaceContractsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	contracts, err := h.service.ReplaceContracts(c.Request.Context(), id, req.Authors)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToContractResponses(contracts))
}
