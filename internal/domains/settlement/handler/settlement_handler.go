package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/internal/domains/settlement/service"
	"royalty-backend/internal/shared/response"
	"royalty-backend/internal/shared/utils"
)

type SettlementHandler struct {
	service service.ServiceInterface
}

func NewSettlementHandler(svc service.ServiceInterface) *SettlementHandler {
	return &SettlementHandler{service: svc}
}

// POST /v1/authors/:id/pay-unpaid
func (h *SettlementHandler) PayAuthorUnpaid(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	result, err := h.service.PayAuthorUnpaid(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result.ToResponse())
}

// POST /v1/sales/:id/pay-authors
func (h *SettlementHandler) PayAuthorsForSale(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	result, err := h.service.PayAuthorsForSale(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result.ToResponse())
}

// GET /v1/authors/:id/unpaid-subtotal
func (h *SettlementHandler) UnpaidSubtotal(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	total, err := h.service.UnpaidSubtotal(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.UnpaidSubtotalResponse{
		AuthorID:       id,
		UnpaidSubtotal: total.StringFixed(2),
	})
}
