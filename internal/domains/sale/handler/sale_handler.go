package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"royalty-backend/internal/domains/sale/model"
	"royalty-backend/internal/domains/sale/service"
	"royalty-backend/internal/shared/response"
	"royalty-backend/internal/shared/utils"
)

type SaleHandler struct {
	service service.ServiceInterface
}

func NewSaleHandler(svc service.ServiceInterface) *SaleHandler {
	return &SaleHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/sales?book_id=&start_date=&end_date=&sort=&page=&page_size=&all=
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) ListSales(c *gin.Context) {
	filter := model.SaleFilter{
		Sort: utils.SortParam(c),
		Page: utils.PageFromQuery(c, utils.DefaultPageSize),
	}

	if raw := c.Query("book_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "book_id must be an integer")
			return
		}
		filter.BookID = &id
	}

	// Sales are recorded per month; both bounds cover whole months.
	if raw := c.Query("start_date"); raw != "" {
		t, err := utils.MonthStart(raw)
		if err != nil {
			response.BadRequest(c, "start_date must be YYYY-MM or YYYY-MM-DD")
			return
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := utils.MonthEnd(raw)
		if err != nil {
			response.BadRequest(c, "end_date must be YYYY-MM or YYYY-MM-DD")
			return
		}
		filter.EndDate = &t
	}

	sales, total, err := h.service.ListSales(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]model.SaleListResponse, len(sales))
	for i := range sales {
		out[i] = model.ToSaleListResponse(&sales[i])
	}
	response.SuccessWithMeta(c, http.StatusOK, out, response.PageMeta(filter.Page, total))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/sales
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req model.SaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.service.CreateSale(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, model.ToSaleResponse(sale))
}

// ════════════════════════════════════════════════════════════════
// BATCH: POST /v1/sales/batch
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) CreateSalesBatch(c *gin.Context) {
	var req []model.SaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Expected a list of sales")
		return
	}

	sales, err := h.service.CreateSalesBatch(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]model.SaleResponse, len(sales))
	for i := range sales {
		out[i] = model.ToSaleResponse(&sales[i])
	}
	response.Success(c, http.StatusCreated, out)
}

// ════════════════════════════════════════════════════════════════
// DETAIL: GET /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToSaleResponse(sale))
}

// ════════════════════════════════════════════════════════════════
// EDIT: PATCH /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) EditSale(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	var req model.SaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.service.EditSale(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToSaleResponse(sale))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) DeleteSale(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	if err := h.service.DeleteSale(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
