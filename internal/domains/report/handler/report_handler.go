package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"royalty-backend/internal/domains/report/model"
	"royalty-backend/internal/domains/report/service"
	"royalty-backend/internal/shared/response"
	"royalty-backend/internal/shared/utils"
)

type ReportHandler struct {
	service service.ServiceInterface
}

func NewReportHandler(svc service.ServiceInterface) *ReportHandler {
	return &ReportHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// GET /v1/author-payments?page=&page_size=&all=
// Pages count authors; each author carries all of their ledger rows.
// ════════════════════════════════════════════════════════════════

func (h *ReportHandler) GroupedAuthorPayments(c *gin.Context) {
	page := utils.PageFromQuery(c, model.DefaultGroupPageSize)

	groups, total, err := h.service.GroupedAuthorPayments(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]model.AuthorPaymentGroupResponse, len(groups))
	for i := range groups {
		out[i] = groups[i].ToResponse()
	}
	response.SuccessWithMeta(c, http.StatusOK, out, response.PageMeta(page, total))
}

// ════════════════════════════════════════════════════════════════
// GET /v1/books/:id/sales-totals
// ════════════════════════════════════════════════════════════════

func (h *ReportHandler) BookSalesTotals(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	totals, err := h.service.BookSalesTotals(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, totals.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// GET /v1/author-payments/export
// ════════════════════════════════════════════════════════════════

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *ReportHandler) ExportAuthorPayments(c *gin.Context) {
	f, err := h.service.ExportAuthorPayments(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("author-payments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
