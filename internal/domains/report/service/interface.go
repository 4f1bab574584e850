package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"royalty-backend/internal/domains/report/model"
	"royalty-backend/internal/shared/utils"
)

// ServiceInterface - read-only payment reports
type ServiceInterface interface {
	// GroupedAuthorPayments pages authors by name and groups every ledger
	// row of the page's authors under them.
	GroupedAuthorPayments(ctx context.Context, page utils.Page) ([]model.AuthorPaymentGroup, int64, error)
	BookSalesTotals(ctx context.Context, bookID int64) (*model.BookSalesTotals, error)
	// ExportAuthorPayments builds a workbook of every author's ledger rows.
	// The caller closes the file.
	ExportAuthorPayments(ctx context.Context) (*excelize.File, error)
}
