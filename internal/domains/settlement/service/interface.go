package service

import (
	"context"

	"github.com/shopspring/decimal"

	"royalty-backend/internal/domains/settlement/model"
)

// ServiceInterface - Settlement Engine
type ServiceInterface interface {
	// PayAuthorUnpaid marks every unpaid ledger row of the author paid in
	// one transaction. A second call finds nothing left to pay.
	PayAuthorUnpaid(ctx context.Context, authorID int64) (*model.AuthorSettlement, error)
	// PayAuthorsForSale marks every unpaid ledger row of the sale paid.
	PayAuthorsForSale(ctx context.Context, saleID int64) (*model.SaleSettlement, error)
	// UnpaidSubtotal is a display value read without locks.
	UnpaidSubtotal(ctx context.Context, authorID int64) (decimal.Decimal, error)
}
