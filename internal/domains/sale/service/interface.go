package service

import (
	"context"

	"royalty-backend/internal/domains/sale/model"
)

// ServiceInterface - sale lifecycle and ledger materialization
type ServiceInterface interface {
	// CreateSale persists the sale and materializes one ledger row per
	// contract of its book.
	CreateSale(ctx context.Context, in model.SaleInput) (*model.SaleWithLedger, error)
	// CreateSalesBatch is all-or-nothing: one invalid item fails the batch
	// and nothing is written.
	CreateSalesBatch(ctx context.Context, items []model.SaleInput) ([]model.SaleWithLedger, error)
	// EditSale applies a partial update. Ledger rows are rebuilt only when
	// the book changes; otherwise only overridden rows are patched.
	EditSale(ctx context.Context, id int64, in model.SaleInput) (*model.SaleWithLedger, error)
	DeleteSale(ctx context.Context, id int64) error
	GetSale(ctx context.Context, id int64) (*model.SaleWithLedger, error)
	ListSales(ctx context.Context, filter model.SaleFilter) ([]model.SaleListItem, int64, error)
}
