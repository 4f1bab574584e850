package repository

import (
	"context"

	"royalty-backend/internal/domains/sale/model"
	"royalty-backend/pkg/database"
)

// RepositoryInterface - sales and their ledger rows
type RepositoryInterface interface {
	Create(ctx context.Context, q database.Querier, s *model.Sale) (*model.Sale, error)
	Update(ctx context.Context, q database.Querier, s *model.Sale) (*model.Sale, error)
	// Delete cascades to the sale's ledger rows.
	Delete(ctx context.Context, q database.Querier, id int64) error
	// GetByID returns the sale with its book title and ledger.
	GetByID(ctx context.Context, q database.Querier, id int64) (*model.SaleWithLedger, error)
	// GetByIDForUpdate locks the sale row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, q database.Querier, id int64) (*model.Sale, error)

	// InsertLedger writes rows; their ids are ignored.
	InsertLedger(ctx context.Context, q database.Querier, rows []model.AuthorSale) error
	// DeleteLedger removes every ledger row of the sale and returns how many.
	DeleteLedger(ctx context.Context, q database.Querier, saleID int64) (int64, error)
	// GetLedger returns the sale's rows ordered by author id.
	GetLedger(ctx context.Context, q database.Querier, saleID int64) ([]model.AuthorSale, error)
	// GetLedgerForUpdate locks the sale's rows in id order, the order
	// settlement locks them in, and returns them ordered by author id.
	GetLedgerForUpdate(ctx context.Context, q database.Querier, saleID int64) ([]model.AuthorSale, error)
	LedgerForSales(ctx context.Context, q database.Querier, saleIDs []int64) (map[int64][]model.AuthorSale, error)
	// UpdateLedgerRows writes only the columns each patch names.
	UpdateLedgerRows(ctx context.Context, q database.Querier, patches []model.LedgerPatch) error

	List(ctx context.Context, filter model.SaleFilter) ([]model.SaleListItem, int64, error)
}
