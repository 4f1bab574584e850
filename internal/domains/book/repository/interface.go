package repository

import (
	"context"
	"time"

	"royalty-backend/internal/domains/book/model"
	"royalty-backend/pkg/database"
)

// RepositoryInterface - books and their royalty contracts
type RepositoryInterface interface {
	// Create returns model.ErrDuplicateISBN13 on a taken isbn_13.
	Create(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error)
	// Update returns model.ErrDuplicateISBN13 on a taken isbn_13.
	Update(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error)
	// Delete cascades to contracts, sales and ledger rows.
	Delete(ctx context.Context, q database.Querier, id int64) error
	GetByID(ctx context.Context, q database.Querier, id int64) (*model.Book, error)
	// GetByIDForUpdate locks the book row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, q database.Querier, id int64) (*model.Book, error)
	// GetByIDForShare blocks book updates, not other sales, until the
	// transaction ends.
	GetByIDForShare(ctx context.Context, q database.Querier, id int64) (*model.Book, error)

	// TotalSalesToDate sums sale quantities; 0 without sales.
	TotalSalesToDate(ctx context.Context, q database.Querier, id int64) (int64, error)
	// EarliestSaleDate is nil for a book without sales.
	EarliestSaleDate(ctx context.Context, q database.Querier, id int64) (*time.Time, error)

	// GetContracts returns the book's contracts ordered by author id.
	GetContracts(ctx context.Context, q database.Querier, bookID int64) ([]model.Contract, error)
	ContractsForBooks(ctx context.Context, q database.Querier, bookIDs []int64) (map[int64][]model.Contract, error)
	// ReplaceContracts deletes every contract of the book, then inserts
	// contracts. AuthorName is ignored.
	ReplaceContracts(ctx context.Context, q database.Querier, bookID int64, contracts []model.Contract) error

	List(ctx context.Context, filter model.BookFilter) ([]model.BookWithTotals, int64, error)
}
