package service

import (
	"context"

	"royalty-backend/internal/domains/book/model"
)

// ServiceInterface - Contract Store operations on books
type ServiceInterface interface {
	// CreateBook creates the book, any authors named by contracts, and the
	// contracts in one transaction.
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookWithTotals, error)
	// UpdateBook applies a partial update; contracts are replaced only when
	// req.Authors is present.
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.BookWithTotals, error)
	DeleteBook(ctx context.Context, id int64) error
	GetBook(ctx context.Context, id int64) (*model.BookWithTotals, error)
	GetContracts(ctx context.Context, bookID int64) ([]model.Contract, error)
	ReplaceContracts(ctx context.Context, bookID int64, entries []model.ContractInput) ([]model.Contract, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookWithTotals, int64, error)
}
