package repository

import (
	"context"

	"royalty-backend/internal/domains/report/model"
	"royalty-backend/internal/shared/utils"
)

// RepositoryInterface - read-only aggregates over the ledger. Nothing here
// takes locks.
type RepositoryInterface interface {
	// AuthorBalances pages authors by name then id, each with unpaid totals.
	AuthorBalances(ctx context.Context, page utils.Page) ([]model.AuthorBalance, int64, error)
	// PaymentRows returns every ledger row of the authors, ordered by author
	// id, then sale date and sale id descending.
	PaymentRows(ctx context.Context, authorIDs []int64) ([]model.PaymentRow, error)
	BookSalesTotals(ctx context.Context, bookID int64) (*model.BookSalesTotals, error)
}
