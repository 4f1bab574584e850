package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/pkg/database"
)

// RepositoryInterface - settlement access to the royalty ledger
type RepositoryInterface interface {
	// LockUnpaidByAuthor selects the author's unpaid rows FOR UPDATE, in id
	// order. Another settlement of the same rows blocks until q commits and
	// then no longer sees them as unpaid.
	LockUnpaidByAuthor(ctx context.Context, q database.Querier, authorID int64) ([]model.LedgerRow, error)
	// LockUnpaidBySale is LockUnpaidByAuthor scoped to one sale.
	LockUnpaidBySale(ctx context.Context, q database.Querier, saleID int64) ([]model.LedgerRow, error)
	// MarkPaid flips the rows to paid and returns how many changed.
	MarkPaid(ctx context.Context, q database.Querier, ids []int64) (int64, error)
	// UnpaidSubtotal sums the author's unpaid rows without locking.
	UnpaidSubtotal(ctx context.Context, q database.Querier, authorID int64) (decimal.Decimal, error)
}
