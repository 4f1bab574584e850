package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// Rows are locked in id order so two settlements touching overlapping rows
// acquire them in the same order.
const lockUnpaid = `
        SELECT id, sale_id, author_id, royalty_amount
        FROM author_sales
        WHERE %s = $1 AND NOT paid
        ORDER BY id
        FOR UPDATE`

func (r *postgresRepository) lockUnpaid(ctx context.Context, q database.Querier, column string, id int64) ([]model.LedgerRow, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(lockUnpaid, column), id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock unpaid ledger rows: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.LedgerRow, error) {
		var l model.LedgerRow
		err := row.Scan(&l.ID, &l.SaleID, &l.AuthorID, &l.RoyaltyAmount)
		return l, err
	})
}

func (r *postgresRepository) LockUnpaidByAuthor(ctx context.Context, q database.Querier, authorID int64) ([]model.LedgerRow, error) {
	return r.lockUnpaid(ctx, q, "author_id", authorID)
}

func (r *postgresRepository) LockUnpaidBySale(ctx context.Context, q database.Querier, saleID int64) ([]model.LedgerRow, error) {
	return r.lockUnpaid(ctx, q, "sale_id", saleID)
}

func (r *postgresRepository) MarkPaid(ctx context.Context, q database.Querier, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := q.Exec(ctx, `UPDATE author_sales SET paid = TRUE WHERE id = ANY($1) AND NOT paid`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark ledger rows paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) UnpaidSubtotal(ctx context.Context, q database.Querier, authorID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(royalty_amount), 0) FROM author_sales WHERE author_id = $1 AND NOT paid`,
		authorID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum unpaid royalties: %w", err)
	}
	return total, nil
}
