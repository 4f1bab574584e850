package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"royalty-backend/internal/domains/report/model"
	"royalty-backend/internal/shared/utils"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) AuthorBalances(ctx context.Context, page utils.Page) ([]model.AuthorBalance, int64, error) {
	ph := &utils.Placeholder{}
	limit := page.LimitClause(ph)

	var (
		total    int64
		balances []model.AuthorBalance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
			return fmt.Errorf("count authors: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query := `
        SELECT a.id, a.name,
            COALESCE(u.unpaid_total, 0) AS unpaid_total,
            COALESCE(u.unpaid_count, 0) AS unpaid_count
        FROM authors a
        LEFT JOIN LATERAL (
            SELECT SUM(l.royalty_amount) AS unpaid_total, COUNT(*) AS unpaid_count
            FROM author_sales l
            WHERE l.author_id = a.id AND NOT l.paid
        ) u ON TRUE
        ORDER BY a.name, a.id` + limit

		rows, err := r.pool.Query(gctx, query, ph.Args...)
		if err != nil {
			return fmt.Errorf("list author balances: %w", err)
		}
		balances, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AuthorBalance, error) {
			var b model.AuthorBalance
			err := row.Scan(&b.AuthorID, &b.Name, &b.UnpaidTotal, &b.UnpaidCount)
			return b, err
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return balances, total, nil
}

func (r *postgresRepository) PaymentRows(ctx context.Context, authorIDs []int64) ([]model.PaymentRow, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	query := `
        SELECT l.id, l.author_id, a.name, l.royalty_amount, l.paid,
               s.id, s.book_id, b.title, s.date, s.quantity, s.publisher_revenue
        FROM author_sales l
        JOIN authors a ON a.id = l.author_id
        JOIN sales s ON s.id = l.sale_id
        JOIN books b ON b.id = s.book_id
        WHERE l.author_id = ANY($1)
        ORDER BY l.author_id, s.date DESC, s.id DESC`

	rows, err := r.pool.Query(ctx, query, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("list payment rows: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PaymentRow, error) {
		var p model.PaymentRow
		err := row.Scan(
			&p.LedgerID, &p.AuthorID, &p.AuthorName, &p.RoyaltyAmount, &p.Paid,
			&p.SaleID, &p.BookID, &p.BookTitle, &p.Date, &p.Quantity, &p.PublisherRevenue,
		)
		return p, err
	})
}

// BookSalesTotals sums revenue and ledger amounts in separate subqueries;
// joining sales to ledger rows would count a sale's revenue once per author.
func (r *postgresRepository) BookSalesTotals(ctx context.Context, bookID int64) (*model.BookSalesTotals, error) {
	query := `
        SELECT
            COALESCE((SELECT SUM(s.publisher_revenue) FROM sales s WHERE s.book_id = $1), 0),
            COALESCE(l.total, 0),
            COALESCE(l.paid, 0),
            COALESCE(l.unpaid, 0)
        FROM (
            SELECT SUM(l.royalty_amount)                           AS total,
                   SUM(l.royalty_amount) FILTER (WHERE l.paid)     AS paid,
                   SUM(l.royalty_amount) FILTER (WHERE NOT l.paid) AS unpaid
            FROM author_sales l
            JOIN sales s ON s.id = l.sale_id
            WHERE s.book_id = $1
        ) l`

	t := model.BookSalesTotals{BookID: bookID}
	err := r.pool.QueryRow(ctx, query, bookID).Scan(
		&t.PublisherRevenue, &t.TotalRoyalties, &t.PaidRoyalties, &t.UnpaidRoyalties,
	)
	if err != nil {
		return nil, fmt.Errorf("sum book sales: %w", err)
	}
	return &t, nil
}
