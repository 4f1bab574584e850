package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"royalty-backend/internal/domains/sale/model"
	"royalty-backend/pkg/database"
)

const saleColumns = `s.id, s.book_id, s.date, s.quantity, s.publisher_revenue, s.created_at, s.updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanSale(row pgx.Row, extra ...any) (*model.Sale, error) {
	var s model.Sale
	dest := append([]any{
		&s.ID, &s.BookID, &s.Date, &s.Quantity, &s.PublisherRevenue, &s.CreatedAt, &s.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &s, nil
}

// ============================================
// SALES
// ============================================

func (r *postgresRepository) Create(ctx context.Context, q database.Querier, s *model.Sale) (*model.Sale, error) {
	query := `
        INSERT INTO sales AS s (book_id, date, quantity, publisher_revenue)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + saleColumns

	created, err := scanSale(q.QueryRow(ctx, query, s.BookID, s.Date, s.Quantity, s.PublisherRevenue))
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, q database.Querier, s *model.Sale) (*model.Sale, error) {
	query := `
        UPDATE sales AS s
        SET book_id = $2, date = $3, quantity = $4, publisher_revenue = $5, updated_at = NOW()
        WHERE s.id = $1
        RETURNING ` + saleColumns

	updated, err := scanSale(q.QueryRow(ctx, query, s.ID, s.BookID, s.Date, s.Quantity, s.PublisherRevenue))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSaleNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.SaleWithLedger, error) {
	query := `
        SELECT ` + saleColumns + `, b.title
        FROM sales s
        JOIN books b ON b.id = s.book_id
        WHERE s.id = $1`

	var out model.SaleWithLedger
	s, err := scanSale(q.QueryRow(ctx, query, id), &out.BookTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale by id: %w", err)
	}
	out.Sale = *s

	out.Ledger, err = r.GetLedger(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, q database.Querier, id int64) (*model.Sale, error) {
	s, err := scanSale(q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales s WHERE s.id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to lock sale: %w", err)
	}
	return s, nil
}

// ============================================
// LEDGER
// ============================================

const ledgerSelect = `
        SELECT l.id, l.sale_id, l.author_id, a.name, l.royalty_amount, l.paid
        FROM author_sales l
        JOIN authors a ON a.id = l.author_id`

func collectLedger(rows pgx.Rows) ([]model.AuthorSale, error) {
	defer rows.Close()

	var out []model.AuthorSale
	for rows.Next() {
		var l model.AuthorSale
		if err := rows.Scan(&l.ID, &l.SaleID, &l.AuthorID, &l.AuthorName, &l.RoyaltyAmount, &l.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *postgresRepository) InsertLedger(ctx context.Context, q database.Querier, rows []model.AuthorSale) error {
	for _, l := range rows {
		_, err := q.Exec(ctx,
			`INSERT INTO author_sales (sale_id, author_id, royalty_amount, paid) VALUES ($1, $2, $3, $4)`,
			l.SaleID, l.AuthorID, l.RoyaltyAmount, l.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ledger row for author %d: %w", l.AuthorID, err)
		}
	}
	return nil
}

func (r *postgresRepository) DeleteLedger(ctx context.Context, q database.Querier, saleID int64) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM author_sales WHERE sale_id = $1`, saleID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger rows: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) GetLedger(ctx context.Context, q database.Querier, saleID int64) ([]model.AuthorSale, error) {
	rows, err := q.Query(ctx, ledgerSelect+` WHERE l.sale_id = $1 ORDER BY l.author_id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return collectLedger(rows)
}

func (r *postgresRepository) GetLedgerForUpdate(ctx context.Context, q database.Querier, saleID int64) ([]model.AuthorSale, error) {
	rows, err := q.Query(ctx, ledgerSelect+` WHERE l.sale_id = $1 ORDER BY l.id FOR UPDATE OF l`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger: %w", err)
	}
	ledger, err := collectLedger(rows)
	if err != nil {
		return nil, err
	}
	sort.Slice(ledger, func(i, j int) bool { return ledger[i].AuthorID < ledger[j].AuthorID })
	return ledger, nil
}

func (r *postgresRepository) LedgerForSales(ctx context.Context, q database.Querier, saleIDs []int64) (map[int64][]model.AuthorSale, error) {
	out := make(map[int64][]model.AuthorSale, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, ledgerSelect+` WHERE l.sale_id = ANY($1) ORDER BY l.sale_id, l.author_id`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger for sales: %w", err)
	}
	ledger, err := collectLedger(rows)
	if err != nil {
		return nil, err
	}
	for _, l := range ledger {
		out[l.SaleID] = append(out[l.SaleID], l)
	}
	return out, nil
}

func (r *postgresRepository) UpdateLedgerRows(ctx context.Context, q database.Querier, patches []model.LedgerPatch) error {
	for _, p := range patches {
		_, err := q.Exec(ctx,
			`UPDATE author_sales
             SET royalty_amount = COALESCE($2, royalty_amount), paid = COALESCE($3, paid)
             WHERE id = $1`,
			p.ID, p.RoyaltyAmount, p.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to update ledger row %d: %w", p.ID, err)
		}
	}
	return nil
}
