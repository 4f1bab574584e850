package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"royalty-backend/internal/domains/sale/model"
	"royalty-backend/internal/shared/utils"
)

// The ledger aggregate is a LATERAL subquery so each sale stays one row.
// SUM over no rows is NULL, which sorts last.
const (
	saleFirstAuthorExpr = `(SELECT a.name FROM royalty_contracts rc JOIN authors a ON a.id = rc.author_id
            WHERE rc.book_id = s.book_id ORDER BY rc.author_id LIMIT 1)`

	ledgerAggregateJoin = `
        LEFT JOIN LATERAL (
            SELECT SUM(l.royalty_amount)              AS total_royalties,
                   COUNT(*) FILTER (WHERE l.paid)     AS paid_count,
                   COUNT(*) FILTER (WHERE NOT l.paid) AS unpaid_count,
                   COUNT(*)                           AS total_author_count
            FROM author_sales l
            WHERE l.sale_id = s.id
        ) agg ON TRUE`

	paidStatusExpr = `CASE
            WHEN agg.unpaid_count = 0 AND agg.total_author_count > 0 THEN 0
            WHEN agg.paid_count > 0 AND agg.unpaid_count > 0 THEN 1
            ELSE 2
        END`
)

// SaleSort whitelists client sort keys. Unknown keys sort by date, newest
// first.
var SaleSort = utils.SortWhitelist{
	Columns: map[string]string{
		"date":              "s.date",
		"quantity":          "s.quantity",
		"publisher_revenue": "s.publisher_revenue",
		"book_title":        "b.title",
		"authors":           "first_author_name",
		"total_royalties":   "agg.total_royalties",
		"paid_status":       "paid_status",
	},
	Default:  utils.SortSpec{Key: "date", Expr: "s.date", Desc: true},
	TieBreak: "s.id",
}

func buildSaleWhere(filter model.SaleFilter, ph *utils.Placeholder) string {
	var conditions []string

	if filter.BookID != nil {
		conditions = append(conditions, "s.book_id = "+ph.Add(*filter.BookID))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "s.date >= "+ph.Add(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "s.date <= "+ph.Add(*filter.EndDate))
	}

	return utils.WhereClause(conditions)
}

// List runs the count and the page query concurrently, then loads the
// ledger rows of the page's sales in one query.
func (r *postgresRepository) List(ctx context.Context, filter model.SaleFilter) ([]model.SaleListItem, int64, error) {
	ph := &utils.Placeholder{}
	where := buildSaleWhere(filter, ph)
	whereArgs := append([]any(nil), ph.Args...)
	order := SaleSort.OrderBy(SaleSort.Resolve(filter.Sort))
	limit := filter.Page.LimitClause(ph)

	var (
		total int64
		sales []model.SaleListItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM sales s`+where, whereArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query := `
        SELECT ` + saleColumns + `, b.title,
            ` + saleFirstAuthorExpr + ` AS first_author_name,
            agg.total_royalties, agg.paid_count, agg.unpaid_count, agg.total_author_count,
            ` + paidStatusExpr + ` AS paid_status
        FROM sales s
        JOIN books b ON b.id = s.book_id` + ledgerAggregateJoin + where + order + limit

		rows, err := r.pool.Query(gctx, query, ph.Args...)
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		sales, err = collectSaleRows(rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
	}
	ledger, err := r.LedgerForSales(ctx, r.pool, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range sales {
		sales[i].Ledger = ledger[sales[i].ID]
	}

	return sales, total, nil
}

func collectSaleRows(rows pgx.Rows) ([]model.SaleListItem, error) {
	defer rows.Close()

	var out []model.SaleListItem
	for rows.Next() {
		var item model.SaleListItem
		s, err := scanSale(rows,
			&item.BookTitle, &item.FirstAuthorName, &item.TotalRoyalties,
			&item.PaidCount, &item.UnpaidCount, &item.TotalAuthorCount, &item.PaidStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		item.Sale = *s
		out = append(out, item)
	}
	return out, rows.Err()
}
