package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"royalty-backend/internal/domains/book/model"
	"royalty-backend/internal/shared/utils"
)

// Derived columns are scalar subqueries so a book row is never multiplied
// by its sales or contracts.
const (
	totalSalesExpr = `COALESCE((SELECT SUM(s.quantity) FROM sales s WHERE s.book_id = b.id), 0)`

	firstAuthorNameExpr = `(SELECT a.name FROM royalty_contracts rc JOIN authors a ON a.id = rc.author_id
            WHERE rc.book_id = b.id ORDER BY rc.author_id LIMIT 1)`

	firstAuthorRateExpr = `(SELECT rc.royalty_rate FROM royalty_contracts rc
            WHERE rc.book_id = b.id ORDER BY rc.author_id LIMIT 1)`
)

// BookSort whitelists client sort keys. Unknown keys sort by title.
var BookSort = utils.SortWhitelist{
	Columns: map[string]string{
		"title":                     "b.title",
		"isbn_13":                   "b.isbn_13",
		"isbn_10":                   "b.isbn_10",
		"publication_date":          "b.publication_date",
		"total_sales_to_date":       "total_sales_to_date",
		"id":                        "b.id",
		"first_author_name":         "first_author_name",
		"first_author_royalty_rate": "first_author_royalty_rate",
	},
	Default:  utils.SortSpec{Key: "title", Expr: "b.title"},
	TieBreak: "b.id",
}

func buildBookWhere(filter model.BookFilter, ph *utils.Placeholder) string {
	var conditions []string

	if filter.Search != "" {
		text := ph.Add("%" + utils.EscapeLike(filter.Search) + "%")
		isbn := ph.Add("%" + utils.EscapeLike(utils.StripSeparators(filter.Search)) + "%")
		conditions = append(conditions, fmt.Sprintf(`(
            b.title ILIKE %[1]s
            OR b.isbn_13 ILIKE %[2]s
            OR b.isbn_10 ILIKE %[2]s
            OR EXISTS (
                SELECT 1 FROM royalty_contracts rc JOIN authors a ON a.id = rc.author_id
                WHERE rc.book_id = b.id AND a.name ILIKE %[1]s
            ))`, text, isbn))
	}

	if filter.PublishedBefore != nil {
		conditions = append(conditions, "b.publication_date <= "+ph.Add(*filter.PublishedBefore))
	}

	return utils.WhereClause(conditions)
}

// List runs the count and the page query concurrently, then loads the
// contracts of the page's books in one query.
func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.BookWithTotals, int64, error) {
	ph := &utils.Placeholder{}
	where := buildBookWhere(filter, ph)
	whereArgs := append([]any(nil), ph.Args...)
	order := BookSort.OrderBy(BookSort.Resolve(filter.Sort))
	limit := filter.Page.LimitClause(ph)

	var (
		total int64
		books []model.BookWithTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM books b`+where, whereArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query := `
        SELECT ` + bookColumns + `,
            ` + totalSalesExpr + ` AS total_sales_to_date,
            ` + firstAuthorNameExpr + ` AS first_author_name,
            ` + firstAuthorRateExpr + ` AS first_author_royalty_rate
        FROM books b` + where + order + limit

		rows, err := r.pool.Query(gctx, query, ph.Args...)
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		books, err = collectBookRows(rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	contracts, err := r.ContractsForBooks(ctx, r.pool, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range books {
		books[i].Contracts = contracts[books[i].ID]
	}

	return books, total, nil
}

func collectBookRows(rows pgx.Rows) ([]model.BookWithTotals, error) {
	defer rows.Close()

	var out []model.BookWithTotals
	for rows.Next() {
		var item model.BookWithTotals
		b, err := scanBook(rows, &item.TotalSalesToDate, &item.FirstAuthorName, &item.FirstAuthorRoyaltyRate)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		item.Book = *b
		out = append(out, item)
	}
	return out, rows.Err()
}
