package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"royalty-backend/internal/domains/book/model"
	"royalty-backend/pkg/database"
)

const bookColumns = `b.id, b.title, b.publication_date, b.isbn_13, b.isbn_10, b.created_at, b.updated_at`

const isbn13Constraint = "books_isbn_13_key"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanBook(row pgx.Row, extra ...any) (*model.Book, error) {
	var b model.Book
	dest := append([]any{
		&b.ID, &b.Title, &b.PublicationDate, &b.ISBN13, &b.ISBN10, &b.CreatedAt, &b.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func translateWriteError(err error, action string) error {
	if constraint, ok := database.UniqueViolation(err); ok && constraint == isbn13Constraint {
		return model.ErrDuplicateISBN13
	}
	return fmt.Errorf("failed to %s book: %w", action, err)
}

// ============================================
// WRITE
// ============================================

func (r *postgresRepository) Create(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error) {
	query := `
        INSERT INTO books AS b (title, publication_date, isbn_13, isbn_10)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + bookColumns

	created, err := scanBook(q.QueryRow(ctx, query, b.Title, b.PublicationDate, b.ISBN13, b.ISBN10))
	if err != nil {
		return nil, translateWriteError(err, "create")
	}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error) {
	query := `
        UPDATE books AS b
        SET title = $2, publication_date = $3, isbn_13 = $4, isbn_10 = $5, updated_at = NOW()
        WHERE b.id = $1
        RETURNING ` + bookColumns

	updated, err := scanBook(q.QueryRow(ctx, query, b.ID, b.Title, b.PublicationDate, b.ISBN13, b.ISBN10))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, translateWriteError(err, "update")
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// ============================================
// READ
// ============================================

// getByID reads the book with an optional row lock clause.
func (r *postgresRepository) getByID(ctx context.Context, q database.Querier, id int64, lock string) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.id = $1` + lock

	b, err := scanBook(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	return r.getByID(ctx, q, id, "")
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	return r.getByID(ctx, q, id, ` FOR UPDATE`)
}

func (r *postgresRepository) GetByIDForShare(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	return r.getByID(ctx, q, id, ` FOR SHARE`)
}

func (r *postgresRepository) TotalSalesToDate(ctx context.Context, q database.Querier, id int64) (int64, error) {
	var total int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM sales WHERE book_id = $1`, id,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum book sales: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) EarliestSaleDate(ctx context.Context, q database.Querier, id int64) (*time.Time, error) {
	var earliest *time.Time
	err := q.QueryRow(ctx, `SELECT MIN(date) FROM sales WHERE book_id = $1`, id).Scan(&earliest)
	if err != nil {
		return nil, fmt.Errorf("failed to get earliest sale date: %w", err)
	}
	return earliest, nil
}

// ============================================
// CONTRACTS
// ============================================

const contractSelect = `
        SELECT rc.book_id, rc.author_id, a.name, rc.royalty_rate
        FROM royalty_contracts rc
        JOIN authors a ON a.id = rc.author_id`

func collectContracts(rows pgx.Rows) ([]model.Contract, error) {
	defer rows.Close()

	var out []model.Contract
	for rows.Next() {
		var c model.Contract
		if err := rows.Scan(&c.BookID, &c.AuthorID, &c.AuthorName, &c.RoyaltyRate); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetContracts(ctx context.Context, q database.Querier, bookID int64) ([]model.Contract, error) {
	rows, err := q.Query(ctx, contractSelect+` WHERE rc.book_id = $1 ORDER BY rc.author_id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contracts: %w", err)
	}
	return collectContracts(rows)
}

func (r *postgresRepository) ContractsForBooks(ctx context.Context, q database.Querier, bookIDs []int64) (map[int64][]model.Contract, error) {
	out := make(map[int64][]model.Contract, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, contractSelect+` WHERE rc.book_id = ANY($1) ORDER BY rc.book_id, rc.author_id`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get contracts for books: %w", err)
	}
	contracts, err := collectContracts(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range contracts {
		out[c.BookID] = append(out[c.BookID], c)
	}
	return out, nil
}

// ReplaceContracts is delete-all-then-insert. Run it inside a transaction.
func (r *postgresRepository) ReplaceContracts(ctx context.Context, q database.Querier, bookID int64, contracts []model.Contract) error {
	if _, err := q.Exec(ctx, `DELETE FROM royalty_contracts WHERE book_id = $1`, bookID); err != nil {
		return fmt.Errorf("failed to delete contracts: %w", err)
	}

	for _, c := range contracts {
		_, err := q.Exec(ctx,
			`INSERT INTO royalty_contracts (author_id, book_id, royalty_rate) VALUES ($1, $2, $3)`,
			c.AuthorID, bookID, c.RoyaltyRate,
		)
		if err != nil {
			if _, ok := database.ForeignKeyViolation(err); ok {
				return fmt.Errorf("contract author %d does not exist: %w", c.AuthorID, err)
			}
			return fmt.Errorf("failed to insert contract: %w", err)
		}
	}
	return nil
}
