package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"royalty-backend/internal/domains/author/model"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/pkg/database"
)

const authorColumns = `id, name, bio, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	if err := row.Scan(&a.ID, &a.Name, &a.Bio, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) Create(ctx context.Context, q database.Querier, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (name, bio)
        VALUES ($1, $2)
        RETURNING ` + authorColumns

	created, err := scanAuthor(q.QueryRow(ctx, query, a.Name, a.Bio))
	if err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, model.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, q database.Querier, ids []int64) (map[int64]*model.Author, error) {
	out := make(map[int64]*model.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = ANY($1)`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get authors by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

// GetByName uses the lower(name) unique index.
func (r *postgresRepository) GetByName(ctx context.Context, q database.Querier, name string) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE lower(name) = lower($1)`

	a, err := scanAuthor(q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by name: %w", err)
	}
	return a, nil
}

// List runs the count and page queries concurrently on the pool.
func (r *postgresRepository) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	ph := &utils.Placeholder{}
	var conditions []string
	if filter.Search != "" {
		conditions = append(conditions, "name ILIKE "+ph.Add("%"+utils.EscapeLike(filter.Search)+"%"))
	}
	where := utils.WhereClause(conditions)
	whereArgs := append([]any(nil), ph.Args...)

	var (
		total   int64
		authors []model.Author
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM authors`+where, whereArgs...).Scan(&total)
		if err != nil {
			return fmt.Errorf("count authors: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query := `SELECT ` + authorColumns + ` FROM authors` + where +
			` ORDER BY name ASC, id ASC` + filter.Page.LimitClause(ph)

		rows, err := r.pool.Query(gctx, query, ph.Args...)
		if err != nil {
			return fmt.Errorf("list authors: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAuthor(rows)
			if err != nil {
				return fmt.Errorf("scan author: %w", err)
			}
			authors = append(authors, *a)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return authors, total, nil
}
