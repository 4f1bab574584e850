package repository

import (
	"context"

	"royalty-backend/internal/domains/author/model"
	"royalty-backend/pkg/database"
)

// RepositoryInterface persists authors. Methods taking a Querier run on
// whatever q is: the pool or an open transaction.
type RepositoryInterface interface {
	// Create returns model.ErrDuplicateName when the name is taken
	// (case-insensitively).
	Create(ctx context.Context, q database.Querier, a *model.Author) (*model.Author, error)
	GetByID(ctx context.Context, q database.Querier, id int64) (*model.Author, error)
	// GetByIDs returns the authors found; missing ids are simply absent.
	GetByIDs(ctx context.Context, q database.Querier, ids []int64) (map[int64]*model.Author, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, q database.Querier, name string) (*model.Author, error)
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
}
