package service

import (
	"context"

	"royalty-backend/internal/domains/author/model"
)

// ServiceInterface - author business operations
type ServiceInterface interface {
	// Create fails with a conflict when the name already exists.
	Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)
	// GetOrCreate returns the existing author with a case-insensitively equal
	// name, or creates one. created reports which happened.
	GetOrCreate(ctx context.Context, req model.CreateAuthorRequest) (a *model.Author, created bool, err error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
}
