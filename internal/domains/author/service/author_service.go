package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"royalty-backend/internal/domains/author/model"
	"royalty-backend/internal/domains/author/repository"
	"royalty-backend/internal/shared/apperror"
	"royalty-backend/pkg/database"
)

type authorService struct {
	repo repository.RepositoryInterface
	db   database.Querier
	tx   database.Transactor
}

// NewAuthorService creates a new author service instance. db serves
// standalone reads; tx wraps writes.
func NewAuthorService(repo repository.RepositoryInterface, db database.Querier, tx database.Transactor) ServiceInterface {
	return &authorService{
		repo: repo,
		db:   db,
		tx:   tx,
	}
}

func (s *authorService) Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	if err := apperror.FromValidation(req.Validate()); err != nil {
		return nil, err
	}

	a, err := s.repo.Create(ctx, s.db, &model.Author{Name: req.Name, Bio: req.Bio})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateName) {
			return nil, apperror.Conflict("name", fmt.Sprintf("Author %s already exists.", req.Name), err)
		}
		return nil, err
	}
	return a, nil
}

func (s *authorService) GetOrCreate(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, bool, error) {
	req.Normalize()
	if err := apperror.FromValidation(req.Validate()); err != nil {
		return nil, false, err
	}

	var (
		a       *model.Author
		created bool
	)
	err := s.tx.WithinTx(ctx, func(q database.Querier) error {
		var err error
		a, created, err = FindOrCreate(ctx, s.repo, q, req.Name, req.Bio)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return a, created, nil
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	a, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrAuthorNotFound) {
			return nil, apperror.NotFound("author", id, err)
		}
		return nil, err
	}
	return a, nil
}

func (s *authorService) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	filter.Search = model.NormalizeName(filter.Search)
	return s.repo.List(ctx, filter)
}

// FindOrCreate is the create-or-adopt step used wherever an author is named
// rather than referenced by id. It runs on q, normally an open transaction.
//
// A concurrent writer may insert the same name between the lookup and the
// insert. The insert then hits the lower(name) unique index; the insert runs
// under a savepoint so the enclosing transaction survives, and the row the
// other writer committed is read back and adopted. This is retried once.
func FindOrCreate(ctx context.Context, repo repository.RepositoryInterface, q database.Querier, name string, bio *string) (*model.Author, bool, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return nil, false, apperror.FieldError("name", model.ErrNameBlank.Error())
	}

	existing, err := repo.GetByName(ctx, q, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrAuthorNotFound) {
		return nil, false, err
	}

	var created *model.Author
	err = database.WithSavepoint(ctx, q, func(sq database.Querier) error {
		var createErr error
		created, createErr = repo.Create(ctx, sq, &model.Author{Name: name, Bio: bio})
		return createErr
	})
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, model.ErrDuplicateName) {
		return nil, false, err
	}

	adopted, err := repo.GetByName(ctx, q, name)
	if err != nil {
		return nil, false, fmt.Errorf("re-read author %q after concurrent create: %w", name, err)
	}
	log.Debug().Int64("author_id", adopted.ID).Str("name", name).Msg("Adopted concurrently created author")
	return adopted, false, nil
}
