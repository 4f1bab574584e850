package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	authorrepo "royalty-backend/internal/domains/author/repository"
	authorservice "royalty-backend/internal/domains/author/service"
	"royalty-backend/internal/domains/book/model"
	"royalty-backend/internal/domains/book/repository"
	"royalty-backend/internal/shared/apperror"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/pkg/database"
)

// BookService - Implements ServiceInterface
type BookService struct {
	repo       repository.RepositoryInterface
	authorRepo authorrepo.RepositoryInterface
	db         database.Querier
	tx         database.Transactor
}

// NewService - Constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	authorRepo authorrepo.RepositoryInterface,
	db database.Querier,
	tx database.Transactor,
) ServiceInterface {
	return &BookService{
		repo:       repo,
		authorRepo: authorRepo,
		db:         db,
		tx:         tx,
	}
}

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookWithTotals, error) {
	book, errs := req.ToBook()

	created, err := database.WithTransactionResult(ctx, s.tx, func(q database.Querier) (*model.BookWithTotals, error) {
		known, err := s.knownAuthors(ctx, q, req.Authors)
		if err != nil {
			return nil, err
		}
		errs["authors"] = model.ValidateContracts(req.Authors, known)
		if err := apperror.Validation(errs); err != nil {
			return nil, err
		}

		b, err := s.repo.Create(ctx, q, book)
		if err != nil {
			return nil, mapWriteError(err)
		}

		contracts, err := s.writeContracts(ctx, q, b.ID, req.Authors, known)
		if err != nil {
			return nil, err
		}

		return &model.BookWithTotals{Book: *b, Contracts: contracts}, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("book_id", created.ID).
		Str("isbn_13", created.ISBN13).
		Int("contracts", len(created.Contracts)).
		Msg("Book created")
	return created, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.BookWithTotals, error) {
	return database.WithTransactionResult(ctx, s.tx, func(q database.Querier) (*model.BookWithTotals, error) {
		current, err := s.repo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return nil, mapReadError(err, id)
		}

		errs := req.ApplyTo(current)

		var known map[int64]string
		if req.Authors != nil {
			known, err = s.knownAuthors(ctx, q, *req.Authors)
			if err != nil {
				return nil, err
			}
			errs["authors"] = model.ValidateContracts(*req.Authors, known)
		}

		// Existing sales must not predate a moved publication date.
		if req.PublicationDate != nil && errs["publication_date"] == nil {
			earliest, err := s.repo.EarliestSaleDate(ctx, q, id)
			if err != nil {
				return nil, err
			}
			if earliest != nil && earliest.Before(current.PublicationDate) {
				errs["publication_date"] = fmt.Errorf(
					"Publication date (%s) cannot be after the earliest sale date (%s).",
					utils.FormatDate(current.PublicationDate), utils.FormatDate(*earliest))
			}
		}

		if err := apperror.Validation(errs); err != nil {
			return nil, err
		}

		updated, err := s.repo.Update(ctx, q, current)
		if err != nil {
			return nil, mapWriteError(err)
		}

		if req.Authors != nil {
			if _, err := s.writeContracts(ctx, q, id, *req.Authors, known); err != nil {
				return nil, err
			}
		}

		return s.withTotals(ctx, q, updated)
	})
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return mapReadError(err, id)
	}
	log.Info().Int64("book_id", id).Msg("Book deleted")
	return nil
}

func (s *BookService) GetBook(ctx context.Context, id int64) (*model.BookWithTotals, error) {
	b, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapReadError(err, id)
	}
	return s.withTotals(ctx, s.db, b)
}

func (s *BookService) GetContracts(ctx context.Context, bookID int64) ([]model.Contract, error) {
	if _, err := s.repo.GetByID(ctx, s.db, bookID); err != nil {
		return nil, mapReadError(err, bookID)
	}
	return s.repo.GetContracts(ctx, s.db, bookID)
}

func (s *BookService) ReplaceContracts(ctx context.Context, bookID int64, entries []model.ContractInput) ([]model.Contract, error) {
	return database.WithTransactionResult(ctx, s.tx, func(q database.Querier) ([]model.Contract, error) {
		if _, err := s.repo.GetByIDForUpdate(ctx, q, bookID); err != nil {
			return nil, mapReadError(err, bookID)
		}

		known, err := s.knownAuthors(ctx, q, entries)
		if err != nil {
			return nil, err
		}
		if err := model.ValidateContracts(entries, known); err != nil {
			return nil, apperror.Validation(validation.Errors{"authors": err})
		}

		return s.writeContracts(ctx, q, bookID, entries, known)
	})
}

func (s *BookService) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.BookWithTotals, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

// knownAuthors loads the names of the authors referenced by id, for
// validation messages and existence checks.
func (s *BookService) knownAuthors(ctx context.Context, q database.Querier, entries []model.ContractInput) (map[int64]string, error) {
	ids := model.ReferencedAuthorIDs(entries)
	authors, err := s.authorRepo.GetByIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[int64]string, len(authors))
	for id, a := range authors {
		known[id] = a.Name
	}
	return known, nil
}

// writeContracts resolves every entry to an author, creating authors named
// by entries that do not exist yet, and replaces the book's contract set.
// entries must already have passed model.ValidateContracts.
func (s *BookService) writeContracts(
	ctx context.Context,
	q database.Querier,
	bookID int64,
	entries []model.ContractInput,
	known map[int64]string,
) ([]model.Contract, error) {
	contracts := make([]model.Contract, 0, len(entries))
	for _, e := range entries {
		c := model.Contract{BookID: bookID, RoyaltyRate: *e.RoyaltyRate}

		if e.AuthorID != nil {
			c.AuthorID, c.AuthorName = *e.AuthorID, known[*e.AuthorID]
		} else {
			a, _, err := authorservice.FindOrCreate(ctx, s.authorRepo, q, e.Name, nil)
			if err != nil {
				return nil, err
			}
			c.AuthorID, c.AuthorName = a.ID, a.Name
		}
		contracts = append(contracts, c)
	}

	// A name entry can resolve to an author another entry names by id.
	seen := make(map[int64]bool, len(contracts))
	for _, c := range contracts {
		if seen[c.AuthorID] {
			return nil, apperror.Validation(validation.Errors{
				"authors": fmt.Errorf("Author %s is added more than once.", c.AuthorName),
			})
		}
		seen[c.AuthorID] = true
	}

	sort.Slice(contracts, func(i, j int) bool { return contracts[i].AuthorID < contracts[j].AuthorID })

	if err := s.repo.ReplaceContracts(ctx, q, bookID, contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

func (s *BookService) withTotals(ctx context.Context, q database.Querier, b *model.Book) (*model.BookWithTotals, error) {
	contracts, err := s.repo.GetContracts(ctx, q, b.ID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.TotalSalesToDate(ctx, q, b.ID)
	if err != nil {
		return nil, err
	}

	out := &model.BookWithTotals{Book: *b, TotalSalesToDate: total, Contracts: contracts}
	if first, ok := model.FirstContract(contracts); ok {
		out.FirstAuthorName = &first.AuthorName
		out.FirstAuthorRoyaltyRate.Decimal = first.RoyaltyRate
		out.FirstAuthorRoyaltyRate.Valid = true
	}
	return out, nil
}

func mapReadError(err error, id int64) error {
	if errors.Is(err, model.ErrBookNotFound) {
		return apperror.NotFound("book", id, err)
	}
	return err
}

func mapWriteError(err error) error {
	if errors.Is(err, model.ErrDuplicateISBN13) {
		return apperror.Conflict("isbn_13", model.MsgISBN13Taken, err)
	}
	return err
}
