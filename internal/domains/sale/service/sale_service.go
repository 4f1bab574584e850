package service

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	authorrepo "royalty-backend/internal/domains/author/repository"
	bookmodel "royalty-backend/internal/domains/book/model"
	bookrepo "royalty-backend/internal/domains/book/repository"
	"royalty-backend/internal/domains/sale/model"
	"royalty-backend/internal/domains/sale/repository"
	"royalty-backend/internal/shared/apperror"
	"royalty-backend/pkg/database"
	"royalty-backend/pkg/metrics"
)

// SaleService - Implements ServiceInterface
type SaleService struct {
	repo       repository.RepositoryInterface
	bookRepo   bookrepo.RepositoryInterface
	authorRepo authorrepo.RepositoryInterface
	db         database.Querier
	tx         database.Transactor
}

// NewService - Constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	bookRepo bookrepo.RepositoryInterface,
	authorRepo authorrepo.RepositoryInterface,
	db database.Querier,
	tx database.Transactor,
) ServiceInterface {
	return &SaleService{
		repo:       repo,
		bookRepo:   bookRepo,
		authorRepo: authorRepo,
		db:         db,
		tx:         tx,
	}
}

// ============================================
// CREATE
// ============================================

func (s *SaleService) CreateSale(ctx context.Context, in model.SaleInput) (*model.SaleWithLedger, error) {
	created, err := database.WithTransactionResult(ctx, s.tx, func(q database.Querier) (*model.SaleWithLedger, error) {
		draft, errs, err := s.validate(ctx, q, in, nil)
		if err != nil {
			return nil, err
		}
		if err := apperror.Validation(errs); err != nil {
			return nil, err
		}
		return s.create(ctx, q, draft, in.Overrides())
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerRowsMaterialized("create", len(created.Ledger))
	log.Info().
		Int64("sale_id", created.ID).
		Int64("book_id", created.BookID).
		Int("ledger_rows", len(created.Ledger)).
		Msg("Sale created")
	return created, nil
}

func (s *SaleService) CreateSalesBatch(ctx context.Context, items []model.SaleInput) ([]model.SaleWithLedger, error) {
	if len(items) == 0 {
		return nil, apperror.FieldError("sales", model.MsgBatchEmpty)
	}

	created, err := database.WithTransactionResult(ctx, s.tx, func(q database.Querier) ([]model.SaleWithLedger, error) {
		// Validate every item first so the caller gets all failures at once.
		drafts := make([]model.Sale, len(items))
		var failed []apperror.ItemError
		for i, in := range items {
			draft, errs, err := s.validate(ctx, q, in, nil)
			if err != nil {
				return nil, err
			}
			if fieldErr := errs.Filter(); fieldErr != nil {
				failed = append(failed, apperror.ItemError{Index: i, Errors: fieldErr.(validation.Errors)})
				continue
			}
			drafts[i] = draft
		}
		if err := apperror.Batch(failed); err != nil {
			return nil, err
		}

		out := make([]model.SaleWithLedger, 0, len(items))
		for i, in := range items {
			sale, err := s.create(ctx, q, drafts[i], in.Overrides())
			if err != nil {
				return nil, err
			}
			out = append(out, *sale)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	rows := 0
	for i := range created {
		rows += len(created[i].Ledger)
	}
	metrics.LedgerRowsMaterialized("create", rows)
	log.Info().Int("sales", len(created)).Int("ledger_rows", rows).Msg("Sales batch created")
	return created, nil
}

// create writes a validated sale and materializes its ledger from the
// book's current contracts.
func (s *SaleService) create(ctx context.Context, q database.Querier, draft model.Sale, ov model.Overrides) (*model.SaleWithLedger, error) {
	sale, err := s.repo.Create(ctx, q, &draft)
	if err != nil {
		return nil, err
	}
	if _, err := s.materialize(ctx, q, sale, ov); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, q, sale.ID)
}

func (s *SaleService) materialize(ctx context.Context, q database.Querier, sale *model.Sale, ov model.Overrides) (int, error) {
	contracts, err := s.bookRepo.GetContracts(ctx, q, sale.BookID)
	if err != nil {
		return 0, err
	}
	rows := model.Materialize(sale, contracts, ov)
	if err := s.repo.InsertLedger(ctx, q, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ============================================
// EDIT
// ============================================

func (s *SaleService) EditSale(ctx context.Context, id int64, in model.SaleInput) (*model.SaleWithLedger, error) {
	var (
		oldBookID int64
		removed   int64
		rebuilt   int
		patched   int
	)

	edited, err := database.WithTransactionResult(ctx, s.tx, func(q database.Querier) (*model.SaleWithLedger, error) {
		current, err := s.repo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return nil, mapReadError(err, id)
		}
		oldBookID = current.BookID

		draft, errs, err := s.validate(ctx, q, in, current)
		if err != nil {
			return nil, err
		}
		if err := apperror.Validation(errs); err != nil {
			return nil, err
		}

		updated, err := s.repo.Update(ctx, q, &draft)
		if err != nil {
			return nil, mapReadError(err, id)
		}

		ov := in.Overrides()
		if updated.BookID != current.BookID {
			// The old rows belong to the previous book's authors.
			if removed, err = s.repo.DeleteLedger(ctx, q, id); err != nil {
				return nil, err
			}
			if rebuilt, err = s.materialize(ctx, q, updated, ov); err != nil {
				return nil, err
			}
		} else if !ov.Empty() {
			if patched, err = s.patchLedger(ctx, q, id, ov); err != nil {
				return nil, err
			}
		}

		return s.repo.GetByID(ctx, q, id)
	})
	if err != nil {
		return nil, err
	}

	if edited.BookID != oldBookID {
		metrics.LedgerRowsMaterialized("rebind", rebuilt)
		log.Info().
			Int64("sale_id", id).
			Int64("old_book_id", oldBookID).
			Int64("new_book_id", edited.BookID).
			Int64("rows_removed", removed).
			Int("rows_created", rebuilt).
			Msg("Sale ledger rebuilt for new book")
	} else {
		metrics.LedgerRowsOverridden(patched)
		log.Info().Int64("sale_id", id).Int("rows_patched", patched).Msg("Sale edited")
	}
	return edited, nil
}

// patchLedger applies overrides to the sale's existing ledger rows only.
// The rows stay locked until commit so a concurrent settlement cannot
// interleave between the read and the write.
func (s *SaleService) patchLedger(ctx context.Context, q database.Querier, saleID int64, ov model.Overrides) (int, error) {
	rows, err := s.repo.GetLedgerForUpdate(ctx, q, saleID)
	if err != nil {
		return 0, err
	}
	patches := model.ApplyOverrides(rows, ov)
	if err := s.repo.UpdateLedgerRows(ctx, q, patches); err != nil {
		return 0, err
	}
	return len(patches), nil
}

// ============================================
// DELETE / READ
// ============================================

func (s *SaleService) DeleteSale(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return mapReadError(err, id)
	}
	log.Info().Int64("sale_id", id).Msg("Sale deleted")
	return nil
}

func (s *SaleService) GetSale(ctx context.Context, id int64) (*model.SaleWithLedger, error) {
	sale, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, mapReadError(err, id)
	}
	return sale, nil
}

func (s *SaleService) ListSales(ctx context.Context, filter model.SaleFilter) ([]model.SaleListItem, int64, error) {
	return s.repo.List(ctx, filter)
}

// ============================================
// VALIDATION
// ============================================

// validate resolves in over base (nil on create) and checks it against the
// referenced book and the override amounts. The book stays share-locked
// until commit, so its publication date cannot move past the sale date.
// The returned error is a storage failure; validation failures are in errs.
func (s *SaleService) validate(ctx context.Context, q database.Querier, in model.SaleInput, base *model.Sale) (model.Sale, validation.Errors, error) {
	draft, errs := in.Resolve(base)

	if errs["book"] == nil {
		book, err := s.bookRepo.GetByIDForShare(ctx, q, draft.BookID)
		switch {
		case err == nil:
			model.CheckBook(errs, &draft, &book.PublicationDate)
		case errors.Is(err, bookmodel.ErrBookNotFound):
			model.CheckBook(errs, &draft, nil)
		default:
			return draft, nil, err
		}
	}

	if len(in.AuthorRoyalties) > 0 {
		authors, err := s.authorRepo.GetByIDs(ctx, q, model.OverrideAuthorIDs(in.AuthorRoyalties))
		if err != nil {
			return draft, nil, err
		}
		names := make(map[int64]string, len(authors))
		for id, a := range authors {
			names[id] = a.Name
		}
		errs["author_royalties"] = model.ValidateOverrideAmounts(in.AuthorRoyalties, names)
	}

	return draft, errs, nil
}

func mapReadError(err error, id int64) error {
	if errors.Is(err, model.ErrSaleNotFound) {
		return apperror.NotFound("sale", id, err)
	}
	return err
}
