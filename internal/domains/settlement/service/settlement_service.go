package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	authormodel "royalty-backend/internal/domains/author/model"
	authorrepo "royalty-backend/internal/domains/author/repository"
	salemodel "royalty-backend/internal/domains/sale/model"
	salerepo "royalty-backend/internal/domains/sale/repository"
	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/internal/domains/settlement/repository"
	"royalty-backend/internal/shared/apperror"
	"royalty-backend/pkg/database"
	"royalty-backend/pkg/metrics"
)

type settlementService struct {
	repo       repository.RepositoryInterface
	authorRepo authorrepo.RepositoryInterface
	saleRepo   salerepo.RepositoryInterface
	db         database.Querier
	tx         database.Transactor
}

func NewSettlementService(
	repo repository.RepositoryInterface,
	authorRepo authorrepo.RepositoryInterface,
	saleRepo salerepo.RepositoryInterface,
	db database.Querier,
	tx database.Transactor,
) ServiceInterface {
	return &settlementService{
		repo:       repo,
		authorRepo: authorRepo,
		saleRepo:   saleRepo,
		db:         db,
		tx:         tx,
	}
}

func (s *settlementService) PayAuthorUnpaid(ctx context.Context, authorID int64) (*model.AuthorSettlement, error) {
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return nil, err
	}

	result, err := database.WithTransactionResult(ctx, s.tx, func(q database.Querier) (*model.AuthorSettlement, error) {
		rows, err := s.repo.LockUnpaidByAuthor(ctx, q, authorID)
		if err != nil {
			return nil, err
		}
		if err := s.markPaid(ctx, q, rows); err != nil {
			return nil, err
		}

		total, saleIDs := model.Summarize(rows)
		return &model.AuthorSettlement{
			AuthorID:  authorID,
			Count:     len(rows),
			TotalPaid: total,
			SaleIDs:   saleIDs,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Settlement(model.ScopeAuthor, result.Count, result.TotalPaid)
	log.Info().
		Int64("author_id", authorID).
		Int("rows_paid", result.Count).
		Str("total_paid", result.TotalPaid.StringFixed(2)).
		Ints64("sale_ids", result.SaleIDs).
		Msg("Author royalties settled")
	return result, nil
}

func (s *settlementService) PayAuthorsForSale(ctx context.Context, saleID int64) (*model.SaleSettlement, error) {
	result, err := database.WithTransactionResult(ctx, s.tx, func(q database.Querier) (*model.SaleSettlement, error) {
		// Holding the sale row keeps a concurrent edit from rebuilding the
		// ledger underneath the settlement.
		if _, err := s.saleRepo.GetByIDForUpdate(ctx, q, saleID); err != nil {
			if errors.Is(err, salemodel.ErrSaleNotFound) {
				return nil, apperror.NotFound("sale", saleID, err)
			}
			return nil, err
		}

		rows, err := s.repo.LockUnpaidBySale(ctx, q, saleID)
		if err != nil {
			return nil, err
		}
		if err := s.markPaid(ctx, q, rows); err != nil {
			return nil, err
		}

		total, _ := model.Summarize(rows)
		return &model.SaleSettlement{SaleID: saleID, Count: len(rows), TotalPaid: total}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Settlement(model.ScopeSale, result.Count, result.TotalPaid)
	log.Info().
		Int64("sale_id", saleID).
		Int("rows_paid", result.Count).
		Str("total_paid", result.TotalPaid.StringFixed(2)).
		Msg("Sale royalties settled")
	return result, nil
}

func (s *settlementService) UnpaidSubtotal(ctx context.Context, authorID int64) (decimal.Decimal, error) {
	if err := s.requireAuthor(ctx, authorID); err != nil {
		return decimal.Zero, err
	}
	return s.repo.UnpaidSubtotal(ctx, s.db, authorID)
}

// markPaid flips the locked rows. Every locked row must flip; anything
// else means the lock did not hold.
func (s *settlementService) markPaid(ctx context.Context, q database.Querier, rows []model.LedgerRow) error {
	n, err := s.repo.MarkPaid(ctx, q, model.RowIDs(rows))
	if err != nil {
		return err
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("marked %d of %d locked ledger rows paid", n, len(rows))
	}
	return nil
}

func (s *settlementService) requireAuthor(ctx context.Context, authorID int64) error {
	if _, err := s.authorRepo.GetByID(ctx, s.db, authorID); err != nil {
		if errors.Is(err, authormodel.ErrAuthorNotFound) {
			return apperror.NotFound("author", authorID, err)
		}
		return err
	}
	return nil
}
