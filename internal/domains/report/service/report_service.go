package service

import (
	"context"
	"errors"

	bookmodel "royalty-backend/internal/domains/book/model"
	bookrepo "royalty-backend/internal/domains/book/repository"
	"royalty-backend/internal/domains/report/model"
	"royalty-backend/internal/domains/report/repository"
	"royalty-backend/internal/shared/apperror"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/pkg/database"
)

type reportService struct {
	repo     repository.RepositoryInterface
	bookRepo bookrepo.RepositoryInterface
	db       database.Querier
}

func NewReportService(repo repository.RepositoryInterface, bookRepo bookrepo.RepositoryInterface, db database.Querier) ServiceInterface {
	return &reportService{repo: repo, bookRepo: bookRepo, db: db}
}

func (s *reportService) GroupedAuthorPayments(ctx context.Context, page utils.Page) ([]model.AuthorPaymentGroup, int64, error) {
	balances, total, err := s.repo.AuthorBalances(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(balances))
	for i, b := range balances {
		ids[i] = b.AuthorID
	}
	rows, err := s.repo.PaymentRows(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	return model.GroupRows(balances, rows), total, nil
}

func (s *reportService) BookSalesTotals(ctx context.Context, bookID int64) (*model.BookSalesTotals, error) {
	if _, err := s.bookRepo.GetByID(ctx, s.db, bookID); err != nil {
		if errors.Is(err, bookmodel.ErrBookNotFound) {
			return nil, apperror.NotFound("book", bookID, err)
		}
		return nil, err
	}
	return s.repo.BookSalesTotals(ctx, bookID)
}
