package memstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"royalty-backend/internal/domains/report/model"
	"royalty-backend/internal/domains/report/repository"
	"royalty-backend/internal/shared/utils"
)

type reportView struct{ s *Store }

func (s *Store) Reports() repository.RepositoryInterface { return reportView{s} }

func (v reportView) AuthorBalances(ctx context.Context, page utils.Page) ([]model.AuthorBalance, int64, error) {
	s := v.s
	if err := s.begin("reports.AuthorBalances"); err != nil {
		return nil, 0, err
	}
	defer s.mu.Unlock()

	byAuthor := make(map[int64]*model.AuthorBalance, len(s.st.authors))
	out := make([]model.AuthorBalance, 0, len(s.st.authors))
	for _, a := range s.st.authors {
		out = append(out, model.AuthorBalance{AuthorID: a.ID, Name: a.Name, UnpaidTotal: decimal.Zero})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].AuthorID < out[j].AuthorID
	})
	for i := range out {
		byAuthor[out[i].AuthorID] = &out[i]
	}
	for _, r := range s.st.ledger {
		if b, ok := byAuthor[r.AuthorID]; ok && !r.Paid {
			b.UnpaidTotal = b.UnpaidTotal.Add(r.RoyaltyAmount)
			b.UnpaidCount++
		}
	}
	return pageOf(out, page), int64(len(out)), nil
}

func (v reportView) PaymentRows(ctx context.Context, authorIDs []int64) ([]model.PaymentRow, error) {
	s := v.s
	if err := s.begin("reports.PaymentRows"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	wanted := make(map[int64]bool, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = true
	}

	var out []model.PaymentRow
	for _, r := range s.st.ledger {
		if !wanted[r.AuthorID] {
			continue
		}
		sale := s.st.sales[r.SaleID]
		out = append(out, model.PaymentRow{
			LedgerID:         r.ID,
			AuthorID:         r.AuthorID,
			AuthorName:       s.st.authors[r.AuthorID].Name,
			RoyaltyAmount:    r.RoyaltyAmount,
			Paid:             r.Paid,
			SaleID:           sale.ID,
			BookID:           sale.BookID,
			BookTitle:        s.st.books[sale.BookID].Title,
			Date:             sale.Date,
			Quantity:         sale.Quantity,
			PublisherRevenue: sale.PublisherRevenue,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AuthorID != b.AuthorID {
			return a.AuthorID < b.AuthorID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.SaleID > b.SaleID
	})
	return out, nil
}

func (v reportView) BookSalesTotals(ctx context.Context, bookID int64) (*model.BookSalesTotals, error) {
	s := v.s
	if err := s.begin("reports.BookSalesTotals"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	t := model.BookSalesTotals{
		BookID:           bookID,
		PublisherRevenue: decimal.Zero,
		TotalRoyalties:   decimal.Zero,
		PaidRoyalties:    decimal.Zero,
		UnpaidRoyalties:  decimal.Zero,
	}
	for _, sale := range s.st.sales {
		if sale.BookID == bookID {
			t.PublisherRevenue = t.PublisherRevenue.Add(sale.PublisherRevenue)
		}
	}
	for _, r := range s.st.ledger {
		if s.st.sales[r.SaleID].BookID != bookID {
			continue
		}
		t.TotalRoyalties = t.TotalRoyalties.Add(r.RoyaltyAmount)
		if r.Paid {
			t.PaidRoyalties = t.PaidRoyalties.Add(r.RoyaltyAmount)
		} else {
			t.UnpaidRoyalties = t.UnpaidRoyalties.Add(r.RoyaltyAmount)
		}
	}
	return &t, nil
}
