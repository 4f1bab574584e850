package memstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/internal/domains/settlement/repository"
	"royalty-backend/pkg/database"
)

type settlementView struct{ s *Store }

// Settlement locks nothing itself: transactions on the store already run
// one at a time.
func (s *Store) Settlement() repository.RepositoryInterface { return settlementView{s} }

func (v settlementView) unpaid(op string, match func(saleID, authorID int64) bool) ([]model.LedgerRow, error) {
	s := v.s
	if err := s.begin(op); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var out []model.LedgerRow
	for _, r := range s.st.ledger {
		if !r.Paid && match(r.SaleID, r.AuthorID) {
			out = append(out, model.LedgerRow{
				ID:            r.ID,
				SaleID:        r.SaleID,
				AuthorID:      r.AuthorID,
				RoyaltyAmount: r.RoyaltyAmount,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v settlementView) LockUnpaidByAuthor(ctx context.Context, q database.Querier, authorID int64) ([]model.LedgerRow, error) {
	return v.unpaid("settlement.LockUnpaidByAuthor", func(_, a int64) bool { return a == authorID })
}

func (v settlementView) LockUnpaidBySale(ctx context.Context, q database.Querier, saleID int64) ([]model.LedgerRow, error) {
	return v.unpaid("settlement.LockUnpaidBySale", func(sale, _ int64) bool { return sale == saleID })
}

func (v settlementView) MarkPaid(ctx context.Context, q database.Querier, ids []int64) (int64, error) {
	s := v.s
	if err := s.begin("settlement.MarkPaid"); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	var n int64
	for _, id := range ids {
		r, ok := s.st.ledger[id]
		if ok && !r.Paid {
			r.Paid = true
			s.st.ledger[id] = r
			n++
		}
	}
	return n, nil
}

func (v settlementView) UnpaidSubtotal(ctx context.Context, q database.Querier, authorID int64) (decimal.Decimal, error) {
	rows, err := v.unpaid("settlement.UnpaidSubtotal", func(_, a int64) bool { return a == authorID })
	if err != nil {
		return decimal.Zero, err
	}
	total, _ := model.Summarize(rows)
	return total, nil
}
