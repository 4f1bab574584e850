package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"royalty-backend/internal/domains/sale/model"
	"royalty-backend/internal/domains/sale/repository"
	"royalty-backend/pkg/database"
)

type saleView struct{ s *Store }

func (s *Store) Sales() repository.RepositoryInterface { return saleView{s} }

func (v saleView) Create(ctx context.Context, q database.Querier, sale *model.Sale) (*model.Sale, error) {
	s := v.s
	if err := s.begin("sales.Create"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if _, ok := s.st.books[sale.BookID]; !ok {
		return nil, fmt.Errorf("failed to create sale: book %d does not exist", sale.BookID)
	}
	created := *sale
	created.ID = s.id()
	created.CreatedAt, created.UpdatedAt = s.now(), s.now()
	s.st.sales[created.ID] = created
	return &created, nil
}

func (v saleView) Update(ctx context.Context, q database.Querier, sale *model.Sale) (*model.Sale, error) {
	s := v.s
	if err := s.begin("sales.Update"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	current, ok := s.st.sales[sale.ID]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	updated := *sale
	updated.CreatedAt, updated.UpdatedAt = current.CreatedAt, s.now()
	s.st.sales[sale.ID] = updated
	return &updated, nil
}

func (v saleView) Delete(ctx context.Context, q database.Querier, id int64) error {
	s := v.s
	if err := s.begin("sales.Delete"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if _, ok := s.st.sales[id]; !ok {
		return model.ErrSaleNotFound
	}
	s.deleteSaleLocked(id)
	return nil
}

func (v saleView) GetByID(ctx context.Context, q database.Querier, id int64) (*model.SaleWithLedger, error) {
	s := v.s
	if err := s.begin("sales.GetByID"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	sale, ok := s.st.sales[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	return &model.SaleWithLedger{
		Sale:      sale,
		BookTitle: s.st.books[sale.BookID].Title,
		Ledger:    s.ledgerLocked(id),
	}, nil
}

func (v saleView) GetByIDForUpdate(ctx context.Context, q database.Querier, id int64) (*model.Sale, error) {
	s := v.s
	if err := s.begin("sales.GetByIDForUpdate"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	sale, ok := s.st.sales[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	return &sale, nil
}

func (v saleView) InsertLedger(ctx context.Context, q database.Querier, rows []model.AuthorSale) error {
	s := v.s
	if err := s.begin("sales.InsertLedger"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	for _, r := range rows {
		for _, existing := range s.st.ledger {
			if existing.SaleID == r.SaleID && existing.AuthorID == r.AuthorID {
				return fmt.Errorf("failed to insert ledger row for author %d: duplicate", r.AuthorID)
			}
		}
		r.ID, r.AuthorName = s.id(), ""
		s.st.ledger[r.ID] = r
	}
	return nil
}

func (v saleView) DeleteLedger(ctx context.Context, q database.Querier, saleID int64) (int64, error) {
	s := v.s
	if err := s.begin("sales.DeleteLedger"); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	var n int64
	for id, r := range s.st.ledger {
		if r.SaleID == saleID {
			delete(s.st.ledger, id)
			n++
		}
	}
	return n, nil
}

func (v saleView) GetLedger(ctx context.Context, q database.Querier, saleID int64) ([]model.AuthorSale, error) {
	s := v.s
	if err := s.begin("sales.GetLedger"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.ledgerLocked(saleID), nil
}

func (v saleView) GetLedgerForUpdate(ctx context.Context, q database.Querier, saleID int64) ([]model.AuthorSale, error) {
	s := v.s
	if err := s.begin("sales.GetLedgerForUpdate"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.ledgerLocked(saleID), nil
}

func (v saleView) LedgerForSales(ctx context.Context, q database.Querier, saleIDs []int64) (map[int64][]model.AuthorSale, error) {
	s := v.s
	if err := s.begin("sales.LedgerForSales"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	out := make(map[int64][]model.AuthorSale, len(saleIDs))
	for _, id := range saleIDs {
		if rows := s.ledgerLocked(id); len(rows) > 0 {
			out[id] = rows
		}
	}
	return out, nil
}

func (v saleView) UpdateLedgerRows(ctx context.Context, q database.Querier, patches []model.LedgerPatch) error {
	s := v.s
	if err := s.begin("sales.UpdateLedgerRows"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	for _, p := range patches {
		stored, ok := s.st.ledger[p.ID]
		if !ok {
			return fmt.Errorf("failed to update ledger row %d: not found", p.ID)
		}
		if p.RoyaltyAmount != nil {
			stored.RoyaltyAmount = *p.RoyaltyAmount
		}
		if p.Paid != nil {
			stored.Paid = *p.Paid
		}
		s.st.ledger[p.ID] = stored
	}
	return nil
}

func (v saleView) List(ctx context.Context, filter model.SaleFilter) ([]model.SaleListItem, int64, error) {
	s := v.s
	if err := s.begin("sales.List"); err != nil {
		return nil, 0, err
	}
	defer s.mu.Unlock()

	var out []model.SaleListItem
	for _, sale := range s.st.sales {
		if filter.BookID != nil && sale.BookID != *filter.BookID {
			continue
		}
		if filter.StartDate != nil && sale.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && sale.Date.After(*filter.EndDate) {
			continue
		}

		item := model.SaleListItem{SaleWithLedger: model.SaleWithLedger{
			Sale:      sale,
			BookTitle: s.st.books[sale.BookID].Title,
			Ledger:    s.ledgerLocked(sale.ID),
		}}
		for _, r := range item.Ledger {
			if r.Paid {
				item.PaidCount++
			} else {
				item.UnpaidCount++
			}
		}
		item.TotalAuthorCount = len(item.Ledger)
		if item.TotalAuthorCount > 0 {
			item.TotalRoyalties.Decimal, item.TotalRoyalties.Valid = model.TotalRoyalties(item.Ledger), true
		}
		item.PaidStatus = model.PaymentStatus(item.PaidCount, item.UnpaidCount)
		if contracts := s.contractsLocked(sale.BookID); len(contracts) > 0 {
			name := contracts[0].AuthorName
			item.FirstAuthorName = &name
		}
		out = append(out, item)
	}

	spec := repository.SaleSort.Resolve(filter.Sort)
	sortRows(out, spec.Desc, saleCompare(spec.Key), func(s model.SaleListItem) int64 { return s.ID })
	return pageOf(out, filter.Page), int64(len(out)), nil
}

func saleCompare(key string) func(a, b model.SaleListItem) (int, bool) {
	switch key {
	case "quantity":
		return func(a, b model.SaleListItem) (int, bool) { return cmpInt(a.Quantity, b.Quantity), true }
	case "publisher_revenue":
		return func(a, b model.SaleListItem) (int, bool) { return a.PublisherRevenue.Cmp(b.PublisherRevenue), true }
	case "book_title":
		return func(a, b model.SaleListItem) (int, bool) { return strings.Compare(a.BookTitle, b.BookTitle), true }
	case "authors":
		return func(a, b model.SaleListItem) (int, bool) {
			if a.FirstAuthorName == nil || b.FirstAuthorName == nil {
				return nullOrder(a.FirstAuthorName == nil, b.FirstAuthorName == nil), false
			}
			return strings.Compare(*a.FirstAuthorName, *b.FirstAuthorName), true
		}
	case "total_royalties":
		return func(a, b model.SaleListItem) (int, bool) {
			if !a.TotalRoyalties.Valid || !b.TotalRoyalties.Valid {
				return nullOrder(!a.TotalRoyalties.Valid, !b.TotalRoyalties.Valid), false
			}
			return a.TotalRoyalties.Decimal.Cmp(b.TotalRoyalties.Decimal), true
		}
	case "paid_status":
		return func(a, b model.SaleListItem) (int, bool) { return cmpInt(int64(a.PaidStatus), int64(b.PaidStatus)), true }
	default:
		return func(a, b model.SaleListItem) (int, bool) { return a.Date.Compare(b.Date), true }
	}
}

// ============================================
// helpers; s.mu must be held
// ============================================

func (s *Store) ledgerLocked(saleID int64) []model.AuthorSale {
	var out []model.AuthorSale
	for _, r := range s.st.ledger {
		if r.SaleID == saleID {
			r.AuthorName = s.st.authors[r.AuthorID].Name
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuthorID < out[j].AuthorID })
	return out
}

func (s *Store) deleteSaleLocked(saleID int64) {
	delete(s.st.sales, saleID)
	for id, r := range s.st.ledger {
		if r.SaleID == saleID {
			delete(s.st.ledger, id)
		}
	}
}
