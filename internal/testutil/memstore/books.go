package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"royalty-backend/internal/domains/book/model"
	"royalty-backend/internal/domains/book/repository"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/pkg/database"
)

type bookView struct{ s *Store }

func (s *Store) Books() repository.RepositoryInterface { return bookView{s} }

func (v bookView) isbnTaken(isbn string, except int64) bool {
	for id, b := range v.s.st.books {
		if id != except && b.ISBN13 == isbn {
			return true
		}
	}
	return false
}

func (v bookView) Create(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error) {
	s := v.s
	if err := s.begin("books.Create"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if v.isbnTaken(b.ISBN13, 0) {
		return nil, model.ErrDuplicateISBN13
	}
	created := *b
	created.ID = s.id()
	created.CreatedAt, created.UpdatedAt = s.now(), s.now()
	s.st.books[created.ID] = created
	return &created, nil
}

func (v bookView) Update(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error) {
	s := v.s
	if err := s.begin("books.Update"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	current, ok := s.st.books[b.ID]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	if v.isbnTaken(b.ISBN13, b.ID) {
		return nil, model.ErrDuplicateISBN13
	}
	updated := *b
	updated.CreatedAt, updated.UpdatedAt = current.CreatedAt, s.now()
	s.st.books[b.ID] = updated
	return &updated, nil
}

func (v bookView) Delete(ctx context.Context, q database.Querier, id int64) error {
	s := v.s
	if err := s.begin("books.Delete"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if _, ok := s.st.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(s.st.books, id)
	delete(s.st.contracts, id)
	for saleID, sale := range s.st.sales {
		if sale.BookID == id {
			s.deleteSaleLocked(saleID)
		}
	}
	return nil
}

func (v bookView) get(op string, id int64) (*model.Book, error) {
	s := v.s
	if err := s.begin(op); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	b, ok := s.st.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return &b, nil
}

func (v bookView) GetByID(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	return v.get("books.GetByID", id)
}

func (v bookView) GetByIDForUpdate(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	return v.get("books.GetByIDForUpdate", id)
}

func (v bookView) GetByIDForShare(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	return v.get("books.GetByIDForShare", id)
}

func (v bookView) TotalSalesToDate(ctx context.Context, q database.Querier, id int64) (int64, error) {
	s := v.s
	if err := s.begin("books.TotalSalesToDate"); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	return s.totalSalesLocked(id), nil
}

func (v bookView) EarliestSaleDate(ctx context.Context, q database.Querier, id int64) (*time.Time, error) {
	s := v.s
	if err := s.begin("books.EarliestSaleDate"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var earliest *time.Time
	for _, sale := range s.st.sales {
		if sale.BookID == id && (earliest == nil || sale.Date.Before(*earliest)) {
			d := sale.Date
			earliest = &d
		}
	}
	return earliest, nil
}

func (v bookView) GetContracts(ctx context.Context, q database.Querier, bookID int64) ([]model.Contract, error) {
	s := v.s
	if err := s.begin("books.GetContracts"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.contractsLocked(bookID), nil
}

func (v bookView) ContractsForBooks(ctx context.Context, q database.Querier, bookIDs []int64) (map[int64][]model.Contract, error) {
	s := v.s
	if err := s.begin("books.ContractsForBooks"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	out := make(map[int64][]model.Contract, len(bookIDs))
	for _, id := range bookIDs {
		if c := s.contractsLocked(id); len(c) > 0 {
			out[id] = c
		}
	}
	return out, nil
}

func (v bookView) ReplaceContracts(ctx context.Context, q database.Querier, bookID int64, contracts []model.Contract) error {
	s := v.s
	if err := s.begin("books.ReplaceContracts"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	stored := make([]model.Contract, len(contracts))
	for i, c := range contracts {
		c.BookID, c.AuthorName = bookID, ""
		stored[i] = c
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].AuthorID < stored[j].AuthorID })
	s.st.contracts[bookID] = stored
	return nil
}

func (v bookView) List(ctx context.Context, filter model.BookFilter) ([]model.BookWithTotals, int64, error) {
	s := v.s
	if err := s.begin("books.List"); err != nil {
		return nil, 0, err
	}
	defer s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	isbn := strings.ToLower(utils.StripSeparators(filter.Search))

	var out []model.BookWithTotals
	for _, b := range s.st.books {
		if filter.PublishedBefore != nil && b.PublicationDate.After(*filter.PublishedBefore) {
			continue
		}
		contracts := s.contractsLocked(b.ID)
		if search != "" && !bookMatches(b, contracts, search, isbn) {
			continue
		}

		item := model.BookWithTotals{Book: b, TotalSalesToDate: s.totalSalesLocked(b.ID), Contracts: contracts}
		if first, ok := model.FirstContract(contracts); ok {
			name := first.AuthorName
			item.FirstAuthorName = &name
			item.FirstAuthorRoyaltyRate.Decimal, item.FirstAuthorRoyaltyRate.Valid = first.RoyaltyRate, true
		}
		out = append(out, item)
	}

	spec := repository.BookSort.Resolve(filter.Sort)
	sortRows(out, spec.Desc, bookCompare(spec.Key), func(b model.BookWithTotals) int64 { return b.ID })
	return pageOf(out, filter.Page), int64(len(out)), nil
}

func bookMatches(b model.Book, contracts []model.Contract, search, isbn string) bool {
	if strings.Contains(strings.ToLower(b.Title), search) || strings.Contains(b.ISBN13, isbn) {
		return true
	}
	if b.ISBN10 != nil && strings.Contains(strings.ToLower(*b.ISBN10), isbn) {
		return true
	}
	for _, c := range contracts {
		if strings.Contains(strings.ToLower(c.AuthorName), search) {
			return true
		}
	}
	return false
}

// bookCompare returns the comparison for a whitelisted sort key. ok is
// false when either value is NULL.
func bookCompare(key string) func(a, b model.BookWithTotals) (int, bool) {
	switch key {
	case "isbn_13":
		return func(a, b model.BookWithTotals) (int, bool) { return strings.Compare(a.ISBN13, b.ISBN13), true }
	case "isbn_10":
		return func(a, b model.BookWithTotals) (int, bool) {
			if a.ISBN10 == nil || b.ISBN10 == nil {
				return nullOrder(a.ISBN10 == nil, b.ISBN10 == nil), false
			}
			return strings.Compare(*a.ISBN10, *b.ISBN10), true
		}
	case "publication_date":
		return func(a, b model.BookWithTotals) (int, bool) { return a.PublicationDate.Compare(b.PublicationDate), true }
	case "first_author_royalty_rate":
		return func(a, b model.BookWithTotals) (int, bool) {
			if !a.FirstAuthorRoyaltyRate.Valid || !b.FirstAuthorRoyaltyRate.Valid {
				return nullOrder(!a.FirstAuthorRoyaltyRate.Valid, !b.FirstAuthorRoyaltyRate.Valid), false
			}
			return a.FirstAuthorRoyaltyRate.Decimal.Cmp(b.FirstAuthorRoyaltyRate.Decimal), true
		}
	case "total_sales_to_date":
		return func(a, b model.BookWithTotals) (int, bool) { return cmpInt(a.TotalSalesToDate, b.TotalSalesToDate), true }
	case "id":
		return func(a, b model.BookWithTotals) (int, bool) { return cmpInt(a.ID, b.ID), true }
	case "first_author_name":
		return func(a, b model.BookWithTotals) (int, bool) {
			if a.FirstAuthorName == nil || b.FirstAuthorName == nil {
				return nullOrder(a.FirstAuthorName == nil, b.FirstAuthorName == nil), false
			}
			return strings.Compare(*a.FirstAuthorName, *b.FirstAuthorName), true
		}
	default:
		return func(a, b model.BookWithTotals) (int, bool) { return strings.Compare(a.Title, b.Title), true }
	}
}

// ============================================
// helpers shared by the views; s.mu must be held
// ============================================

func (s *Store) contractsLocked(bookID int64) []model.Contract {
	stored := s.st.contracts[bookID]
	out := make([]model.Contract, len(stored))
	for i, c := range stored {
		c.AuthorName = s.st.authors[c.AuthorID].Name
		out[i] = c
	}
	return out
}

func (s *Store) totalSalesLocked(bookID int64) int64 {
	var total int64
	for _, sale := range s.st.sales {
		if sale.BookID == bookID {
			total += sale.Quantity
		}
	}
	return total
}
