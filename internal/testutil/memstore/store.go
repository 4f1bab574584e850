// Package memstore is an in-memory implementation of every repository
// interface, for service tests. Transactions run one at a time; a failed
// transaction restores the state it started from, so rollback is
// observable without PostgreSQL.
package memstore

import (
	"context"
	"sync"
	"time"

	authormodel "royalty-backend/internal/domains/author/model"
	bookmodel "royalty-backend/internal/domains/book/model"
	salemodel "royalty-backend/internal/domains/sale/model"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/pkg/database"
)

type state struct {
	authors   map[int64]authormodel.Author
	books     map[int64]bookmodel.Book
	contracts map[int64][]bookmodel.Contract // by book id, ordered by author id
	sales     map[int64]salemodel.Sale
	ledger    map[int64]salemodel.AuthorSale
	nextID    int64
}

func newState() state {
	return state{
		authors:   map[int64]authormodel.Author{},
		books:     map[int64]bookmodel.Book{},
		contracts: map[int64][]bookmodel.Contract{},
		sales:     map[int64]salemodel.Sale{},
		ledger:    map[int64]salemodel.AuthorSale{},
	}
}

func (st state) clone() state {
	out := newState()
	out.nextID = st.nextID
	for k, v := range st.authors {
		out.authors[k] = v
	}
	for k, v := range st.books {
		out.books[k] = v
	}
	for k, v := range st.contracts {
		out.contracts[k] = append([]bookmodel.Contract(nil), v...)
	}
	for k, v := range st.sales {
		out.sales[k] = v
	}
	for k, v := range st.ledger {
		out.ledger[k] = v
	}
	return out
}

// Store holds all tables. Use the view accessors to get repositories.
type Store struct {
	txMu sync.Mutex // held for a whole transaction
	mu   sync.Mutex // guards st and failures
	st   state

	failures map[string]error
	now      func() time.Time
}

func New() *Store {
	return &Store{
		st:       newState(),
		failures: map[string]error{},
		now:      func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

// WithinTx implements database.Transactor. Repository calls inside fn
// receive a nil Querier.
func (s *Store) WithinTx(ctx context.Context, fn func(q database.Querier) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// FailOn makes every later call of op return err, until cleared with a
// nil err. op is "<view>.<Method>", e.g. "books.ReplaceContracts".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// begin locks the store for op. An injected failure for op is returned
// with the store unlocked again; otherwise the caller must unlock.
func (s *Store) begin(op string) error {
	s.mu.Lock()
	if err := s.failures[op]; err != nil {
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// Counts reports the number of rows per table.
func (s *Store) Counts() (authors, books, contracts, sales, ledger int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.st.contracts {
		contracts += len(c)
	}
	return len(s.st.authors), len(s.st.books), contracts, len(s.st.sales), len(s.st.ledger)
}

func pageOf[T any](items []T, p utils.Page) []T {
	if p.All {
		return items
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

