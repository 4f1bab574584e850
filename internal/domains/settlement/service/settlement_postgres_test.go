package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorrepo "royalty-backend/internal/domains/author/repository"
	bookmodel "royalty-backend/internal/domains/book/model"
	bookrepo "royalty-backend/internal/domains/book/repository"
	bookservice "royalty-backend/internal/domains/book/service"
	salemodel "royalty-backend/internal/domains/sale/model"
	salerepo "royalty-backend/internal/domains/sale/repository"
	saleservice "royalty-backend/internal/domains/sale/service"
	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/internal/domains/settlement/repository"
	"royalty-backend/internal/domains/settlement/service"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/internal/testutil/pgtest"
	"royalty-backend/pkg/database"
)

type pgFixture struct {
	pool       *pgxpool.Pool
	ledger     repository.RepositoryInterface
	settlement service.ServiceInterface
	sales      saleservice.ServiceInterface
	books      bookservice.ServiceInterface
}

func newPostgresFixture(t *testing.T) *pgFixture {
	pool := pgtest.Pool(t)
	tx := database.NewTransactor(pool)

	authors := authorrepo.NewPostgresRepository(pool)
	books := bookrepo.NewPostgresRepository(pool)
	sales := salerepo.NewPostgresRepository(pool)

	ledger := repository.NewPostgresRepository(pool)

	return &pgFixture{
		pool:       pool,
		ledger:     ledger,
		settlement: service.NewSettlementService(ledger, authors, sales, pool, tx),
		sales:      saleservice.NewService(sales, books, authors, pool, tx),
		books:      bookservice.NewService(books, authors, pool, tx),
	}
}

func (f *pgFixture) book(t *testing.T) *bookmodel.BookWithTotals {
	t.Helper()

	b, err := f.books.CreateBook(context.Background(), bookmodel.CreateBookRequest{
		Title:           "The Long Ledger",
		PublicationDate: "2024-01-01",
		ISBN13:          "9780000000001",
		Authors: []bookmodel.ContractInput{
			{Name: "Ann Author", RoyaltyRate: ptr(dec("0.10"))},
			{Name: "Bob Writer", RoyaltyRate: ptr(dec("0.15"))},
		},
	})
	require.NoError(t, err)
	return b
}

func (f *pgFixture) sale(t *testing.T, bookID int64, revenue string, paid map[int64]bool) int64 {
	t.Helper()

	s, err := f.sales.CreateSale(context.Background(), salemodel.SaleInput{
		BookID:           ptr(bookID),
		Date:             ptr("2024-02-01"),
		Quantity:         ptr(dec("3")),
		PublisherRevenue: ptr(dec(revenue)),
		AuthorPaid:       paid,
	})
	require.NoError(t, err)
	return s.ID
}

func TestPostgres_ConcurrentSettlementPaysOnce(t *testing.T) {
	f := newPostgresFixture(t)
	b := f.book(t)
	ann := b.Contracts[0].AuthorID
	f.sale(t, b.ID, "100.00", nil)
	f.sale(t, b.ID, "150.00", nil)

	const workers = 6
	results := make([]*model.AuthorSettlement, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.settlement.PayAuthorUnpaid(context.Background(), ann)
		}(i)
	}
	wg.Wait()

	var paidRows int
	for i := range results {
		require.NoError(t, errs[i])
		paidRows += results[i].Count
		if results[i].Count > 0 {
			assert.Equal(t, "25.00", results[i].TotalPaid.StringFixed(2))
		}
	}
	assert.Equal(t, 2, paidRows)

	unpaid, err := f.settlement.UnpaidSubtotal(context.Background(), ann)
	require.NoError(t, err)
	assert.True(t, unpaid.IsZero())
}

func TestPostgres_EditDuringSettlementKeepsPaid(t *testing.T) {
	f := newPostgresFixture(t)
	ctx := context.Background()
	b := f.book(t)
	ann := b.Contracts[0].AuthorID
	saleID := f.sale(t, b.ID, "100.00", nil)

	// A settlement on its own connection pays the sale and holds the row
	// locks until it commits.
	settle, err := f.pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = settle.Rollback(ctx) }()

	rows, err := f.ledger.LockUnpaidBySale(ctx, settle, saleID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	marked, err := f.ledger.MarkPaid(ctx, settle, ids)
	require.NoError(t, err)
	require.Equal(t, int64(2), marked)

	type editResult struct {
		sale *salemodel.SaleWithLedger
		err  error
	}
	done := make(chan editResult, 1)
	go func() {
		edited, err := f.sales.EditSale(ctx, saleID, salemodel.SaleInput{
			AuthorRoyalties: map[int64]decimal.Decimal{ann: dec("7.00")},
		})
		done <- editResult{edited, err}
	}()

	select {
	case res := <-done:
		t.Fatalf("edit finished while the settlement held the ledger: %v", res.err)
	case <-time.After(300 * time.Millisecond):
	}
	require.NoError(t, settle.Commit(ctx))

	var res editResult
	select {
	case res = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("edit did not finish after the settlement committed")
	}
	require.NoError(t, res.err)

	require.Len(t, res.sale.Ledger, 2)
	for _, l := range res.sale.Ledger {
		assert.True(t, l.Paid, "author %d lost the settlement's paid flag", l.AuthorID)
	}
	assert.Equal(t, "7.00", res.sale.Ledger[0].RoyaltyAmount.StringFixed(2))

	again, err := f.settlement.PayAuthorUnpaid(ctx, ann)
	require.NoError(t, err)
	assert.Zero(t, again.Count)
	assert.True(t, again.TotalPaid.IsZero())
}

func TestPostgres_ListSalesByPaymentStatus(t *testing.T) {
	f := newPostgresFixture(t)
	b := f.book(t)
	ann, bob := b.Contracts[0].AuthorID, b.Contracts[1].AuthorID

	unpaid := f.sale(t, b.ID, "10.00", nil)
	full := f.sale(t, b.ID, "20.00", map[int64]bool{ann: true, bob: true})
	partial := f.sale(t, b.ID, "30.00", map[int64]bool{ann: true})

	list := func(sort string) []int64 {
		sales, total, err := f.sales.ListSales(context.Background(), salemodel.SaleFilter{
			Sort: sort,
			Page: utils.NewPage(1, 10, 10, false),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		ids := make([]int64, len(sales))
		for i, s := range sales {
			ids[i] = s.ID
		}
		return ids
	}

	assert.Equal(t, []int64{full, partial, unpaid}, list("paid_status"))
	assert.Equal(t, []int64{unpaid, partial, full}, list("-paid_status"))
}

func TestPostgres_BookTotalsAreNotMultipliedBySearch(t *testing.T) {
	f := newPostgresFixture(t)
	b := f.book(t)
	f.sale(t, b.ID, "10.00", nil)
	f.sale(t, b.ID, "10.00", nil)

	books, total, err := f.books.ListBooks(context.Background(), bookmodel.BookFilter{
		Search: "er",
		Page:   utils.NewPage(1, 10, 10, false),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, int64(6), books[0].TotalSalesToDate)
	require.NotNil(t, books[0].FirstAuthorName)
	assert.Equal(t, "Ann Author", *books[0].FirstAuthorName)
}
