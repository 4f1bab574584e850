package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	bookmodel "royalty-backend/internal/domains/book/model"
	bookservice "royalty-backend/internal/domains/book/service"
	"royalty-backend/internal/domains/report/service"
	salemodel "royalty-backend/internal/domains/sale/model"
	saleservice "royalty-backend/internal/domains/sale/service"
	settlementservice "royalty-backend/internal/domains/settlement/service"
	"royalty-backend/internal/shared/apperror"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/internal/testutil/memstore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

type fixture struct {
	reports    service.ServiceInterface
	sales      saleservice.ServiceInterface
	settlement settlementservice.ServiceInterface
	books      bookservice.ServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	return &fixture{
		reports:    service.NewReportService(store.Reports(), store.Books(), nil),
		sales:      saleservice.NewService(store.Sales(), store.Books(), store.Authors(), nil, store),
		settlement: settlementservice.NewSettlementService(store.Settlement(), store.Authors(), store.Sales(), nil, store),
		books:      bookservice.NewService(store.Books(), store.Authors(), nil, store),
	}
}

func (f *fixture) book(t *testing.T, isbn string, authors ...bookmodel.ContractInput) *bookmodel.BookWithTotals {
	t.Helper()
	b, err := f.books.CreateBook(context.Background(), bookmodel.CreateBookRequest{
		Title:           "Book " + isbn,
		PublicationDate: "2024-01-01",
		ISBN13:          isbn,
		Authors:         authors,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) sale(t *testing.T, bookID int64, date, revenue string) *salemodel.SaleWithLedger {
	t.Helper()
	s, err := f.sales.CreateSale(context.Background(), salemodel.SaleInput{
		BookID:           ptr(bookID),
		Date:             ptr(date),
		Quantity:         ptr(dec("1")),
		PublisherRevenue: ptr(dec(revenue)),
	})
	require.NoError(t, err)
	return s
}

func TestGroupedAuthorPayments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "9780000000001",
		bookmodel.ContractInput{Name: "Bob Writer", RoyaltyRate: ptr(dec("0.15"))},
		bookmodel.ContractInput{Name: "Ann Author", RoyaltyRate: ptr(dec("0.10"))},
	)
	f.book(t, "9780000000002", bookmodel.ContractInput{Name: "Cara Poet", RoyaltyRate: ptr(dec("0.20"))})

	older := f.sale(t, b.ID, "2024-02-01", "100.00")
	newer := f.sale(t, b.ID, "2024-03-01", "200.00")
	_, err := f.settlement.PayAuthorsForSale(ctx, older.ID)
	require.NoError(t, err)

	groups, total, err := f.reports.GroupedAuthorPayments(ctx, utils.NewPage(1, 2, 10, false))
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	require.Len(t, groups, 2)

	ann := groups[0]
	assert.Equal(t, "Ann Author", ann.Name)
	assert.Equal(t, "20.00", ann.UnpaidTotal.StringFixed(2))
	assert.Equal(t, 1, ann.UnpaidCount)
	require.Len(t, ann.Rows, 2)
	assert.Equal(t, newer.ID, ann.Rows[0].SaleID)
	assert.False(t, ann.Rows[0].Paid)
	assert.Equal(t, older.ID, ann.Rows[1].SaleID)
	assert.True(t, ann.Rows[1].Paid)

	bob := groups[1]
	assert.Equal(t, "Bob Writer", bob.Name)
	assert.Equal(t, "30.00", bob.UnpaidTotal.StringFixed(2))

	groups, _, err = f.reports.GroupedAuthorPayments(ctx, utils.NewPage(2, 2, 10, false))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Cara Poet", groups[0].Name)
	assert.Empty(t, groups[0].Rows)
	assert.True(t, groups[0].UnpaidTotal.IsZero())
}

func TestBookSalesTotals(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "9780000000001",
		bookmodel.ContractInput{Name: "Ann Author", RoyaltyRate: ptr(dec("0.10"))},
		bookmodel.ContractInput{Name: "Bob Writer", RoyaltyRate: ptr(dec("0.15"))},
	)
	first := f.sale(t, b.ID, "2024-02-01", "100.00")
	f.sale(t, b.ID, "2024-02-02", "300.00")
	_, err := f.settlement.PayAuthorsForSale(ctx, first.ID)
	require.NoError(t, err)

	totals, err := f.reports.BookSalesTotals(ctx, b.ID)
	require.NoError(t, err)

	resp := totals.ToResponse()
	assert.Equal(t, "400.00", resp.PublisherRevenue)
	assert.Equal(t, "100.00", resp.TotalRoyalties)
	assert.Equal(t, "25.00", resp.PaidRoyalties)
	assert.Equal(t, "75.00", resp.UnpaidRoyalties)
}

func TestBookSalesTotals_NoSales(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	b := f.book(t, "9780000000001", bookmodel.ContractInput{Name: "Ann Author", RoyaltyRate: ptr(dec("0.10"))})

	totals, err := f.reports.BookSalesTotals(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, "0.00", totals.ToResponse().TotalRoyalties)
}

func TestBookSalesTotals_UnknownBook(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.reports.BookSalesTotals(context.Background(), 404)

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestExportAuthorPayments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, "9780000000001",
		bookmodel.ContractInput{Name: "Bob Writer", RoyaltyRate: ptr(dec("0.15"))},
		bookmodel.ContractInput{Name: "Ann Author", RoyaltyRate: ptr(dec("0.10"))},
	)
	sale := f.sale(t, b.ID, "2024-02-01", "125.00")
	_, err := f.settlement.PayAuthorUnpaid(ctx, b.Contracts[0].AuthorID)
	require.NoError(t, err)

	wb, err := f.reports.ExportAuthorPayments(ctx)
	require.NoError(t, err)
	defer wb.Close()

	raw := excelize.Options{RawCellValue: true}
	rows, err := wb.GetRows("Author payments", raw)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Author ID", "Author", "Sale ID", "Book", "Date", "Quantity", "Publisher Revenue", "Royalty", "Paid"}, rows[0])
	assert.Equal(t, "Ann Author", rows[1][1])
	assert.Equal(t, fmt.Sprint(sale.ID), rows[1][2])
	assert.Equal(t, "2024-02-01", rows[1][4])
	assert.Equal(t, "12.5", rows[1][7])
	assert.Equal(t, "no", rows[1][8])
	assert.Equal(t, "Bob Writer", rows[2][1])
	assert.Equal(t, "yes", rows[2][8])

	summary, err := wb.GetRows("Summary", raw)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{fmt.Sprint(b.Contracts[1].AuthorID), "Ann Author", "1", "12.5"}, summary[1])
	assert.Equal(t, []string{fmt.Sprint(b.Contracts[0].AuthorID), "Bob Writer", "0", "0"}, summary[2])
}
