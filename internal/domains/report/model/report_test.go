package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRows(t *testing.T) {
	t.Parallel()

	balances := []AuthorBalance{
		{AuthorID: 2, Name: "Ann Author", UnpaidTotal: decimal.RequireFromString("10"), UnpaidCount: 1},
		{AuthorID: 1, Name: "Bob Writer", UnpaidTotal: decimal.Zero},
	}
	rows := []PaymentRow{
		{LedgerID: 11, AuthorID: 1, SaleID: 5},
		{LedgerID: 12, AuthorID: 2, SaleID: 6},
		{LedgerID: 13, AuthorID: 2, SaleID: 4},
		{LedgerID: 14, AuthorID: 3, SaleID: 4},
	}

	groups := GroupRows(balances, rows)

	require.Len(t, groups, 2)
	assert.Equal(t, "Ann Author", groups[0].Name)
	require.Len(t, groups[0].Rows, 2)
	assert.Equal(t, int64(12), groups[0].Rows[0].LedgerID)
	assert.Equal(t, int64(13), groups[0].Rows[1].LedgerID)
	require.Len(t, groups[1].Rows, 1)
	assert.Equal(t, int64(11), groups[1].Rows[0].LedgerID)
}

func TestGroupRows_AuthorWithoutRows(t *testing.T) {
	t.Parallel()

	groups := GroupRows([]AuthorBalance{{AuthorID: 1, Name: "Ann Author"}}, nil)

	require.Len(t, groups, 1)
	assert.NotNil(t, groups[0].Rows)
	assert.Empty(t, groups[0].ToResponse().Rows)
}

func TestAuthorPaymentGroup_ToResponse(t *testing.T) {
	t.Parallel()

	g := AuthorPaymentGroup{
		AuthorBalance: AuthorBalance{AuthorID: 1, Name: "Ann Author", UnpaidTotal: decimal.RequireFromString("12.5"), UnpaidCount: 1},
		Rows: []PaymentRow{{
			LedgerID:         9,
			AuthorID:         1,
			AuthorName:       "Ann Author",
			RoyaltyAmount:    decimal.RequireFromString("12.5"),
			SaleID:           3,
			BookID:           2,
			BookTitle:        "The Long Ledger",
			Date:             time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Quantity:         4,
			PublisherRevenue: decimal.RequireFromString("125"),
		}},
	}

	resp := g.ToResponse()

	assert.Equal(t, "12.50", resp.UnpaidTotal)
	assert.Equal(t, GroupAuthorResponse{ID: 1, Name: "Ann Author"}, resp.Author)
	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	assert.Equal(t, "2024-05-02", row.Sale.Date)
	assert.Equal(t, "125.00", row.Sale.PublisherRevenue)
	assert.Equal(t, "12.50", row.Royalty)
	assert.Equal(t, "12.50", row.Author.RoyaltyAmount)
	assert.False(t, row.Paid)
}
