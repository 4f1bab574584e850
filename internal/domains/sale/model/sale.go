package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale - sales table. One sale is a snapshot of a month's sales of a book.
type Sale struct {
	ID               int64           `db:"id"`
	BookID           int64           `db:"book_id"`
	Date             time.Time       `db:"date"`
	Quantity         int64           `db:"quantity"`
	PublisherRevenue decimal.Decimal `db:"publisher_revenue"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// AuthorSale - author_sales table, the royalty ledger. A row records what
// one author is owed for one sale and whether it has been paid. Rows are
// not recomputed when the contract rate changes later.
type AuthorSale struct {
	ID            int64           `db:"id"`
	SaleID        int64           `db:"sale_id"`
	AuthorID      int64           `db:"author_id"`
	AuthorName    string          `db:"author_name"`
	RoyaltyAmount decimal.Decimal `db:"royalty_amount"`
	Paid          bool            `db:"paid"`
}

// SaleWithLedger is a sale, its book title and its ledger rows ordered by
// author id.
type SaleWithLedger struct {
	Sale
	BookTitle string
	Ledger    []AuthorSale
}

// SaleListItem carries the read-time derived fields used to sort sales.
type SaleListItem struct {
	SaleWithLedger
	FirstAuthorName  *string
	TotalRoyalties   decimal.NullDecimal
	UnpaidCount      int
	PaidCount        int
	TotalAuthorCount int
	PaidStatus       int
}
