package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book - books table. TotalSalesToDate is never stored; see BookWithTotals.
type Book struct {
	ID              int64     `db:"id"`
	Title           string    `db:"title"`
	PublicationDate time.Time `db:"publication_date"`
	ISBN13          string    `db:"isbn_13"`
	ISBN10          *string   `db:"isbn_10"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Contract is the current royalty agreement between an author and a book.
// It only seeds default ledger amounts for new sales.
type Contract struct {
	BookID      int64           `db:"book_id"`
	AuthorID    int64           `db:"author_id"`
	AuthorName  string          `db:"author_name"`
	RoyaltyRate decimal.Decimal `db:"royalty_rate"`
}

// BookWithTotals is a book plus its read-time derived fields.
type BookWithTotals struct {
	Book
	TotalSalesToDate       int64
	FirstAuthorName        *string
	FirstAuthorRoyaltyRate decimal.NullDecimal
	Contracts              []Contract
}

// FirstContract returns the contract of the first author: the one with the
// smallest author id. Contracts must already be ordered by author id.
func FirstContract(contracts []Contract) (Contract, bool) {
	if len(contracts) == 0 {
		return Contract{}, false
	}
	first := contracts[0]
	for _, c := range contracts[1:] {
		if c.AuthorID < first.AuthorID {
			first = c
		}
	}
	return first, true
}
