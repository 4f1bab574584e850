package model

import (
	"time"

	"github.com/shopspring/decimal"

	"royalty-backend/internal/shared/utils"
)

// DefaultGroupPageSize is the page size of grouped author payments; pages
// count authors, not ledger rows.
const DefaultGroupPageSize = 10

// AuthorBalance is an author with the totals of their unpaid ledger rows.
type AuthorBalance struct {
	AuthorID    int64
	Name        string
	UnpaidTotal decimal.Decimal
	UnpaidCount int
}

// PaymentRow is one ledger row with the sale it belongs to.
type PaymentRow struct {
	LedgerID         int64
	AuthorID         int64
	AuthorName       string
	RoyaltyAmount    decimal.Decimal
	Paid             bool
	SaleID           int64
	BookID           int64
	BookTitle        string
	Date             time.Time
	Quantity         int64
	PublisherRevenue decimal.Decimal
}

// AuthorPaymentGroup is an author's balance and every ledger row of the
// author, newest sale first.
type AuthorPaymentGroup struct {
	AuthorBalance
	Rows []PaymentRow
}

// BookSalesTotals are the money totals of a book's sales and ledger.
type BookSalesTotals struct {
	BookID           int64
	PublisherRevenue decimal.Decimal
	TotalRoyalties   decimal.Decimal
	PaidRoyalties    decimal.Decimal
	UnpaidRoyalties  decimal.Decimal
}

// GroupRows attaches rows to their author's balance, keeping the order of
// balances and of rows. Rows of authors not in balances are dropped.
func GroupRows(balances []AuthorBalance, rows []PaymentRow) []AuthorPaymentGroup {
	groups := make([]AuthorPaymentGroup, len(balances))
	index := make(map[int64]int, len(balances))
	for i, b := range balances {
		groups[i] = AuthorPaymentGroup{AuthorBalance: b, Rows: []PaymentRow{}}
		index[b.AuthorID] = i
	}
	for _, r := range rows {
		if i, ok := index[r.AuthorID]; ok {
			groups[i].Rows = append(groups[i].Rows, r)
		}
	}
	return groups
}

type PaymentSaleResponse struct {
	ID               int64  `json:"id"`
	Book             int64  `json:"book"`
	BookTitle        string `json:"book_title"`
	Date             string `json:"date"`
	Quantity         int64  `json:"quantity"`
	PublisherRevenue string `json:"publisher_revenue"`
}

type PaymentAuthorResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	RoyaltyAmount string `json:"royalty_amount"`
	Paid          bool   `json:"paid"`
}

type PaymentRowResponse struct {
	Sale    PaymentSaleResponse   `json:"sale"`
	Author  PaymentAuthorResponse `json:"author"`
	Paid    bool                  `json:"paid"`
	Royalty string                `json:"royalty"`
}

type GroupAuthorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AuthorPaymentGroupResponse struct {
	Author      GroupAuthorResponse  `json:"author"`
	UnpaidTotal string               `json:"unpaid_total"`
	UnpaidCount int                  `json:"unpaid_count"`
	Rows        []PaymentRowResponse `json:"rows"`
}

type BookSalesTotalsResponse struct {
	BookID           int64  `json:"book_id"`
	PublisherRevenue string `json:"publisher_revenue"`
	TotalRoyalties   string `json:"total_royalties"`
	PaidRoyalties    string `json:"paid_royalties"`
	UnpaidRoyalties  string `json:"unpaid_royalties"`
}

func (g *AuthorPaymentGroup) ToResponse() AuthorPaymentGroupResponse {
	rows := make([]PaymentRowResponse, len(g.Rows))
	for i, r := range g.Rows {
		amount := r.RoyaltyAmount.StringFixed(2)
		rows[i] = PaymentRowResponse{
			Sale: PaymentSaleResponse{
				ID:               r.SaleID,
				Book:             r.BookID,
				BookTitle:        r.BookTitle,
				Date:             utils.FormatDate(r.Date),
				Quantity:         r.Quantity,
				PublisherRevenue: r.PublisherRevenue.StringFixed(2),
			},
			Author: PaymentAuthorResponse{
				ID:            r.AuthorID,
				Name:          r.AuthorName,
				RoyaltyAmount: amount,
				Paid:          r.Paid,
			},
			Paid:    r.Paid,
			Royalty: amount,
		}
	}
	return AuthorPaymentGroupResponse{
		Author:      GroupAuthorResponse{ID: g.AuthorID, Name: g.Name},
		UnpaidTotal: g.UnpaidTotal.StringFixed(2),
		UnpaidCount: g.UnpaidCount,
		Rows:        rows,
	}
}

func (t *BookSalesTotals) ToResponse() BookSalesTotalsResponse {
	return BookSalesTotalsResponse{
		BookID:           t.BookID,
		PublisherRevenue: t.PublisherRevenue.StringFixed(2),
		TotalRoyalties:   t.TotalRoyalties.StringFixed(2),
		PaidRoyalties:    t.PaidRoyalties.StringFixed(2),
		UnpaidRoyalties:  t.UnpaidRoyalties.StringFixed(2),
	}
}
