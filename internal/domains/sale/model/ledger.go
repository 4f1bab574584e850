package model

import (
	"github.com/shopspring/decimal"

	bookmodel "royalty-backend/internal/domains/book/model"
)

// AmountScale matches NUMERIC(10,2) for revenue and royalty amounts.
const AmountScale = 2

// Payment status ranks, in ascending sort order.
const (
	StatusFullyPaid     = 0
	StatusPartiallyPaid = 1
	StatusUnpaid        = 2
)

// Overrides are caller-supplied ledger values keyed by author id.
type Overrides struct {
	Amounts map[int64]decimal.Decimal
	Paid    map[int64]bool
}

func (o Overrides) Empty() bool {
	return len(o.Amounts) == 0 && len(o.Paid) == 0
}

// RoyaltyAmount is revenue * rate rounded half away from zero to cents.
// For the non-negative amounts of the ledger that is half-up, the same
// rule PostgreSQL applies when it casts to NUMERIC(10,2).
func RoyaltyAmount(revenue, rate decimal.Decimal) decimal.Decimal {
	return revenue.Mul(rate).Round(AmountScale)
}

// Materialize builds one ledger row per contract of the sale's book. An
// override amount replaces the contract-derived amount; paid defaults to
// false. The rows are not persisted and carry no id.
func Materialize(sale *Sale, contracts []bookmodel.Contract, ov Overrides) []AuthorSale {
	rows := make([]AuthorSale, 0, len(contracts))
	for _, c := range contracts {
		amount, ok := ov.Amounts[c.AuthorID]
		if ok {
			amount = amount.Round(AmountScale)
		} else {
			amount = RoyaltyAmount(sale.PublisherRevenue, c.RoyaltyRate)
		}

		rows = append(rows, AuthorSale{
			SaleID:        sale.ID,
			AuthorID:      c.AuthorID,
			AuthorName:    c.AuthorName,
			RoyaltyAmount: amount,
			Paid:          ov.Paid[c.AuthorID],
		})
	}
	return rows
}

// LedgerPatch names the columns an override changes on one ledger row.
// A nil field leaves the stored value alone.
type LedgerPatch struct {
	ID            int64
	RoyaltyAmount *decimal.Decimal
	Paid          *bool
}

// ApplyOverrides patches rows in place with the overrides naming their
// author and returns one patch per changed row, carrying only the changed
// columns. Rows without an override, and overrides without a row, are
// ignored.
func ApplyOverrides(rows []AuthorSale, ov Overrides) []LedgerPatch {
	var patches []LedgerPatch
	for i := range rows {
		r := &rows[i]
		p := LedgerPatch{ID: r.ID}

		if amount, ok := ov.Amounts[r.AuthorID]; ok {
			amount = amount.Round(AmountScale)
			if !amount.Equal(r.RoyaltyAmount) {
				r.RoyaltyAmount = amount
				p.RoyaltyAmount = &amount
			}
		}
		if paid, ok := ov.Paid[r.AuthorID]; ok && paid != r.Paid {
			r.Paid = paid
			p.Paid = &paid
		}

		if p.RoyaltyAmount != nil || p.Paid != nil {
			patches = append(patches, p)
		}
	}
	return patches
}

// PaymentStatus ranks a sale by its ledger: fully paid when every row is
// paid, partially paid when some are, unpaid otherwise. A sale without
// ledger rows is unpaid.
func PaymentStatus(paidCount, unpaidCount int) int {
	switch {
	case unpaidCount == 0 && paidCount > 0:
		return StatusFullyPaid
	case paidCount > 0 && unpaidCount > 0:
		return StatusPartiallyPaid
	default:
		return StatusUnpaid
	}
}

// TotalRoyalties sums the ledger amounts.
func TotalRoyalties(rows []AuthorSale) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.RoyaltyAmount)
	}
	return total
}
