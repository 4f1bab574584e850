package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Settlement scopes, also used as metric labels.
const (
	ScopeAuthor = "author"
	ScopeSale   = "sale"
)

// LedgerRow is the part of an author_sales row a settlement needs.
type LedgerRow struct {
	ID            int64
	SaleID        int64
	AuthorID      int64
	RoyaltyAmount decimal.Decimal
}

// AuthorSettlement is the outcome of paying every unpaid row of an author.
type AuthorSettlement struct {
	AuthorID  int64
	Count     int
	TotalPaid decimal.Decimal
	SaleIDs   []int64
}

// SaleSettlement is the outcome of paying every unpaid row of a sale.
type SaleSettlement struct {
	SaleID    int64
	Count     int
	TotalPaid decimal.Decimal
}

// Summarize totals rows and lists their distinct sale ids in ascending
// order. The total of no rows is zero.
func Summarize(rows []LedgerRow) (decimal.Decimal, []int64) {
	total := decimal.Zero
	seen := make(map[int64]bool, len(rows))
	saleIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		total = total.Add(r.RoyaltyAmount)
		if !seen[r.SaleID] {
			seen[r.SaleID] = true
			saleIDs = append(saleIDs, r.SaleID)
		}
	}
	sort.Slice(saleIDs, func(i, j int) bool { return saleIDs[i] < saleIDs[j] })
	return total, saleIDs
}

// RowIDs lists the ids of rows.
func RowIDs(rows []LedgerRow) []int64 {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

type AuthorSettlementResponse struct {
	AuthorID              int64   `json:"author_id"`
	AuthorSalesMarkedPaid int     `json:"author_sales_marked_paid"`
	TotalRoyaltiesPaid    string  `json:"total_royalties_paid"`
	SaleIDsAffected       []int64 `json:"sale_ids_affected"`
}

type SaleSettlementResponse struct {
	SaleID             int64  `json:"sale_id"`
	AuthorsMarkedPaid  int    `json:"authors_marked_paid"`
	TotalRoyaltiesPaid string `json:"total_royalties_paid"`
}

type UnpaidSubtotalResponse struct {
	AuthorID       int64  `json:"author_id"`
	UnpaidSubtotal string `json:"unpaid_subtotal"`
}

func (s *AuthorSettlement) ToResponse() AuthorSettlementResponse {
	ids := s.SaleIDs
	if ids == nil {
		ids = []int64{}
	}
	return AuthorSettlementResponse{
		AuthorID:              s.AuthorID,
		AuthorSalesMarkedPaid: s.Count,
		TotalRoyaltiesPaid:    s.TotalPaid.StringFixed(2),
		SaleIDsAffected:       ids,
	}
}

func (s *SaleSettlement) ToResponse() SaleSettlementResponse {
	return SaleSettlementResponse{
		SaleID:             s.SaleID,
		AuthorsMarkedPaid:  s.Count,
		TotalRoyaltiesPaid: s.TotalPaid.StringFixed(2),
	}
}
