package model

import (
	"time"

	"github.com/shopspring/decimal"

	"royalty-backend/internal/shared/utils"
)

// SaleInput - POST /v1/sales, one element of POST /v1/sales/batch, and
// PATCH /v1/sales/:id. On edit, nil fields keep the sale's current values.
//
// AuthorRoyalties and AuthorPaid are keyed by author id. On create they
// override the contract-derived defaults; on edit they patch existing
// ledger rows only.
type SaleInput struct {
	BookID           *int64                    `json:"book"`
	Date             *string                   `json:"date"`
	Quantity         *decimal.Decimal          `json:"quantity"`
	PublisherRevenue *decimal.Decimal          `json:"publisher_revenue"`
	AuthorRoyalties  map[int64]decimal.Decimal `json:"author_royalties"`
	AuthorPaid       map[int64]bool            `json:"author_paid"`
}

// Overrides returns the caller-supplied ledger values of the input.
func (in SaleInput) Overrides() Overrides {
	return Overrides{Amounts: in.AuthorRoyalties, Paid: in.AuthorPaid}
}

// SaleFilter - query parameters for listing sales. StartDate and EndDate
// are already widened to whole months.
type SaleFilter struct {
	BookID    *int64
	StartDate *time.Time
	EndDate   *time.Time
	Sort      string
	Page      utils.Page
}

type AuthorDetailResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	RoyaltyAmount string `json:"royalty_amount"`
	Paid          bool   `json:"paid"`
}

type SaleResponse struct {
	ID               int64                  `json:"id"`
	Book             int64                  `json:"book"`
	BookTitle        string                 `json:"book_title"`
	Date             string                 `json:"date"`
	Quantity         int64                  `json:"quantity"`
	PublisherRevenue string                 `json:"publisher_revenue"`
	AuthorDetails    []AuthorDetailResponse `json:"author_details"`
}

// SaleListResponse adds the derived listing fields to SaleResponse.
type SaleListResponse struct {
	SaleResponse
	FirstAuthorName *string `json:"first_author_name"`
	TotalRoyalties  string  `json:"total_royalties"`
	PaidCount       int     `json:"paid_count"`
	UnpaidCount     int     `json:"unpaid_count"`
	PaidStatus      int     `json:"paid_status"`
}

func ToAuthorDetails(rows []AuthorSale) []AuthorDetailResponse {
	out := make([]AuthorDetailResponse, len(rows))
	for i, r := range rows {
		out[i] = AuthorDetailResponse{
			ID:            r.AuthorID,
			Name:          r.AuthorName,
			RoyaltyAmount: r.RoyaltyAmount.StringFixed(AmountScale),
			Paid:          r.Paid,
		}
	}
	return out
}

func ToSaleResponse(s *SaleWithLedger) SaleResponse {
	return SaleResponse{
		ID:               s.ID,
		Book:             s.BookID,
		BookTitle:        s.BookTitle,
		Date:             utils.FormatDate(s.Date),
		Quantity:         s.Quantity,
		PublisherRevenue: s.PublisherRevenue.StringFixed(AmountScale),
		AuthorDetails:    ToAuthorDetails(s.Ledger),
	}
}

func ToSaleListResponse(s *SaleListItem) SaleListResponse {
	return SaleListResponse{
		SaleResponse:    ToSaleResponse(&s.SaleWithLedger),
		FirstAuthorName: s.FirstAuthorName,
		TotalRoyalties:  s.TotalRoyalties.Decimal.StringFixed(AmountScale),
		PaidCount:       s.PaidCount,
		UnpaidCount:     s.UnpaidCount,
		PaidStatus:      s.PaidStatus,
	}
}
