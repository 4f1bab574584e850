package model

import (
	"time"

	"github.com/shopspring/decimal"

	"royalty-backend/internal/shared/utils"
)

// ContractInput names an author by AuthorID or, for get-or-create, by Name.
type ContractInput struct {
	AuthorID    *int64           `json:"author_id,omitempty"`
	Name        string           `json:"name,omitempty"`
	RoyaltyRate *decimal.Decimal `json:"royalty_rate"`
}

// CreateBookRequest - POST /v1/books
type CreateBookRequest struct {
	Title           string          `json:"title"`
	PublicationDate string          `json:"publication_date"`
	ISBN13          string          `json:"isbn_13"`
	ISBN10          *string         `json:"isbn_10"`
	Authors         []ContractInput `json:"authors"`
}

// UpdateBookRequest - PATCH /v1/books/:id. Nil fields are left unchanged;
// an empty isbn_10 clears it. Authors, when present, replaces every
// contract of the book.
type UpdateBookRequest struct {
	Title           *string          `json:"title"`
	PublicationDate *string          `json:"publication_date"`
	ISBN13          *string          `json:"isbn_13"`
	ISBN10          *string          `json:"isbn_10"`
	Authors         *[]ContractInput `json:"authors"`
}

// ReplaceContractsRequest - PUT /v1/books/:id/contracts
type ReplaceContractsRequest struct {
	Authors []ContractInput `json:"authors"`
}

// BookFilter - query parameters for listing books
type BookFilter struct {
	Search          string
	PublishedBefore *time.Time
	Sort            string
	Page            utils.Page
}

type ContractResponse struct {
	AuthorID    int64  `json:"author_id"`
	Name        string `json:"name"`
	RoyaltyRate string `json:"royalty_rate"`
}

type BookResponse struct {
	ID               int64              `json:"id"`
	Title            string             `json:"title"`
	PublicationDate  string             `json:"publication_date"`
	ISBN13           string             `json:"isbn_13"`
	ISBN10           *string            `json:"isbn_10"`
	TotalSalesToDate int64              `json:"total_sales_to_date"`
	Authors          []ContractResponse `json:"authors"`
}

func ToContractResponses(contracts []Contract) []ContractResponse {
	out := make([]ContractResponse, len(contracts))
	for i, c := range contracts {
		out[i] = ContractResponse{
			AuthorID:    c.AuthorID,
			Name:        c.AuthorName,
			RoyaltyRate: c.RoyaltyRate.StringFixed(RateScale),
		}
	}
	return out
}

func ToBookResponse(b *BookWithTotals) BookResponse {
	return BookResponse{
		ID:               b.ID,
		Title:            b.Title,
		PublicationDate:  utils.FormatDate(b.PublicationDate),
		ISBN13:           b.ISBN13,
		ISBN10:           b.ISBN10,
		TotalSalesToDate: b.TotalSalesToDate,
		Authors:          ToContractResponses(b.Contracts),
	}
}
