package model

import "errors"

var (
	ErrSaleNotFound = errors.New("sale not found")
)

// Field-scoped validation messages.
const (
	MsgQuantityRequired  = "Quantity is required."
	MsgQuantityInteger   = "Quantity must be a valid integer."
	MsgQuantityPositive  = "Quantity must be a positive integer."
	MsgQuantityTooLarge  = "Quantity must be at most 2147483647."
	MsgRevenueRequired   = "Publisher revenue is required."
	MsgRevenueNegative   = "Publisher revenue cannot be negative."
	MsgRevenuePlaces     = "Publisher revenue must have at most 2 decimal places."
	MsgRevenueTooLarge   = "Publisher revenue must be less than 100000000."
	MsgDateRequired      = "Date is required."
	MsgDateInvalid       = "Date must be a valid date (YYYY-MM-DD)."
	MsgDateBeforePublish = "Sale date (%s) cannot be before book publication date (%s)."
	MsgBookRequired      = "Book is required."
	MsgBookNotFound      = "Book with id %d does not exist."
	MsgRoyaltyNegative   = "Royalty amount for author %s cannot be negative."
	MsgRoyaltyTooLarge   = "Royalty amount for author %s must be less than 100000000."
	MsgBatchEmpty        = "Expected a non-empty list of sales."
)
