package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"royalty-backend/internal/shared/utils"
)

var (
	maxQuantity = decimal.NewFromInt(2147483647)
	// NUMERIC(10,2) holds values below 10^8.
	amountLimit = decimal.New(1, 8)
)

// Resolve merges in over base and validates the scalar fields. base is nil
// on create, in which case every field is required. Book existence and the
// publication date check need the book and are left to CheckBook.
func (in SaleInput) Resolve(base *Sale) (Sale, validation.Errors) {
	var draft Sale
	if base != nil {
		draft = *base
	}
	errs := validation.Errors{}

	switch {
	case in.Quantity != nil:
		q, err := validateQuantity(*in.Quantity)
		errs["quantity"] = err
		draft.Quantity = q
	case base == nil:
		errs["quantity"] = errors.New(MsgQuantityRequired)
	}

	switch {
	case in.PublisherRevenue != nil:
		errs["publisher_revenue"] = validation.Validate(*in.PublisherRevenue, validation.By(validateRevenue))
		draft.PublisherRevenue = *in.PublisherRevenue
	case base == nil:
		errs["publisher_revenue"] = errors.New(MsgRevenueRequired)
	}

	// A blank date on edit keeps the current one.
	switch {
	case in.Date != nil && strings.TrimSpace(*in.Date) != "":
		d, err := utils.ParseDate(*in.Date)
		if err != nil {
			errs["date"] = errors.New(MsgDateInvalid)
		}
		draft.Date = d
	case base == nil:
		errs["date"] = errors.New(MsgDateRequired)
	}

	switch {
	case in.BookID != nil:
		draft.BookID = *in.BookID
	case base == nil:
		errs["book"] = errors.New(MsgBookRequired)
	}

	return draft, errs
}

func validateQuantity(q decimal.Decimal) (int64, error) {
	if !q.IsInteger() {
		return 0, errors.New(MsgQuantityInteger)
	}
	if !q.IsPositive() {
		return 0, errors.New(MsgQuantityPositive)
	}
	if q.GreaterThan(maxQuantity) {
		return 0, errors.New(MsgQuantityTooLarge)
	}
	return q.IntPart(), nil
}

func validateRevenue(value interface{}) error {
	rev := value.(decimal.Decimal)
	switch {
	case rev.IsNegative():
		return errors.New(MsgRevenueNegative)
	case !rev.Equal(rev.Round(AmountScale)):
		return errors.New(MsgRevenuePlaces)
	case rev.GreaterThanOrEqual(amountLimit):
		return errors.New(MsgRevenueTooLarge)
	}
	return nil
}

// CheckBook records the book-dependent failures of draft in errs.
// publicationDate is the date of the book draft.BookID names, or nil when
// no such book exists. Fields that already failed are not checked again.
func CheckBook(errs validation.Errors, draft *Sale, publicationDate *time.Time) {
	if errs["book"] != nil {
		return
	}
	if publicationDate == nil {
		errs["book"] = fmt.Errorf(MsgBookNotFound, draft.BookID)
		return
	}
	if errs["date"] == nil && !draft.Date.IsZero() && draft.Date.Before(*publicationDate) {
		errs["date"] = fmt.Errorf(MsgDateBeforePublish,
			utils.FormatDate(draft.Date), utils.FormatDate(*publicationDate))
	}
}

// ValidateOverrideAmounts rejects negative or oversized override amounts.
// Authors are named by names[id], or by id when unknown. Every failure is
// reported, one per line, in author id order.
func ValidateOverrideAmounts(amounts map[int64]decimal.Decimal, names map[int64]string) error {
	ids := make([]int64, 0, len(amounts))
	for id := range amounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var msgs []string
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = strconv.FormatInt(id, 10)
		}
		switch amount := amounts[id]; {
		case amount.IsNegative():
			msgs = append(msgs, fmt.Sprintf(MsgRoyaltyNegative, name))
		case amount.Round(AmountScale).GreaterThanOrEqual(amountLimit):
			msgs = append(msgs, fmt.Sprintf(MsgRoyaltyTooLarge, name))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "\n"))
}

// OverrideAuthorIDs lists the author ids named by amount overrides.
func OverrideAuthorIDs(amounts map[int64]decimal.Decimal) []int64 {
	ids := make([]int64, 0, len(amounts))
	for id := range amounts {
		ids = append(ids, id)
	}
	return ids
}
