package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validInput() SaleInput {
	return SaleInput{
		BookID:           ptr(int64(7)),
		Date:             ptr("2024-03-15"),
		Quantity:         ptr(dec("10")),
		PublisherRevenue: ptr(dec("1000.00")),
	}
}

func TestResolve_Valid(t *testing.T) {
	t.Parallel()

	draft, errs := validInput().Resolve(nil)

	require.NoError(t, errs.Filter())
	assert.Equal(t, int64(7), draft.BookID)
	assert.Equal(t, int64(10), draft.Quantity)
	assert.Equal(t, "1000.00", draft.PublisherRevenue.StringFixed(2))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), draft.Date)
}

func TestResolve_RequiredOnCreate(t *testing.T) {
	t.Parallel()

	_, errs := SaleInput{}.Resolve(nil)

	assert.EqualError(t, errs["quantity"], MsgQuantityRequired)
	assert.EqualError(t, errs["publisher_revenue"], MsgRevenueRequired)
	assert.EqualError(t, errs["date"], MsgDateRequired)
	assert.EqualError(t, errs["book"], MsgBookRequired)
}

func TestResolve_Quantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quantity string
		want     string
	}{
		{"-5", MsgQuantityPositive},
		{"0", MsgQuantityPositive},
		{"1.5", MsgQuantityInteger},
		{"2147483648", MsgQuantityTooLarge},
		{"2147483647", ""},
	}

	for _, tt := range tests {
		t.Run(tt.quantity, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			in.Quantity = ptr(dec(tt.quantity))

			_, errs := in.Resolve(nil)
			if tt.want == "" {
				assert.NoError(t, errs["quantity"])
				return
			}
			assert.EqualError(t, errs["quantity"], tt.want)
		})
	}
}

func TestResolve_PublisherRevenue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		revenue string
		want    string
	}{
		{"-0.01", MsgRevenueNegative},
		{"10.001", MsgRevenuePlaces},
		{"100000000", MsgRevenueTooLarge},
		{"99999999.99", ""},
		{"0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.revenue, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			in.PublisherRevenue = ptr(dec(tt.revenue))

			_, errs := in.Resolve(nil)
			if tt.want == "" {
				assert.NoError(t, errs["publisher_revenue"])
				return
			}
			assert.EqualError(t, errs["publisher_revenue"], tt.want)
		})
	}
}

func TestResolve_InvalidDate(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Date = ptr("2024-13-01")

	_, errs := in.Resolve(nil)

	assert.EqualError(t, errs["date"], MsgDateInvalid)
}

func TestResolve_EditKeepsUnsetFields(t *testing.T) {
	t.Parallel()

	base := &Sale{
		ID:               5,
		BookID:           7,
		Date:             time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Quantity:         3,
		PublisherRevenue: dec("30.00"),
	}

	draft, errs := SaleInput{Quantity: ptr(dec("4")), Date: ptr("  ")}.Resolve(base)

	require.NoError(t, errs.Filter())
	assert.Equal(t, int64(5), draft.ID)
	assert.Equal(t, int64(7), draft.BookID)
	assert.Equal(t, int64(4), draft.Quantity)
	assert.Equal(t, base.Date, draft.Date)
	assert.True(t, draft.PublisherRevenue.Equal(dec("30")))
}

func TestCheckBook(t *testing.T) {
	t.Parallel()

	published := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("missing book", func(t *testing.T) {
		t.Parallel()

		draft, errs := validInput().Resolve(nil)
		CheckBook(errs, &draft, nil)
		assert.EqualError(t, errs["book"], "Book with id 7 does not exist.")
	})

	t.Run("sale before publication", func(t *testing.T) {
		t.Parallel()

		in := validInput()
		in.Date = ptr("2024-01-31")
		draft, errs := in.Resolve(nil)

		CheckBook(errs, &draft, &published)

		assert.EqualError(t, errs["date"],
			"Sale date (2024-01-31) cannot be before book publication date (2024-02-01).")
	})

	t.Run("sale on publication day", func(t *testing.T) {
		t.Parallel()

		in := validInput()
		in.Date = ptr("2024-02-01")
		draft, errs := in.Resolve(nil)

		CheckBook(errs, &draft, &published)

		assert.NoError(t, errs.Filter())
	})

	t.Run("invalid date is not checked again", func(t *testing.T) {
		t.Parallel()

		in := validInput()
		in.Date = ptr("nope")
		draft, errs := in.Resolve(nil)

		CheckBook(errs, &draft, &published)

		assert.EqualError(t, errs["date"], MsgDateInvalid)
	})
}

func TestValidateOverrideAmounts(t *testing.T) {
	t.Parallel()

	names := map[int64]string{1: "Ann Author", 2: "Bob Writer"}

	assert.NoError(t, ValidateOverrideAmounts(nil, names))
	assert.NoError(t, ValidateOverrideAmounts(map[int64]decimal.Decimal{1: dec("0")}, names))

	err := ValidateOverrideAmounts(map[int64]decimal.Decimal{
		2: dec("-1"),
		1: dec("-0.01"),
		3: dec("100000000"),
	}, names)

	require.Error(t, err)
	assert.Equal(t,
		"Royalty amount for author Ann Author cannot be negative.\n"+
			"Royalty amount for author Bob Writer cannot be negative.\n"+
			"Royalty amount for author 3 must be less than 100000000.",
		err.Error())
}
