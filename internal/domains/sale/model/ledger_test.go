package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "royalty-backend/internal/domains/book/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func contracts(rates map[int64]string) []bookmodel.Contract {
	var out []bookmodel.Contract
	for id := int64(1); id <= int64(len(rates)); id++ {
		out = append(out, bookmodel.Contract{
			BookID:      7,
			AuthorID:    id,
			AuthorName:  "Author " + string(rune('A'+id-1)),
			RoyaltyRate: dec(rates[id]),
		})
	}
	return out
}

func TestRoyaltyAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		revenue string
		rate    string
		want    string
	}{
		{"exact", "1000.00", "0.1000", "100.00"},
		{"half rounds up", "1.25", "0.1000", "0.13"},
		{"below half rounds down", "1.24", "0.1000", "0.12"},
		{"zero revenue", "0.00", "0.2500", "0.00"},
		{"zero rate", "500.00", "0.0000", "0.00"},
		{"four place rate", "333.33", "0.1234", "41.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RoyaltyAmount(dec(tt.revenue), dec(tt.rate))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestMaterialize_OneRowPerContract(t *testing.T) {
	t.Parallel()

	sale := &Sale{ID: 42, BookID: 7, PublisherRevenue: dec("1000.00")}

	rows := Materialize(sale, contracts(map[int64]string{1: "0.1000", 2: "0.1500"}), Overrides{})

	require.Len(t, rows, 2)
	assert.Equal(t, int64(42), rows[0].SaleID)
	assert.Equal(t, int64(1), rows[0].AuthorID)
	assert.Equal(t, "Author A", rows[0].AuthorName)
	assert.Equal(t, "100.00", rows[0].RoyaltyAmount.StringFixed(2))
	assert.False(t, rows[0].Paid)
	assert.Equal(t, "150.00", rows[1].RoyaltyAmount.StringFixed(2))
	assert.False(t, rows[1].Paid)
}

func TestMaterialize_NoContracts(t *testing.T) {
	t.Parallel()

	sale := &Sale{ID: 1, PublisherRevenue: dec("10.00")}

	rows := Materialize(sale, nil, Overrides{Amounts: map[int64]decimal.Decimal{1: dec("5")}})

	assert.Empty(t, rows)
}

func TestMaterialize_OverridesReplaceDefaults(t *testing.T) {
	t.Parallel()

	sale := &Sale{ID: 3, PublisherRevenue: dec("1000.00")}
	ov := Overrides{
		Amounts: map[int64]decimal.Decimal{1: dec("500.00"), 9: dec("1.00")},
		Paid:    map[int64]bool{2: true},
	}

	rows := Materialize(sale, contracts(map[int64]string{1: "0.1000", 2: "0.1500"}), ov)

	require.Len(t, rows, 2)
	assert.Equal(t, "500.00", rows[0].RoyaltyAmount.StringFixed(2))
	assert.False(t, rows[0].Paid)
	assert.Equal(t, "150.00", rows[1].RoyaltyAmount.StringFixed(2))
	assert.True(t, rows[1].Paid)
}

func TestMaterialize_RoundsOverrideAmounts(t *testing.T) {
	t.Parallel()

	sale := &Sale{ID: 3, PublisherRevenue: dec("10.00")}
	ov := Overrides{Amounts: map[int64]decimal.Decimal{1: dec("12.345")}}

	rows := Materialize(sale, contracts(map[int64]string{1: "0.1000"}), ov)

	require.Len(t, rows, 1)
	assert.Equal(t, "12.35", rows[0].RoyaltyAmount.StringFixed(2))
}

func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	rows := []AuthorSale{
		{ID: 10, SaleID: 1, AuthorID: 1, RoyaltyAmount: dec("100.00")},
		{ID: 11, SaleID: 1, AuthorID: 2, RoyaltyAmount: dec("150.00")},
		{ID: 12, SaleID: 1, AuthorID: 3, RoyaltyAmount: dec("50.00"), Paid: true},
	}
	ov := Overrides{
		Amounts: map[int64]decimal.Decimal{1: dec("80"), 3: dec("50.00"), 99: dec("1.00")},
		Paid:    map[int64]bool{2: true, 3: true},
	}

	patches := ApplyOverrides(rows, ov)

	require.Len(t, patches, 2)
	assert.Equal(t, int64(10), patches[0].ID)
	require.NotNil(t, patches[0].RoyaltyAmount)
	assert.Equal(t, "80.00", patches[0].RoyaltyAmount.StringFixed(2))
	assert.Nil(t, patches[0].Paid, "paid was not overridden")
	assert.Equal(t, int64(11), patches[1].ID)
	assert.Nil(t, patches[1].RoyaltyAmount, "amount was not overridden")
	require.NotNil(t, patches[1].Paid)
	assert.True(t, *patches[1].Paid)

	// Patched in place.
	assert.True(t, rows[0].RoyaltyAmount.Equal(dec("80")))
	assert.True(t, rows[1].Paid)
	assert.Equal(t, "150.00", rows[1].RoyaltyAmount.StringFixed(2))
}

func TestApplyOverrides_Empty(t *testing.T) {
	t.Parallel()

	rows := []AuthorSale{{ID: 1, AuthorID: 1, RoyaltyAmount: dec("5.00")}}

	assert.Empty(t, ApplyOverrides(rows, Overrides{}))
	assert.True(t, Overrides{}.Empty())
	assert.False(t, Overrides{Paid: map[int64]bool{1: false}}.Empty())
}

func TestPaymentStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StatusFullyPaid, PaymentStatus(2, 0))
	assert.Equal(t, StatusPartiallyPaid, PaymentStatus(1, 1))
	assert.Equal(t, StatusUnpaid, PaymentStatus(0, 3))
	assert.Equal(t, StatusUnpaid, PaymentStatus(0, 0))
}

func TestTotalRoyalties(t *testing.T) {
	t.Parallel()

	rows := []AuthorSale{
		{RoyaltyAmount: dec("10.00")},
		{RoyaltyAmount: dec("15.00")},
		{RoyaltyAmount: dec("0.13")},
	}

	assert.Equal(t, "25.13", TotalRoyalties(rows).StringFixed(2))
	assert.True(t, TotalRoyalties(nil).IsZero())
}
