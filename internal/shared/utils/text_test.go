package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FoldName("Ann  Author"), FoldName(" ann author "))
	assert.Equal(t, FoldName("ANN author"), FoldName("ann AUTHOR"))
	assert.Equal(t, "straße", FoldName("STRAßE"))
	assert.NotEqual(t, FoldName("Straße"), FoldName("STRASSE"))
	assert.NotEqual(t, FoldName("Ann"), FoldName("Anne"))
}

func TestStripSeparators(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9780000000001", StripSeparators("978-0 00-000000-1"))
}

func TestMonthBounds(t *testing.T) {
	t.Parallel()

	start, err := MonthStart("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)

	end, err := MonthEnd("2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)

	end, err = MonthEnd("2023-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), end)

	_, err = MonthStart("February")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate(" 2024-03-15 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", FormatDate(d))

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}
