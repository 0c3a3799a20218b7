package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarketplaceDate(t *testing.T) {
	tests := []struct {
		in    string
		year  int
		month time.Month
		day   int
	}{
		{in: "Sep-17-24", year: 2024, month: time.September, day: 17},
		{in: "sep-01-23", year: 2023, month: time.September, day: 1},
		{in: "Sep-17-24 10:31:02 PDT", year: 2024, month: time.September, day: 17},
		{in: "9/17/24", year: 2024, month: time.September, day: 17},
		{in: "12/1/2023", year: 2023, month: time.December, day: 1},
		{in: "2024-02-29", year: 2024, month: time.February, day: 29},
		{in: "2024-09-17T08:00:00Z", year: 2024, month: time.September, day: 17},
		{in: "Sep 17, 2024", year: 2024, month: time.September, day: 17},
	}

	for _, tt := range tests {
		got, ok := ParseMarketplaceDate(tt.in)
		require.True(t, ok, "expected %q to parse", tt.in)
		assert.Equal(t, tt.year, got.Year(), tt.in)
		assert.Equal(t, tt.month, got.Month(), tt.in)
		assert.Equal(t, tt.day, got.Day(), tt.in)
	}
}

func TestParseMarketplaceDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "Foo-17-24", "13/40/24", "Feb-31-24"} {
		_, ok := ParseMarketplaceDate(in)
		assert.False(t, ok, "expected %q to be rejected", in)
	}
}

func TestParseCurrency(t *testing.T) {
	assert.True(t, ParseCurrency("$1,234.56").Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, ParseCurrency("US $12.00").Equal(decimal.NewFromInt(12)))
	assert.True(t, ParseCurrency(" 7 ").Equal(decimal.NewFromInt(7)))
	assert.True(t, ParseCurrency("").IsZero())
	assert.True(t, ParseCurrency("garbage").IsZero())
	assert.True(t, ParseCurrency("$").IsZero())
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 1204, ParseInt("1,204", 0))
	assert.Equal(t, 3, ParseInt(" 3 ", 0))
	assert.Equal(t, 2, ParseInt("2.9", 0))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 5, ParseInt("n/a", 5))
}

func TestParseDaysListedClampsFuture(t *testing.T) {
	now := time.Date(2024, time.October, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, ParseDaysListed("Sep-17-24", now))
	assert.Equal(t, 0, ParseDaysListed("Oct-05-24", now))
	assert.Equal(t, 0, ParseDaysListed("unknown", now))
	assert.Equal(t, 0, ParseDaysListed("Oct-01-24", now))
}

func TestDaysBetweenIgnoresClock(t *testing.T) {
	a := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.January, 15, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 14, DaysBetween(a, b))
	assert.Equal(t, -14, DaysBetween(b, a))
}
