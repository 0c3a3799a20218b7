package customers

import (
	"testing"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func order(buyer string, price int64, date time.Time) ingest.SoldRecord {
	return ingest.SoldRecord{Title: "item", BuyerIdentity: buyer, SoldPrice: decimal.NewFromInt(price), SaleDate: date, Quantity: 1}
}

func TestAnalyzeEmpty(t *testing.T) {
	summary := Analyze(nil, Options{})
	assert.Zero(t, summary.TotalCustomers)
	assert.Zero(t, summary.RepeatCustomerPercent)
	assert.True(t, summary.AvgCLV.IsZero())
	assert.True(t, summary.ProjectedCLV.IsZero())
	assert.Len(t, summary.LoyaltyDistribution, 5)
	assert.NotNil(t, summary.TopCustomers)
}

func TestRepeatBuyerGaps(t *testing.T) {
	records := []ingest.SoldRecord{
		order("ann", 10, day(time.March, 1)),
		order("ann", 10, day(time.January, 1)),
		order("ann", 10, day(time.January, 20)),
	}

	profiles, _ := Group(records, Options{})
	require.Len(t, profiles, 1)
	assert.Equal(t, []int{19, 41}, profiles[0].Gaps())

	summary := Analyze(records, Options{})
	assert.InDelta(t, 19.0, summary.AvgDaysToSecond, 0.0001)
	assert.InDelta(t, 41.0, summary.AvgDaysToThird, 0.0001)
	assert.Zero(t, summary.AvgDaysToFourth)
	assert.InDelta(t, 50.0, summary.MonthlyRetention, 0.0001)
	assert.InDelta(t, 100.0, summary.QuarterlyRetention, 0.0001)
}

func TestGapAveragesArePerPosition(t *testing.T) {
	records := []ingest.SoldRecord{
		order("a", 1, day(time.January, 1)),
		order("a", 1, day(time.January, 11)),
		order("b", 1, day(time.January, 1)),
		order("b", 1, day(time.January, 31)),
		order("b", 1, day(time.March, 1)),
	}

	summary := Analyze(records, Options{})
	assert.InDelta(t, 20.0, summary.AvgDaysToSecond, 0.0001)
	assert.InDelta(t, 30.0, summary.AvgDaysToThird, 0.0001)
}

func TestClassificationAndRevenue(t *testing.T) {
	records := []ingest.SoldRecord{
		order("a", 50, day(time.January, 1)),
		order("a", 50, day(time.February, 1)),
		order("b", 20, day(time.January, 5)),
		order("c", 30, day(time.January, 6)),
		order("", 500, day(time.January, 7)),
		order("  ", 500, day(time.January, 8)),
	}

	summary := Analyze(records, Options{})
	assert.Equal(t, 3, summary.TotalCustomers)
	assert.Equal(t, 1, summary.RepeatCustomers)
	assert.Equal(t, 2, summary.OneTimeCustomers)
	assert.Equal(t, summary.TotalCustomers, summary.RepeatCustomers+summary.OneTimeCustomers)
	assert.Equal(t, 2, summary.UnidentifiedOrders)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(150)))
	assert.True(t, summary.RepeatRevenue.LessThanOrEqual(summary.TotalRevenue))
	assert.InDelta(t, 33.333, summary.RepeatCustomerPercent, 0.01)
	assert.InDelta(t, 66.667, summary.RepeatRevenuePercent, 0.01)

	assert.True(t, summary.AvgCLV.Equal(decimal.NewFromInt(50)))
	assert.True(t, summary.RepeatCLV.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.OneTimeCLV.Equal(decimal.NewFromInt(25)))
	assert.InDelta(t, 4.0/3.0, summary.AvgPurchaseFrequency, 0.0001)
	// 50 × (1 + 1.333 × 0.3) = 70
	assert.InDelta(t, 70.0, summary.ProjectedCLV.InexactFloat64(), 0.001)

	require.Len(t, summary.TopCustomers, 3)
	assert.Equal(t, "a", summary.TopCustomers[0].Buyer)
}

func TestPoolUnknownGroupsMissingBuyers(t *testing.T) {
	records := []ingest.SoldRecord{
		order("", 5, day(time.January, 1)),
		order("", 5, day(time.January, 2)),
		order("a", 5, day(time.January, 3)),
	}

	summary := Analyze(records, Options{PoolUnknown: true})
	assert.Equal(t, 2, summary.TotalCustomers)
	assert.Equal(t, 1, summary.RepeatCustomers)
	assert.Zero(t, summary.UnidentifiedOrders)

	profiles, _ := Group(records, Options{PoolUnknown: true})
	assert.Equal(t, UnknownBuyer, profiles[0].Buyer)
}

func TestLoyaltyDistribution(t *testing.T) {
	var records []ingest.SoldRecord
	add := func(buyer string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, order(buyer, 1, day(time.January, i+1)))
		}
	}
	add("two", 2)
	add("three", 3)
	add("six", 6)
	add("nine", 9)
	add("once", 1)

	summary := Analyze(records, Options{})
	counts := map[string]int{}
	for _, bucket := range summary.LoyaltyDistribution {
		counts[bucket.Orders] = bucket.Count
	}
	assert.Equal(t, map[string]int{"2": 1, "3": 1, "4": 0, "5": 0, "6+": 2}, counts)
}

func TestUndatedOrdersSortLastAndSkipGaps(t *testing.T) {
	records := []ingest.SoldRecord{
		order("a", 1, time.Time{}),
		order("a", 1, day(time.January, 10)),
		order("a", 1, day(time.January, 1)),
	}
	profiles, _ := Group(records, Options{})
	require.Len(t, profiles, 1)
	assert.True(t, profiles[0].Orders[2].SaleDate.IsZero())
	assert.Equal(t, []int{9}, profiles[0].Gaps())
}
