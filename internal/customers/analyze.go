package customers

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/normalize"
	"github.com/shopspring/decimal"
)

const (
	// UnknownBuyer is the pooled identity used when Options.PoolUnknown is set.
	UnknownBuyer = "Unknown"
	// TopCustomersLimit caps Summary.TopCustomers.
	TopCustomersLimit = 10

	monthlyWindowDays   = 30
	quarterlyWindowDays = 90
	trackedGaps         = 3
	frequencyWeight     = 0.3
)

// Options tunes customer grouping.
type Options struct {
	// PoolUnknown groups sales without a buyer under UnknownBuyer instead of
	// leaving them out of customer aggregates.
	PoolUnknown bool
}

// Profile is every order of one buyer, oldest first. Undated orders sort last.
type Profile struct {
	Buyer      string              `json:"buyer"`
	Orders     []ingest.SoldRecord `json:"orders"`
	TotalSpent decimal.Decimal     `json:"total_spent"`
	OrderCount int                 `json:"order_count"`
}

// Repeat reports whether the buyer ordered at least twice.
func (p Profile) Repeat() bool {
	return p.OrderCount >= 2
}

// LoyaltyBucket counts repeat buyers by order count.
type LoyaltyBucket struct {
	Orders string `json:"orders"`
	Count  int    `json:"count"`
}

// Summary is the repeat-buyer report.
type Summary struct {
	TotalCustomers        int             `json:"total_customers"`
	RepeatCustomers       int             `json:"repeat_customers"`
	OneTimeCustomers      int             `json:"one_time_customers"`
	RepeatCustomerPercent float64         `json:"repeat_customer_percent"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	RepeatRevenue         decimal.Decimal `json:"repeat_revenue"`
	OneTimeRevenue        decimal.Decimal `json:"one_time_revenue"`
	RepeatRevenuePercent  float64         `json:"repeat_revenue_percent"`
	AvgDaysToSecond       float64         `json:"avg_days_to_second"`
	AvgDaysToThird        float64         `json:"avg_days_to_third"`
	AvgDaysToFourth       float64         `json:"avg_days_to_fourth"`
	MonthlyRetention      float64         `json:"monthly_retention"`
	QuarterlyRetention    float64         `json:"quarterly_retention"`
	LoyaltyDistribution   []LoyaltyBucket `json:"loyalty_distribution"`
	AvgPurchaseFrequency  float64         `json:"avg_purchase_frequency"`
	AvgCLV                decimal.Decimal `json:"avg_clv"`
	RepeatCLV             decimal.Decimal `json:"repeat_clv"`
	OneTimeCLV            decimal.Decimal `json:"one_time_clv"`
	ProjectedCLV          decimal.Decimal `json:"projected_clv"`
	UnidentifiedOrders    int             `json:"unidentified_orders"`
	TopCustomers          []Profile       `json:"top_customers"`
}

// Group builds one profile per buyer in first-seen order. The second return
// is the number of sales left out for lack of a buyer.
func Group(records []ingest.SoldRecord, opts Options) ([]Profile, int) {
	index := map[string]int{}
	profiles := []Profile{}
	skipped := 0
	for _, rec := range records {
		buyer := strings.TrimSpace(rec.BuyerIdentity)
		if buyer == "" {
			if !opts.PoolUnknown {
				skipped++
				continue
			}
			buyer = UnknownBuyer
		}
		i, ok := index[buyer]
		if !ok {
			i = len(profiles)
			index[buyer] = i
			profiles = append(profiles, Profile{Buyer: buyer, TotalSpent: decimal.Zero})
		}
		p := &profiles[i]
		p.Orders = append(p.Orders, rec)
		p.TotalSpent = p.TotalSpent.Add(rec.SoldPrice)
		p.OrderCount++
	}

	for i := range profiles {
		orders := profiles[i].Orders
		sort.SliceStable(orders, func(a, b int) bool {
			da, db := orders[a].SaleDate, orders[b].SaleDate
			if da.IsZero() || db.IsZero() {
				return !da.IsZero() && db.IsZero()
			}
			return da.Before(db)
		})
	}
	return profiles, skipped
}

// Gaps returns the day gaps between consecutive dated orders.
func (p Profile) Gaps() []int {
	var dates []time.Time
	for _, order := range p.Orders {
		if order.HasSaleDate() {
			dates = append(dates, order.SaleDate)
		}
	}
	if len(dates) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, normalize.DaysBetween(dates[i-1], dates[i]))
	}
	return gaps
}

// Analyze classifies buyers as repeat or one-time and derives retention and
// lifetime value figures. Empty input gives a zero summary.
func Analyze(records []ingest.SoldRecord, opts Options) Summary {
	profiles, skipped := Group(records, opts)

	summary := Summary{
		TotalCustomers:      len(profiles),
		TotalRevenue:        decimal.Zero,
		RepeatRevenue:       decimal.Zero,
		OneTimeRevenue:      decimal.Zero,
		AvgCLV:              decimal.Zero,
		RepeatCLV:           decimal.Zero,
		OneTimeCLV:          decimal.Zero,
		ProjectedCLV:        decimal.Zero,
		UnidentifiedOrders:  skipped,
		LoyaltyDistribution: emptyLoyalty(),
		TopCustomers:        []Profile{},
	}
	if len(profiles) == 0 {
		return summary
	}

	var (
		gapSums       [trackedGaps]int
		gapCounts     [trackedGaps]int
		totalGaps     int
		withinMonth   int
		withinQuarter int
		totalOrders   int
	)
	for _, p := range profiles {
		totalOrders += p.OrderCount
		summary.TotalRevenue = summary.TotalRevenue.Add(p.TotalSpent)
		if !p.Repeat() {
			summary.OneTimeCustomers++
			summary.OneTimeRevenue = summary.OneTimeRevenue.Add(p.TotalSpent)
			continue
		}
		summary.RepeatCustomers++
		summary.RepeatRevenue = summary.RepeatRevenue.Add(p.TotalSpent)
		summary.LoyaltyDistribution[loyaltyIndex(p.OrderCount)].Count++

		for i, gap := range p.Gaps() {
			if i < trackedGaps {
				gapSums[i] += gap
				gapCounts[i]++
			}
			totalGaps++
			if gap <= monthlyWindowDays {
				withinMonth++
			}
			if gap <= quarterlyWindowDays {
				withinQuarter++
			}
		}
	}

	customers := decimal.NewFromInt(int64(summary.TotalCustomers))
	summary.RepeatCustomerPercent = percent(summary.RepeatCustomers, summary.TotalCustomers)
	if summary.TotalRevenue.IsPositive() {
		summary.RepeatRevenuePercent = summary.RepeatRevenue.Div(summary.TotalRevenue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	summary.AvgDaysToSecond = average(gapSums[0], gapCounts[0])
	summary.AvgDaysToThird = average(gapSums[1], gapCounts[1])
	summary.AvgDaysToFourth = average(gapSums[2], gapCounts[2])
	summary.MonthlyRetention = percent(withinMonth, totalGaps)
	summary.QuarterlyRetention = percent(withinQuarter, totalGaps)

	summary.AvgPurchaseFrequency = float64(totalOrders) / float64(summary.TotalCustomers)
	summary.AvgCLV = summary.TotalRevenue.Div(customers)
	if summary.RepeatCustomers > 0 {
		summary.RepeatCLV = summary.RepeatRevenue.Div(decimal.NewFromInt(int64(summary.RepeatCustomers)))
	}
	if summary.OneTimeCustomers > 0 {
		summary.OneTimeCLV = summary.OneTimeRevenue.Div(decimal.NewFromInt(int64(summary.OneTimeCustomers)))
	}
	multiplier := decimal.NewFromFloat(1 + summary.AvgPurchaseFrequency*frequencyWeight)
	summary.ProjectedCLV = summary.AvgCLV.Mul(multiplier)

	summary.TopCustomers = topCustomers(profiles, TopCustomersLimit)
	return summary
}

func emptyLoyalty() []LoyaltyBucket {
	return []LoyaltyBucket{{Orders: "2"}, {Orders: "3"}, {Orders: "4"}, {Orders: "5"}, {Orders: "6+"}}
}

func loyaltyIndex(orders int) int {
	if orders >= 6 {
		return 4
	}
	return orders - 2
}

func topCustomers(profiles []Profile, limit int) []Profile {
	out := append([]Profile(nil), profiles...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func average(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
