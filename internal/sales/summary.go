package sales

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/normalize"
	"github.com/shopspring/decimal"
)

// TopSellersLimit is how many titles Analyze reports in TopSellers.
const TopSellersLimit = 10

// ItemTotal is revenue and sale count for one title.
type ItemTotal struct {
	Title   string          `json:"title"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// StateTotal is revenue and sale count for one buyer state.
type StateTotal struct {
	State   string          `json:"state"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// Summary is the sales dashboard for one set of sold records.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalItems       int             `json:"total_items"`
	TotalQuantity    int             `json:"total_quantity"`
	AvgSalePrice     decimal.Decimal `json:"avg_sale_price"`
	AvgRevenuePerDay decimal.Decimal `json:"avg_revenue_per_day"`
	FirstSaleDate    time.Time       `json:"first_sale_date,omitzero"`
	LastSaleDate     time.Time       `json:"last_sale_date,omitzero"`
	UndatedSales     int             `json:"undated_sales"`
	AnnualRunRate    decimal.Decimal `json:"annual_run_rate"`
	Daily            []SeriesPoint   `json:"daily"`
	Weekly           []SeriesPoint   `json:"weekly"`
	Monthly          []SeriesPoint   `json:"monthly"`
	TopSellers       []ItemTotal     `json:"top_sellers"`
	Collections      []Collection    `json:"collections"`
	BuyerStates      []StateTotal    `json:"buyer_states"`
}

// Analyze builds the sales summary. Revenue is the stated sold price of each
// row; quantity only feeds TotalQuantity. Undated rows count toward revenue
// but not toward the date span or the time series. now picks the current year
// for the run rate.
func Analyze(records []ingest.SoldRecord, now time.Time) Summary {
	summary := Summary{
		TotalRevenue:     decimal.Zero,
		AvgSalePrice:     decimal.Zero,
		AvgRevenuePerDay: decimal.Zero,
		Daily:            Daily(records),
		Weekly:           Weekly(records),
		Monthly:          Monthly(records),
		AnnualRunRate:    AnnualRunRate(records, now),
		TopSellers:       TopSellingItems(records, TopSellersLimit),
		Collections:      Collections(records),
		BuyerStates:      BuyerStates(records),
	}

	for _, rec := range records {
		summary.TotalRevenue = summary.TotalRevenue.Add(rec.SoldPrice)
		summary.TotalQuantity += rec.Quantity
		if !rec.HasSaleDate() {
			summary.UndatedSales++
			continue
		}
		if summary.FirstSaleDate.IsZero() || rec.SaleDate.Before(summary.FirstSaleDate) {
			summary.FirstSaleDate = rec.SaleDate
		}
		if rec.SaleDate.After(summary.LastSaleDate) {
			summary.LastSaleDate = rec.SaleDate
		}
	}
	summary.TotalItems = len(records)

	if summary.TotalItems > 0 {
		summary.AvgSalePrice = summary.TotalRevenue.Div(decimal.NewFromInt(int64(summary.TotalItems)))
	}
	if !summary.FirstSaleDate.IsZero() {
		span := normalize.DaysBetween(summary.FirstSaleDate, summary.LastSaleDate) + 1
		summary.AvgRevenuePerDay = summary.TotalRevenue.Div(decimal.NewFromInt(int64(span)))
	}
	return summary
}

// AnnualRunRate projects the current year's revenue: revenue dated from Jan 1
// of now's year through the latest such sale, divided by the inclusive days in
// that range, times 365. Zero when nothing sold this year.
func AnnualRunRate(records []ingest.SoldRecord, now time.Time) decimal.Decimal {
	year := now.Year()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	revenue := decimal.Zero
	var latest time.Time
	found := false
	for _, rec := range records {
		if !rec.HasSaleDate() || rec.SaleDate.Year() != year {
			continue
		}
		found = true
		revenue = revenue.Add(rec.SoldPrice)
		if rec.SaleDate.After(latest) {
			latest = rec.SaleDate
		}
	}
	if !found {
		return decimal.Zero
	}

	days := normalize.DaysBetween(jan1, latest) + 1
	return revenue.Div(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(365))
}

// TopSellingItems groups sales by title and returns the top n by revenue.
// Ties keep first-seen order. n < 0 returns every title.
func TopSellingItems(records []ingest.SoldRecord, n int) []ItemTotal {
	index := map[string]int{}
	items := []ItemTotal{}
	for _, rec := range records {
		i, ok := index[rec.Title]
		if !ok {
			i = len(items)
			index[rec.Title] = i
			items = append(items, ItemTotal{Title: rec.Title, Revenue: decimal.Zero})
		}
		items[i].Revenue = items[i].Revenue.Add(rec.SoldPrice)
		items[i].Count++
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Revenue.GreaterThan(items[b].Revenue)
	})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// BuyerStates breaks revenue down by buyer state, highest revenue first.
// Rows without a state are skipped.
func BuyerStates(records []ingest.SoldRecord) []StateTotal {
	index := map[string]int{}
	states := []StateTotal{}
	for _, rec := range records {
		state := strings.ToUpper(strings.TrimSpace(rec.BuyerState))
		if state == "" {
			continue
		}
		i, ok := index[state]
		if !ok {
			i = len(states)
			index[state] = i
			states = append(states, StateTotal{State: state, Revenue: decimal.Zero})
		}
		states[i].Revenue = states[i].Revenue.Add(rec.SoldPrice)
		states[i].Count++
	}
	sort.SliceStable(states, func(a, b int) bool {
		return states[a].Revenue.GreaterThan(states[b].Revenue)
	})
	return states
}
