package profitability

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/internal/sales"
	"github.com/angelmondragon/resellernumbers-backend/pkg/normalize"
	"github.com/shopspring/decimal"
)

var (
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
)

// Purchase is what the seller paid for a collection.
type Purchase struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	PurchaseDate time.Time       `json:"purchase_date,omitzero"`
	Cost         decimal.Decimal `json:"cost"`
	Notes        string          `json:"notes,omitempty"`
}

// BusinessMetrics are the seller's own cost assumptions.
type BusinessMetrics struct {
	MinutesPerItem  decimal.Decimal `json:"minutes_per_item" validate:"gte=0"`
	IdealHourlyRate decimal.Decimal `json:"ideal_hourly_rate" validate:"gte=0"`
	AvgFeePercent   decimal.Decimal `json:"avg_fee_percent" validate:"gte=0,lte=100"`
	TaxBracket      decimal.Decimal `json:"tax_bracket" validate:"gte=0,lte=100"`
}

// Result is the profitability of one collection against its purchase.
type Result struct {
	Collection          string          `json:"collection"`
	PurchaseDate        time.Time       `json:"purchase_date,omitzero"`
	Cost                decimal.Decimal `json:"cost"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalSales          int             `json:"total_sales"`
	GrossProfit         decimal.Decimal `json:"gross_profit"`
	HoursWorked         decimal.Decimal `json:"hours_worked"`
	TotalFees           decimal.Decimal `json:"total_fees"`
	LaborCost           decimal.Decimal `json:"labor_cost"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	EffectiveHourlyRate decimal.Decimal `json:"effective_hourly_rate"`
	EstimatedTax        decimal.Decimal `json:"estimated_tax"`
	ROIPercent          float64         `json:"roi_percent"`
	DaysToBreakEven     int             `json:"days_to_break_even"`
	BrokeEven           bool            `json:"broke_even"`
}

// MatchPurchase finds the purchase whose name or SKU equals the collection
// name, ignoring case. nil when none match.
func MatchPurchase(collectionName string, purchases []Purchase) *Purchase {
	name := strings.TrimSpace(collectionName)
	for i := range purchases {
		p := &purchases[i]
		if strings.EqualFold(strings.TrimSpace(p.Name), name) || strings.EqualFold(strings.TrimSpace(p.SKU), name) {
			return p
		}
	}
	return nil
}

// Compute joins a collection with its purchase record. A nil result means no
// purchase matched, which is different from a computed zero.
func Compute(collection sales.Collection, purchases []Purchase, metrics BusinessMetrics) *Result {
	purchase := MatchPurchase(collection.Name, purchases)
	if purchase == nil {
		return nil
	}

	revenue := collection.TotalRevenue
	gross := revenue.Sub(purchase.Cost)
	hours := decimal.NewFromInt(int64(collection.TotalSales)).Mul(metrics.MinutesPerItem).Div(sixty)
	fees := revenue.Mul(metrics.AvgFeePercent.Div(hundred))
	labor := hours.Mul(metrics.IdealHourlyRate)
	net := gross.Sub(fees).Sub(labor)

	result := &Result{
		Collection:          collection.Name,
		PurchaseDate:        purchase.PurchaseDate,
		Cost:                purchase.Cost,
		TotalRevenue:        revenue,
		TotalSales:          collection.TotalSales,
		GrossProfit:         gross,
		HoursWorked:         hours,
		TotalFees:           fees,
		LaborCost:           labor,
		NetProfit:           net,
		EffectiveHourlyRate: decimal.Zero,
		EstimatedTax:        decimal.Zero,
	}
	if hours.IsPositive() {
		result.EffectiveHourlyRate = net.Div(hours)
	}
	if net.IsPositive() {
		result.EstimatedTax = net.Mul(metrics.TaxBracket.Div(hundred))
	}
	if purchase.Cost.IsPositive() {
		result.ROIPercent = net.Div(purchase.Cost).Mul(hundred).InexactFloat64()
	}
	result.DaysToBreakEven, result.BrokeEven = BreakEven(collection, purchase.Cost)
	return result
}

// BreakEven walks the collection's dated sales in date order and returns the
// days from the first sale until cumulative revenue reaches cost. It returns
// 0, false when revenue never covers cost.
func BreakEven(collection sales.Collection, cost decimal.Decimal) (int, bool) {
	dated := make([]ingest.SoldRecord, 0, len(collection.Items))
	for _, item := range collection.Items {
		if item.HasSaleDate() {
			dated = append(dated, item)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].SaleDate.Before(dated[j].SaleDate)
	})

	cumulative := decimal.Zero
	for _, item := range dated {
		cumulative = cumulative.Add(item.SoldPrice)
		if cumulative.GreaterThanOrEqual(cost) {
			return normalize.DaysBetween(dated[0].SaleDate, item.SaleDate), true
		}
	}
	return 0, false
}

// ComputeAll runs Compute for every collection with at least minSales sales
// and skips the ones without a purchase record.
func ComputeAll(collections []sales.Collection, purchases []Purchase, metrics BusinessMetrics, minSales int) []Result {
	results := []Result{}
	for _, c := range sales.QualifiedCollections(collections, minSales) {
		if r := Compute(c, purchases, metrics); r != nil {
			results = append(results, *r)
		}
	}
	return results
}
