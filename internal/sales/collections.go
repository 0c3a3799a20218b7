package sales

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/normalize"
	"github.com/shopspring/decimal"
)

const (
	// RandomSalesCollection collects sales without a usable custom label.
	RandomSalesCollection = "RANDOM SALES"
	// DefaultQualifiedMinSales is the display threshold for QualifiedCollections.
	DefaultQualifiedMinSales = 5
)

// Collection aggregates the sales that share a custom label.
type Collection struct {
	Name             string              `json:"name"`
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	TotalSales       int                 `json:"total_sales"`
	TotalQuantity    int                 `json:"total_quantity"`
	AvgPrice         decimal.Decimal     `json:"avg_price"`
	FirstSaleDate    time.Time           `json:"first_sale_date,omitzero"`
	LastSaleDate     time.Time           `json:"last_sale_date,omitzero"`
	TotalDaysWorking int                 `json:"total_days_working"`
	Items            []ingest.SoldRecord `json:"items"`
}

// CollectionName maps a custom label onto its collection key.
func CollectionName(label string) string {
	name := strings.TrimSpace(label)
	if name == "" || strings.EqualFold(name, ingest.UnlabeledCustomLabel) {
		return RandomSalesCollection
	}
	return name
}

// Collections groups sales by custom label, highest revenue first. Every
// collection is returned; see QualifiedCollections for the display filter.
func Collections(records []ingest.SoldRecord) []Collection {
	index := map[string]int{}
	collections := []Collection{}
	for _, rec := range records {
		name := CollectionName(rec.CustomLabel)
		i, ok := index[name]
		if !ok {
			i = len(collections)
			index[name] = i
			collections = append(collections, Collection{
				Name:         name,
				TotalRevenue: decimal.Zero,
				AvgPrice:     decimal.Zero,
			})
		}
		c := &collections[i]
		c.TotalRevenue = c.TotalRevenue.Add(rec.SoldPrice)
		c.TotalSales++
		c.TotalQuantity += rec.Quantity
		c.Items = append(c.Items, rec)
		if rec.HasSaleDate() {
			if c.FirstSaleDate.IsZero() || rec.SaleDate.Before(c.FirstSaleDate) {
				c.FirstSaleDate = rec.SaleDate
			}
			if rec.SaleDate.After(c.LastSaleDate) {
				c.LastSaleDate = rec.SaleDate
			}
		}
	}

	for i := range collections {
		c := &collections[i]
		if c.TotalSales > 0 {
			c.AvgPrice = c.TotalRevenue.Div(decimal.NewFromInt(int64(c.TotalSales)))
		}
		if !c.FirstSaleDate.IsZero() {
			c.TotalDaysWorking = normalize.DaysBetween(c.FirstSaleDate, c.LastSaleDate)
		}
	}

	sort.SliceStable(collections, func(a, b int) bool {
		return collections[a].TotalRevenue.GreaterThan(collections[b].TotalRevenue)
	})
	return collections
}

// QualifiedCollections keeps collections with at least minSales sales.
func QualifiedCollections(collections []Collection, minSales int) []Collection {
	out := make([]Collection, 0, len(collections))
	for _, c := range collections {
		if c.TotalSales >= minSales {
			out = append(out, c)
		}
	}
	return out
}
