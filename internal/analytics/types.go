package analytics

import (
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/customers"
	"github.com/angelmondragon/resellernumbers-backend/internal/inventory"
	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	"github.com/angelmondragon/resellernumbers-backend/internal/sales"
)

// Range bounds the sales considered by a report. Zero values are open ends.
type Range struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

func (r Range) key() string {
	return formatBound(r.From) + ".." + formatBound(r.To)
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.UTC().Format("2006-01-02")
}

// SalesReport is the sales summary plus sell-through over the same range.
type SalesReport struct {
	Range       Range                   `json:"range"`
	Summary     sales.Summary           `json:"summary"`
	SellThrough sales.SellThroughResult `json:"sell_through"`
}

// CollectionsReport joins derived collections with the seller's purchases.
type CollectionsReport struct {
	Collections   []sales.Collection            `json:"collections"`
	Qualified     []sales.Collection            `json:"qualified"`
	Profitability []profitability.Result        `json:"profitability"`
	Metrics       profitability.BusinessMetrics `json:"business_metrics"`
}

// Dashboard is every report for one user computed from a single history load.
type Dashboard struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Inventory   inventory.Summary `json:"inventory"`
	Sales       SalesReport       `json:"sales"`
	Customers   customers.Summary `json:"customers"`
	Collections CollectionsReport `json:"collections"`
}
