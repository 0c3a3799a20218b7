package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	"github.com/angelmondragon/resellernumbers-backend/pkg/normalize"
	"github.com/shopspring/decimal"
)

const (
	// TopListingsLimit caps the longest-listed and most-watched tables.
	TopListingsLimit = 20

	uncategorized = "Uncategorized"
)

// AgingThresholds are independent "listed at least N days" cut-offs. An item at
// 95 days counts toward all three.
var AgingThresholds = [3]int{30, 60, 90}

// Listing is an active listing annotated with its age.
type Listing struct {
	ingest.InventoryRecord
	DaysListed int `json:"days_listed"`
}

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
}

// Summary describes the active listings of one inventory export.
type Summary struct {
	TotalListings int             `json:"total_listings"`
	ActiveCount   int             `json:"active_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	AvgDaysListed float64         `json:"avg_days_listed"`
	Items30Plus   int             `json:"items_30_plus"`
	Items60Plus   int             `json:"items_60_plus"`
	Items90Plus   int             `json:"items_90_plus"`
	TotalViews    int             `json:"total_views"`
	TotalWatchers int             `json:"total_watchers"`
	LongestListed []Listing       `json:"longest_listed"`
	MostWatched   []Listing       `json:"most_watched"`
	Categories    []CategoryCount `json:"categories"`
}

// Analyze computes the inventory summary as of now. Records with no stock are
// ignored. The result depends only on the arguments.
func Analyze(records []ingest.InventoryRecord, now time.Time) Summary {
	summary := Summary{
		TotalListings: len(records),
		TotalValue:    decimal.Zero,
		LongestListed: []Listing{},
		MostWatched:   []Listing{},
		Categories:    []CategoryCount{},
	}

	active := make([]Listing, 0, len(records))
	for _, rec := range records {
		if !rec.Active() {
			continue
		}
		active = append(active, Listing{
			InventoryRecord: rec,
			DaysListed:      normalize.DaysSince(rec.StartDate, now),
		})
	}
	if len(active) == 0 {
		return summary
	}

	categories := map[string]*CategoryCount{}
	totalDays := 0
	for _, item := range active {
		summary.TotalValue = summary.TotalValue.Add(item.CurrentPrice)
		summary.TotalViews += item.Views
		summary.TotalWatchers += item.Watchers
		totalDays += item.DaysListed

		if item.DaysListed >= AgingThresholds[0] {
			summary.Items30Plus++
		}
		if item.DaysListed >= AgingThresholds[1] {
			summary.Items60Plus++
		}
		if item.DaysListed >= AgingThresholds[2] {
			summary.Items90Plus++
		}

		name := strings.TrimSpace(item.Category)
		if name == "" {
			name = uncategorized
		}
		entry, ok := categories[name]
		if !ok {
			entry = &CategoryCount{Category: name, Value: decimal.Zero}
			categories[name] = entry
		}
		entry.Count++
		entry.Value = entry.Value.Add(item.CurrentPrice)
	}
	summary.ActiveCount = len(active)
	summary.AvgDaysListed = float64(totalDays) / float64(len(active))

	summary.LongestListed = LongestListed(active, TopListingsLimit)
	summary.MostWatched = MostWatched(active, TopListingsLimit)

	for _, entry := range categories {
		summary.Categories = append(summary.Categories, *entry)
	}
	sort.SliceStable(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].Count != summary.Categories[j].Count {
			return summary.Categories[i].Count > summary.Categories[j].Count
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})
	return summary
}

// LongestListed returns up to limit listings ordered by age, oldest first.
func LongestListed(listings []Listing, limit int) []Listing {
	out := append([]Listing(nil), listings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysListed > out[j].DaysListed
	})
	return truncate(out, limit)
}

// MostWatched returns up to limit non-auction listings with watchers, most
// watched first. Auction watchers track bidding interest and are left out.
func MostWatched(listings []Listing, limit int) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, item := range listings {
		if item.Watchers > 0 && item.ListingFormat != enums.ListingFormatAuction {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Watchers > out[j].Watchers
	})
	return truncate(out, limit)
}

func truncate(listings []Listing, limit int) []Listing {
	if limit >= 0 && len(listings) > limit {
		return listings[:limit]
	}
	return listings
}
