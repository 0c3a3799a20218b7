package sales

import (
	"sort"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/shopspring/decimal"
)

// Granularity names a time-series bucket size.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// SeriesPoint is one time bucket. Period is "2006-01-02" for days and weeks
// (the week's Sunday) and "2006-01" for months.
type SeriesPoint struct {
	Period  string          `json:"period"`
	Start   time.Time       `json:"start"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// Daily buckets dated sales by calendar day.
func Daily(records []ingest.SoldRecord) []SeriesPoint {
	return Series(records, GranularityDay)
}

// Weekly buckets dated sales by week, weeks starting on Sunday.
func Weekly(records []ingest.SoldRecord) []SeriesPoint {
	return Series(records, GranularityWeek)
}

// Monthly buckets dated sales by year-month.
func Monthly(records []ingest.SoldRecord) []SeriesPoint {
	return Series(records, GranularityMonth)
}

// Series sums revenue and counts sales per bucket, oldest bucket first,
// whatever the input order. Undated sales are left out.
func Series(records []ingest.SoldRecord, g Granularity) []SeriesPoint {
	buckets := map[time.Time]*SeriesPoint{}
	for _, rec := range records {
		if !rec.HasSaleDate() {
			continue
		}
		start := bucketStart(rec.SaleDate, g)
		point, ok := buckets[start]
		if !ok {
			point = &SeriesPoint{Period: periodLabel(start, g), Start: start, Revenue: decimal.Zero}
			buckets[start] = point
		}
		point.Revenue = point.Revenue.Add(rec.SoldPrice)
		point.Count++
	}

	points := make([]SeriesPoint, 0, len(buckets))
	for _, point := range buckets {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Start.Before(points[j].Start)
	})
	return points
}

// bucketStart keys a sale by the calendar date it carries. Export dates have
// no time of day, so they are never shifted into another zone.
func bucketStart(date time.Time, g Granularity) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case GranularityWeek:
		return day.AddDate(0, 0, -int(day.Weekday()))
	case GranularityMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func periodLabel(start time.Time, g Granularity) string {
	if g == GranularityMonth {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}
