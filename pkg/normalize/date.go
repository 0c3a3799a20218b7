package normalize

import (
	"strconv"
	"strings"
	"time"
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// generic layouts tried after the marketplace-specific ones.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan-02-2006",
	"02-Jan-2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseMarketplaceDate parses the date formats seen in marketplace exports.
// Supported, in order: Mon-DD-YY, M/D/YY or M/D/YYYY, YYYY-MM-DD, then a set
// of generic layouts. The result is a calendar date at midnight UTC. The bool
// is false when nothing matched; callers treat that as an unknown date.
func ParseMarketplaceDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(strings.Trim(raw, `"`))
	if s == "" {
		return time.Time{}, false
	}

	// Exports often append a clock and zone ("Sep-17-24 10:31:02 PDT").
	head := s
	if idx := strings.IndexByte(s, ' '); idx > 0 {
		head = s[:idx]
	}
	if len(head) > 10 && head[10] == 'T' {
		head = head[:10]
	}

	if t, ok := parseMonDashDay(head); ok {
		return t, true
	}
	if t, ok := parseSlashDate(head); ok {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", head); err == nil {
		return dateOnly(t), true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

// parseMonDashDay handles "Sep-17-24".
func parseMonDashDay(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 3 {
		return time.Time{}, false
	}
	month, ok := monthAbbrev[strings.ToLower(parts[0])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	if len(parts[2]) <= 2 {
		year += 2000
	}
	return buildDate(year, month, day)
}

// parseSlashDate handles "9/17/24" and "9/17/2024".
func parseSlashDate(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	switch len(parts[2]) {
	case 2:
		year += 2000
	case 4:
	default:
		return time.Time{}, false
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	return buildDate(year, time.Month(month), day)
}

func buildDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb-31 into March; reject those.
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	da := dateOnly(a)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ParseDaysListed returns how many calendar days ago the listing started,
// clamped at 0. Unknown start dates yield 0.
func ParseDaysListed(startDate string, now time.Time) int {
	start, ok := ParseMarketplaceDate(startDate)
	if !ok {
		return 0
	}
	return DaysSince(start, now)
}

// DaysSince is ParseDaysListed for an already parsed date.
func DaysSince(start, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	days := DaysBetween(start, now)
	if days < 0 {
		return 0
	}
	return days
}
