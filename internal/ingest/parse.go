package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/normalize"
)

// ErrFormat marks a CSV without a header line and at least one data line.
var ErrFormat = errors.New("csv needs a header row and at least one data row")

// Row is one data line keyed by the header names of its file. Columns missing
// from a short line are absent rather than empty.
type Row map[string]string

// Value returns the first populated value among the header aliases. Exact
// header matches are tried before case-insensitive ones.
func (r Row) Value(aliases ...string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(r[alias]); v != "" {
			return v
		}
	}
	for _, alias := range aliases {
		for key, v := range r {
			if strings.EqualFold(strings.TrimSpace(key), alias) {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// Parse tokenizes csvText into header-keyed rows for the given export kind,
// keeping input order and dropping rows that carry none of the kind's
// required fields. Fewer than two non-blank lines is a format error.
func Parse(csvText string, kind enums.DataKind) ([]Row, error) {
	rows, _, err := parse(csvText, kind)
	return rows, err
}

func parse(csvText string, kind enums.DataKind) ([]Row, Stats, error) {
	stats := Stats{Kind: kind}
	if !kind.IsValid() {
		return nil, stats, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported data kind %q", kind))
	}

	lines := splitLines(csvText)
	if len(lines) < 2 {
		return nil, stats, pkgerrors.Wrap(pkgerrors.CodeFormat, ErrFormat, ErrFormat.Error()).
			WithDetails(map[string]any{"kind": kind.String(), "lines": len(lines)})
	}

	headerIdx := 0
	if kind == enums.DataKindSold {
		headerIdx = findSoldHeader(lines)
	}

	header := TokenizeLine(lines[headerIdx])
	stats.Headers = header
	dataLines := lines[headerIdx+1:]
	stats.DataLines = len(dataLines)

	rows := make([]Row, 0, len(dataLines))
	for _, line := range dataLines {
		values := TokenizeLine(line)
		row := make(Row, len(header))
		for i, name := range header {
			if i >= len(values) {
				break
			}
			if _, seen := row[name]; seen {
				continue
			}
			row[name] = values[i]
		}
		if !keepRow(row, kind) {
			stats.Dropped++
			continue
		}
		rows = append(rows, row)
	}
	stats.Kept = len(rows)
	return rows, stats, nil
}

func findSoldHeader(lines []string) int {
	for i, line := range lines {
		for _, marker := range soldHeaderMarkers {
			if strings.Contains(line, marker) {
				return i
			}
		}
	}
	return 0
}

func keepRow(row Row, kind enums.DataKind) bool {
	switch kind {
	case enums.DataKindInventory:
		return row.Value(inventoryAliases[fieldTitle]...) != "" ||
			row.Value(inventoryAliases[fieldCurrentPrice]...) != ""
	case enums.DataKindUnsold:
		return row.Value(unsoldAliases[fieldTitle]...) != "" ||
			row.Value(unsoldAliases[fieldOriginalPrice]...) != ""
	case enums.DataKindSold:
		paidShipped := row.Value(soldAliases[fieldPaidDate]...) != "" &&
			row.Value(soldAliases[fieldShippedDate]...) != ""
		titlePrice := row.Value(soldAliases[fieldTitle]...) != "" &&
			row.Value(soldAliases[fieldSoldPrice]...) != ""
		return paidShipped || titlePrice
	}
	return false
}

// ParseInventory parses an active-listings export into typed records.
func ParseInventory(csvText string) ([]InventoryRecord, Stats, error) {
	rows, stats, err := parse(csvText, enums.DataKindInventory)
	if err != nil {
		return nil, stats, err
	}
	records := make([]InventoryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, inventoryFromRow(row))
	}
	return records, stats, nil
}

// ParseSold parses a sold-items report into typed records.
func ParseSold(csvText string) ([]SoldRecord, Stats, error) {
	rows, stats, err := parse(csvText, enums.DataKindSold)
	if err != nil {
		return nil, stats, err
	}
	records := make([]SoldRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, soldFromRow(row))
	}
	return records, stats, nil
}

// ParseUnsold parses an unsold/ended-listings report into typed records.
func ParseUnsold(csvText string) ([]UnsoldRecord, Stats, error) {
	rows, stats, err := parse(csvText, enums.DataKindUnsold)
	if err != nil {
		return nil, stats, err
	}
	records := make([]UnsoldRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, unsoldFromRow(row))
	}
	return records, stats, nil
}

func inventoryFromRow(row Row) InventoryRecord {
	get := func(field string) string { return row.Value(inventoryAliases[field]...) }

	quantity := DefaultAvailableQuantity
	if raw := get(fieldAvailableQuantity); raw != "" {
		quantity = normalize.NonNegative(normalize.ParseInt(raw, DefaultAvailableQuantity))
	}
	start, _ := normalize.ParseMarketplaceDate(get(fieldStartDate))

	return InventoryRecord{
		Title:             get(fieldTitle),
		CurrentPrice:      normalize.ParseCurrency(get(fieldCurrentPrice)),
		StartDate:         start,
		AvailableQuantity: quantity,
		Views:             normalize.NonNegative(normalize.ParseInt(get(fieldViews), 0)),
		Watchers:          normalize.NonNegative(normalize.ParseInt(get(fieldWatchers), 0)),
		ListingFormat:     enums.ParseListingFormat(get(fieldFormat)),
		Category:          get(fieldCategory),
		ListingID:         get(fieldListingID),
		Condition:         get(fieldCondition),
	}
}

func soldFromRow(row Row) SoldRecord {
	get := func(field string) string { return row.Value(soldAliases[field]...) }

	price := normalize.ParseCurrency(get(fieldSoldPrice))
	if price.IsNegative() {
		price = price.Abs()
	}
	quantity := normalize.ParseInt(get(fieldQuantity), 1)
	if quantity < 1 {
		quantity = 1
	}
	label := get(fieldCustomLabel)
	if label == "" {
		label = UnlabeledCustomLabel
	}
	saleDate, _ := normalize.ParseMarketplaceDate(get(fieldSaleDate))
	paid, _ := normalize.ParseMarketplaceDate(get(fieldPaidDate))
	shipped, _ := normalize.ParseMarketplaceDate(get(fieldShippedDate))

	return SoldRecord{
		Title:         get(fieldTitle),
		SoldPrice:     price,
		SaleDate:      saleDate,
		Quantity:      quantity,
		CustomLabel:   label,
		BuyerIdentity: get(fieldBuyer),
		ItemNumber:    get(fieldItemNumber),
		BuyerState:    get(fieldBuyerState),
		PaidDate:      paid,
		ShippedDate:   shipped,
		Fees:          normalize.ParseCurrency(get(fieldFees)),
		Shipping:      normalize.ParseCurrency(get(fieldShipping)),
	}
}

func unsoldFromRow(row Row) UnsoldRecord {
	get := func(field string) string { return row.Value(unsoldAliases[field]...) }

	end, _ := normalize.ParseMarketplaceDate(get(fieldEndDate))
	return UnsoldRecord{
		Title:         get(fieldTitle),
		EndDate:       end,
		RelistStatus:  enums.ParseRelistStatus(get(fieldRelisted)),
		OriginalPrice: normalize.ParseCurrency(get(fieldOriginalPrice)),
		ListingID:     get(fieldListingID),
		Views:         normalize.NonNegative(normalize.ParseInt(get(fieldViews), 0)),
		Watchers:      normalize.NonNegative(normalize.ParseInt(get(fieldWatchers), 0)),
	}
}
