package history

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	"github.com/angelmondragon/resellernumbers-backend/pkg/normalize"
)

func inventoryRow(userID uuid.UUID, r ingest.InventoryRecord, now time.Time) models.InventoryHistory {
	return models.InventoryHistory{
		ID:            uuid.New(),
		UserID:        userID,
		ItemTitle:     strings.TrimSpace(r.Title),
		ListingID:     optional(r.ListingID),
		CurrentPrice:  r.CurrentPrice,
		Category:      optional(r.Category),
		Condition:     optional(r.Condition),
		ListingFormat: r.ListingFormat,
		Quantity:      r.AvailableQuantity,
		DaysListed:    normalize.DaysSince(r.StartDate, now),
		StartDate:     optionalTime(r.StartDate),
		Views:         r.Views,
		Watchers:      r.Watchers,
		Status:        enums.InventoryStatusActive,
		SnapshotDate:  snapshotDate(now),
	}
}

// inventoryChanges returns the columns that differ between the stored row
// and the fresh record, or nil when nothing tracked has moved.
func inventoryChanges(existing models.InventoryHistory, fresh models.InventoryHistory) map[string]any {
	if existing.CurrentPrice.Equal(fresh.CurrentPrice) &&
		existing.Views == fresh.Views &&
		existing.Watchers == fresh.Watchers &&
		existing.DaysListed == fresh.DaysListed &&
		existing.Quantity == fresh.Quantity &&
		existing.ListingFormat == fresh.ListingFormat &&
		sameDay(existing.StartDate, fresh.StartDate) {
		return nil
	}
	return map[string]any{
		"current_price":  fresh.CurrentPrice,
		"views":          fresh.Views,
		"watchers":       fresh.Watchers,
		"days_listed":    fresh.DaysListed,
		"quantity":       fresh.Quantity,
		"listing_format": fresh.ListingFormat,
		"start_date":     fresh.StartDate,
		"snapshot_date":  fresh.SnapshotDate,
	}
}

// sameDay compares optional dates by calendar day in UTC.
func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return formatDate(*a) == formatDate(*b)
}

func salesRow(userID uuid.UUID, r ingest.SoldRecord) models.SalesHistory {
	return models.SalesHistory{
		ID:            uuid.New(),
		UserID:        userID,
		DedupeKey:     SaleKey(r),
		ItemTitle:     strings.TrimSpace(r.Title),
		ItemNumber:    optional(r.ItemNumber),
		SoldPrice:     r.SoldPrice,
		SoldDate:      optionalTime(r.SaleDate),
		Quantity:      r.Quantity,
		CustomLabel:   r.CustomLabel,
		BuyerUsername: optional(r.BuyerIdentity),
		BuyerState:    optional(r.BuyerState),
		PaidDate:      optionalTime(r.PaidDate),
		ShippedDate:   optionalTime(r.ShippedDate),
		Fees:          r.Fees,
		ShippingCost:  r.Shipping,
	}
}

func unsoldRow(userID uuid.UUID, r ingest.UnsoldRecord) models.UnsoldHistory {
	return models.UnsoldHistory{
		ID:            uuid.New(),
		UserID:        userID,
		DedupeKey:     UnsoldKey(r),
		ItemTitle:     strings.TrimSpace(r.Title),
		ListingID:     optional(r.ListingID),
		OriginalPrice: r.OriginalPrice,
		RelistStatus:  r.RelistStatus,
		EndedDate:     optionalTime(r.EndDate),
		FinalViews:    r.Views,
		FinalWatchers: r.Watchers,
	}
}

func inventoryRecord(row models.InventoryHistory) ingest.InventoryRecord {
	return ingest.InventoryRecord{
		Title:             row.ItemTitle,
		CurrentPrice:      row.CurrentPrice,
		StartDate:         deref(row.StartDate),
		AvailableQuantity: row.Quantity,
		Views:             row.Views,
		Watchers:          row.Watchers,
		ListingFormat:     row.ListingFormat,
		Category:          derefString(row.Category),
		ListingID:         derefString(row.ListingID),
		Condition:         derefString(row.Condition),
	}
}

func soldRecord(row models.SalesHistory) ingest.SoldRecord {
	return ingest.SoldRecord{
		Title:         row.ItemTitle,
		SoldPrice:     row.SoldPrice,
		SaleDate:      deref(row.SoldDate),
		Quantity:      row.Quantity,
		CustomLabel:   row.CustomLabel,
		BuyerIdentity: derefString(row.BuyerUsername),
		ItemNumber:    derefString(row.ItemNumber),
		BuyerState:    derefString(row.BuyerState),
		PaidDate:      deref(row.PaidDate),
		ShippedDate:   deref(row.ShippedDate),
		Fees:          row.Fees,
		Shipping:      row.ShippingCost,
	}
}

func unsoldRecord(row models.UnsoldHistory) ingest.UnsoldRecord {
	return ingest.UnsoldRecord{
		Title:         row.ItemTitle,
		EndDate:       deref(row.EndedDate),
		RelistStatus:  row.RelistStatus,
		OriginalPrice: row.OriginalPrice,
		ListingID:     derefString(row.ListingID),
		Views:         row.FinalViews,
		Watchers:      row.FinalWatchers,
	}
}

func snapshotDate(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
