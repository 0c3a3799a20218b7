package ingest

import (
	"strings"
	"time"

	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	// DefaultAvailableQuantity is assumed when an inventory export has no
	// quantity column or leaves it blank.
	DefaultAvailableQuantity = 1
	// UnlabeledCustomLabel is stored on sold records without a custom label.
	UnlabeledCustomLabel = "Unlabeled"

	itemURLPrefix = "https://www.ebay.com/itm/"
)

// InventoryRecord is one active listing snapshot.
type InventoryRecord struct {
	Title             string              `json:"title"`
	CurrentPrice      decimal.Decimal     `json:"current_price"`
	StartDate         time.Time           `json:"start_date,omitzero"`
	AvailableQuantity int                 `json:"available_quantity"`
	Views             int                 `json:"views"`
	Watchers          int                 `json:"watchers"`
	ListingFormat     enums.ListingFormat `json:"listing_format"`
	Category          string              `json:"category,omitempty"`
	ListingID         string              `json:"listing_id,omitempty"`
	Condition         string              `json:"condition,omitempty"`
}

// Active reports whether the listing still has stock.
func (r InventoryRecord) Active() bool {
	return r.AvailableQuantity > 0
}

// SoldRecord is one completed sale. A zero SaleDate means the date was not parseable.
type SoldRecord struct {
	Title         string          `json:"title"`
	SoldPrice     decimal.Decimal `json:"sold_price"`
	SaleDate      time.Time       `json:"sale_date,omitzero"`
	Quantity      int             `json:"quantity"`
	CustomLabel   string          `json:"custom_label"`
	BuyerIdentity string          `json:"buyer,omitempty"`
	ItemNumber    string          `json:"item_number,omitempty"`
	BuyerState    string          `json:"buyer_state,omitempty"`
	PaidDate      time.Time       `json:"paid_date,omitzero"`
	ShippedDate   time.Time       `json:"shipped_date,omitzero"`
	Fees          decimal.Decimal `json:"fees"`
	Shipping      decimal.Decimal `json:"shipping"`
}

// HasSaleDate reports whether the sale can take part in date-keyed aggregates.
func (r SoldRecord) HasSaleDate() bool {
	return !r.SaleDate.IsZero()
}

// ItemURL builds the public listing link, or "" without an item number.
func (r SoldRecord) ItemURL() string {
	id := strings.TrimSpace(r.ItemNumber)
	if id == "" {
		return ""
	}
	return itemURLPrefix + id
}

// UnsoldRecord is a listing that ended without a sale.
type UnsoldRecord struct {
	Title         string             `json:"title"`
	EndDate       time.Time          `json:"end_date,omitzero"`
	RelistStatus  enums.RelistStatus `json:"relist_status"`
	OriginalPrice decimal.Decimal    `json:"original_price"`
	ListingID     string             `json:"listing_id,omitempty"`
	Views         int                `json:"views"`
	Watchers      int                `json:"watchers"`
}

// Stats describes what the normalizer did with one CSV.
type Stats struct {
	Kind      enums.DataKind `json:"kind"`
	Headers   []string       `json:"headers"`
	DataLines int            `json:"data_lines"`
	Kept      int            `json:"kept"`
	Dropped   int            `json:"dropped"`
}
