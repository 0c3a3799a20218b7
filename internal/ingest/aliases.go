package ingest

// Logical field names. Each maps to an ordered list of header spellings seen
// across marketplace exports; the first populated one wins.
const (
	fieldTitle             = "title"
	fieldCurrentPrice      = "current_price"
	fieldStartDate         = "start_date"
	fieldAvailableQuantity = "available_quantity"
	fieldViews             = "views"
	fieldWatchers          = "watchers"
	fieldFormat            = "format"
	fieldCategory          = "category"
	fieldListingID         = "listing_id"
	fieldCondition         = "condition"

	fieldSoldPrice   = "sold_price"
	fieldSaleDate    = "sale_date"
	fieldQuantity    = "quantity"
	fieldCustomLabel = "custom_label"
	fieldBuyer       = "buyer"
	fieldItemNumber  = "item_number"
	fieldBuyerState  = "buyer_state"
	fieldPaidDate    = "paid_date"
	fieldShippedDate = "shipped_date"
	fieldFees        = "fees"
	fieldShipping    = "shipping"

	fieldEndDate       = "end_date"
	fieldRelisted      = "relisted"
	fieldOriginalPrice = "original_price"
)

var inventoryAliases = map[string][]string{
	fieldTitle:             {"Item Title", "Title", "Listing Title"},
	fieldCurrentPrice:      {"Current price", "Current Price", "Price", "Start price", "Start Price"},
	fieldStartDate:         {"Start date", "Start Date", "Listing Start Date", "Start time"},
	fieldAvailableQuantity: {"Available quantity", "Available Quantity", "Quantity Available", "Quantity"},
	fieldViews:             {"Views", "Views (30 days)", "Page views", "Total views"},
	fieldWatchers:          {"Watchers", "Watch count", "Watchers count"},
	fieldFormat:            {"Format", "Listing format", "Listing Type", "Listing type"},
	fieldCategory:          {"eBay category 1 name", "Category", "Category name", "Primary category"},
	fieldListingID:         {"Item number", "Item Number", "Listing ID", "Item ID"},
	fieldCondition:         {"Condition"},
}

var soldAliases = map[string][]string{
	fieldTitle:       {"Item Title", "Title"},
	fieldSoldPrice:   {"Sold For", "Sold Price", "Sold for", "Sale Price", "Total Price"},
	fieldSaleDate:    {"Sale Date", "Sold Date", "Order Date", "Paid On Date"},
	fieldQuantity:    {"Quantity", "Qty"},
	fieldCustomLabel: {"Custom Label", "Custom label (SKU)", "Custom Label (SKU)", "SKU"},
	fieldBuyer:       {"Buyer Username", "Buyer User ID", "Buyer", "Buyer Name"},
	fieldItemNumber:  {"Item Number", "Item number", "Listing ID", "Item ID"},
	fieldBuyerState:  {"Buyer State", "Ship To State", "Ship to state"},
	fieldPaidDate:    {"Paid On Date", "Paid Date", "Paid on date"},
	fieldShippedDate: {"Shipped On Date", "Shipped Date", "Shipped on date"},
	fieldFees:        {"Final Value Fee", "Final Value Fee - fixed", "Fees"},
	fieldShipping:    {"Shipping And Handling", "Shipping and handling", "Shipping", "Shipping cost"},
}

var unsoldAliases = map[string][]string{
	fieldTitle:         {"Item Title", "Title"},
	fieldEndDate:       {"End date", "End Date", "Ended Date", "Ended"},
	fieldRelisted:      {"Relisted", "Relist status", "Relisted?"},
	fieldOriginalPrice: {"Original Price", "Start price", "Start Price", "Price", "Current price", "Current Price"},
	fieldListingID:     {"Item number", "Item Number", "Listing ID"},
	fieldViews:         {"Views", "Total views"},
	fieldWatchers:      {"Watchers", "Watch count"},
}

// soldHeaderMarkers identify the real header line of a sold report that may
// be preceded by a free-form preamble.
var soldHeaderMarkers = []string{"Sales Record Number", "Order Number", "Sale Date"}
