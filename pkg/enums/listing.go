package enums

import "strings"

// ListingFormat is the marketplace selling format of an active listing.
type ListingFormat string

const (
	ListingFormatFixedPrice ListingFormat = "fixed_price"
	ListingFormatAuction    ListingFormat = "auction"
	ListingFormatUnknown    ListingFormat = "unknown"
)

// String implements fmt.Stringer.
func (f ListingFormat) String() string {
	return string(f)
}

// ParseListingFormat maps export values such as "FIXED_PRICE", "Buy It Now",
// "Auction" or "Chinese" onto a ListingFormat. Anything else is unknown.
func ParseListingFormat(value string) ListingFormat {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return ListingFormatUnknown
	case strings.Contains(v, "auction"), v == "chinese":
		return ListingFormatAuction
	case strings.Contains(v, "fixed"), strings.Contains(v, "buy it now"), v == "bin", strings.Contains(v, "storesfixed"):
		return ListingFormatFixedPrice
	}
	return ListingFormatUnknown
}

// RelistStatus records whether an ended listing was put back up.
type RelistStatus string

const (
	RelistStatusRelisted    RelistStatus = "relisted"
	RelistStatusNotRelisted RelistStatus = "not_relisted"
	RelistStatusUnknown     RelistStatus = "unknown"
)

// String implements fmt.Stringer.
func (r RelistStatus) String() string {
	return string(r)
}

// ParseRelistStatus reads the "Relisted" column of an unsold export.
func ParseRelistStatus(value string) RelistStatus {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return RelistStatusUnknown
	case "yes", "y", "true", "relisted", "1":
		return RelistStatusRelisted
	case "no", "n", "false", "not relisted", "0":
		return RelistStatusNotRelisted
	}
	if strings.Contains(v, "not") {
		return RelistStatusNotRelisted
	}
	if strings.Contains(v, "relist") {
		return RelistStatusRelisted
	}
	return RelistStatusUnknown
}
