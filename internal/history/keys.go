package history

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
)

const (
	keySeparator = "\x1f"
	dateLayout   = "2006-01-02"
)

// SaleKey identifies a sale across repeated uploads of overlapping reports.
func SaleKey(r ingest.SoldRecord) string {
	return digest(
		strings.ToLower(strings.TrimSpace(r.Title)),
		strings.TrimSpace(r.ItemNumber),
		formatDate(r.SaleDate),
		r.SoldPrice.StringFixed(2),
		strings.ToLower(strings.TrimSpace(r.BuyerIdentity)),
		strconv.Itoa(r.Quantity),
	)
}

// UnsoldKey identifies an ended listing across repeated uploads.
func UnsoldKey(r ingest.UnsoldRecord) string {
	return digest(
		strings.ToLower(strings.TrimSpace(r.Title)),
		strings.TrimSpace(r.ListingID),
		formatDate(r.EndDate),
		r.OriginalPrice.StringFixed(2),
	)
}

// Checksum fingerprints a raw upload body.
func Checksum(body []byte) string {
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func digest(parts ...string) string {
	sum := blake2b.Sum256([]byte(strings.Join(parts, keySeparator)))
	return hex.EncodeToString(sum[:])
}
