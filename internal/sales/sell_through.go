package sales

import (
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

// SellThroughResult is the share of ended listings that sold.
type SellThroughResult struct {
	Sold     int     `json:"sold"`
	Unsold   int     `json:"unsold"`
	Relisted int     `json:"relisted"`
	Percent  float64 `json:"percent"`
}

// SellThrough returns sold / (sold + unsold) × 100. Unsold listings that were
// relisted are still on the market and are left out of the denominator.
func SellThrough(sold []ingest.SoldRecord, unsold []ingest.UnsoldRecord) SellThroughResult {
	result := SellThroughResult{Sold: len(sold)}
	for _, rec := range unsold {
		if rec.RelistStatus == enums.RelistStatusRelisted {
			result.Relisted++
			continue
		}
		result.Unsold++
	}
	if total := result.Sold + result.Unsold; total > 0 {
		result.Percent = float64(result.Sold) / float64(total) * 100
	}
	return result
}
