package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
)

func TestWriteSalesCSV(t *testing.T) {
	records := []ingest.SoldRecord{
		{
			Title:       `Card, "mint"`,
			SoldPrice:   decimal.RequireFromString("12.5"),
			SaleDate:    time.Date(2024, time.September, 17, 0, 0, 0, 0, time.UTC),
			Quantity:    1,
			CustomLabel: "LOT-A",
			ItemNumber:  "1234",
		},
		{Title: "Undated", SoldPrice: decimal.NewFromInt(3), Quantity: 2, CustomLabel: ingest.UnlabeledCustomLabel},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, salesHeader, rows[0])
	assert.Equal(t, "2024-09-17", rows[1][0])
	assert.Equal(t, `Card, "mint"`, rows[1][1])
	assert.Equal(t, "12.50", rows[1][2])
	assert.Equal(t, "https://www.ebay.com/itm/1234", rows[1][8])
	assert.Equal(t, "", rows[2][0])
	assert.Equal(t, "2", rows[2][3])
	assert.Equal(t, "", rows[2][8])
}

func TestWriteSummary(t *testing.T) {
	dash := &analytics.Dashboard{GeneratedAt: time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)}
	dash.Sales.Summary.TotalRevenue = decimal.NewFromInt(100)
	dash.Sales.SellThrough.Percent = 83.3333
	dash.Collections.Profitability = []profitability.Result{{
		Collection:      "LOT-A",
		TotalRevenue:    decimal.NewFromInt(100),
		NetProfit:       decimal.NewFromInt(40),
		ROIPercent:      80,
		BrokeEven:       true,
		DaysToBreakEven: 19,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, dash))
	out := buf.String()
	assert.Contains(t, out, "summary (2024-10-01)")
	assert.Contains(t, out, "Revenue:           $100.00")
	assert.Contains(t, out, "Sell-through:      83.3%")
	assert.Contains(t, out, "LOT-A: revenue $100.00, net $40.00, ROI 80.0%, broke even in 19 days")
}

func TestWriteSummaryWithoutCollections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, &analytics.Dashboard{}))
	assert.Contains(t, buf.String(), "No collections with a matching purchase.")
}
