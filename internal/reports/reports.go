// Package reports renders stored history and analytics as downloadable files.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
)

const dateLayout = "2006-01-02"

var salesHeader = []string{
	"Sale Date",
	"Item Title",
	"Sold For",
	"Quantity",
	"Custom Label",
	"Buyer Username",
	"Buyer State",
	"Item Number",
	"Item URL",
	"Fees",
	"Shipping",
}

// WriteSalesCSV writes sold records with a header row. Undated sales leave
// the date column blank.
func WriteSalesCSV(w io.Writer, records []ingest.SoldRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return fmt.Errorf("write sales header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			formatDate(rec.SaleDate),
			rec.Title,
			money(rec.SoldPrice),
			strconv.Itoa(rec.Quantity),
			rec.CustomLabel,
			rec.BuyerIdentity,
			rec.BuyerState,
			rec.ItemNumber,
			rec.ItemURL(),
			money(rec.Fees),
			money(rec.Shipping),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write sales row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes a plain-text digest of the dashboard.
func WriteSummary(w io.Writer, dash *analytics.Dashboard) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Reseller Numbers summary (%s)\n\n", dash.GeneratedAt.Format(dateLayout))

	inv := dash.Inventory
	b.WriteString("Inventory\n")
	fmt.Fprintf(&b, "  Active listings:   %d\n", inv.ActiveCount)
	fmt.Fprintf(&b, "  Listed value:      $%s\n", money(inv.TotalValue))
	fmt.Fprintf(&b, "  Avg days listed:   %.1f\n", inv.AvgDaysListed)
	fmt.Fprintf(&b, "  Listed 30/60/90+:  %d / %d / %d\n\n", inv.Items30Plus, inv.Items60Plus, inv.Items90Plus)

	sold := dash.Sales.Summary
	b.WriteString("Sales\n")
	fmt.Fprintf(&b, "  Revenue:           $%s\n", money(sold.TotalRevenue))
	fmt.Fprintf(&b, "  Items sold:        %d\n", sold.TotalItems)
	fmt.Fprintf(&b, "  Avg sale price:    $%s\n", money(sold.AvgSalePrice))
	fmt.Fprintf(&b, "  Annual run rate:   $%s\n", money(sold.AnnualRunRate))
	fmt.Fprintf(&b, "  Sell-through:      %.1f%%\n\n", dash.Sales.SellThrough.Percent)

	cust := dash.Customers
	b.WriteString("Customers\n")
	fmt.Fprintf(&b, "  Customers:         %d\n", cust.TotalCustomers)
	fmt.Fprintf(&b, "  Repeat customers:  %d (%.1f%%)\n", cust.RepeatCustomers, cust.RepeatCustomerPercent)
	fmt.Fprintf(&b, "  Avg CLV:           $%s\n\n", money(cust.AvgCLV))

	b.WriteString("Collections\n")
	if len(dash.Collections.Profitability) == 0 {
		b.WriteString("  No collections with a matching purchase.\n")
	}
	for _, r := range dash.Collections.Profitability {
		fmt.Fprintf(&b, "  %s: revenue $%s, net $%s, ROI %.1f%%", r.Collection, money(r.TotalRevenue), money(r.NetProfit), r.ROIPercent)
		if r.BrokeEven {
			fmt.Fprintf(&b, ", broke even in %d days", r.DaysToBreakEven)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
