package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/resellernumbers-backend/internal/customers"
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/internal/inventory"
	"github.com/angelmondragon/resellernumbers-backend/internal/sales"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

// UnsoldSummary describes a batch of ended listings.
type UnsoldSummary struct {
	Total              int             `json:"total"`
	Relisted           int             `json:"relisted"`
	NotRelisted        int             `json:"not_relisted"`
	Unknown            int             `json:"unknown"`
	TotalOriginalValue decimal.Decimal `json:"total_original_value"`
	AvgOriginalPrice   decimal.Decimal `json:"avg_original_price"`
}

// SummarizeUnsold counts ended listings by relist status.
func SummarizeUnsold(records []ingest.UnsoldRecord) UnsoldSummary {
	out := UnsoldSummary{Total: len(records), TotalOriginalValue: decimal.Zero, AvgOriginalPrice: decimal.Zero}
	for _, r := range records {
		switch r.RelistStatus {
		case enums.RelistStatusRelisted:
			out.Relisted++
		case enums.RelistStatusNotRelisted:
			out.NotRelisted++
		default:
			out.Unknown++
		}
		out.TotalOriginalValue = out.TotalOriginalValue.Add(r.OriginalPrice)
	}
	if out.Total > 0 {
		out.AvgOriginalPrice = out.TotalOriginalValue.Div(decimal.NewFromInt(int64(out.Total))).Round(2)
	}
	return out
}

// CSVOptions tunes the stateless analysis of one file.
type CSVOptions struct {
	PoolUnknown  bool
	QualifiedMin int
}

// CSVReport is the analysis of a single uploaded file. Only the sections for
// the file's kind are set.
type CSVReport struct {
	Kind      enums.DataKind     `json:"kind"`
	Stats     ingest.Stats       `json:"stats"`
	Inventory *inventory.Summary `json:"inventory,omitempty"`
	Sales     *sales.Summary     `json:"sales,omitempty"`
	Customers *customers.Summary `json:"customers,omitempty"`
	Qualified []sales.Collection `json:"qualified_collections,omitempty"`
	Unsold    *UnsoldSummary     `json:"unsold,omitempty"`
}

// AnalyzeCSV parses csvText as kind and computes its summaries without
// touching any store.
func AnalyzeCSV(kind enums.DataKind, csvText string, now time.Time, opts CSVOptions) (*CSVReport, error) {
	if opts.QualifiedMin <= 0 {
		opts.QualifiedMin = sales.DefaultQualifiedMinSales
	}
	switch kind {
	case enums.DataKindInventory:
		records, stats, err := ingest.ParseInventory(csvText)
		if err != nil {
			return nil, err
		}
		summary := inventory.Analyze(records, now)
		return &CSVReport{Kind: kind, Stats: stats, Inventory: &summary}, nil
	case enums.DataKindSold:
		records, stats, err := ingest.ParseSold(csvText)
		if err != nil {
			return nil, err
		}
		summary := sales.Analyze(records, now)
		buyers := customers.Analyze(records, customers.Options{PoolUnknown: opts.PoolUnknown})
		return &CSVReport{
			Kind:      kind,
			Stats:     stats,
			Sales:     &summary,
			Customers: &buyers,
			Qualified: sales.QualifiedCollections(summary.Collections, opts.QualifiedMin),
		}, nil
	case enums.DataKindUnsold:
		records, stats, err := ingest.ParseUnsold(csvText)
		if err != nil {
			return nil, err
		}
		summary := SummarizeUnsold(records)
		return &CSVReport{Kind: kind, Stats: stats, Unsold: &summary}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported data kind %q", kind))
}
