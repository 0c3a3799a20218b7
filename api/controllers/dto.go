package controllers

import (
	"time"

	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/resellernumbers-backend/pkg/db/types"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

type syncStatusResponse struct {
	LastInventorySync   *time.Time `json:"last_inventory_sync"`
	TotalInventoryItems int        `json:"total_inventory_items"`
	LastSalesSync       *time.Time `json:"last_sales_sync"`
	TotalSales          int        `json:"total_sales"`
	LastUnsoldSync      *time.Time `json:"last_unsold_sync"`
	TotalUnsold         int        `json:"total_unsold"`
}

type uploadResponse struct {
	ID          string         `json:"id"`
	Kind        enums.DataKind `json:"kind"`
	Checksum    string         `json:"checksum"`
	ByteSize    int64          `json:"byte_size"`
	RowCount    int            `json:"row_count"`
	DroppedRows int            `json:"dropped_rows"`
	Headers     []string       `json:"headers"`
	UploadDate  time.Time      `json:"upload_date"`
}

func newUploadResponse(row models.Upload) uploadResponse {
	return uploadResponse{
		ID:          row.ID.String(),
		Kind:        row.Kind,
		Checksum:    row.Checksum,
		ByteSize:    row.ByteSize,
		RowCount:    row.RowCount,
		DroppedRows: row.DroppedRows,
		Headers:     []string(row.Headers),
		UploadDate:  row.UploadDate,
	}
}

type latestUploadResponse struct {
	uploadResponse
	Records dbtypes.RawJSON `json:"records"`
}

type profileResponse struct {
	ID                 string                   `json:"id"`
	Email              string                   `json:"email"`
	FullName           *string                  `json:"full_name,omitempty"`
	Status             enums.ProfileStatus      `json:"status"`
	SubscriptionStatus enums.SubscriptionStatus `json:"subscription_status"`
	TrialEndsAt        *time.Time               `json:"trial_ends_at,omitempty"`
	ApprovedAt         *time.Time               `json:"approved_at,omitempty"`
	// Allowed is false while the account is pending, rejected or expired.
	Allowed bool `json:"allowed"`
}
