package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/angelmondragon/resellernumbers-backend/pkg/db/types"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

// Upload is a snapshot of one CSV file as received.
type Upload struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Kind        enums.DataKind    `gorm:"column:kind;not null"`
	Checksum    string            `gorm:"column:checksum;not null"`
	ByteSize    int64             `gorm:"column:byte_size;not null"`
	DataLines   int               `gorm:"column:data_lines;not null"`
	RowCount    int               `gorm:"column:row_count;not null"`
	DroppedRows int               `gorm:"column:dropped_rows;not null"`
	Headers     dbtypes.TextArray `gorm:"column:headers"`
	// Records holds the parsed records of the file as a JSON array.
	Records    dbtypes.RawJSON `gorm:"column:records"`
	UploadDate time.Time       `gorm:"column:upload_date;not null"`
}

func (Upload) TableName() string { return "uploads" }
