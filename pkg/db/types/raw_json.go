package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// RawJSON is a jsonb column on Postgres and a text column on SQLite. An empty
// value is stored as an empty JSON array.
type RawJSON json.RawMessage

// MarshalRawJSON encodes v for a RawJSON column. A nil v becomes "[]".
func MarshalRawJSON(v any) (RawJSON, error) {
	if v == nil {
		return RawJSON("[]"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("RawJSON: %w", err)
	}
	return RawJSON(b), nil
}

func (j *RawJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = RawJSON("[]")
	case []byte:
		*j = append(RawJSON(nil), v...)
	case string:
		*j = RawJSON(v)
	default:
		return fmt.Errorf("RawJSON: unsupported source %T", src)
	}
	if !json.Valid(*j) {
		return fmt.Errorf("RawJSON: stored value is not valid JSON")
	}
	return nil
}

func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("RawJSON: value is not valid JSON")
	}
	return string(j), nil
}

// MarshalJSON embeds the stored document as is.
func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("[]"), nil
	}
	return j, nil
}

// GormDBDataType picks the column type per dialect for AutoMigrate.
func (RawJSON) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
