package dbtypes

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TextArray is a text[] column on Postgres and an array-literal text column on SQLite.
type TextArray []string

func (a *TextArray) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("TextArray: %w", err)
	}
	if arr == nil {
		arr = pq.StringArray{}
	}
	*a = TextArray(arr)
	return nil
}

func (a TextArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	return pq.StringArray(a).Value()
}

// GormDBDataType picks the column type per dialect for AutoMigrate.
func (TextArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
