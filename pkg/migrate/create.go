package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert %[1]s
-- +goose StatementEnd
`

// Slug turns a free-form migration title into the snake_case suffix used in
// file names. "Add Sales Index!" becomes "add_sales_index".
func Slug(title string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(title), "_"), "_")
}

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<slug>.sql and returns its path.
func CreateSQLMigration(dir, title string) (string, error) {
	return createAt(dir, title, time.Now().UTC())
}

func createAt(dir, title string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("migration dir is required")
	}
	slug := Slug(title)
	if slug == "" {
		return "", fmt.Errorf("migration title %q has no usable characters", title)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migration dir: %w", err)
	}

	target := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now.Format(versionLayout), slug))
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %s: %w", filepath.Base(target), err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, migrationTemplate, slug); err != nil {
		return "", fmt.Errorf("write migration %s: %w", filepath.Base(target), err)
	}
	return target, nil
}
