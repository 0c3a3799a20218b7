// Package dbtest opens throwaway SQLite databases carrying the production
// table layout for repository tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id text PRIMARY KEY,
		email text NOT NULL,
		full_name text,
		status text NOT NULL DEFAULT 'pending',
		subscription_status text NOT NULL DEFAULT 'trial',
		trial_ends_at datetime,
		approved_at datetime,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE IF NOT EXISTS business_metrics (
		user_id text PRIMARY KEY,
		minutes_per_item numeric NOT NULL DEFAULT 0,
		ideal_hourly_rate numeric NOT NULL DEFAULT 0,
		avg_fee_percent numeric NOT NULL DEFAULT 0,
		tax_bracket numeric NOT NULL DEFAULT 0,
		updated_at datetime
	)`,
	`CREATE TABLE IF NOT EXISTS collections (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		name text NOT NULL,
		sku text,
		purchase_date date,
		cost numeric NOT NULL DEFAULT 0,
		notes text,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_history (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		item_title text NOT NULL,
		listing_id text,
		current_price numeric NOT NULL DEFAULT 0,
		category text,
		condition text,
		listing_format text NOT NULL DEFAULT 'unknown',
		quantity integer NOT NULL DEFAULT 1,
		days_listed integer NOT NULL DEFAULT 0,
		start_date date,
		views integer NOT NULL DEFAULT 0,
		watchers integer NOT NULL DEFAULT 0,
		status text NOT NULL DEFAULT 'active',
		snapshot_date date NOT NULL,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS inventory_history_active_title_key
		ON inventory_history (user_id, item_title) WHERE status = 'active'`,
	`CREATE TABLE IF NOT EXISTS sales_history (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		dedupe_key text NOT NULL,
		item_title text NOT NULL,
		item_number text,
		sold_price numeric NOT NULL DEFAULT 0,
		sold_date date,
		quantity integer NOT NULL DEFAULT 1,
		custom_label text NOT NULL DEFAULT 'Unlabeled',
		buyer_username text,
		buyer_state text,
		paid_date date,
		shipped_date date,
		fees numeric NOT NULL DEFAULT 0,
		shipping_cost numeric NOT NULL DEFAULT 0,
		created_at datetime,
		CONSTRAINT sales_history_user_dedupe_key UNIQUE (user_id, dedupe_key)
	)`,
	`CREATE TABLE IF NOT EXISTS unsold_history (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		dedupe_key text NOT NULL,
		item_title text NOT NULL,
		listing_id text,
		original_price numeric NOT NULL DEFAULT 0,
		relist_status text NOT NULL DEFAULT 'unknown',
		ended_date date,
		final_views integer NOT NULL DEFAULT 0,
		final_watchers integer NOT NULL DEFAULT 0,
		created_at datetime,
		CONSTRAINT unsold_history_user_dedupe_key UNIQUE (user_id, dedupe_key)
	)`,
	`CREATE TABLE IF NOT EXISTS data_sync_status (
		user_id text PRIMARY KEY,
		last_inventory_sync datetime,
		total_inventory_items integer NOT NULL DEFAULT 0,
		last_sales_sync datetime,
		total_sales integer NOT NULL DEFAULT 0,
		last_unsold_sync datetime,
		total_unsold integer NOT NULL DEFAULT 0,
		updated_at datetime
	)`,
	`CREATE TABLE IF NOT EXISTS uploads (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		kind text NOT NULL,
		checksum text NOT NULL,
		byte_size integer NOT NULL DEFAULT 0,
		data_lines integer NOT NULL DEFAULT 0,
		row_count integer NOT NULL DEFAULT 0,
		dropped_rows integer NOT NULL DEFAULT 0,
		headers text,
		records text NOT NULL DEFAULT '[]',
		upload_date datetime NOT NULL
	)`,
}

// Open returns an isolated in-memory database with every table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// one connection keeps the in-memory database alive and avoids table locks
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return conn
}
