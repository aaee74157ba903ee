package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"stockpile/internal/config"
)

// Store manages inventory persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	prefix string
	pad    int
}

// Open initializes or connects to the inventory database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   dbPath,
		prefix: cfg.Identifier.Prefix,
		pad:    cfg.Identifier.PadWidth,
	}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Stats returns record counts partitioned by active flag plus move count.
func (s *Store) Stats(ctx context.Context) (HealthSummary, error) {
	summary := HealthSummary{}
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(active), 0) FROM stock_records`)
	if err := row.Scan(&summary.Total, &summary.Active); err != nil {
		return summary, fmt.Errorf("record stats: %w", err)
	}
	summary.Inactive = summary.Total - summary.Active

	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM move_log`)
	if err := row.Scan(&summary.Moves); err != nil {
		return summary, fmt.Errorf("move stats: %w", err)
	}
	return summary, nil
}

// CheckHealth returns diagnostic information about the inventory database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'stock_records'")
	if err := row.Scan(&tableName); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
	} else {
		health.TableExists = true
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM stock_records")
		if err := row.Scan(&health.TotalRecords); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count records: %w", err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

const recordColumns = "id, ja_id, active, location, sub_location, item_type, material, length, width, thickness, cut_loss, notes, vendor, vendor_part, parent_ja_id, created_at, updated_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id          int64
		jaID        string
		active      int64
		location    sql.NullString
		subLocation sql.NullString
		itemType    sql.NullString
		material    sql.NullString
		length      sql.NullString
		width       sql.NullString
		thickness   sql.NullString
		cutLoss     sql.NullString
		notes       sql.NullString
		vendor      sql.NullString
		vendorPart  sql.NullString
		parentJAID  sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&jaID,
		&active,
		&location,
		&subLocation,
		&itemType,
		&material,
		&length,
		&width,
		&thickness,
		&cutLoss,
		&notes,
		&vendor,
		&vendorPart,
		&parentJAID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:          id,
		JAID:        jaID,
		Active:      active != 0,
		Location:    location.String,
		SubLocation: subLocation.String,
		ItemType:    itemType.String,
		Material:    material.String,
		Notes:       notes.String,
		Vendor:      vendor.String,
		VendorPart:  vendorPart.String,
		ParentJAID:  parentJAID.String,
	}

	for _, pair := range []struct {
		raw  sql.NullString
		dest *decimal.NullDecimal
	}{
		{length, &record.Length},
		{width, &record.Width},
		{thickness, &record.Thickness},
		{cutLoss, &record.CutLoss},
	} {
		if !pair.raw.Valid || pair.raw.String == "" {
			continue
		}
		value, err := decimal.NewFromString(pair.raw.String)
		if err != nil {
			return nil, fmt.Errorf("parse decimal %q: %w", pair.raw.String, err)
		}
		pair.dest.Decimal = value
		pair.dest.Valid = true
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableDecimal(value decimal.NullDecimal) any {
	if !value.Valid {
		return nil
	}
	return value.Decimal.String()
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
