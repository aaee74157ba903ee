package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Add inserts a new stock record. When record.JAID is empty a fresh identifier
// is allocated; an explicit identifier is accepted for intake of pre-labeled
// stock as long as it has no active record yet.
func (s *Store) Add(ctx context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, errors.New("record is nil")
	}
	if strings.TrimSpace(record.Location) == "" {
		return nil, errors.New("location is required")
	}

	jaID := strings.TrimSpace(record.JAID)
	if jaID == "" {
		allocated, err := s.AllocateIdentifier(ctx)
		if err != nil {
			return nil, err
		}
		jaID = allocated
	} else {
		existing, err := s.ResolveActive(ctx, jaID)
		if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNoActiveRecord) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, jaID)
		}
		if n, ok := s.identifierNumber(jaID); ok {
			if err := s.bumpSequence(ctx, n+1); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO stock_records (
            ja_id, active, location, sub_location, item_type, material,
            length, width, thickness, cut_loss, notes, vendor, vendor_part,
            parent_ja_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		jaID,
		1,
		record.Location,
		nullableString(record.SubLocation),
		nullableString(record.ItemType),
		nullableString(record.Material),
		nullableDecimal(record.Length),
		nullableDecimal(record.Width),
		nullableDecimal(record.Thickness),
		nullableDecimal(record.CutLoss),
		nullableString(record.Notes),
		nullableString(record.Vendor),
		nullableString(record.VendorPart),
		nullableString(record.ParentJAID),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a record by surrogate key.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM stock_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// FindByIdentifier returns the first record matching an identifier regardless
// of its active flag. This is the raw store primitive; callers that need the
// current record must use ResolveActive instead.
func (s *Store) FindByIdentifier(ctx context.Context, jaID string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM stock_records WHERE ja_id = ? ORDER BY id LIMIT 1`,
		jaID,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by identifier: %w", err)
	}
	return record, nil
}

// ResolveActive returns the unique active record for an identifier.
// It reports ErrNotFound when the identifier has never existed and
// ErrNoActiveRecord when every record under it has been superseded.
func (s *Store) ResolveActive(ctx context.Context, jaID string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM stock_records WHERE ja_id = ? AND active = 1 LIMIT 1`,
		jaID,
	)
	record, err := scanRecord(row)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve active: %w", err)
	}

	var count int
	countRow := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM stock_records WHERE ja_id = ?`, jaID)
	if err := countRow.Scan(&count); err != nil {
		return nil, fmt.Errorf("count identifier rows: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jaID)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoActiveRecord, jaID)
}

// History returns every record in the identifier's lineage ordered by
// creation, newest last. The lineage is followed both directions through
// parent pointers, so the history of an original includes its remainders.
func (s *Store) History(ctx context.Context, jaID string) ([]*Record, error) {
	seenIdentifiers := map[string]struct{}{}
	records := map[int64]*Record{}
	frontier := []string{jaID}

	for len(frontier) > 0 {
		placeholders := makePlaceholders(len(frontier))
		args := make([]any, 0, len(frontier)*2)
		for _, id := range frontier {
			seenIdentifiers[id] = struct{}{}
			args = append(args, id)
		}
		for _, id := range frontier {
			args = append(args, id)
		}

		query := `SELECT ` + recordColumns + ` FROM stock_records
            WHERE ja_id IN (` + placeholders + `) OR parent_ja_id IN (` + placeholders + `)`
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("query lineage: %w", err)
		}

		var next []string
		for rows.Next() {
			record, err := scanRecord(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			records[record.ID] = record
			for _, candidate := range []string{record.JAID, record.ParentJAID} {
				if candidate == "" {
					continue
				}
				if _, ok := seenIdentifiers[candidate]; !ok {
					seenIdentifiers[candidate] = struct{}{}
					next = append(next, candidate)
				}
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
		frontier = next
	}

	ordered := make([]*Record, 0, len(records))
	for _, record := range records {
		ordered = append(ordered, record)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	return ordered, nil
}

// ListOptions filters record listings.
type ListOptions struct {
	Location       string
	Material       string
	IncludeRetired bool
}

// List returns records matching the options, active first, then by identifier.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM stock_records`
	var conds []string
	var args []any
	if !opts.IncludeRetired {
		conds = append(conds, "active = 1")
	}
	if loc := strings.TrimSpace(opts.Location); loc != "" {
		conds = append(conds, "location = ?")
		args = append(args, loc)
	}
	if mat := strings.TrimSpace(opts.Material); mat != "" {
		conds = append(conds, "material = ? COLLATE NOCASE")
		args = append(args, mat)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY active DESC, ja_id, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Update persists attribute changes to an existing record. Location writes
// from the relocation path must go through UpdateLocation so they are audited.
func (s *Store) Update(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE stock_records
         SET location = ?, sub_location = ?, item_type = ?, material = ?,
             length = ?, width = ?, thickness = ?, cut_loss = ?, notes = ?,
             vendor = ?, vendor_part = ?, updated_at = ?
         WHERE id = ?`,
		record.Location,
		nullableString(record.SubLocation),
		nullableString(record.ItemType),
		nullableString(record.Material),
		nullableDecimal(record.Length),
		nullableDecimal(record.Width),
		nullableDecimal(record.Thickness),
		nullableDecimal(record.CutLoss),
		nullableString(record.Notes),
		nullableString(record.Vendor),
		nullableString(record.VendorPart),
		record.UpdatedAt.Format(time.RFC3339Nano),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// UpdateLocation relocates the active record for an identifier inside a
// single-record transaction and appends the move to the audit log. An empty
// subLocation clears any existing sub-location. The guard on the active flag
// turns a concurrent deactivation into ErrConcurrentModification instead of a
// half-written row.
func (s *Store) UpdateLocation(ctx context.Context, jaID, location, subLocation, batchID string) (*Record, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.New("location is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin move tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM stock_records WHERE ja_id = ? AND active = 1 LIMIT 1`,
		jaID,
	)
	current, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrConcurrentModification, jaID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve for move: %w", err)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(
		ctx,
		`UPDATE stock_records SET location = ?, sub_location = ?, updated_at = ?
         WHERE id = ? AND active = 1`,
		location,
		nullableString(subLocation),
		now.Format(time.RFC3339Nano),
		current.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("write location: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrConcurrentModification, jaID)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO move_log (ja_id, from_location, from_sub_location, to_location, to_sub_location, batch_id, moved_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		jaID,
		nullableString(current.Location),
		nullableString(current.SubLocation),
		location,
		nullableString(subLocation),
		nullableString(batchID),
		now.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("append move log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit move: %w", err)
	}

	current.Location = location
	current.SubLocation = subLocation
	current.UpdatedAt = now
	return current, nil
}

// SplitRecord deactivates the original record and inserts its remainder in
// one transaction. The original must still be active when the transaction
// runs, otherwise ErrConcurrentModification is reported.
func (s *Store) SplitRecord(ctx context.Context, originalID int64, remainder *Record) (*Record, error) {
	if remainder == nil {
		return nil, errors.New("remainder is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin split tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := tx.ExecContext(
		ctx,
		`UPDATE stock_records SET active = 0, updated_at = ? WHERE id = ? AND active = 1`,
		timestamp,
		originalID,
	)
	if err != nil {
		return nil, fmt.Errorf("deactivate original: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: record %d", ErrConcurrentModification, originalID)
	}

	var count int
	row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM stock_records WHERE ja_id = ? AND active = 1`, remainder.JAID)
	if err := row.Scan(&count); err != nil {
		return nil, fmt.Errorf("check remainder identifier: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAllocationConflict, remainder.JAID)
	}

	insert, err := tx.ExecContext(
		ctx,
		`INSERT INTO stock_records (
            ja_id, active, location, sub_location, item_type, material,
            length, width, thickness, cut_loss, notes, vendor, vendor_part,
            parent_ja_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		remainder.JAID,
		1,
		remainder.Location,
		nullableString(remainder.SubLocation),
		nullableString(remainder.ItemType),
		nullableString(remainder.Material),
		nullableDecimal(remainder.Length),
		nullableDecimal(remainder.Width),
		nullableDecimal(remainder.Thickness),
		nullableDecimal(remainder.CutLoss),
		nullableString(remainder.Notes),
		nullableString(remainder.Vendor),
		nullableString(remainder.VendorPart),
		nullableString(remainder.ParentJAID),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert remainder: %w", err)
	}
	newID, err := insert.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit split: %w", err)
	}
	return s.GetByID(ctx, newID)
}

// Moves returns the audit log for an identifier, oldest first.
func (s *Store) Moves(ctx context.Context, jaID string) ([]*Move, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, ja_id, from_location, from_sub_location, to_location, to_sub_location, batch_id, moved_at
         FROM move_log WHERE ja_id = ? ORDER BY id`,
		jaID,
	)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []*Move
	for rows.Next() {
		var (
			move     Move
			fromLoc  sql.NullString
			fromSub  sql.NullString
			toSub    sql.NullString
			batchID  sql.NullString
			movedRaw sql.NullString
		)
		if err := rows.Scan(&move.ID, &move.JAID, &fromLoc, &fromSub, &move.ToLocation, &toSub, &batchID, &movedRaw); err != nil {
			return nil, err
		}
		move.FromLocation = fromLoc.String
		move.FromSubLocation = fromSub.String
		move.ToSubLocation = toSub.String
		move.BatchID = batchID.String
		if moved, err := parseTimeString(movedRaw.String); err == nil {
			move.MovedAt = moved
		}
		moves = append(moves, &move)
	}
	return moves, rows.Err()
}
