package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// AllocateIdentifier hands out the next identifier in sequence. The sequence
// row is updated before it is read back inside one transaction, which takes
// the SQLite write lock up front and serializes concurrent allocations.
func (s *Store) AllocateIdentifier(ctx context.Context) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin allocation tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE identifier_seq SET next = next + 1 WHERE id = 1`); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAllocationConflict, err)
	}

	var next int64
	row := tx.QueryRowContext(ctx, `SELECT next FROM identifier_seq WHERE id = 1`)
	if err := row.Scan(&next); err != nil {
		return "", fmt.Errorf("read sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAllocationConflict, err)
	}
	return s.FormatIdentifier(next - 1), nil
}

// PeekNextIdentifier reports the identifier the next allocation would return
// without consuming it.
func (s *Store) PeekNextIdentifier(ctx context.Context) (string, error) {
	var next int64
	row := s.db.QueryRowContext(ctx, `SELECT next FROM identifier_seq WHERE id = 1`)
	if err := row.Scan(&next); err != nil {
		return "", fmt.Errorf("read sequence: %w", err)
	}
	return s.FormatIdentifier(next), nil
}

// FormatIdentifier renders a sequence number as a zero-padded identifier.
func (s *Store) FormatIdentifier(n int64) string {
	return fmt.Sprintf("%s%0*d", s.prefix, s.pad, n)
}

// identifierNumber extracts the numeric suffix of an identifier, false when
// the value does not match the configured prefix + digits form.
func (s *Store) identifierNumber(jaID string) (int64, bool) {
	if !strings.HasPrefix(jaID, s.prefix) {
		return 0, false
	}
	digits := jaID[len(s.prefix):]
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// bumpSequence raises the sequence so future allocations skip past an
// explicitly supplied identifier number.
func (s *Store) bumpSequence(ctx context.Context, atLeast int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE identifier_seq SET next = ? WHERE id = 1 AND next < ?`,
		atLeast,
		atLeast,
	)
	if err != nil {
		return fmt.Errorf("bump sequence: %w", err)
	}
	return nil
}
