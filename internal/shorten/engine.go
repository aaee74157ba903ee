package shorten

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"stockpile/internal/inventory"
	"stockpile/internal/logging"
)

var (
	// ErrNotShorter is reported when the requested length does not reduce
	// the piece.
	ErrNotShorter = errors.New("new length must be shorter than current length")
	// ErrNoRecordedLength is reported when the original record carries no
	// length to compare against.
	ErrNoRecordedLength = errors.New("record has no recorded length")
)

// Store is the persistence surface the engine needs, satisfied by
// *inventory.Store.
type Store interface {
	ResolveActive(ctx context.Context, jaID string) (*inventory.Record, error)
	AllocateIdentifier(ctx context.Context) (string, error)
	SplitRecord(ctx context.Context, originalID int64, remainder *inventory.Record) (*inventory.Record, error)
}

// Result describes a completed shortening.
type Result struct {
	Original  *inventory.Record
	Remainder *inventory.Record
}

// Engine performs shortenings: the original record is deactivated, never
// deleted, and the remainder continues under a freshly allocated identifier
// with every unrelated attribute copied by value.
type Engine struct {
	store   Store
	logger  *slog.Logger
	retries int
}

// NewEngine constructs an Engine. retries bounds how often a collided
// identifier allocation is retried; values below 1 mean one attempt.
func NewEngine(store Store, logger *slog.Logger, retries int) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	if retries < 1 {
		retries = 1
	}
	return &Engine{
		store:   store,
		logger:  logger.With(slog.String("component", "shorten")),
		retries: retries,
	}
}

// Shorten cuts the identified piece down to newLength. cutLoss records the
// kerf lost to the cut and is optional.
func (e *Engine) Shorten(ctx context.Context, jaID string, newLength decimal.Decimal, cutLoss decimal.NullDecimal) (*Result, error) {
	original, err := e.store.ResolveActive(ctx, jaID)
	if err != nil {
		return nil, err
	}
	if !original.Length.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNoRecordedLength, jaID)
	}
	if newLength.Sign() <= 0 {
		return nil, fmt.Errorf("new length %s must be positive", newLength)
	}
	if newLength.GreaterThanOrEqual(original.Length.Decimal) {
		return nil, fmt.Errorf("%w: %s has %s, requested %s",
			ErrNotShorter, jaID, original.Length.Decimal, newLength)
	}

	remainder := *original
	remainder.ID = 0
	remainder.ParentJAID = original.JAID
	remainder.Length = decimal.NullDecimal{Decimal: newLength, Valid: true}
	remainder.CutLoss = cutLoss

	var inserted *inventory.Record
	for attempt := 1; ; attempt++ {
		allocated, err := e.store.AllocateIdentifier(ctx)
		if err != nil {
			return nil, fmt.Errorf("allocate remainder identifier: %w", err)
		}
		remainder.JAID = allocated

		inserted, err = e.store.SplitRecord(ctx, original.ID, &remainder)
		if err == nil {
			break
		}
		if errors.Is(err, inventory.ErrAllocationConflict) && attempt < e.retries {
			e.logger.Warn("allocation collided, retrying",
				slog.String("ja_id", jaID),
				slog.String("collided", allocated),
				slog.Int("attempt", attempt),
			)
			continue
		}
		return nil, err
	}

	e.logger.Info("record shortened",
		slog.String("ja_id", jaID),
		slog.String("remainder", inserted.JAID),
		slog.String("length", newLength.String()),
	)

	original.Active = false
	return &Result{Original: original, Remainder: inserted}, nil
}
