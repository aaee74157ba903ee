package relocate

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"stockpile/internal/inventory"
	"stockpile/internal/logging"
	"stockpile/internal/scan"
)

// Outcome is one successfully executed relocation.
type Outcome struct {
	Request scan.Request
	Record  *inventory.Record
}

// Failure is one entry that could not be executed.
type Failure struct {
	JAID  string
	Error string
}

// Result is the per-entry partition of an executed batch.
type Result struct {
	BatchID   string
	Succeeded []Outcome
	Failed    []Failure
}

// Mover is the transactional relocation primitive, satisfied by
// *inventory.Store.
type Mover interface {
	UpdateLocation(ctx context.Context, jaID, location, subLocation, batchID string) (*inventory.Record, error)
}

// Executor applies validated relocation plans. Execution is best-effort per
// entry rather than all-or-nothing: a record deactivated between validation
// and execution fails alone, and every already-applied entry stays committed.
// Callers surface the Failed partition for re-entry.
type Executor struct {
	store  Mover
	logger *slog.Logger
}

// NewExecutor constructs an Executor. A nil logger discards output.
func NewExecutor(store Mover, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Executor{store: store, logger: logger.With(slog.String("component", "relocate"))}
}

// Execute applies each valid entry in order. Entries are re-resolved inside
// the store's single-record transaction, never trusted from the validator's
// snapshot.
func (e *Executor) Execute(ctx context.Context, plan Plan) Result {
	result := Result{BatchID: uuid.NewString()}

	for _, entry := range plan.Valid {
		record, err := e.store.UpdateLocation(ctx, entry.JAID, entry.NewLocation, entry.NewSubLocation, result.BatchID)
		if err != nil {
			e.logger.Warn("relocation failed",
				slog.String("ja_id", entry.JAID),
				slog.String("batch_id", result.BatchID),
				slog.Any("error", err),
			)
			result.Failed = append(result.Failed, Failure{JAID: entry.JAID, Error: err.Error()})
			continue
		}
		e.logger.Info("record moved",
			slog.String("ja_id", entry.JAID),
			slog.String("location", entry.NewLocation),
			slog.String("sub_location", entry.NewSubLocation),
			slog.String("batch_id", result.BatchID),
		)
		result.Succeeded = append(result.Succeeded, Outcome{Request: entry, Record: record})
	}

	return result
}
