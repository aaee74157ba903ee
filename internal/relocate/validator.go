package relocate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockpile/internal/inventory"
	"stockpile/internal/scan"
)

// Problem describes why one queue entry cannot be executed. Every problem
// names its identifier so the operator knows which label to rescan.
type Problem struct {
	JAID   string
	Reason string
}

// Plan partitions a queue into executable entries and per-entry problems.
type Plan struct {
	Valid    []scan.Request
	Problems []Problem
}

// Ready reports whether the plan has entries and no problems.
func (p Plan) Ready() bool {
	return len(p.Valid) > 0 && len(p.Problems) == 0
}

// Resolver is the read-only lookup validation runs against.
type Resolver interface {
	ResolveActive(ctx context.Context, jaID string) (*inventory.Record, error)
}

// Validator checks relocation queues against the live store. It never writes
// and holds no locks, so a caller may re-validate as often as it likes while
// an operator reviews the plan.
type Validator struct {
	resolver Resolver
}

// NewValidator constructs a Validator around the provided resolver.
func NewValidator(resolver Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate resolves each entry and partitions the queue. The returned error
// is reserved for store failures; per-entry rejections land in Problems.
func (v *Validator) Validate(ctx context.Context, entries []scan.Request) (Plan, error) {
	plan := Plan{}
	for _, entry := range entries {
		if strings.TrimSpace(entry.JAID) == "" {
			plan.Problems = append(plan.Problems, Problem{JAID: entry.JAID, Reason: "missing identifier"})
			continue
		}
		if strings.TrimSpace(entry.NewLocation) == "" {
			plan.Problems = append(plan.Problems, Problem{JAID: entry.JAID, Reason: "no target location"})
			continue
		}

		record, err := v.resolver.ResolveActive(ctx, entry.JAID)
		switch {
		case errors.Is(err, inventory.ErrNotFound):
			plan.Problems = append(plan.Problems, Problem{JAID: entry.JAID, Reason: "identifier not found"})
			continue
		case errors.Is(err, inventory.ErrNoActiveRecord):
			plan.Problems = append(plan.Problems, Problem{JAID: entry.JAID, Reason: "identifier superseded by shortening"})
			continue
		case err != nil:
			return Plan{}, fmt.Errorf("resolve %s: %w", entry.JAID, err)
		}
		// Unreachable given resolver semantics, checked defensively.
		if record == nil || !record.Active {
			plan.Problems = append(plan.Problems, Problem{JAID: entry.JAID, Reason: "no active record"})
			continue
		}

		plan.Valid = append(plan.Valid, entry)
	}
	return plan, nil
}
