package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stockpile/internal/relocate"
)

// MoveStore combines the lookup and write primitives batch relocation needs,
// satisfied by *inventory.Store.
type MoveStore interface {
	relocate.Resolver
	relocate.Mover
}

// MoveService validates and executes relocation batches.
type MoveService struct {
	store     MoveStore
	validator *relocate.Validator
	executor  *relocate.Executor
}

// NewMoveService constructs a MoveService around the provided store.
func NewMoveService(store MoveStore, logger *slog.Logger) *MoveService {
	if store == nil {
		return nil
	}
	return &MoveService{
		store:     store,
		validator: relocate.NewValidator(store),
		executor:  relocate.NewExecutor(store, logger),
	}
}

// Validate runs advisory validation over a batch without writing anything.
func (s *MoveService) Validate(ctx context.Context, req BatchMoveRequest) (BatchValidationResponse, error) {
	if s == nil || s.store == nil {
		return BatchValidationResponse{}, nil
	}
	plan, err := s.validator.Validate(ctx, ToRequests(req.Entries))
	if err != nil {
		return BatchValidationResponse{}, err
	}
	return FromPlan(plan), nil
}

// Execute validates the batch and, when clean, applies it best-effort per
// entry. A batch with validation problems is rejected whole: the caller gets
// the problem list and nothing is written.
func (s *MoveService) Execute(ctx context.Context, req BatchMoveRequest) (BatchMoveResponse, BatchValidationResponse, error) {
	if s == nil || s.store == nil {
		return BatchMoveResponse{}, BatchValidationResponse{}, nil
	}
	plan, err := s.validator.Validate(ctx, ToRequests(req.Entries))
	if err != nil {
		return BatchMoveResponse{}, BatchValidationResponse{}, err
	}
	if !plan.Ready() {
		return BatchMoveResponse{}, FromPlan(plan), nil
	}
	result := s.executor.Execute(ctx, plan)
	return FromResult(result), FromPlan(plan), nil
}

// MoveSingle relocates one identifier immediately, outside any batch.
func (s *MoveService) MoveSingle(ctx context.Context, req MoveRequest) (*StockItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	if strings.TrimSpace(req.JAID) == "" {
		return nil, fmt.Errorf("%w: missing identifier", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.NewLocation) == "" {
		return nil, fmt.Errorf("%w: no target location", ErrInvalidRequest)
	}
	record, err := s.store.UpdateLocation(ctx, req.JAID, req.NewLocation, req.NewSubLocation, "")
	if err != nil {
		return nil, err
	}
	dto := FromRecord(record)
	return &dto, nil
}
