package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockpile/internal/inventory"
)

// ErrInvalidRequest marks payloads the service rejects before touching the
// store.
var ErrInvalidRequest = errors.New("invalid request")

// ItemStore abstracts inventory persistence interactions needed for item
// queries and intake.
type ItemStore interface {
	Add(ctx context.Context, record *inventory.Record) (*inventory.Record, error)
	ResolveActive(ctx context.Context, jaID string) (*inventory.Record, error)
	FindByIdentifier(ctx context.Context, jaID string) (*inventory.Record, error)
	History(ctx context.Context, jaID string) ([]*inventory.Record, error)
	List(ctx context.Context, opts inventory.ListOptions) ([]*inventory.Record, error)
	Moves(ctx context.Context, jaID string) ([]*inventory.Move, error)
	PeekNextIdentifier(ctx context.Context) (string, error)
	Stats(ctx context.Context) (inventory.HealthSummary, error)
}

// ItemService exposes stock item operations returning API DTOs.
type ItemService struct {
	store ItemStore
}

// NewItemService constructs an ItemService around the provided store.
func NewItemService(store ItemStore) *ItemService {
	if store == nil {
		return nil
	}
	return &ItemService{store: store}
}

// List returns stock items matching the filter.
func (s *ItemService) List(ctx context.Context, opts inventory.ListOptions) ([]StockItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	records, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// Describe resolves the active record for an identifier.
func (s *ItemService) Describe(ctx context.Context, jaID string) (*StockItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	record, err := s.store.ResolveActive(ctx, jaID)
	if err != nil {
		return nil, err
	}
	dto := FromRecord(record)
	return &dto, nil
}

// History returns the full lineage for an identifier, oldest first.
func (s *ItemService) History(ctx context.Context, jaID string) ([]StockItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	records, err := s.store.History(ctx, jaID)
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// Moves returns the audit log for an identifier, oldest first.
func (s *ItemService) Moves(ctx context.Context, jaID string) ([]MoveRecord, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	moves, err := s.store.Moves(ctx, jaID)
	if err != nil {
		return nil, err
	}
	return FromMoves(moves), nil
}

// NextIdentifier reports the identifier the next intake would receive.
func (s *ItemService) NextIdentifier(ctx context.Context) (string, error) {
	if s == nil || s.store == nil {
		return "", nil
	}
	return s.store.PeekNextIdentifier(ctx)
}

// Stats returns aggregate record counts.
func (s *ItemService) Stats(ctx context.Context) (InventoryStats, error) {
	if s == nil || s.store == nil {
		return InventoryStats{}, nil
	}
	summary, err := s.store.Stats(ctx)
	if err != nil {
		return InventoryStats{}, err
	}
	return InventoryStats{
		Total:    summary.Total,
		Active:   summary.Active,
		Inactive: summary.Inactive,
		Moves:    summary.Moves,
	}, nil
}

// Create validates an intake payload and inserts the record.
func (s *ItemService) Create(ctx context.Context, req ItemCreateRequest) (*StockItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidRequest)
	}

	record := &inventory.Record{
		JAID:        strings.TrimSpace(req.JAID),
		Location:    strings.TrimSpace(req.Location),
		SubLocation: strings.TrimSpace(req.SubLocation),
		ItemType:    strings.TrimSpace(req.ItemType),
		Material:    strings.TrimSpace(req.Material),
		Notes:       req.Notes,
		Vendor:      strings.TrimSpace(req.Vendor),
		VendorPart:  strings.TrimSpace(req.VendorPart),
	}

	dims := []struct {
		name  string
		raw   string
		field *decimal.NullDecimal
	}{
		{"length", req.Length, &record.Length},
		{"width", req.Width, &record.Width},
		{"thickness", req.Thickness, &record.Thickness},
	}
	for _, dim := range dims {
		value, err := parseOptionalDecimal(dim.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %s %q", ErrInvalidRequest, dim.name, dim.raw)
		}
		*dim.field = value
	}

	inserted, err := s.store.Add(ctx, record)
	if err != nil {
		return nil, err
	}
	dto := FromRecord(inserted)
	return &dto, nil
}

func parseOptionalDecimal(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: value, Valid: true}, nil
}
