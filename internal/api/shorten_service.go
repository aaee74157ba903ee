package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockpile/internal/shorten"
)

// ShortenService exposes the shortening engine over API DTOs.
type ShortenService struct {
	engine *shorten.Engine
}

// NewShortenService constructs a ShortenService around the provided engine.
func NewShortenService(engine *shorten.Engine) *ShortenService {
	if engine == nil {
		return nil
	}
	return &ShortenService{engine: engine}
}

// Shorten parses the request and runs the cut.
func (s *ShortenService) Shorten(ctx context.Context, jaID string, req ShortenRequest) (*ShortenResponse, error) {
	if s == nil || s.engine == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(req.NewLength)
	if raw == "" {
		return nil, fmt.Errorf("%w: newLength is required", ErrInvalidRequest)
	}
	newLength, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: bad newLength %q", ErrInvalidRequest, raw)
	}
	cutLoss, err := parseOptionalDecimal(req.CutLoss)
	if err != nil {
		return nil, fmt.Errorf("%w: bad cutLoss %q", ErrInvalidRequest, req.CutLoss)
	}

	result, err := s.engine.Shorten(ctx, jaID, newLength, cutLoss)
	if err != nil {
		return nil, err
	}
	return &ShortenResponse{
		Original:  FromRecord(result.Original),
		Remainder: FromRecord(result.Remainder),
	}, nil
}
