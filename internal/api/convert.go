package api

import (
	"time"

	"github.com/shopspring/decimal"

	"stockpile/internal/inventory"
	"stockpile/internal/relocate"
	"stockpile/internal/scan"
)

// FromRecord converts a stock record to its API representation.
func FromRecord(record *inventory.Record) StockItem {
	if record == nil {
		return StockItem{}
	}
	return StockItem{
		ID:          record.ID,
		JAID:        record.JAID,
		Active:      record.Active,
		Location:    record.Location,
		SubLocation: record.SubLocation,
		ItemType:    record.ItemType,
		Material:    record.Material,
		Length:      decimalString(record.Length),
		Width:       decimalString(record.Width),
		Thickness:   decimalString(record.Thickness),
		CutLoss:     decimalString(record.CutLoss),
		Notes:       record.Notes,
		Vendor:      record.Vendor,
		VendorPart:  record.VendorPart,
		ParentJAID:  record.ParentJAID,
		CreatedAt:   FormatTime(record.CreatedAt),
		UpdatedAt:   FormatTime(record.UpdatedAt),
	}
}

// FromRecords converts a slice of stock records into API DTOs.
func FromRecords(records []*inventory.Record) []StockItem {
	if len(records) == 0 {
		return nil
	}
	out := make([]StockItem, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}

// FromMove converts an audit-log row to its API representation.
func FromMove(move *inventory.Move) MoveRecord {
	if move == nil {
		return MoveRecord{}
	}
	return MoveRecord{
		ID:              move.ID,
		JAID:            move.JAID,
		FromLocation:    move.FromLocation,
		FromSubLocation: move.FromSubLocation,
		ToLocation:      move.ToLocation,
		ToSubLocation:   move.ToSubLocation,
		BatchID:         move.BatchID,
		MovedAt:         FormatTime(move.MovedAt),
	}
}

// FromMoves converts audit-log rows into API DTOs.
func FromMoves(moves []*inventory.Move) []MoveRecord {
	if len(moves) == 0 {
		return nil
	}
	out := make([]MoveRecord, 0, len(moves))
	for _, move := range moves {
		out = append(out, FromMove(move))
	}
	return out
}

// FromPlan converts a validation plan to its API representation.
func FromPlan(plan relocate.Plan) BatchValidationResponse {
	resp := BatchValidationResponse{Ready: plan.Ready()}
	for _, entry := range plan.Valid {
		resp.Valid = append(resp.Valid, MoveRequest{
			JAID:           entry.JAID,
			NewLocation:    entry.NewLocation,
			NewSubLocation: entry.NewSubLocation,
		})
	}
	for _, problem := range plan.Problems {
		resp.Problems = append(resp.Problems, ValidationProblem{JAID: problem.JAID, Reason: problem.Reason})
	}
	return resp
}

// FromResult converts an execution result to its API representation.
func FromResult(result relocate.Result) BatchMoveResponse {
	resp := BatchMoveResponse{BatchID: result.BatchID}
	for _, outcome := range result.Succeeded {
		resp.Succeeded = append(resp.Succeeded, FromRecord(outcome.Record))
	}
	for _, failure := range result.Failed {
		resp.Failed = append(resp.Failed, MoveFailure{JAID: failure.JAID, Error: failure.Error})
	}
	return resp
}

// ToRequests converts API move entries into relocation requests.
func ToRequests(entries []MoveRequest) []scan.Request {
	if len(entries) == 0 {
		return nil
	}
	out := make([]scan.Request, 0, len(entries))
	for _, entry := range entries {
		out = append(out, scan.Request{
			JAID:           entry.JAID,
			NewLocation:    entry.NewLocation,
			NewSubLocation: entry.NewSubLocation,
		})
	}
	return out
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func decimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
