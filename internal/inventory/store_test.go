package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"stockpile/internal/inventory"
	"stockpile/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record := testsupport.AddRecord(t, store, "M5", "Steel")
	if record.ID == 0 {
		t.Fatal("expected record ID to be assigned")
	}
	if record.JAID != "JA000001" {
		t.Fatalf("unexpected first identifier %q", record.JAID)
	}

	fetched, err := store.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Location != "M5" {
		t.Fatalf("unexpected fetched record: %#v", fetched)
	}
}

func TestAddRequiresLocation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Add(context.Background(), &inventory.Record{Material: "Brass"}); err == nil {
		t.Fatal("expected error when location missing")
	}
}

func TestAddExplicitIdentifierBumpsSequence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.Add(ctx, &inventory.Record{JAID: "JA000040", Location: "M1"}); err != nil {
		t.Fatalf("Add with explicit identifier failed: %v", err)
	}

	allocated, err := store.AllocateIdentifier(ctx)
	if err != nil {
		t.Fatalf("AllocateIdentifier failed: %v", err)
	}
	if allocated != "JA000041" {
		t.Fatalf("expected allocation past explicit identifier, got %q", allocated)
	}
}

func TestAddRejectsDuplicateActiveIdentifier(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.Add(ctx, &inventory.Record{JAID: "JA000007", Location: "M1"}); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	_, err := store.Add(ctx, &inventory.Record{JAID: "JA000007", Location: "M2"})
	if !errors.Is(err, inventory.ErrDuplicateIdentifier) {
		t.Fatalf("expected ErrDuplicateIdentifier, got %v", err)
	}
}

func TestResolveActiveDistinguishesMissingFromSuperseded(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	_, err := store.ResolveActive(ctx, "JA999999")
	if !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	original := testsupport.AddBar(t, store, "M3", "Aluminum", "24")
	remainderID, err := store.AllocateIdentifier(ctx)
	if err != nil {
		t.Fatalf("AllocateIdentifier failed: %v", err)
	}
	remainder := *original
	remainder.JAID = remainderID
	remainder.ParentJAID = original.JAID
	if _, err := store.SplitRecord(ctx, original.ID, &remainder); err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}

	_, err = store.ResolveActive(ctx, original.JAID)
	if !errors.Is(err, inventory.ErrNoActiveRecord) {
		t.Fatalf("expected ErrNoActiveRecord for superseded identifier, got %v", err)
	}

	active, err := store.ResolveActive(ctx, remainderID)
	if err != nil {
		t.Fatalf("ResolveActive remainder failed: %v", err)
	}
	if !active.Active || active.ParentJAID != original.JAID {
		t.Fatalf("unexpected remainder record: %#v", active)
	}
}

func TestResolveActiveSkipsInactiveFirstMatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M3", "Steel", "36")

	// Supersede and reuse the identifier so an inactive row sorts first.
	remainder := *original
	remainder.JAID = "JA000099"
	remainder.ParentJAID = original.JAID
	if _, err := store.SplitRecord(ctx, original.ID, &remainder); err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}
	reused, err := store.Add(ctx, &inventory.Record{JAID: original.JAID, Location: "TS-2"})
	if err != nil {
		t.Fatalf("re-Add failed: %v", err)
	}

	first, err := store.FindByIdentifier(ctx, original.JAID)
	if err != nil {
		t.Fatalf("FindByIdentifier failed: %v", err)
	}
	if first == nil || first.Active {
		t.Fatalf("expected inactive first match, got %#v", first)
	}

	resolved, err := store.ResolveActive(ctx, original.JAID)
	if err != nil {
		t.Fatalf("ResolveActive failed: %v", err)
	}
	if resolved.ID != reused.ID || resolved.Location != "TS-2" {
		t.Fatalf("resolver returned stale record: %#v", resolved)
	}
}

func TestHistoryFollowsLineageBothDirections(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "48")

	remainderID, err := store.AllocateIdentifier(ctx)
	if err != nil {
		t.Fatalf("AllocateIdentifier failed: %v", err)
	}
	remainder := *original
	remainder.JAID = remainderID
	remainder.ParentJAID = original.JAID
	remainder.Length = decimal.NullDecimal{Decimal: decimal.RequireFromString("30"), Valid: true}
	inserted, err := store.SplitRecord(ctx, original.ID, &remainder)
	if err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}

	for _, jaID := range []string{original.JAID, remainderID} {
		history, err := store.History(ctx, jaID)
		if err != nil {
			t.Fatalf("History(%s) failed: %v", jaID, err)
		}
		if len(history) != 2 {
			t.Fatalf("History(%s) = %d records, want 2", jaID, len(history))
		}
		if history[0].ID != original.ID || history[1].ID != inserted.ID {
			t.Fatalf("History(%s) out of order: %v, %v", jaID, history[0].JAID, history[1].JAID)
		}
	}
}

func TestUpdateLocationClearsSubLocation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record := testsupport.AddRecord(t, store, "M2", "Copper")
	if _, err := store.UpdateLocation(ctx, record.JAID, "M2", "Drawer 3", ""); err != nil {
		t.Fatalf("set sub-location failed: %v", err)
	}

	moved, err := store.UpdateLocation(ctx, record.JAID, "M5", "", "batch-1")
	if err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}
	if moved.Location != "M5" || moved.SubLocation != "" {
		t.Fatalf("sub-location not cleared: %#v", moved)
	}

	moves, err := store.Moves(ctx, record.JAID)
	if err != nil {
		t.Fatalf("Moves failed: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(moves))
	}
	last := moves[1]
	if last.FromSubLocation != "Drawer 3" || last.ToLocation != "M5" || last.BatchID != "batch-1" {
		t.Fatalf("unexpected audit row: %#v", last)
	}
}

func TestUpdateLocationOnSupersededRecordFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "12")
	remainder := *original
	remainder.JAID = "JA000050"
	remainder.ParentJAID = original.JAID
	if _, err := store.SplitRecord(ctx, original.ID, &remainder); err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}

	_, err := store.UpdateLocation(ctx, original.JAID, "M9", "", "")
	if !errors.Is(err, inventory.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	if moves, _ := store.Moves(ctx, original.JAID); len(moves) != 0 {
		t.Fatalf("failed move must not be audited, got %d rows", len(moves))
	}
}

func TestSplitRecordRejectsDoubleSplit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "12")
	remainder := *original
	remainder.JAID = "JA000060"
	remainder.ParentJAID = original.JAID
	if _, err := store.SplitRecord(ctx, original.ID, &remainder); err != nil {
		t.Fatalf("first SplitRecord failed: %v", err)
	}

	second := remainder
	second.JAID = "JA000061"
	_, err := store.SplitRecord(ctx, original.ID, &second)
	if !errors.Is(err, inventory.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification on double split, got %v", err)
	}
}

func TestAllocateIdentifierIsMonotonic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	var last string
	for i := 0; i < 5; i++ {
		id, err := store.AllocateIdentifier(ctx)
		if err != nil {
			t.Fatalf("AllocateIdentifier failed: %v", err)
		}
		if id <= last {
			t.Fatalf("allocation not monotonic: %q after %q", id, last)
		}
		last = id
	}

	peek, err := store.PeekNextIdentifier(ctx)
	if err != nil {
		t.Fatalf("PeekNextIdentifier failed: %v", err)
	}
	if peek <= last {
		t.Fatalf("peek %q not past last allocation %q", peek, last)
	}
}

func TestListFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.AddRecord(t, store, "M1", "Steel")
	testsupport.AddRecord(t, store, "M2", "Brass")
	retired := testsupport.AddBar(t, store, "M1", "Steel", "10")
	remainder := *retired
	remainder.JAID = "JA000090"
	remainder.ParentJAID = retired.JAID
	remainder.Location = "TS-1"
	if _, err := store.SplitRecord(ctx, retired.ID, &remainder); err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}

	active, err := store.List(ctx, inventory.ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active records, got %d", len(active))
	}

	steel, err := store.List(ctx, inventory.ListOptions{Material: "steel"})
	if err != nil {
		t.Fatalf("List by material failed: %v", err)
	}
	if len(steel) != 1 {
		t.Fatalf("expected 1 active steel record, got %d", len(steel))
	}

	all, err := store.List(ctx, inventory.ListOptions{IncludeRetired: true})
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records including retired, got %d", len(all))
	}
}

func TestStatsCountsPartitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record := testsupport.AddBar(t, store, "M1", "Steel", "20")
	remainder := *record
	remainder.JAID = "JA000070"
	remainder.ParentJAID = record.JAID
	if _, err := store.SplitRecord(ctx, record.ID, &remainder); err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}
	if _, err := store.UpdateLocation(ctx, "JA000070", "M4", "", ""); err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 2 || stats.Active != 1 || stats.Inactive != 1 || stats.Moves != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCheckHealthReportsIntegrity(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.AddRecord(t, store, "M1", "Steel")

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health: %+v", health)
	}
	if !health.IntegrityCheck || health.TotalRecords != 1 {
		t.Fatalf("unexpected health detail: %+v", health)
	}
}
