package relocate_test

import (
	"context"
	"strings"
	"testing"

	"stockpile/internal/relocate"
	"stockpile/internal/scan"
	"stockpile/internal/testsupport"
)

func TestExecuteAppliesPlan(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.AddRecord(t, store, "M1", "Steel")
	second := testsupport.AddRecord(t, store, "M2", "Brass")

	validator := relocate.NewValidator(store)
	plan, err := validator.Validate(ctx, []scan.Request{
		{JAID: first.JAID, NewLocation: "M5", NewSubLocation: "Drawer 1"},
		{JAID: second.JAID, NewLocation: "TS-3"},
	})
	if err != nil || !plan.Ready() {
		t.Fatalf("unexpected plan: %+v err=%v", plan, err)
	}

	result := relocate.NewExecutor(store, nil).Execute(ctx, plan)
	if len(result.Succeeded) != 2 || len(result.Failed) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.BatchID == "" {
		t.Fatal("expected batch id")
	}

	moved, err := store.ResolveActive(ctx, first.JAID)
	if err != nil {
		t.Fatalf("ResolveActive failed: %v", err)
	}
	if moved.Location != "M5" || moved.SubLocation != "Drawer 1" {
		t.Fatalf("record not moved: %#v", moved)
	}

	moves, err := store.Moves(ctx, first.JAID)
	if err != nil || len(moves) != 1 {
		t.Fatalf("expected one audit row, got %v err=%v", moves, err)
	}
	if moves[0].BatchID != result.BatchID {
		t.Fatalf("audit row missing batch id: %#v", moves[0])
	}
}

func TestExecutePartialFailureIsolation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.AddRecord(t, store, "M1", "Steel")
	doomed := testsupport.AddBar(t, store, "M2", "Steel", "18")
	third := testsupport.AddRecord(t, store, "M3", "Copper")

	validator := relocate.NewValidator(store)
	plan, err := validator.Validate(ctx, []scan.Request{
		{JAID: first.JAID, NewLocation: "M7"},
		{JAID: doomed.JAID, NewLocation: "M7"},
		{JAID: third.JAID, NewLocation: "M7"},
	})
	if err != nil || !plan.Ready() {
		t.Fatalf("unexpected plan: %+v err=%v", plan, err)
	}

	// Supersede the middle entry between validation and execution.
	remainder := *doomed
	remainder.JAID = "JA000055"
	remainder.ParentJAID = doomed.JAID
	if _, err := store.SplitRecord(ctx, doomed.ID, &remainder); err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}

	result := relocate.NewExecutor(store, nil).Execute(ctx, plan)
	if len(result.Succeeded) != 2 {
		t.Fatalf("expected entries 1 and 3 to succeed: %+v", result)
	}
	if len(result.Failed) != 1 || result.Failed[0].JAID != doomed.JAID {
		t.Fatalf("expected precise failure for %s: %+v", doomed.JAID, result.Failed)
	}
	if !strings.Contains(result.Failed[0].Error, "concurrently") {
		t.Fatalf("failure should name the conflict: %q", result.Failed[0].Error)
	}

	// Entries 1 and 3 stay committed regardless of entry 2.
	for _, jaID := range []string{first.JAID, third.JAID} {
		record, err := store.ResolveActive(ctx, jaID)
		if err != nil {
			t.Fatalf("ResolveActive(%s) failed: %v", jaID, err)
		}
		if record.Location != "M7" {
			t.Fatalf("%s write was rolled back: %#v", jaID, record)
		}
	}
}

func TestExecuteClearsStaleSubLocation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record := testsupport.AddRecord(t, store, "M1", "Steel")
	if _, err := store.UpdateLocation(ctx, record.JAID, "M1", "Drawer 3", ""); err != nil {
		t.Fatalf("seed sub-location failed: %v", err)
	}

	validator := relocate.NewValidator(store)
	plan, err := validator.Validate(ctx, []scan.Request{{JAID: record.JAID, NewLocation: "M5-E"}})
	if err != nil || !plan.Ready() {
		t.Fatalf("unexpected plan: %+v err=%v", plan, err)
	}
	result := relocate.NewExecutor(store, nil).Execute(ctx, plan)
	if len(result.Succeeded) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	current, err := store.ResolveActive(ctx, record.JAID)
	if err != nil {
		t.Fatalf("ResolveActive failed: %v", err)
	}
	if current.Location != "M5-E" || current.SubLocation != "" {
		t.Fatalf("sub-location left stale: %#v", current)
	}
}
