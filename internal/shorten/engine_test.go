package shorten_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"stockpile/internal/inventory"
	"stockpile/internal/shorten"
	"stockpile/internal/testsupport"
)

func newLength(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return value
}

func TestShortenCreatesRemainder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original, err := store.Add(ctx, &inventory.Record{
		Location:    "M3",
		SubLocation: "Drawer 2",
		ItemType:    "Bar",
		Material:    "4140",
		Length:      decimal.NullDecimal{Decimal: newLength(t, "36"), Valid: true},
		Width:       decimal.NullDecimal{Decimal: newLength(t, "1.5"), Valid: true},
		Vendor:      "Speedy Metals",
		VendorPart:  "rb4140-1.5",
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}

	engine := shorten.NewEngine(store, nil, 3)
	cutLoss := decimal.NullDecimal{Decimal: newLength(t, "0.125"), Valid: true}
	result, err := engine.Shorten(ctx, original.JAID, newLength(t, "24"), cutLoss)
	if err != nil {
		t.Fatalf("Shorten failed: %v", err)
	}

	if result.Original.Active {
		t.Error("original should be deactivated")
	}
	remainder := result.Remainder
	if remainder.JAID == original.JAID {
		t.Fatal("remainder must get a new identifier")
	}
	if remainder.ParentJAID != original.JAID {
		t.Errorf("remainder parent = %q, want %q", remainder.ParentJAID, original.JAID)
	}
	if !remainder.Length.Decimal.Equal(newLength(t, "24")) {
		t.Errorf("remainder length = %s", remainder.Length.Decimal)
	}
	if !remainder.CutLoss.Valid || !remainder.CutLoss.Decimal.Equal(newLength(t, "0.125")) {
		t.Errorf("remainder cut loss = %+v", remainder.CutLoss)
	}
	// Unrelated attributes carry over unchanged.
	if remainder.Location != "M3" || remainder.SubLocation != "Drawer 2" ||
		remainder.Material != "4140" || remainder.Vendor != "Speedy Metals" {
		t.Errorf("remainder attributes diverged: %#v", remainder)
	}

	// The original identifier now resolves to nothing active.
	if _, err := store.ResolveActive(ctx, original.JAID); !errors.Is(err, inventory.ErrNoActiveRecord) {
		t.Fatalf("expected ErrNoActiveRecord for original, got %v", err)
	}
	resolved, err := store.ResolveActive(ctx, remainder.JAID)
	if err != nil {
		t.Fatalf("ResolveActive(remainder) failed: %v", err)
	}
	if resolved.ID != remainder.ID {
		t.Fatalf("resolver returned wrong row: %#v", resolved)
	}
}

func TestShortenLinksHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "48")
	engine := shorten.NewEngine(store, nil, 3)

	first, err := engine.Shorten(ctx, original.JAID, newLength(t, "30"), decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("first Shorten failed: %v", err)
	}
	second, err := engine.Shorten(ctx, first.Remainder.JAID, newLength(t, "12"), decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("second Shorten failed: %v", err)
	}

	// History from either end covers the whole lineage.
	for _, jaID := range []string{original.JAID, second.Remainder.JAID} {
		chain, err := store.History(ctx, jaID)
		if err != nil {
			t.Fatalf("History(%s) failed: %v", jaID, err)
		}
		if len(chain) != 3 {
			t.Fatalf("History(%s) = %d records, want 3", jaID, len(chain))
		}
	}
}

func TestShortenRejectsLongerOrEqual(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "24")
	engine := shorten.NewEngine(store, nil, 3)

	for _, length := range []string{"24", "36"} {
		_, err := engine.Shorten(ctx, original.JAID, newLength(t, length), decimal.NullDecimal{})
		if !errors.Is(err, shorten.ErrNotShorter) {
			t.Errorf("Shorten to %s: got %v, want ErrNotShorter", length, err)
		}
	}

	// A failed shortening leaves the original active and untouched.
	resolved, err := store.ResolveActive(ctx, original.JAID)
	if err != nil {
		t.Fatalf("ResolveActive failed: %v", err)
	}
	if !resolved.Length.Decimal.Equal(newLength(t, "24")) {
		t.Fatalf("original mutated: %#v", resolved)
	}
}

func TestShortenRequiresRecordedLength(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddRecord(t, store, "M1", "Steel")
	engine := shorten.NewEngine(store, nil, 3)

	_, err := engine.Shorten(ctx, original.JAID, newLength(t, "12"), decimal.NullDecimal{})
	if !errors.Is(err, shorten.ErrNoRecordedLength) {
		t.Fatalf("got %v, want ErrNoRecordedLength", err)
	}
}

func TestShortenRejectsSuperseded(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "48")
	engine := shorten.NewEngine(store, nil, 3)

	first, err := engine.Shorten(ctx, original.JAID, newLength(t, "30"), decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("Shorten failed: %v", err)
	}
	if _, err := engine.Shorten(ctx, original.JAID, newLength(t, "20"), decimal.NullDecimal{}); !errors.Is(err, inventory.ErrNoActiveRecord) {
		t.Fatalf("shortening a superseded identifier: got %v, want ErrNoActiveRecord", err)
	}

	// The remainder is still shortenable.
	if _, err := engine.Shorten(ctx, first.Remainder.JAID, newLength(t, "20"), decimal.NullDecimal{}); err != nil {
		t.Fatalf("shortening the remainder failed: %v", err)
	}
}

type collidingStore struct {
	*inventory.Store
	failures int
}

func (c *collidingStore) SplitRecord(ctx context.Context, originalID int64, remainder *inventory.Record) (*inventory.Record, error) {
	if c.failures > 0 {
		c.failures--
		return nil, inventory.ErrAllocationConflict
	}
	return c.Store.SplitRecord(ctx, originalID, remainder)
}

func TestShortenRetriesAllocationConflict(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "48")

	engine := shorten.NewEngine(&collidingStore{Store: store, failures: 2}, nil, 3)
	result, err := engine.Shorten(ctx, original.JAID, newLength(t, "30"), decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("Shorten should survive two collisions: %v", err)
	}
	if result.Remainder.JAID == "" {
		t.Fatal("missing remainder identifier")
	}

	exhausted := shorten.NewEngine(&collidingStore{Store: store, failures: 5}, nil, 3)
	target := testsupport.AddBar(t, store, "M2", "Steel", "48")
	if _, err := exhausted.Shorten(ctx, target.JAID, newLength(t, "30"), decimal.NullDecimal{}); !errors.Is(err, inventory.ErrAllocationConflict) {
		t.Fatalf("exhausted retries should surface the conflict, got %v", err)
	}
}
