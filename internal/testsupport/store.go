package testsupport

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"stockpile/internal/config"
	"stockpile/internal/inventory"
)

// MustOpenStore opens an inventory.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *inventory.Store {
	t.Helper()

	store, err := inventory.Open(cfg)
	if err != nil {
		t.Fatalf("inventory.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddRecord inserts a stock record with an allocated identifier.
func AddRecord(t testing.TB, store *inventory.Store, location, material string) *inventory.Record {
	t.Helper()

	record, err := store.Add(context.Background(), &inventory.Record{
		Location: location,
		Material: material,
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return record
}

// AddBar inserts a bar-shaped record with the given length.
func AddBar(t testing.TB, store *inventory.Store, location, material, length string) *inventory.Record {
	t.Helper()

	value, err := decimal.NewFromString(length)
	if err != nil {
		t.Fatalf("parse length %q: %v", length, err)
	}
	record, err := store.Add(context.Background(), &inventory.Record{
		Location: location,
		Material: material,
		ItemType: "Bar",
		Length:   decimal.NullDecimal{Decimal: value, Valid: true},
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return record
}
