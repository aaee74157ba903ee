package api_test

import (
	"context"
	"errors"
	"testing"

	"stockpile/internal/api"
	"stockpile/internal/inventory"
	"stockpile/internal/testsupport"
)

func TestItemServiceCreateAndDescribe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := api.NewItemService(store)

	ctx := context.Background()
	created, err := service.Create(ctx, api.ItemCreateRequest{
		Location: "M2",
		Material: "304",
		ItemType: "Bar",
		Length:   "48",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.JAID == "" || created.Length != "48" {
		t.Fatalf("unexpected created item: %#v", created)
	}

	described, err := service.Describe(ctx, created.JAID)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if described.ID != created.ID || !described.Active {
		t.Fatalf("unexpected described item: %#v", described)
	}
}

func TestItemServiceCreateRejectsBadPayload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := api.NewItemService(store)

	ctx := context.Background()
	if _, err := service.Create(ctx, api.ItemCreateRequest{Material: "304"}); !errors.Is(err, api.ErrInvalidRequest) {
		t.Errorf("missing location: got %v, want ErrInvalidRequest", err)
	}
	if _, err := service.Create(ctx, api.ItemCreateRequest{Location: "M1", Length: "a lot"}); !errors.Is(err, api.ErrInvalidRequest) {
		t.Errorf("bad length: got %v, want ErrInvalidRequest", err)
	}
}

func TestItemServiceDescribePropagatesResolution(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := api.NewItemService(store)

	ctx := context.Background()
	if _, err := service.Describe(ctx, "JA999999"); !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestItemServiceListFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := api.NewItemService(store)

	ctx := context.Background()
	testsupport.AddRecord(t, store, "M1", "Steel")
	testsupport.AddRecord(t, store, "M2", "Brass")

	items, err := service.List(ctx, inventory.ListOptions{Location: "M1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Location != "M1" {
		t.Fatalf("unexpected filtered list: %+v", items)
	}
}

func TestItemServiceNextIdentifier(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := api.NewItemService(store)

	next, err := service.NextIdentifier(context.Background())
	if err != nil {
		t.Fatalf("NextIdentifier failed: %v", err)
	}
	if next != "JA000001" {
		t.Fatalf("next identifier = %q", next)
	}
}
