package apiclient_test

import (
	"context"
	"errors"
	"testing"

	"stockpile/internal/api"
	"stockpile/internal/apiclient"
	"stockpile/internal/daemon"
	"stockpile/internal/inventory"
	"stockpile/internal/testsupport"
)

func startDaemonClient(t *testing.T) *apiclient.Client {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		cancel()
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
		cancel()
	})
	return apiclient.New(d.Addr())
}

func TestClientRoundTrip(t *testing.T) {
	client := startDaemonClient(t)
	ctx := context.Background()

	created, err := client.CreateItem(ctx, api.ItemCreateRequest{
		Location: "M1",
		Material: "Steel",
		Length:   "48",
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	item, err := client.GetItem(ctx, created.JAID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Location != "M1" || item.Length != "48" {
		t.Fatalf("unexpected item: %#v", item)
	}

	items, err := client.ListItems(ctx, inventory.ListOptions{Material: "Steel"})
	if err != nil || len(items) != 1 {
		t.Fatalf("ListItems = %v err=%v", items, err)
	}

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Inventory.Active != 1 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestClientSurfacesDaemonErrors(t *testing.T) {
	client := startDaemonClient(t)

	_, err := client.GetItem(context.Background(), "JA999999")
	var statusErr *apiclient.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", statusErr.StatusCode)
	}
	if statusErr.Message == "" {
		t.Fatal("daemon error message should be carried through")
	}
}

func TestClientExecuteMovesPartition(t *testing.T) {
	client := startDaemonClient(t)
	ctx := context.Background()

	created, err := client.CreateItem(ctx, api.ItemCreateRequest{Location: "M1"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	result, validation, err := client.ExecuteMoves(ctx, api.BatchMoveRequest{Entries: []api.MoveRequest{
		{JAID: created.JAID, NewLocation: "M5"},
		{JAID: "JA424242", NewLocation: "M5"},
	}})
	if err != nil {
		t.Fatalf("ExecuteMoves failed: %v", err)
	}
	if result != nil {
		t.Fatalf("dirty batch should not return a result: %+v", result)
	}
	if validation == nil || len(validation.Problems) != 1 {
		t.Fatalf("unexpected validation: %+v", validation)
	}

	result, validation, err = client.ExecuteMoves(ctx, api.BatchMoveRequest{Entries: []api.MoveRequest{
		{JAID: created.JAID, NewLocation: "M5"},
	}})
	if err != nil {
		t.Fatalf("ExecuteMoves failed: %v", err)
	}
	if validation != nil {
		t.Fatalf("clean batch returned validation: %+v", validation)
	}
	if result == nil || len(result.Succeeded) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	moves, err := client.Moves(ctx, created.JAID)
	if err != nil || len(moves) != 1 {
		t.Fatalf("Moves = %v err=%v", moves, err)
	}
	if moves[0].BatchID != result.BatchID {
		t.Fatalf("batch id mismatch: %q vs %q", moves[0].BatchID, result.BatchID)
	}
}

func TestClientShortenFlow(t *testing.T) {
	client := startDaemonClient(t)
	ctx := context.Background()

	created, err := client.CreateItem(ctx, api.ItemCreateRequest{Location: "M1", Length: "48"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	resp, err := client.ShortenItem(ctx, created.JAID, api.ShortenRequest{NewLength: "36", CutLoss: "0.125"})
	if err != nil {
		t.Fatalf("ShortenItem failed: %v", err)
	}
	if resp.Remainder.Length != "36" {
		t.Fatalf("unexpected remainder: %#v", resp.Remainder)
	}

	history, err := client.History(ctx, created.JAID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d", len(history))
	}
}
