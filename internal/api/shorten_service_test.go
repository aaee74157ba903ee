package api_test

import (
	"context"
	"errors"
	"testing"

	"stockpile/internal/api"
	"stockpile/internal/shorten"
	"stockpile/internal/testsupport"
)

func TestShortenServiceParsesAndCuts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := api.NewShortenService(shorten.NewEngine(store, nil, 3))

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "48")

	resp, err := service.Shorten(ctx, original.JAID, api.ShortenRequest{NewLength: "36", CutLoss: "0.125"})
	if err != nil {
		t.Fatalf("Shorten failed: %v", err)
	}
	if resp.Original.Active {
		t.Error("original should be inactive")
	}
	if resp.Remainder.Length != "36" || resp.Remainder.CutLoss != "0.125" {
		t.Fatalf("unexpected remainder: %#v", resp.Remainder)
	}
	if resp.Remainder.ParentJAID != original.JAID {
		t.Fatalf("remainder parent = %q", resp.Remainder.ParentJAID)
	}
}

func TestShortenServiceRejectsBadPayload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := api.NewShortenService(shorten.NewEngine(store, nil, 3))

	ctx := context.Background()
	original := testsupport.AddBar(t, store, "M1", "Steel", "48")

	cases := []api.ShortenRequest{
		{},
		{NewLength: "three feet"},
		{NewLength: "36", CutLoss: "a bit"},
	}
	for _, req := range cases {
		if _, err := service.Shorten(ctx, original.JAID, req); !errors.Is(err, api.ErrInvalidRequest) {
			t.Errorf("request %+v: got %v, want ErrInvalidRequest", req, err)
		}
	}

	if _, err := service.Shorten(ctx, original.JAID, api.ShortenRequest{NewLength: "60"}); !errors.Is(err, shorten.ErrNotShorter) {
		t.Errorf("longer cut: got %v, want ErrNotShorter", err)
	}
}
