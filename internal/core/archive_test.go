package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"shipyard/internal/blob"
)

func TestSnapshotArchiverRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newScenarioService(t)
	blobs := newMemoryBlobs(t)
	archiver := NewSnapshotArchiver(svc.Store(), blobs, nil)
	archiver.now = func() time.Time { return time.Date(2024, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600)) }
	ids := []string{"first", "second"}
	archiver.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	info, err := archiver.Archive(ctx)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if info.Key != "snapshots/20240304T040607Z-first.json" {
		t.Fatalf("unexpected key %s", info.Key)
	}
	if info.ContentType != "application/json" || info.Metadata["ships"] != "1" || info.Metadata["materials"] != "3" {
		t.Fatalf("unexpected info %+v", info)
	}

	if _, _, err := svc.ReplaceShipCosts(ctx, 1, []CostLine{{MaterialID: 1, Amount: 5}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, err := archiver.Archive(ctx); err != nil {
		t.Fatalf("second archive: %v", err)
	}

	list, err := archiver.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != info.Key {
		t.Fatalf("unexpected list %+v", list)
	}

	first, err := archiver.Load(ctx, list[0].Key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(first.Materials) != 3 || len(first.Ships) != 1 || len(first.Costs) != 3 {
		t.Fatalf("unexpected first snapshot %+v", first)
	}
	if first.Ships[0].Description == nil || first.TakenAt.Location() != time.UTC {
		t.Fatalf("snapshot lost fields: %+v", first)
	}
	second, err := archiver.Load(ctx, list[1].Key)
	if err != nil {
		t.Fatalf("load second: %v", err)
	}
	if len(second.Costs) != 1 || second.Costs[0].Amount != 5 {
		t.Fatalf("unexpected second snapshot costs %+v", second.Costs)
	}
}

func TestSnapshotArchiverLoadErrors(t *testing.T) {
	ctx := context.Background()
	archiver := NewSnapshotArchiver(NewInMemoryService(nil).Store(), newMemoryBlobs(t), nil)
	if _, err := archiver.Load(ctx, "snapshots/missing.json"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := archiver.Load(ctx, "elsewhere/x.json"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("keys outside the prefix are not snapshots, got %v", err)
	}
}

func TestSnapshotArchiverStoreFailure(t *testing.T) {
	archiver := NewSnapshotArchiver(failingStore{}, newMemoryBlobs(t), nil)
	if _, err := archiver.Archive(context.Background()); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}
