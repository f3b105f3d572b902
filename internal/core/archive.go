package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shipyard/internal/blob"
)

// SnapshotPrefix is the blob key prefix under which fleet snapshots live.
const SnapshotPrefix = "snapshots/"

// FleetSnapshot is the archived form of the whole store.
type FleetSnapshot struct {
	TakenAt   time.Time      `json:"taken_at"`
	Materials []Material     `json:"materials"`
	Ships     []Ship         `json:"ships"`
	Costs     []MaterialCost `json:"costs"`
}

// SnapshotArchiver writes consistent fleet snapshots to a blob store.
type SnapshotArchiver struct {
	store  PersistentStore
	blobs  blob.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewSnapshotArchiver returns an archiver reading from store and writing to blobs.
func NewSnapshotArchiver(store PersistentStore, blobs blob.Store, logger *zap.Logger) *SnapshotArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotArchiver{
		store:  store,
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Archive captures the current state through a read-only view and stores it
// as JSON under snapshots/<UTC timestamp>-<uuid>.json.
func (a *SnapshotArchiver) Archive(ctx context.Context) (blob.Info, error) {
	snap := FleetSnapshot{TakenAt: a.now().UTC()}
	if err := a.store.View(ctx, func(view TransactionView) error {
		snap.Materials = view.ListMaterials()
		snap.Ships = view.ListShips()
		snap.Costs = view.ListMaterialCosts()
		return nil
	}); err != nil {
		return blob.Info{}, fmt.Errorf("read fleet: %w", err)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode snapshot: %w", err)
	}
	key := SnapshotPrefix + snap.TakenAt.Format("20060102T150405Z") + "-" + a.newID() + ".json"
	info, err := a.blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"materials": strconv.Itoa(len(snap.Materials)),
			"ships":     strconv.Itoa(len(snap.Ships)),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store snapshot: %w", err)
	}
	a.logger.Info("archived fleet snapshot",
		zap.String("key", info.Key),
		zap.String("driver", string(a.blobs.Driver())),
		zap.Int64("size_bytes", info.Size))
	return info, nil
}

// List returns the archived snapshots ordered by key, oldest first.
func (a *SnapshotArchiver) List(ctx context.Context) ([]blob.Info, error) {
	infos, err := a.blobs.List(ctx, SnapshotPrefix)
	if err != nil {
		return nil, err
	}
	out := infos[:0]
	for _, info := range infos {
		if strings.HasSuffix(info.Key, ".json") {
			out = append(out, info)
		}
	}
	return out, nil
}

// Load reads back an archived snapshot.
func (a *SnapshotArchiver) Load(ctx context.Context, key string) (FleetSnapshot, error) {
	if !strings.HasPrefix(key, SnapshotPrefix) {
		return FleetSnapshot{}, fmt.Errorf("snapshot key %q: %w", key, blob.ErrNotFound)
	}
	_, rc, err := a.blobs.Get(ctx, key)
	if err != nil {
		return FleetSnapshot{}, err
	}
	defer func() { _ = rc.Close() }()
	var snap FleetSnapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return FleetSnapshot{}, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return snap, nil
}
