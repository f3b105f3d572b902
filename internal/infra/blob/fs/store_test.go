package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"shipyard/internal/blob/core"
)

func TestStorePutGetListDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blobs")
	store, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.Driver() != core.DriverFilesystem || store.Root() != root {
		t.Fatalf("unexpected store %s %s", store.Driver(), store.Root())
	}
	ctx := context.Background()
	info, err := store.Put(ctx, "snapshots/one.json", bytes.NewReader([]byte("hello")), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"ships": "1"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 5 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "snapshots/one.json", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists error, got %v", err)
	}

	got, rc, err := store.Get(ctx, "snapshots/one.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "hello" || got.ContentType != "application/json" || got.Metadata["ships"] != "1" {
		t.Fatalf("unexpected blob %q %+v", body, got)
	}

	if _, err := store.Put(ctx, "other/two", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put other: %v", err)
	}
	list, err := store.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "snapshots/one.json" {
		t.Fatalf("unexpected list %+v", list)
	}

	if ok, err := store.Delete(ctx, "snapshots/one.json"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "snapshots/one.json"); err != nil || ok {
		t.Fatalf("second delete should report missing")
	}
	if _, _, err := store.Get(ctx, "snapshots/one.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	for _, key := range []string{"", "  ", "/abs", "../escape", "a/../../b", "x.meta"} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
	if got, err := sanitizeKey("snapshots//a.json"); err != nil || got != "snapshots/a.json" {
		t.Fatalf("unexpected clean key %q %v", got, err)
	}
}

func TestGetCorruptMeta(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), "k.meta"), []byte("{"), 0o600); err != nil {
		t.Fatalf("corrupt meta: %v", err)
	}
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := store.List(ctx, ""); err == nil {
		t.Fatalf("expected list decode error")
	}
}
