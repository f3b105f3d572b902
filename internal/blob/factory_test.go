package blob

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		cfg  Config
		want Driver
	}{
		{Config{Driver: DriverMemory}, DriverMemory},
		{Config{Driver: DriverFilesystem, FSRoot: filepath.Join(t.TempDir(), "blobs")}, DriverFilesystem},
		{Config{FSRoot: filepath.Join(t.TempDir(), "default")}, DriverFilesystem},
		{Config{Driver: DriverS3, S3: S3Config{Bucket: "snapshots", Region: "eu-west-1"}}, DriverS3},
	}
	for _, tc := range cases {
		store, err := Open(ctx, tc.cfg)
		if err != nil {
			t.Fatalf("open %s: %v", tc.cfg.Driver, err)
		}
		if store.Driver() != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, store.Driver())
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "tape"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := Open(context.Background(), Config{Driver: DriverS3}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}
