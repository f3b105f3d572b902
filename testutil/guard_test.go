package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImportPredicates(t *testing.T) {
	cases := []struct {
		in          string
		internal    bool
		persistence bool
	}{
		{"shipyard/internal/core", true, false},
		{"shipyard/internal/infra/persistence/sqlite", true, true},
		{"shipyard/pkg/domain", false, false},
	}
	for _, c := range cases {
		if got := InternalImportForbidden(c.in); got != c.internal {
			t.Fatalf("InternalImportForbidden(%q)=%v want %v", c.in, got, c.internal)
		}
		if got := PersistenceImportForbidden(c.in); got != c.persistence {
			t.Fatalf("PersistenceImportForbidden(%q)=%v want %v", c.in, got, c.persistence)
		}
	}
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, _ ...any) { r.msg = format }

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("x.go", "package tmp\nimport _ \"shipyard/internal/core\"\n")
	write("x_test.go", "package tmp\nimport _ \"shipyard/internal/infra/persistence/memory\"\n")

	viols, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.Contains(viols[0], "x.go") {
		t.Fatalf("expected one violation from x.go, got %v", viols)
	}

	var rec recordingFatal
	failIfDirectViolations(&rec, "boundary", viols)
	if rec.msg == "" {
		t.Fatalf("expected failure to be reported")
	}
	AssertNoDirectImports(t, dir, PersistenceImportForbidden, "test files are skipped")
}

func TestDirectImportViolationsMissingDir(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "absent"), InternalImportForbidden); err == nil {
		t.Fatalf("expected read error")
	}
}
