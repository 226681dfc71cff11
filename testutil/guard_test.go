package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeGo(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		pred ImportPredicate
		in   string
		want bool
	}{
		{InternalImportForbidden, "hrcore/internal/memo", true},
		{InternalImportForbidden, "hrcore/pkg/domain", false},
		{InfraImportForbidden, "hrcore/internal/infra/rowstore/sqlite", true},
		{InfraImportForbidden, "hrcore/internal/rowstore", false},
		{AdapterImportForbidden, "hrcore/internal/adapters/httpapi", true},
		{AdapterImportForbidden, "hrcore/internal/service", false},
	}
	for _, c := range cases {
		if got := c.pred(c.in); got != c.want {
			t.Fatalf("predicate(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestAnyOf(t *testing.T) {
	pred := AnyOf(InfraImportForbidden, AdapterImportForbidden)
	if !pred("hrcore/internal/adapters/httpapi") || !pred("hrcore/internal/infra/blob/s3") {
		t.Fatalf("expected both layers to match")
	}
	if pred("hrcore/internal/memo") {
		t.Fatalf("memo should not match")
	}
}

func TestDirectImportViolationsSkipsTests(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package tmp\nimport _ \"hrcore/internal/infra/blob/fs\"\n")
	writeGo(t, dir, "b.go", "package tmp\nimport \"fmt\"\nvar _ = fmt.Sprint\n")
	writeGo(t, dir, "a_test.go", "package tmp\nimport _ \"hrcore/internal/infra/blob/memory\"\n")
	if err := os.Mkdir(filepath.Join(dir, "sub.go"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	viols, err := DirectImportViolations(dir, InfraImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "hrcore/internal/infra/blob/fs (in a.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}
}

func TestDirectImportViolationsErrors(t *testing.T) {
	if _, err := DirectImportViolations(filepath.Join(t.TempDir(), "missing"), InfraImportForbidden); err == nil {
		t.Fatalf("expected error for missing dir")
	}
	dir := t.TempDir()
	writeGo(t, dir, "bad.go", "package")
	if _, err := DirectImportViolations(dir, InfraImportForbidden); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "x.go", "package tmp\nimport \"fmt\"\nfunc X() { fmt.Println(1) }\n")
	AssertNoDirectImports(t, dir, InternalImportForbidden, "none")
}

type recordingT struct{ msg string }

func (r *recordingT) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestFailIfViolations(t *testing.T) {
	var rt recordingT
	failIfViolations(&rt, "reason", nil)
	if rt.msg != "" {
		t.Fatalf("unexpected failure %q", rt.msg)
	}
	failIfViolations(&rt, "layering", []string{"x (in a.go)"})
	if rt.msg == "" {
		t.Fatalf("expected failure message")
	}
}
