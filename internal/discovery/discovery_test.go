package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, paths []string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
}

func TestDiscover_RecursiveGlob(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"src/a.ts",
		"src/nested/b.ts",
		"src/nested/deeper/c.ts",
		"src/readme.md",
		"docs/d.ts",
	})

	got, err := Discover(root, "src/**/*.ts")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d: %v", len(got), got)
	}
}

func TestDiscover_PlainPattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"a.go", "b.go", "c.txt"})

	got, err := Discover(root, "*.go")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), got)
	}
}

func TestDiscover_DefaultGlobMatchesEverything(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"a.go", "sub/b.go"})

	got, err := Discover(root, "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches with default glob, got %d: %v", len(got), got)
	}
}

func TestDiscover_ResultsAreSorted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"z.go", "a.go", "m.go"})

	got, err := Discover(root, "*.go")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("expected sorted output, got %v", got)
		}
	}
}
