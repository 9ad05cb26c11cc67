package batch

import "testing"

func TestInitialPartition_Sizes(t *testing.T) {
	files := make([]string, 10)
	for i := range files {
		files[i] = "file"
	}

	ids := &IDGenerator{}
	batches, err := InitialPartition(files, 4, ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{3, 3, 3, 1}
	if len(batches) != len(want) {
		t.Fatalf("expected %d batches, got %d", len(want), len(batches))
	}
	for i, b := range batches {
		if len(b.Files) != want[i] {
			t.Errorf("batch %d: expected %d files, got %d", i, want[i], len(b.Files))
		}
	}
}

func TestInitialPartition_Empty(t *testing.T) {
	ids := &IDGenerator{}
	if _, err := InitialPartition(nil, 4, ids); err == nil {
		t.Fatal("expected error for empty file list")
	}
}

func TestInitialPartition_DefaultDivisor(t *testing.T) {
	files := []string{"a", "b", "c"}
	ids := &IDGenerator{}
	batches, err := InitialPartition(files, 0, ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) == 0 {
		t.Fatal("expected at least one batch")
	}
}

func TestBisect_Soundness(t *testing.T) {
	ids := &IDGenerator{}
	parent := &Batch{ID: ids.Next(), Files: []string{"a", "b", "c", "d", "e"}, Retries: 1}

	left, right, err := Bisect(parent, ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(left.Files)+len(right.Files) != len(parent.Files) {
		t.Fatalf("file count mismatch: %d + %d != %d", len(left.Files), len(right.Files), len(parent.Files))
	}

	got := append(append([]string{}, left.Files...), right.Files...)
	for i, f := range got {
		if f != parent.Files[i] {
			t.Fatalf("order mismatch at %d: got %q want %q", i, f, parent.Files[i])
		}
	}

	if left.Retries != 2 || right.Retries != 2 {
		t.Errorf("expected retries 2 on both children, got %d and %d", left.Retries, right.Retries)
	}
	if left.ID == right.ID {
		t.Error("expected distinct ids for the two children")
	}
}

func TestBisect_SingleFileUnsupported(t *testing.T) {
	ids := &IDGenerator{}
	single := &Batch{ID: ids.Next(), Files: []string{"only.go"}}
	if _, _, err := Bisect(single, ids); err == nil {
		t.Fatal("expected error bisecting a single-file batch")
	}
}

func TestIDGenerator_Monotonic(t *testing.T) {
	ids := &IDGenerator{}
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id := ids.Next()
		if seen[id] {
			t.Fatalf("id %d reused", id)
		}
		seen[id] = true
	}
}
