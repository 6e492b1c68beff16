package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreatesRoot(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "alkis")

	bucket, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer bucket.Close()

	if _, err := os.Stat(root); err != nil {
		t.Fatalf("expected output root to exist: %v", err)
	}

	if err := bucket.WriteAll(ctx, "2024_2/110-023.xml.gz", []byte("payload"), nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	// Key with a directory component lands as a real file in a subdirectory.
	data, err := os.ReadFile(filepath.Join(root, "2024_2", "110-023.xml.gz"))
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("expected 'payload', got %q", data)
	}

	exists, err := bucket.Exists(ctx, "2024_2/110-023.xml.gz")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("expected key to exist")
	}

	// No metadata sidecar next to the archive.
	entries, err := os.ReadDir(filepath.Join(root, "2024_2"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, got %d", len(entries))
	}
}

func TestOpenForPlanMissingRoot(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "does-not-exist")

	bucket, err := OpenForPlan(root)
	if err != nil {
		t.Fatalf("OpenForPlan: %v", err)
	}
	defer bucket.Close()

	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("expected OpenForPlan to leave the filesystem untouched")
	}

	exists, err := bucket.Exists(ctx, "anything")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected empty plan bucket")
	}
}

func TestOpenForPlanExistingRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "110-023.xml.gz"), []byte("x"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	bucket, err := OpenForPlan(root)
	if err != nil {
		t.Fatalf("OpenForPlan: %v", err)
	}
	defer bucket.Close()

	exists, err := bucket.Exists(ctx, "110-023.xml.gz")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("expected seeded file to be visible to the plan bucket")
	}
}
