package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStorage_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStorage(dir, "http://localhost:8080/media/")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	url, err := store.Save(context.Background(), "athletes/gallery", "a1_x.jpg", []byte("img"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "http://localhost:8080/media/athletes/gallery/a1_x.jpg" {
		t.Fatalf("unexpected url %s", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "athletes", "gallery", "a1_x.jpg"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "img" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestStorage_SaveRejectsTraversal(t *testing.T) {
	store, err := NewStorage(t.TempDir(), "http://localhost/media")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	if _, err := store.Save(context.Background(), "x", "../escape.jpg", []byte("img")); err == nil {
		t.Fatalf("expected error for slash in name")
	}

	url, err := store.Save(context.Background(), "../../etc", "a.jpg", []byte("img"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "http://localhost/media/etc/a.jpg" {
		t.Fatalf("namespace should be clamped under base dir, got %s", url)
	}
}

func TestStorage_SaveHonoursCancelledContext(t *testing.T) {
	store, err := NewStorage(t.TempDir(), "http://localhost/media")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Save(ctx, "x", "a.jpg", []byte("img")); err == nil {
		t.Fatalf("expected context error")
	}
}
