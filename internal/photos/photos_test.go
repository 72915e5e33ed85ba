package photos

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "photos")
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(s.Dir()); err != nil || !fi.IsDir() {
		t.Fatalf("store dir missing: %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"old.jpg", "mid.jpeg", "new.jpg"} {
		p := filepath.Join(s.Dir(), name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		mt := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(p, mt, mt); err != nil {
			t.Fatal(err)
		}
	}
	// Non-photos are invisible.
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d photos, want 3", len(list))
	}
	if list[0].Name != "new.jpg" || list[2].Name != "old.jpg" {
		t.Fatalf("order = %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
	}
	if list[0].Size != 1 {
		t.Fatalf("size = %d", list[0].Size)
	}
}

func TestPathRejectsEscapes(t *testing.T) {
	s := testStore(t)
	bad := []string{
		"",
		"../../etc/passwd",
		"sub/photo.jpg",
		".hidden.jpg",
		"photo.png",
		"photo",
	}
	for _, name := range bad {
		if _, err := s.Path(name); !IsInvalidName(err) {
			t.Fatalf("name %q: expected invalid name error, got %v", name, err)
		}
	}
	p, err := s.Path("photo_20260101_120000.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(p) != s.Dir() {
		t.Fatalf("path escapes store: %q", p)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	p := filepath.Join(s.Dir(), "gone.jpg")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("gone.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatal("file still present")
	}
	if err := s.Delete("../gone.jpg"); !IsInvalidName(err) {
		t.Fatalf("traversal delete: %v", err)
	}
}

func TestNextPath(t *testing.T) {
	s := testStore(t)
	now := time.Date(2026, 8, 24, 13, 45, 9, 0, time.UTC)
	p := s.NextPath(now)
	name := filepath.Base(p)
	if name != "photo_20260824_134509.jpg" {
		t.Fatalf("name = %q", name)
	}
	if !strings.HasPrefix(p, s.Dir()) {
		t.Fatalf("path outside store: %q", p)
	}
}
