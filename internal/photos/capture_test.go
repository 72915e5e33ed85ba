//go:build unix

package photos

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rigd/internal/backend"
)

func fakeStill(t *testing.T, script string) *backend.Camera {
	t.Helper()
	p := filepath.Join(t.TempDir(), "fakestill")
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	cam, err := backend.DetectCamera(p)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	return cam
}

const writeScript = `#!/bin/sh
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then printf jpegdata > "$a"; exit 0; fi
  prev="$a"
done
exit 1
`

func TestCaptureWritesStill(t *testing.T) {
	store := testStore(t)
	c := NewCapturer(fakeStill(t, writeScript), store)

	path, err := c.Capture(context.Background(), 0, 0, 0)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if !strings.HasPrefix(path, store.Dir()) {
		t.Fatalf("path outside store: %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "jpegdata" {
		t.Fatalf("content = %q", b)
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("store lists %d photos", len(list))
	}
}

const failScript = `#!/bin/sh
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then printf partial > "$a"; fi
  prev="$a"
done
echo "sensor fault" >&2
exit 1
`

func TestCaptureFailureLeavesNoPartialFile(t *testing.T) {
	store := testStore(t)
	c := NewCapturer(fakeStill(t, failScript), store)

	if _, err := c.Capture(context.Background(), 640, 480, 80); err == nil {
		t.Fatal("expected capture error")
	}
	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("partial file left behind: %+v", list)
	}
}
