// Package photos manages still captures in a fixed directory: listing,
// deletion and path allocation for new snapshots.
package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rigd/pkg/types"
)

// invalidNameError rejects photo names that are not plain jpeg filenames
// inside the store directory.
type invalidNameError struct{ name string }

func (e invalidNameError) Error() string { return "invalid photo name: " + e.name }

// IsInvalidName reports whether err indicates a rejected photo name.
func IsInvalidName(err error) bool {
	_, ok := err.(invalidNameError)
	return ok
}

// Store is rooted at one directory; all operations stay inside it.
type Store struct {
	dir string
}

// NewStore creates the photo directory if needed.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil { // #nosec G301
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &Store{dir: abs}, nil
}

// Dir returns the store root.
func (s *Store) Dir() string { return s.dir }

// List returns stored photos, newest first.
func (s *Store) List() ([]types.PhotoInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read photo dir: %w", err)
	}
	var out []types.PhotoInfo
	for _, e := range entries {
		if e.IsDir() || !isJPEGName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, types.PhotoInfo{
			Name:         e.Name(),
			Size:         info.Size(),
			ModifiedUnix: info.ModTime().Unix(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedUnix > out[j].ModifiedUnix })
	return out, nil
}

// Path validates name and returns its absolute path inside the store.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || !isJPEGName(name) {
		return "", invalidNameError{name: name}
	}
	return filepath.Join(s.dir, name), nil
}

// Delete removes one stored photo by name.
func (s *Store) Delete(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// NextPath allocates a timestamped path for a new capture.
func (s *Store) NextPath(now time.Time) string {
	return filepath.Join(s.dir, "photo_"+now.Format("20060102_150405")+".jpg")
}

func isJPEGName(name string) bool {
	low := strings.ToLower(name)
	return strings.HasSuffix(low, ".jpg") || strings.HasSuffix(low, ".jpeg")
}
