package photos

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"rigd/internal/backend"
	"rigd/internal/log"
)

// Default still parameters used when a snapshot request omits them.
const (
	DefaultWidth   = 1920
	DefaultHeight  = 1080
	DefaultQuality = 93

	captureTimeout = 15 * time.Second
)

// Capturer runs one-shot still captures into the store using the detected
// camera still tool.
type Capturer struct {
	cam   *backend.Camera
	store *Store
	log   zerolog.Logger
}

// NewCapturer binds the camera backend to the photo store.
func NewCapturer(cam *backend.Camera, store *Store) *Capturer {
	return &Capturer{cam: cam, store: store, log: log.WithComponent("photos")}
}

// Capture takes a still with the given parameters (zero values use defaults)
// and returns the output path. The capture tool gets a hard deadline; a
// failed run leaves no partial file behind.
func (c *Capturer) Capture(ctx context.Context, width, height, quality int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	path := c.store.NextPath(time.Now())
	args := c.cam.SnapshotArgs(path, width, height, quality)

	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, c.cam.StillBinary(), args...) // #nosec G204
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(path)
		tail := string(out)
		if len(tail) > 512 {
			tail = tail[len(tail)-512:]
		}
		c.log.Warn().Err(err).Str("output", tail).Msg("still capture failed")
		return "", fmt.Errorf("capture: %w", err)
	}
	c.log.Info().Str("path", path).Int("width", width).Int("height", height).Msg("still captured")
	return path, nil
}
