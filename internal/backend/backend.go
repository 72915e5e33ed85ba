// Package backend selects the external capture tools rigd supervises and
// builds their argument lists. Which tool is installed is a deployment
// concern: Detect* probes the PATH in priority order and reports an explicit
// unavailable error when nothing is found, so the daemon never guesses.
package backend

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"rigd/internal/stream"
)

// DetectSDR resolves the radio sampling tool. override, when non-empty,
// names the binary to use instead of searching the PATH.
func DetectSDR(override string) (*SDR, error) {
	bin, err := lookup(override, "rtl_sdr")
	if err != nil {
		return nil, stream.ErrSourceUnavailable(stream.SourceSDR)
	}
	return &SDR{bin: bin}, nil
}

// DetectCamera resolves the camera tool pair (video streamer + still
// capture). libcamera is preferred; the legacy raspi tools are the fallback.
func DetectCamera(override string) (*Camera, error) {
	if override != "" {
		bin, err := lookup(override, "")
		if err != nil {
			return nil, stream.ErrSourceUnavailable(stream.SourceCamera)
		}
		return &Camera{videoBin: bin, stillBin: bin}, nil
	}
	for _, pair := range [][2]string{
		{"libcamera-vid", "libcamera-still"},
		{"raspivid", "raspistill"},
	} {
		video, err := exec.LookPath(pair[0])
		if err != nil {
			continue
		}
		still, err := exec.LookPath(pair[1])
		if err != nil {
			still = video
		}
		return &Camera{videoBin: video, stillBin: still}, nil
	}
	return nil, stream.ErrSourceUnavailable(stream.SourceCamera)
}

// isLegacyRaspi distinguishes the raspivid/raspistill flag dialect from the
// libcamera one.
func isLegacyRaspi(bin string) bool {
	return strings.HasPrefix(filepath.Base(bin), "raspi")
}

func lookup(override, fallback string) (string, error) {
	name := override
	if name == "" {
		name = fallback
	}
	return exec.LookPath(name)
}

// SDR drives rtl_sdr, writing raw interleaved unsigned 8-bit I/Q pairs to
// stdout.
type SDR struct {
	bin string
}

func (s *SDR) Binary() string { return s.bin }

// StreamArgs is a pure function of the config:
//
//	rtl_sdr -f <frequency> -s <sampleRate> [-g <gain>] -
//
// A gain of 0 selects the tuner's auto gain and the flag is omitted.
func (s *SDR) StreamArgs(cfg stream.Config) []string {
	c, ok := cfg.(stream.SDRConfig)
	if !ok {
		return nil
	}
	args := []string{
		"-f", fmt.Sprint(c.FrequencyHz),
		"-s", fmt.Sprint(c.SampleRateHz),
	}
	if c.GainDB > 0 {
		args = append(args, "-g", fmt.Sprintf("%g", c.GainDB))
	}
	return append(args, "-")
}

// ProbeArgs reads a handful of samples and exits, exercising the real tuner
// path without producing a stream.
func (s *SDR) ProbeArgs() []string {
	return []string{"-f", "100000000", "-s", "2048000", "-n", "4096", "-"}
}

// Camera drives a libcamera/raspi video tool for MJPEG streaming plus the
// matching still tool for on-demand snapshots.
type Camera struct {
	videoBin string
	stillBin string
}

func (c *Camera) Binary() string { return c.videoBin }

// StillBinary is the tool used for one-shot snapshot captures.
func (c *Camera) StillBinary() string { return c.stillBin }

// StreamArgs builds a continuous MJPEG-to-stdout invocation from the config.
func (c *Camera) StreamArgs(cfg stream.Config) []string {
	cc, ok := cfg.(stream.CameraConfig)
	if !ok {
		return nil
	}
	fps := 30
	if cc.IntervalMs > 0 {
		fps = 1000 / cc.IntervalMs
		if fps < 1 {
			fps = 1
		}
	}
	if isLegacyRaspi(c.videoBin) {
		return []string{
			"-t", "0", "-n",
			"-cd", "MJPEG",
			"-w", fmt.Sprint(cc.Width),
			"-h", fmt.Sprint(cc.Height),
			"-fps", fmt.Sprint(fps),
			"-o", "-",
		}
	}
	return []string{
		"-t", "0", "-n",
		"--codec", "mjpeg",
		"--width", fmt.Sprint(cc.Width),
		"--height", fmt.Sprint(cc.Height),
		"--framerate", fmt.Sprint(fps),
		"-q", fmt.Sprint(cc.Quality),
		"-o", "-",
	}
}

// ProbeArgs performs a minimal real capture to the null device, so a present
// but broken camera fails the probe.
func (c *Camera) ProbeArgs() []string {
	if isLegacyRaspi(c.videoBin) {
		return []string{"-t", "1", "-n", "-o", "/dev/null"}
	}
	return []string{"-t", "1", "-n", "--codec", "mjpeg", "-o", "/dev/null"}
}

// SnapshotArgs builds a one-shot still capture to path.
func (c *Camera) SnapshotArgs(path string, width, height, quality int) []string {
	if isLegacyRaspi(c.stillBin) {
		return []string{
			"-n", "-t", "1",
			"-w", fmt.Sprint(width),
			"-h", fmt.Sprint(height),
			"-q", fmt.Sprint(quality),
			"-o", path,
		}
	}
	return []string{
		"-n", "-t", "1",
		"--width", fmt.Sprint(width),
		"--height", fmt.Sprint(height),
		"-q", fmt.Sprint(quality),
		"-o", path,
	}
}
