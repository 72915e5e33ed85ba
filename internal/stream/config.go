package stream

import "fmt"

// Source identifies one independently supervised capture pipeline.
type Source string

const (
	SourceSDR    Source = "sdr"
	SourceCamera Source = "camera"
)

// ParseSource resolves a client-supplied source identifier. Unknown
// identifiers are programming/protocol errors and fail fast.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceSDR:
		return SourceSDR, nil
	case SourceCamera:
		return SourceCamera, nil
	}
	return "", unknownSourceError{id: s}
}

// Config is an immutable per-session parameter set. Implementations are plain
// value types; they are passed by value into the supervisor and transformer
// and never mutated after a session starts.
type Config interface {
	Source() Source
	Validate() error
}

// SDRConfig parameterizes one radio sampling session.
type SDRConfig struct {
	// Center frequency in Hz.
	FrequencyHz int `json:"frequency"`
	// Sample rate in Hz.
	SampleRateHz int `json:"sampleRate"`
	// Tuner gain in dB; 0 means auto gain.
	GainDB float64 `json:"gain,omitempty"`
}

func (SDRConfig) Source() Source { return SourceSDR }

func (c SDRConfig) Validate() error {
	if c.FrequencyHz <= 0 {
		return invalidConfigError{msg: fmt.Sprintf("frequency must be positive, got %d", c.FrequencyHz)}
	}
	if c.SampleRateHz <= 0 {
		return invalidConfigError{msg: fmt.Sprintf("sample rate must be positive, got %d", c.SampleRateHz)}
	}
	if c.GainDB < 0 {
		return invalidConfigError{msg: fmt.Sprintf("gain must be >= 0 (0 = auto), got %g", c.GainDB)}
	}
	return nil
}

// CameraConfig parameterizes one camera streaming session. The console uses
// fixed defaults; the struct exists so the transformer and arg builders take
// explicit parameters rather than capturing state.
type CameraConfig struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	Quality    int `json:"quality"`    // JPEG quality 1..100
	IntervalMs int `json:"intervalMs"` // delay between frames
}

func (CameraConfig) Source() Source { return SourceCamera }

func (c CameraConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return invalidConfigError{msg: fmt.Sprintf("resolution must be positive, got %dx%d", c.Width, c.Height)}
	}
	if c.Quality < 1 || c.Quality > 100 {
		return invalidConfigError{msg: fmt.Sprintf("quality must be in 1..100, got %d", c.Quality)}
	}
	if c.IntervalMs < 0 {
		return invalidConfigError{msg: fmt.Sprintf("interval must be >= 0, got %d", c.IntervalMs)}
	}
	return nil
}

// DefaultCameraConfig returns the fixed streaming parameters used by the
// console.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{Width: 1280, Height: 720, Quality: 85, IntervalMs: 500}
}
