package stream

import (
	"math"
	"time"

	"rigd/pkg/types"
)

const (
	// MaxDecodedSamples caps how many I/Q pairs are decoded from a single
	// chunk. Excess trailing bytes are ignored; a chunk is the unit of
	// decoding and nothing is buffered for the next one.
	MaxDecodedSamples = 1024
	// MaxPayloadSamples caps how many decoded samples a data message carries.
	// Statistics still cover every decoded sample.
	MaxPayloadSamples = 256
)

// DecodeIQ converts one raw rtl_sdr stdout chunk into a data message. The
// chunk is interleaved unsigned 8-bit (I, Q) pairs; each byte b maps to
// (b-127.5)/127.5, so samples land in [-1, 1]. Pure function of its inputs.
func DecodeIQ(chunk []byte, cfg SDRConfig, now time.Time) Message {
	n := len(chunk) / 2
	if n > MaxDecodedSamples {
		n = MaxDecodedSamples
	}

	samples := make([]types.Sample, n)
	var sum, max float64
	for i := 0; i < n; i++ {
		re := (float64(chunk[2*i]) - 127.5) / 127.5
		im := (float64(chunk[2*i+1]) - 127.5) / 127.5
		mag := math.Sqrt(re*re + im*im)
		samples[i] = types.Sample{I: re, Q: im, Magnitude: mag}
		sum += mag
		if mag > max {
			max = mag
		}
	}

	stats := &types.ChunkStats{BytesReceived: len(chunk)}
	if n > 0 {
		// n == 0 stays all-zero; never divide by zero, never NaN.
		stats.AvgMagnitude = sum / float64(n)
		stats.MaxMagnitude = max
	}

	payload := samples
	if len(payload) > MaxPayloadSamples {
		payload = payload[:MaxPayloadSamples]
	}

	return Message{OutputMessage: types.OutputMessage{
		Type:       types.MessageData,
		Timestamp:  unixMilli(now),
		Frequency:  cfg.FrequencyHz,
		SampleRate: cfg.SampleRateHz,
		NumSamples: n,
		Samples:    payload,
		Stats:      stats,
	}}
}

// CameraFrame wraps one opaque camera chunk as a data message. No decoding;
// the transform is identity on the payload.
func CameraFrame(chunk []byte, now time.Time) Message {
	return Message{
		OutputMessage: types.OutputMessage{Type: types.MessageData, Timestamp: unixMilli(now)},
		Frame:         chunk,
	}
}
