package types

// Sample is one decoded I/Q pair with its precomputed magnitude.
type Sample struct {
	// In-phase component in [-1, 1].
	I float64 `json:"i"`
	// Quadrature component in [-1, 1].
	Q float64 `json:"q"`
	// sqrt(i^2 + q^2).
	Magnitude float64 `json:"magnitude"`
}

// ChunkStats summarizes one decoded chunk. Averages cover every decoded
// sample, not just the delivered prefix.
type ChunkStats struct {
	AvgMagnitude  float64 `json:"avgMagnitude"`
	MaxMagnitude  float64 `json:"maxMagnitude"`
	BytesReceived int     `json:"bytesReceived"`
}

// Message kinds delivered to a connected client.
const (
	MessageData   = "data"
	MessageStatus = "status"
	MessageError  = "error"
)

// OutputMessage is the tagged wire variant pushed over the websocket.
// Data fields are only populated when Type == "data".
type OutputMessage struct {
	Type string `json:"type"`
	// Status/Error text.
	Text string `json:"message,omitempty"`
	// Capture timestamp in unix milliseconds.
	Timestamp int64 `json:"timestamp,omitempty"`
	// Echoed session parameters.
	Frequency  int `json:"frequency,omitempty"`
	SampleRate int `json:"sampleRate,omitempty"`
	// Number of samples decoded from the chunk (may exceed len(Samples)).
	NumSamples int         `json:"numSamples,omitempty"`
	Samples    []Sample    `json:"samples,omitempty"`
	Stats      *ChunkStats `json:"stats,omitempty"`
}

// SourceStatus summarizes one capture source for GET /api/status.
type SourceStatus struct {
	// Source identifier: "sdr" or "camera".
	Source string `json:"source"`
	// Lifecycle state: idle, starting, running, stopping, terminated.
	State string `json:"state"`
	// Process ID of the capture tool (0 when no process).
	PID int `json:"pid,omitempty"`
	// Whether the backing capture tool was detected on this host.
	Available bool `json:"available"`
	// Name of the selected capture binary, when detected.
	Backend string `json:"backend,omitempty"`
	// Parameters of the active session, echoed back while one exists.
	Config any `json:"config,omitempty"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Sources []SourceStatus `json:"sources"`
	// Daemon uptime in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// PhotoInfo describes one stored photo for GET /api/photos.
type PhotoInfo struct {
	Name string `json:"name"`
	// Size in bytes.
	Size int64 `json:"size"`
	// Modification time in unix seconds.
	ModifiedUnix int64 `json:"modified_unix"`
}

// PhotosResponse wraps the photo listing.
type PhotosResponse struct {
	Photos []PhotoInfo `json:"photos"`
}

// SnapshotRequest is the body of POST /api/camera/snapshot.
type SnapshotRequest struct {
	Width   int `json:"width,omitempty"`
	Height  int `json:"height,omitempty"`
	Quality int `json:"quality,omitempty"`
}

// SnapshotResponse reports a completed still capture.
type SnapshotResponse struct {
	Path string `json:"path"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// HostStats is a point-in-time host snapshot for the operator console.
type HostStats struct {
	UptimeSeconds int64   `json:"uptime_seconds"`
	Load1         float64 `json:"load1"`
	Load5         float64 `json:"load5"`
	Load15        float64 `json:"load15"`
	MemTotalKB    uint64  `json:"mem_total_kb"`
	MemAvailKB    uint64  `json:"mem_available_kb"`
	DiskTotalMB   uint64  `json:"disk_total_mb"`
	DiskFreeMB    uint64  `json:"disk_free_mb"`
	// SoC temperature in degrees Celsius; omitted when no thermal zone is
	// exposed (typical on dev machines).
	CPUTempC *float64 `json:"cpu_temp_c,omitempty"`
}
