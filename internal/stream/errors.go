package stream

// spawnError signals that the capture executable could not be launched
// (missing binary, exec refused). Never retried automatically.
type spawnError struct {
	source Source
	err    error
}

func (e spawnError) Error() string { return "spawn " + string(e.source) + ": " + e.err.Error() }
func (e spawnError) Unwrap() error { return e.err }

// IsSpawnError reports whether err indicates a failed process launch.
func IsSpawnError(err error) bool {
	_, ok := err.(spawnError)
	return ok
}

// invalidConfigError signals a malformed session config. These fail fast at
// the controller boundary, before any process is spawned.
type invalidConfigError struct{ msg string }

func (e invalidConfigError) Error() string { return "invalid config: " + e.msg }

// IsInvalidConfig reports whether err indicates a malformed session config.
func IsInvalidConfig(err error) bool {
	_, ok := err.(invalidConfigError)
	return ok
}

// unknownSourceError signals a source identifier outside sdr/camera.
type unknownSourceError struct{ id string }

func (e unknownSourceError) Error() string { return "unknown source: " + e.id }

// IsUnknownSource reports whether err indicates an unrecognized source id.
func IsUnknownSource(err error) bool {
	_, ok := err.(unknownSourceError)
	return ok
}

// sourceUnavailableError signals that no capture tool was detected for the
// source at startup. The daemon reports it explicitly instead of guessing a
// binary name.
type sourceUnavailableError struct{ source Source }

func (e sourceUnavailableError) Error() string {
	return "source unavailable: no capture tool detected for " + string(e.source)
}

// ErrSourceUnavailable constructs a sourceUnavailableError.
func ErrSourceUnavailable(source Source) error { return sourceUnavailableError{source: source} }

// IsSourceUnavailable reports whether err indicates a missing capture tool.
func IsSourceUnavailable(err error) bool {
	_, ok := err.(sourceUnavailableError)
	return ok
}
