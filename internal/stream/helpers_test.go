package stream

// Shared fixtures for the package tests.

func testCfg() SDRConfig {
	return SDRConfig{FrequencyHz: 100_000_000, SampleRateHz: 2_048_000}
}

// missingBackend points at a binary that cannot exist, to exercise spawn
// failure paths.
type missingBackend struct{}

func (missingBackend) Binary() string             { return "/nonexistent/rigd-capture-tool" }
func (missingBackend) StreamArgs(Config) []string { return nil }
func (missingBackend) ProbeArgs() []string        { return nil }
