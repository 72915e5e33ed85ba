package stream

// State is the lifecycle state of a supervised capture process.
// Transitions: idle -> starting -> running -> stopping -> terminated.
// Terminated is absorbing; a new start always creates a fresh handle.
type State string

const (
	StateIdle       State = "idle"
	StateStarting   State = "starting"
	StateRunning    State = "running"
	StateStopping   State = "stopping"
	StateTerminated State = "terminated"
)

// live reports whether a process in this state may still forward output.
// Chunks observed outside a live state are dropped, never queued.
func (s State) live() bool {
	return s == StateStarting || s == StateRunning
}
