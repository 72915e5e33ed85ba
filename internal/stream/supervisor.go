package stream

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"rigd/internal/log"
)

const (
	// defaultKillTimeout is the SIGTERM grace before escalating to SIGKILL.
	defaultKillTimeout = 2 * time.Second
	// chunkBufSize is the stdout read buffer; one read is one chunk.
	chunkBufSize = 32 * 1024
)

// Backend selects and parameterizes the external capture tool for one source.
// Arg builders must be pure functions of the config.
type Backend interface {
	// Binary is the executable to launch.
	Binary() string
	// StreamArgs builds the argv for a continuous capture session.
	StreamArgs(cfg Config) []string
	// ProbeArgs builds a short diagnostic invocation used only to test
	// availability; it must exit on its own when the tool is healthy.
	ProbeArgs() []string
}

// EventSink receives supervisor observations. Calls for a given OS stream
// arrive in the order the stream produced them; no ordering is guaranteed
// between stdout chunks and stderr lines.
type EventSink interface {
	OnChunk(chunk []byte)
	OnStderr(line string)
	OnExit(code int)
}

// Handle represents the supervised OS process for one active session. A
// handle is created per start request and never resurrected.
type Handle struct {
	cfg Config

	mu    sync.Mutex
	state State
	cmd   *exec.Cmd
	pid   int
	// done is closed once the exit observer has recorded the terminal state.
	done chan struct{}
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// PID returns the OS process id, or 0 before a successful spawn.
func (h *Handle) PID() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pid
}

// Config returns the immutable config the handle was started with.
func (h *Handle) Config() Config { return h.cfg }

func (h *Handle) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

func (h *Handle) forwarding() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.live()
}

// Supervisor owns spawn/monitor/terminate of at most one capture process for
// a single source. All handle-slot mutation is serialized by mu, so two
// concurrent start calls can never race into two live processes.
type Supervisor struct {
	source      Source
	backend     Backend
	killTimeout time.Duration
	log         zerolog.Logger

	mu     sync.Mutex
	handle *Handle
}

// NewSupervisor constructs a supervisor for source backed by b.
func NewSupervisor(source Source, b Backend) *Supervisor {
	return &Supervisor{
		source:      source,
		backend:     b,
		killTimeout: defaultKillTimeout,
		log:         log.WithComponent("supervisor").With().Str("source", string(source)).Logger(),
	}
}

// Start launches a capture process for cfg and registers the stdout, stderr
// and exit observers on sink. If a live handle exists it is stopped first,
// synchronously, while the handle slot stays locked: stop-then-start is
// atomic and there is no window with two live processes.
func (s *Supervisor) Start(cfg Config, sink EventSink) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked(s.handle)

	argv := s.backend.StreamArgs(cfg)
	cmd := exec.Command(s.backend.Binary(), argv...) // #nosec G204 -- argv is a pure function of validated config
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		startTotal.WithLabelValues(string(s.source), "error").Inc()
		return nil, spawnError{source: s.source, err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		startTotal.WithLabelValues(string(s.source), "error").Inc()
		return nil, spawnError{source: s.source, err: err}
	}

	h := &Handle{cfg: cfg, state: StateStarting, cmd: cmd, done: make(chan struct{})}
	if err := cmd.Start(); err != nil {
		h.setState(StateTerminated)
		close(h.done)
		startTotal.WithLabelValues(string(s.source), "error").Inc()
		s.log.Warn().Err(err).Str("binary", s.backend.Binary()).Msg("capture process failed to start")
		return nil, spawnError{source: s.source, err: err}
	}
	h.mu.Lock()
	h.pid = cmd.Process.Pid
	h.state = StateRunning
	h.mu.Unlock()
	s.handle = h

	var ioWg sync.WaitGroup
	ioWg.Add(2)
	go s.pumpStdout(h, stdout, sink, &ioWg)
	go s.pumpStderr(h, stderr, sink, &ioWg)
	go s.awaitExit(h, sink, &ioWg)

	startTotal.WithLabelValues(string(s.source), "ok").Inc()
	s.log.Info().Str("binary", s.backend.Binary()).Strs("args", argv).Int("pid", h.PID()).Msg("capture process started")
	return h, nil
}

// pumpStdout forwards stdout chunks in FIFO order while the handle is live.
// Chunks observed after stop() are dropped, never queued.
func (s *Supervisor) pumpStdout(h *Handle, r io.Reader, sink EventSink, wg *sync.WaitGroup) {
	defer wg.Done()
	buf := make([]byte, chunkBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 && h.forwarding() {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			chunksTotal.WithLabelValues(string(s.source)).Inc()
			bytesTotal.WithLabelValues(string(s.source)).Add(float64(n))
			sink.OnChunk(chunk)
		}
		if err != nil {
			return
		}
	}
}

func (s *Supervisor) pumpStderr(h *Handle, r io.Reader, sink EventSink, wg *sync.WaitGroup) {
	defer wg.Done()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if h.forwarding() {
			sink.OnStderr(line)
		}
	}
}

// awaitExit drains the I/O observers, reaps the process and records the
// terminal state. It deliberately takes no supervisor lock: Stop blocks on
// h.done while holding it.
func (s *Supervisor) awaitExit(h *Handle, sink EventSink, ioWg *sync.WaitGroup) {
	ioWg.Wait()
	err := h.cmd.Wait()
	code := exitCode(err)
	h.setState(StateTerminated)
	close(h.done)
	exitTotal.WithLabelValues(string(s.source)).Inc()
	s.log.Info().Int("pid", h.PID()).Int("exit_code", code).Msg("capture process exited")
	sink.OnExit(code)
}

// Stop terminates the handle's process and waits for exit acknowledgment.
// Idempotent: nil handles and Stopping/Terminated handles are no-ops, and a
// process that already exited never causes an error.
func (s *Supervisor) Stop(h *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(h)
}

func (s *Supervisor) stopLocked(h *Handle) {
	if h == nil {
		return
	}
	h.mu.Lock()
	switch h.state {
	case StateStopping, StateTerminated:
		h.mu.Unlock()
		return
	}
	if h.cmd == nil || h.cmd.Process == nil {
		h.state = StateTerminated
		h.mu.Unlock()
		return
	}
	h.state = StateStopping
	pid := h.pid
	h.mu.Unlock()

	signalGroup(pid, syscall.SIGTERM)
	select {
	case <-h.done:
	case <-time.After(s.killTimeout):
		s.log.Warn().Int("pid", pid).Msg("kill grace exceeded, escalating to SIGKILL")
		signalGroup(pid, syscall.SIGKILL)
		<-h.done
	}
	if s.handle == h {
		s.handle = nil
	}
}

// CheckAvailable spawns a short diagnostic invocation of the backing tool and
// reports whether it exited zero before the timeout. On timeout the probe's
// process group is killed; no orphan is left behind.
func (s *Supervisor) CheckAvailable(ctx context.Context, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.backend.Binary(), s.backend.ProbeArgs()...) // #nosec G204
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			signalGroup(cmd.Process.Pid, syscall.SIGKILL)
		}
		return nil
	}
	if err := cmd.Run(); err != nil {
		return false
	}
	return ctx.Err() == nil
}

// exitCode maps a Wait error to the child's exit code: 0 for a clean exit,
// the real code for a non-zero exit, -1 when the process died to a signal or
// could not be reaped.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
