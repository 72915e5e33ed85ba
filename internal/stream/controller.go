package stream

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rigd/internal/log"
)

// Controller is the per-source façade binding one client's delivery callback
// to the supervisor and transformer. It enforces the single-active-session
// policy: starting a new session silently supersedes and tears down any prior
// one for the source.
type Controller struct {
	source Source
	sup    *Supervisor
	log    zerolog.Logger

	mu     sync.Mutex
	sess   *session
	handle *Handle

	// Most recent camera frame, retained for the pull-style CurrentFrame
	// query. Unused for the SDR source.
	frameMu sync.RWMutex
	frame   []byte
}

// NewController constructs a controller for source on top of sup.
func NewController(source Source, sup *Supervisor) *Controller {
	return &Controller{
		source: source,
		sup:    sup,
		log:    log.WithComponent("controller").With().Str("source", string(source)).Logger(),
	}
}

// Source returns the source this controller owns.
func (c *Controller) Source() Source { return c.source }

// Start begins a capture session for cfg, wiring transformed output and
// lifecycle status/error messages to deliver. An already-active session is
// stopped first (replace, not queue). Only validation failures return an
// error; spawn failures surface through deliver as an error message and are
// never retried.
func (c *Controller) Start(cfg Config, deliver DeliverFunc) error {
	if cfg == nil {
		return invalidConfigError{msg: "nil config"}
	}
	if cfg.Source() != c.source {
		return invalidConfigError{msg: fmt.Sprintf("config targets %s, controller owns %s", cfg.Source(), c.source)}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if deliver == nil {
		return invalidConfigError{msg: "nil delivery callback"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	sess := &session{ctrl: c, cfg: cfg, deliver: deliver}
	h, err := c.sup.Start(cfg, sess)
	if err != nil {
		c.log.Warn().Err(err).Msg("session start failed")
		sess.send(errorMessage(err.Error()))
		sess.close()
		return nil
	}
	c.sess, c.handle = sess, h
	return nil
}

// Stop tears down the active session. The delivery callback is cleared
// before the process is signalled, so once Stop returns no late-arriving
// chunk or status can reach it. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.sess != nil {
		c.sess.close()
	}
	c.sup.Stop(c.handle)
	c.sess, c.handle = nil, nil
}

// State reports the lifecycle state of the active handle, or idle when no
// session exists.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return StateIdle
	}
	return c.handle.State()
}

// ActiveConfig returns the config of the active session, if any.
func (c *Controller) ActiveConfig() (Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil, false
	}
	return c.handle.Config(), true
}

// PID reports the pid of the active capture process, or 0.
func (c *Controller) PID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return 0
	}
	return c.handle.PID()
}

// CurrentFrame returns a copy of the most recent camera frame, if any.
func (c *Controller) CurrentFrame() ([]byte, bool) {
	c.frameMu.RLock()
	defer c.frameMu.RUnlock()
	if c.frame == nil {
		return nil, false
	}
	out := make([]byte, len(c.frame))
	copy(out, c.frame)
	return out, true
}

func (c *Controller) setFrame(b []byte) {
	c.frameMu.Lock()
	c.frame = b
	c.frameMu.Unlock()
}

// session serializes delivery for one client. close() flips a flag under the
// same lock delivery takes, so after close returns nothing further reaches
// the callback, even for events already in flight.
type session struct {
	ctrl *Controller
	cfg  Config

	mu      sync.Mutex
	closed  bool
	deliver DeliverFunc
}

func (s *session) send(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.deliver == nil {
		return
	}
	s.deliver(msg)
}

func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.deliver = nil
	s.mu.Unlock()
}

// OnChunk transforms one raw chunk into a data message. Called from the
// supervisor's stdout observer, so chunk order is the OS delivery order.
func (s *session) OnChunk(chunk []byte) {
	switch cfg := s.cfg.(type) {
	case SDRConfig:
		s.send(DecodeIQ(chunk, cfg, time.Now()))
	case CameraConfig:
		s.ctrl.setFrame(chunk)
		s.send(CameraFrame(chunk, time.Now()))
	}
}

func (s *session) OnStderr(line string) {
	s.send(statusMessage(line))
}

func (s *session) OnExit(code int) {
	s.send(statusMessage(fmt.Sprintf("Process stopped (exit code: %d)", code)))
}
