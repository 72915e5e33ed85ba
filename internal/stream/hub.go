package stream

import (
	"rigd/pkg/types"
)

// Hub owns the per-source controllers and resolves client-supplied source
// identifiers. Registration happens once at startup; afterwards the map is
// read-only, so lookups take no lock.
type Hub struct {
	entries map[Source]*hubEntry
}

type hubEntry struct {
	// ctl is nil when no capture tool was detected for the source; the
	// source then reports unavailable and start requests fail explicitly
	// rather than guessing a binary.
	ctl         *Controller
	backendName string
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{entries: make(map[Source]*hubEntry)}
}

// Register installs the controller for source. A nil controller registers
// the source as unavailable.
func (h *Hub) Register(source Source, ctl *Controller, backendName string) {
	h.entries[source] = &hubEntry{ctl: ctl, backendName: backendName}
}

// Start resolves sourceID and begins a session on its controller. Unknown
// sources and malformed configs fail fast, before any process is spawned.
func (h *Hub) Start(sourceID string, cfg Config, deliver DeliverFunc) error {
	e, source, err := h.resolve(sourceID)
	if err != nil {
		return err
	}
	if e.ctl == nil {
		return ErrSourceUnavailable(source)
	}
	return e.ctl.Start(cfg, deliver)
}

// Stop resolves sourceID and tears down its active session, if any.
func (h *Hub) Stop(sourceID string) error {
	e, _, err := h.resolve(sourceID)
	if err != nil {
		return err
	}
	if e.ctl != nil {
		e.ctl.Stop()
	}
	return nil
}

// StopAll tears down every active session. Used on client disconnect and at
// daemon shutdown.
func (h *Hub) StopAll() {
	for _, e := range h.entries {
		if e.ctl != nil {
			e.ctl.Stop()
		}
	}
}

// Controller returns the controller for source, when one is registered.
func (h *Hub) Controller(source Source) (*Controller, bool) {
	e, ok := h.entries[source]
	if !ok || e.ctl == nil {
		return nil, false
	}
	return e.ctl, true
}

// Status snapshots every registered source in a fixed order.
func (h *Hub) Status() []types.SourceStatus {
	out := make([]types.SourceStatus, 0, len(h.entries))
	for _, source := range []Source{SourceSDR, SourceCamera} {
		e, ok := h.entries[source]
		if !ok {
			continue
		}
		st := types.SourceStatus{
			Source:    string(source),
			State:     string(StateIdle),
			Available: e.ctl != nil,
			Backend:   e.backendName,
		}
		if e.ctl != nil {
			st.State = string(e.ctl.State())
			st.PID = e.ctl.PID()
			if cfg, ok := e.ctl.ActiveConfig(); ok {
				st.Config = cfg
			}
		}
		out = append(out, st)
	}
	return out
}

func (h *Hub) resolve(sourceID string) (*hubEntry, Source, error) {
	source, err := ParseSource(sourceID)
	if err != nil {
		return nil, "", err
	}
	e, ok := h.entries[source]
	if !ok {
		return nil, "", unknownSourceError{id: sourceID}
	}
	return e, source, nil
}
