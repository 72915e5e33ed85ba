//go:build unix

package stream

import (
	"strings"
	"sync"
	"testing"
	"time"

	"rigd/pkg/types"
)

// collector is a DeliverFunc that records every message it receives.
type collector struct {
	mu   sync.Mutex
	msgs []Message
}

func (c *collector) deliver(msg Message) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func (c *collector) snapshot() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newSDRController(script string) *Controller {
	return NewController(SourceSDR, NewSupervisor(SourceSDR, scriptBackend{stream: script}))
}

func TestStartRejectsBadInput(t *testing.T) {
	ctl := newSDRController("exit 0")
	col := &collector{}

	cases := []struct {
		name string
		cfg  Config
		fn   DeliverFunc
	}{
		{"nil config", nil, col.deliver},
		{"wrong source", DefaultCameraConfig(), col.deliver},
		{"invalid config", SDRConfig{FrequencyHz: -1, SampleRateHz: 1}, col.deliver},
		{"nil deliver", testCfg(), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ctl.Start(tc.cfg, tc.fn)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsInvalidConfig(err) {
				t.Fatalf("error %v is not a config validation error", err)
			}
		})
	}
	if col.count() != 0 {
		t.Fatal("validation failures must not deliver messages")
	}
	if ctl.State() != StateIdle {
		t.Fatalf("state = %s, want idle", ctl.State())
	}
}

func TestSpawnFailureDeliversErrorMessage(t *testing.T) {
	ctl := NewController(SourceSDR, NewSupervisor(SourceSDR, missingBackend{}))
	col := &collector{}

	// Spawn failures are reported in-band, not as a call error.
	if err := ctl.Start(testCfg(), col.deliver); err != nil {
		t.Fatalf("start returned %v, want nil", err)
	}
	msgs := col.snapshot()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Type != types.MessageError {
		t.Fatalf("message type = %q, want error", msgs[0].Type)
	}
	if ctl.State() != StateIdle {
		t.Fatalf("state = %s, want idle", ctl.State())
	}

	// No retry: nothing further arrives.
	time.Sleep(50 * time.Millisecond)
	if col.count() != 1 {
		t.Fatal("spawn failure was retried")
	}
}

func TestExitProducesStatusMessage(t *testing.T) {
	ctl := newSDRController("exit 7")
	col := &collector{}
	if err := ctl.Start(testCfg(), col.deliver); err != nil {
		t.Fatalf("start: %v", err)
	}

	waitFor(t, "exit status message", func() bool {
		for _, m := range col.snapshot() {
			if m.Type == types.MessageStatus && m.Text == "Process stopped (exit code: 7)" {
				return true
			}
		}
		return false
	})
}

func TestDataMessagesCarryDecodedSamples(t *testing.T) {
	// Two full-scale bytes make exactly one decodable pair.
	ctl := newSDRController(`printf '\377\000'; sleep 30`)
	col := &collector{}
	cfg := testCfg()
	if err := ctl.Start(cfg, col.deliver); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer ctl.Stop()

	var data Message
	waitFor(t, "data message", func() bool {
		for _, m := range col.snapshot() {
			if m.Type == types.MessageData {
				data = m
				return true
			}
		}
		return false
	})
	if data.NumSamples != 1 || len(data.Samples) != 1 {
		t.Fatalf("numSamples = %d, payload = %d", data.NumSamples, len(data.Samples))
	}
	if data.Frequency != cfg.FrequencyHz || data.SampleRate != cfg.SampleRateHz {
		t.Fatalf("session params not echoed: %+v", data.OutputMessage)
	}
	if got, ok := ctl.ActiveConfig(); !ok || got.(SDRConfig) != cfg {
		t.Fatalf("active config = %v, %v", got, ok)
	}
}

func TestStopSilencesDelivery(t *testing.T) {
	ctl := newSDRController("while :; do printf x; sleep 0.02; done")
	col := &collector{}
	if err := ctl.Start(testCfg(), col.deliver); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, "first data message", func() bool { return col.count() > 0 })

	ctl.Stop()
	n := col.count()
	time.Sleep(100 * time.Millisecond)
	if got := col.count(); got != n {
		t.Fatalf("messages kept arriving after stop: %d -> %d", n, got)
	}

	// The terminal status is also suppressed; a stopped session is silent.
	for _, m := range col.snapshot() {
		if strings.HasPrefix(m.Text, "Process stopped") {
			t.Fatalf("exit status leaked to a stopped session: %q", m.Text)
		}
	}
	if ctl.State() != StateIdle {
		t.Fatalf("state = %s, want idle", ctl.State())
	}
}

func TestStartReplacesActiveSession(t *testing.T) {
	ctl := newSDRController("while :; do printf x; sleep 0.02; done")
	first, second := &collector{}, &collector{}

	if err := ctl.Start(testCfg(), first.deliver); err != nil {
		t.Fatalf("first start: %v", err)
	}
	waitFor(t, "first session data", func() bool { return first.count() > 0 })

	if err := ctl.Start(testCfg(), second.deliver); err != nil {
		t.Fatalf("second start: %v", err)
	}
	defer ctl.Stop()

	n := first.count()
	waitFor(t, "second session data", func() bool { return second.count() > 0 })
	if got := first.count(); got != n {
		t.Fatalf("superseded session still receiving: %d -> %d", n, got)
	}
}

func TestCameraSessionCachesFrame(t *testing.T) {
	ctl := NewController(SourceCamera, NewSupervisor(SourceCamera, scriptBackend{
		stream: "printf frame; sleep 30",
	}))
	col := &collector{}
	if err := ctl.Start(DefaultCameraConfig(), col.deliver); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer ctl.Stop()

	waitFor(t, "cached frame", func() bool {
		_, ok := ctl.CurrentFrame()
		return ok
	})
	frame, _ := ctl.CurrentFrame()
	if string(frame) != "frame" {
		t.Fatalf("frame = %q", frame)
	}

	var data Message
	waitFor(t, "binary data message", func() bool {
		for _, m := range col.snapshot() {
			if m.Frame != nil {
				data = m
				return true
			}
		}
		return false
	})
	if string(data.Frame) != "frame" {
		t.Fatalf("delivered frame = %q", data.Frame)
	}
}
