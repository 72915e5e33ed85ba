package stream

import "testing"

func TestParseSource(t *testing.T) {
	if s, err := ParseSource("sdr"); err != nil || s != SourceSDR {
		t.Fatalf("sdr: %v %v", s, err)
	}
	if s, err := ParseSource("camera"); err != nil || s != SourceCamera {
		t.Fatalf("camera: %v %v", s, err)
	}
	if _, err := ParseSource("microphone"); !IsUnknownSource(err) {
		t.Fatalf("expected unknown source error, got %v", err)
	}
}

func TestHubUnknownSource(t *testing.T) {
	h := NewHub()
	if err := h.Start("bogus", testCfg(), func(Message) {}); !IsUnknownSource(err) {
		t.Fatalf("start: %v", err)
	}
	if err := h.Stop("bogus"); !IsUnknownSource(err) {
		t.Fatalf("stop: %v", err)
	}
	// Valid identifier, but nothing registered under it.
	if err := h.Start("sdr", testCfg(), func(Message) {}); !IsUnknownSource(err) {
		t.Fatalf("unregistered start: %v", err)
	}
}

func TestHubUnavailableSource(t *testing.T) {
	h := NewHub()
	h.Register(SourceSDR, nil, "")

	err := h.Start("sdr", testCfg(), func(Message) {})
	if !IsSourceUnavailable(err) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	// Stopping an unavailable source is a harmless no-op.
	if err := h.Stop("sdr"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, ok := h.Controller(SourceSDR); ok {
		t.Fatal("controller lookup must fail for unavailable source")
	}
}

func TestHubStatusOrderAndAvailability(t *testing.T) {
	h := NewHub()
	h.Register(SourceCamera, nil, "")
	h.Register(SourceSDR, NewController(SourceSDR, NewSupervisor(SourceSDR, missingBackend{})), "rtl_sdr")

	st := h.Status()
	if len(st) != 2 {
		t.Fatalf("got %d entries", len(st))
	}
	// Registration order does not matter; sdr always reports first.
	if st[0].Source != "sdr" || st[1].Source != "camera" {
		t.Fatalf("order = %s, %s", st[0].Source, st[1].Source)
	}
	if !st[0].Available || st[0].Backend != "rtl_sdr" || st[0].State != string(StateIdle) {
		t.Fatalf("sdr status = %+v", st[0])
	}
	if st[1].Available || st[1].Backend != "" {
		t.Fatalf("camera status = %+v", st[1])
	}
}
