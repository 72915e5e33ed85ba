package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"rigd/internal/stream"
	"rigd/pkg/types"
)

const (
	// wsOutboundDepth bounds the per-client delivery queue. A browser that
	// cannot keep up loses frames; it must never stall the capture path.
	wsOutboundDepth = 64

	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsCommand is the client -> server control message.
type wsCommand struct {
	Action     string  `json:"action"`
	Frequency  int     `json:"frequency,omitempty"`
	SampleRate int     `json:"sampleRate,omitempty"`
	Gain       float64 `json:"gain,omitempty"`
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the response.
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	c := &wsClient{
		conn: conn,
		hub:  s.deps.Hub,
		out:  make(chan stream.Message, wsOutboundDepth),
		done: make(chan struct{}),
		log:  s.log.With().Str("remote", r.RemoteAddr).Logger(),
	}
	c.run()
}

// wsClient binds one websocket connection to the stream hub. The connection
// is the session: when it goes away, for any reason, every active capture is
// stopped.
type wsClient struct {
	conn *websocket.Conn
	hub  *stream.Hub
	out  chan stream.Message
	done chan struct{}
	log  zerolog.Logger
}

func (c *wsClient) run() {
	go c.writeLoop()
	c.readLoop()

	// Reader is gone: guarantee teardown before releasing the writer.
	c.hub.StopAll()
	close(c.done)
	_ = c.conn.Close()
}

// deliver is handed to the controllers as the session DeliverFunc. It must
// not block, so overflow drops the message and counts it.
func (c *wsClient) deliver(msg stream.Message) {
	select {
	case c.out <- msg:
	default:
		wsDroppedFrames.Inc()
	}
}

func (c *wsClient) readLoop() {
	c.conn.SetReadLimit(wsReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var cmd wsCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
		c.handleCommand(cmd)
	}
}

func (c *wsClient) handleCommand(cmd wsCommand) {
	var err error
	switch cmd.Action {
	case "start_sdr":
		cfg := stream.SDRConfig{
			FrequencyHz:  cmd.Frequency,
			SampleRateHz: cmd.SampleRate,
			GainDB:       cmd.Gain,
		}
		err = c.hub.Start(string(stream.SourceSDR), cfg, c.deliver)
	case "stop_sdr":
		err = c.hub.Stop(string(stream.SourceSDR))
	case "start_camera":
		err = c.hub.Start(string(stream.SourceCamera), stream.DefaultCameraConfig(), c.deliver)
	case "stop_camera":
		err = c.hub.Stop(string(stream.SourceCamera))
	default:
		c.sendError("unknown action: " + cmd.Action)
		return
	}
	if err != nil {
		// Validation and availability failures; spawn failures already
		// arrive through deliver.
		c.sendError(err.Error())
	}
}

func (c *wsClient) sendError(text string) {
	c.deliver(stream.Message{OutputMessage: types.OutputMessage{
		Type: types.MessageError,
		Text: text,
	}})
}

func (c *wsClient) writeLoop() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			var err error
			if msg.Frame != nil {
				// Camera frames go out as opaque binary messages.
				err = c.conn.WriteMessage(websocket.BinaryMessage, msg.Frame)
			} else {
				err = c.conn.WriteJSON(msg.OutputMessage)
			}
			if err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
