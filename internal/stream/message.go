package stream

import (
	"time"

	"rigd/pkg/types"
)

// Message is one client-deliverable unit. Structured messages marshal to the
// JSON wire form in types.OutputMessage; camera frames additionally carry the
// opaque binary payload, which transports deliver as-is.
type Message struct {
	types.OutputMessage
	// Frame is the raw camera image. When set, transports send the bytes
	// directly instead of the JSON form.
	Frame []byte
}

// DeliverFunc receives messages bound for one connected client. It must not
// block; a slow consumer is the transport's problem, not the capture path's.
type DeliverFunc func(Message)

func statusMessage(text string) Message {
	return Message{OutputMessage: types.OutputMessage{Type: types.MessageStatus, Text: text}}
}

func errorMessage(text string) Message {
	return Message{OutputMessage: types.OutputMessage{Type: types.MessageError, Text: text}}
}

func unixMilli(t time.Time) int64 { return t.UnixNano() / int64(time.Millisecond) }
