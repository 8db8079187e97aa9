package protocol

import "github.com/vango-dev/dropdown/internal/errors"

// MessageType identifies a server-to-client message.
type MessageType string

const (
	// MessageRender carries the freshly rendered root HTML.
	MessageRender MessageType = "render"

	// MessageError reports a rejected event or server-side failure.
	MessageError MessageType = "error"
)

// Message is one server-to-client JSON frame.
type Message struct {
	Type MessageType `json:"type"`

	// Seq echoes the Seq of the event that caused this message.
	Seq uint64 `json:"seq,omitempty"`

	HTML string `json:"html,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewRender creates a render message.
func NewRender(seq uint64, html string) Message {
	return Message{Type: MessageRender, Seq: seq, HTML: html}
}

// NewError creates an error message from err. Structured errors keep their
// code; anything else is reported as an internal error.
func NewError(seq uint64, err error) Message {
	e, ok := errors.As(err)
	if !ok {
		e = errors.New(errors.ErrInternal)
	}
	return Message{
		Type:    MessageError,
		Seq:     seq,
		Code:    e.Code,
		Message: e.Message,
	}
}
