package protocol

import (
	"fmt"

	"github.com/vango-dev/dropdown/internal/errors"
)

// EventType identifies the type of client event.
type EventType string

const (
	EventClick      EventType = "click"
	EventKeyDown    EventType = "keydown"
	EventMouseEnter EventType = "mouseenter"
	EventMouseLeave EventType = "mouseleave"

	// EventClose asks the server to close the named component through its
	// imperative handle.
	EventClose EventType = "close"
)

// String returns the wire name of the event type.
func (et EventType) String() string {
	return string(et)
}

// Prop returns the VNode prop that binds handlers for this event type.
func (et EventType) Prop() string {
	return "on" + string(et)
}

// Event is one client event. The browser sends it as a JSON text frame.
type Event struct {
	// Seq is a client-side counter echoed in the render reply.
	Seq uint64 `json:"seq,omitempty"`

	Type EventType `json:"type"`

	// HID names the target element. Empty for clicks and keys on the bare
	// document.
	HID string `json:"hid,omitempty"`

	// Target names the component an EventClose is addressed to.
	Target string `json:"target,omitempty"`

	Key       string `json:"key,omitempty"`
	Code      string `json:"code,omitempty"`
	Modifiers uint8  `json:"mods,omitempty"`
	ClientX   int    `json:"x,omitempty"`
	ClientY   int    `json:"y,omitempty"`
}

// Validate rejects events the dispatcher cannot route.
func (e *Event) Validate() error {
	switch e.Type {
	case EventClick, EventKeyDown:
		return nil
	case EventMouseEnter, EventMouseLeave:
		if e.HID == "" {
			return errors.New(errors.ErrInvalidEvent).
				WithDetail(fmt.Sprintf("%s event has no target hid", e.Type))
		}
		return nil
	case EventClose:
		if e.Target == "" {
			return errors.New(errors.ErrInvalidEvent).
				WithDetail("close event has no target")
		}
		return nil
	case "":
		return errors.New(errors.ErrInvalidEvent).WithDetail("missing event type")
	default:
		return errors.New(errors.ErrUnknownEvent).
			WithDetail(fmt.Sprintf("unknown event type %q", e.Type))
	}
}
