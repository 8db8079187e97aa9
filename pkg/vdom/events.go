package vdom

// Event prop names recognised by the session dispatcher.
const (
	PropClick           = "onclick"
	PropKeyDown         = "onkeydown"
	PropMouseEnter      = "onmouseenter"
	PropMouseLeave      = "onmouseleave"
	PropOutsideClick    = "onoutsideclick"
	PropDocumentKeyDown = "ondocumentkeydown"
)

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events. Clicks bubble from the target to its ancestors.
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnKeyDown handles keydown events targeted at the element or its descendants.
func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }

// OnMouseEnter handles mouseenter events. They do not bubble.
func OnMouseEnter(handler any) EventHandler { return event("mouseenter", handler) }

// OnMouseLeave handles mouseleave events. They do not bubble.
func OnMouseLeave(handler any) EventHandler { return event("mouseleave", handler) }

// OnOutsideClick handles clicks anywhere in the document whose target is not
// the element itself or one of its descendants.
func OnOutsideClick(handler any) EventHandler { return event("outsideclick", handler) }

// OnDocumentKeyDown handles every keydown in the document, before the
// target's own keydown handlers run.
func OnDocumentKeyDown(handler any) EventHandler { return event("documentkeydown", handler) }

// Modifiers represents keyboard/mouse modifier keys.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 0x01
	ModShift Modifiers = 0x02
	ModAlt   Modifiers = 0x04
	ModMeta  Modifiers = 0x08
)

// Has returns true if the specified modifier is set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// KeyboardEvent is the payload passed to keyboard handlers.
type KeyboardEvent struct {
	Key       string // Logical key (e.g. "Escape", "a")
	Code      string // Physical key code (e.g. "Escape", "KeyA")
	Modifiers Modifiers
}

// IsEscape reports whether the event is the Escape key.
func (e KeyboardEvent) IsEscape() bool {
	return e.Code == "Escape" || e.Key == "Escape"
}

// MouseEvent is the payload passed to mouse handlers.
type MouseEvent struct {
	TargetHID string
	ClientX   int
	ClientY   int
	Modifiers Modifiers
}
