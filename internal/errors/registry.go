package errors

// Registered error codes.
const (
	// Protocol errors (E100-E199)
	ErrInvalidEvent   = "E101"
	ErrUnknownEvent   = "E102"
	ErrUnknownTarget  = "E103"
	ErrMalformedFrame = "E104"

	// Session errors (E200-E299)
	ErrQueueFull     = "E201"
	ErrSessionClosed = "E202"
	ErrHandlerPanic  = "E203"

	// Config errors (E300-E399)
	ErrInvalidConfig = "E301"

	// Internal errors (E900)
	ErrInternal = "E900"
)

// template defines a registered error type.
type template struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]template{
	ErrInvalidEvent: {
		Category: CategoryProtocol,
		Message:  "Invalid event",
	},
	ErrUnknownEvent: {
		Category: CategoryProtocol,
		Message:  "Unknown event type",
	},
	ErrUnknownTarget: {
		Category: CategoryProtocol,
		Message:  "Unknown event target",
	},
	ErrMalformedFrame: {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
	},
	ErrQueueFull: {
		Category: CategorySession,
		Message:  "Event queue full",
	},
	ErrSessionClosed: {
		Category: CategorySession,
		Message:  "Session closed",
	},
	ErrHandlerPanic: {
		Category: CategoryRuntime,
		Message:  "Event handler panicked",
	},
	ErrInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	ErrInternal: {
		Category: CategoryRuntime,
		Message:  "Internal error",
	},
}
