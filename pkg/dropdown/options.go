package dropdown

import "github.com/vango-dev/dropdown/pkg/vdom"

// Child builds a node from the dropdown's controls. It is called on every
// render, so it always sees the current state.
type Child func(Controls) *vdom.VNode

// Option configures a Dropdown.
type Option func(*config)

type config struct {
	open         bool
	className    string
	id           string
	hoverable    bool
	children     []any
	onChange     func(State)
	onTransition func(Transition)
}

func defaultConfig() config {
	return config{}
}

// Open sets the initial open flag.
func Open(open bool) Option {
	return func(c *config) {
		c.open = open
	}
}

// Class adds CSS classes to the container.
func Class(className string) Option {
	return func(c *config) {
		c.className = className
	}
}

// ID sets the container id. The content element gets "<id>-content" and the
// trigger references it through aria-controls.
func ID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}

// Hoverable makes the open flag follow the pointer: entering the container
// opens it and leaving closes it.
func Hoverable(hoverable bool) Option {
	return func(c *config) {
		c.hoverable = hoverable
	}
}

// Children sets the container's children. Each child may be a *vdom.VNode,
// a string, a vdom.Component, a Child or a func(Controls) *vdom.VNode.
func Children(children ...any) Option {
	return func(c *config) {
		c.children = append(c.children, children...)
	}
}

// OnChange sets the change callback. It receives the state once when the
// dropdown mounts and then once after every transition.
func OnChange(handler func(State)) Option {
	return func(c *config) {
		c.onChange = handler
	}
}

// OnTransition sets an observer that is told the cause of each transition.
func OnTransition(handler func(Transition)) Option {
	return func(c *config) {
		c.onTransition = handler
	}
}
