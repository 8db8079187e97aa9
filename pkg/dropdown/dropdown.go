package dropdown

import (
	"github.com/vango-dev/dropdown/pkg/reactive"
	"github.com/vango-dev/dropdown/pkg/vdom"
)

// containerStyle positions the content relative to the container and keeps
// the open menu above surrounding page content.
const containerStyle = "position: relative; z-index: 1000"

// State is the snapshot of a dropdown handed to callbacks and descendants.
type State struct {
	Open bool
}

// String returns "open" or "closed".
func (s State) String() string {
	if s.Open {
		return "open"
	}
	return "closed"
}

// Cause names what drove a transition.
type Cause string

const (
	CauseOutsideClick Cause = "outside_click"
	CauseEscape       Cause = "escape"
	CauseHover        Cause = "hover"
	CauseClose        Cause = "close"
	CauseControls     Cause = "controls"
)

// Transition describes one actual change of the open flag.
type Transition struct {
	Cause Cause
	State State
}

// Handle is the imperative surface a parent holds on a dropdown.
type Handle interface {
	// Close forces the dropdown closed.
	Close()
}

var (
	_ Handle         = (*Dropdown)(nil)
	_ vdom.Component = (*Dropdown)(nil)
)

// Dropdown is a container that owns an open/closed flag. Outside clicks and
// Escape close it, hover opens and closes it when enabled, and descendants
// drive it through the Controls they are given.
//
// A Dropdown is not safe for concurrent use. Its handlers run on the session
// event loop; other goroutines reach it through the session's Dispatch.
type Dropdown struct {
	cfg      config
	open     *reactive.BoolSignal
	controls *controls
	watcher  *reactive.Watcher
}

// New creates a dropdown. The open flag starts at the value given by Open
// (false when omitted).
func New(opts ...Option) *Dropdown {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Dropdown{
		cfg:  cfg,
		open: reactive.NewBoolSignal(cfg.open),
	}
	d.controls = &controls{d: d}
	return d
}

// State returns the current state.
func (d *Dropdown) State() State {
	return State{Open: d.open.Get()}
}

// Controls returns the bounded set of transitions handed to descendants.
func (d *Dropdown) Controls() Controls {
	return d.controls
}

// Close forces the dropdown closed. Closing an already closed dropdown is
// not a transition and notifies nobody.
func (d *Dropdown) Close() {
	d.set(false, CauseClose)
}

// HandleOutsideClick closes the dropdown if it is open.
func (d *Dropdown) HandleOutsideClick() {
	if d.open.Get() {
		d.set(false, CauseOutsideClick)
	}
}

// HandleKeyDown closes the dropdown on Escape if it is open. Other keys are
// ignored.
func (d *Dropdown) HandleKeyDown(e vdom.KeyboardEvent) {
	if !e.IsEscape() {
		return
	}
	if d.open.Get() {
		d.set(false, CauseEscape)
	}
}

// HandleMouseEnter opens the dropdown when hover mode is enabled.
func (d *Dropdown) HandleMouseEnter() {
	if d.cfg.hoverable {
		d.set(true, CauseHover)
	}
}

// HandleMouseLeave closes the dropdown when hover mode is enabled.
func (d *Dropdown) HandleMouseLeave() {
	if d.cfg.hoverable {
		d.set(false, CauseHover)
	}
}

// Hoverable reports whether hover mode is enabled.
func (d *Dropdown) Hoverable() bool {
	return d.cfg.hoverable
}

// Mount starts delivering state to the change callback: once immediately
// with the current state, then after every transition. Render mounts the
// dropdown on first use; calling Mount again is a no-op.
func (d *Dropdown) Mount() {
	if d.watcher != nil {
		return
	}
	d.watcher = reactive.Watch(d.open.Signal, func(open bool) {
		if d.cfg.onChange != nil {
			d.cfg.onChange(State{Open: open})
		}
	})
}

// Dispose stops the change callback. The dropdown keeps working but no
// longer reports state until it is mounted again by Mount or the next
// Render, which reports the current state as on first mount.
func (d *Dropdown) Dispose() {
	d.watcher.Stop()
	d.watcher = nil
}

// Render renders the container and its children.
func (d *Dropdown) Render() *vdom.VNode {
	d.Mount()

	state := d.State()
	args := []any{
		vdom.Class(d.cfg.className),
		vdom.StyleAttr(containerStyle),
		vdom.Data("dropdown", "true"),
		vdom.Data("state", state.String()),
		vdom.OnOutsideClick(d.HandleOutsideClick),
		vdom.OnDocumentKeyDown(d.HandleKeyDown),
	}
	if d.cfg.id != "" {
		args = append(args, vdom.ID(d.cfg.id))
	}
	if d.cfg.hoverable {
		args = append(args,
			vdom.OnMouseEnter(d.HandleMouseEnter),
			vdom.OnMouseLeave(d.HandleMouseLeave),
		)
	}
	for _, child := range d.cfg.children {
		args = append(args, d.resolve(child))
	}
	return vdom.Div(args...)
}

// resolve turns a child builder into a node bound to this dropdown's
// controls. Other children pass through unchanged.
func (d *Dropdown) resolve(child any) any {
	switch c := child.(type) {
	case func(Controls) *vdom.VNode:
		return c(d.controls)
	case Child:
		return c(d.controls)
	default:
		return child
	}
}

// set is the single setter for the open flag.
func (d *Dropdown) set(open bool, cause Cause) {
	if d.open.Get() == open {
		return
	}
	d.open.Set(open)
	if d.cfg.onTransition != nil {
		d.cfg.onTransition(Transition{Cause: cause, State: State{Open: open}})
	}
}
