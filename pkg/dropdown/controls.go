package dropdown

// Controls is what descendants of a dropdown may do with it: read a snapshot
// and request one of three transitions. The underlying state cell stays
// private to the Dropdown.
type Controls interface {
	// State returns a snapshot of the current state.
	State() State
	// Open opens the dropdown.
	Open()
	// Close closes the dropdown.
	Close()
	// Toggle flips the open flag.
	Toggle()
	// ContentID is the id of the content element, or "" when the dropdown
	// has no id.
	ContentID() string
}

type controls struct {
	d *Dropdown
}

func (c *controls) State() State {
	return c.d.State()
}

func (c *controls) Open() {
	c.d.set(true, CauseControls)
}

func (c *controls) Close() {
	c.d.set(false, CauseControls)
}

func (c *controls) Toggle() {
	c.d.set(!c.d.open.Get(), CauseControls)
}

func (c *controls) ContentID() string {
	if c.d.cfg.id == "" {
		return ""
	}
	return c.d.cfg.id + "-content"
}
