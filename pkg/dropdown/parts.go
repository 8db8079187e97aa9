package dropdown

import "github.com/vango-dev/dropdown/pkg/vdom"

const contentStyle = "position: absolute; top: 100%; left: 0"

// Trigger renders the button that toggles the dropdown.
func Trigger(c Controls, args ...any) *vdom.VNode {
	attrs := []any{
		vdom.Type("button"),
		vdom.AriaHasPopup("menu"),
		vdom.AriaExpanded(c.State().Open),
		vdom.Data("dropdown-trigger", "true"),
		vdom.OnClick(c.Toggle),
	}
	if id := c.ContentID(); id != "" {
		attrs = append(attrs, vdom.AriaControls(id))
	}
	return vdom.Button(append(attrs, args...)...)
}

// Content renders the menu body. It renders nothing while the dropdown is
// closed.
func Content(c Controls, args ...any) *vdom.VNode {
	state := c.State()
	if !state.Open {
		return nil
	}
	attrs := []any{
		vdom.Role("menu"),
		vdom.StyleAttr(contentStyle),
		vdom.Data("dropdown-content", "true"),
		vdom.Data("state", state.String()),
	}
	if id := c.ContentID(); id != "" {
		attrs = append(attrs, vdom.ID(id))
	}
	return vdom.Div(append(attrs, args...)...)
}

// Item renders a menu item. Selecting it runs onSelect and then closes the
// dropdown.
func Item(c Controls, label string, onSelect func(), args ...any) *vdom.VNode {
	attrs := []any{
		vdom.Role("menuitem"),
		vdom.Data("dropdown-item", label),
		vdom.OnClick(func() {
			if onSelect != nil {
				onSelect()
			}
			c.Close()
		}),
		label,
	}
	return vdom.Div(append(attrs, args...)...)
}
