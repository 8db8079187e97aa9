// Package dropdown provides a dropdown container component.
//
// A Dropdown owns a single open/closed flag. The flag changes only through
// one setter, driven by:
//
//   - a click outside the container (closes, if open)
//   - the Escape key (closes, if open)
//   - pointer enter/leave, when Hoverable is set (opens/closes regardless of
//     the current state)
//   - Close on the Dropdown, which a parent holds as a Handle
//   - the Controls handed to descendants (Open, Close, Toggle)
//
// OnChange receives the state once on mount and once after each transition.
// Writes that leave the flag unchanged are not transitions.
//
// Descendants do not get the state cell. Children built with a
// func(Controls) *vdom.VNode receive a read-only snapshot and the three
// transitions, which is also what Trigger, Content and Item take:
//
//	menu := dropdown.New(
//	    dropdown.Hoverable(false),
//	    dropdown.OnChange(func(s dropdown.State) { log.Println(s) }),
//	    dropdown.Children(
//	        func(c dropdown.Controls) *vdom.VNode {
//	            return dropdown.Trigger(c, "Options")
//	        },
//	        func(c dropdown.Controls) *vdom.VNode {
//	            return dropdown.Content(c,
//	                dropdown.Item(c, "Rename", rename),
//	                dropdown.Item(c, "Delete", remove),
//	            )
//	        },
//	    ),
//	)
//	menu.Close()
package dropdown
