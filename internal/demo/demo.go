// Package demo builds the page served by "dropdown serve".
package demo

import (
	"github.com/vango-dev/dropdown/pkg/dropdown"
	"github.com/vango-dev/dropdown/pkg/reactive"
	"github.com/vango-dev/dropdown/pkg/server"
	"github.com/vango-dev/dropdown/pkg/vdom"
)

// MenuID is the dropdown's id and its close target name.
const MenuID = "actions"

// Items are the menu entries.
var Items = []string{"Rename", "Duplicate", "Archive", "Delete"}

// Styles is the demo stylesheet.
const Styles = `body { font-family: system-ui, sans-serif; margin: 3rem; }
.demo-trigger { padding: .5rem 1rem; border: 1px solid #888; border-radius: 4px; background: #fff; cursor: pointer; }
.demo-menu { min-width: 10rem; margin-top: .25rem; padding: .25rem 0; border: 1px solid #888; border-radius: 4px; background: #fff; box-shadow: 0 4px 12px rgba(0,0,0,.15); }
[role=menuitem] { padding: .4rem 1rem; cursor: pointer; }
[role=menuitem]:hover { background: #eef; }`

// Options configures the demo page.
type Options struct {
	Open      bool
	Hoverable bool
	Class     string
}

// Page returns a PageFunc that builds one demo page per session. Every
// transition is counted in the session's metrics and logged.
func Page(opts Options) server.PageFunc {
	return func(s *server.Session) server.Page {
		selected := reactive.NewSignal("")

		d := dropdown.New(
			dropdown.ID(MenuID),
			dropdown.Class(opts.Class),
			dropdown.Open(opts.Open),
			dropdown.Hoverable(opts.Hoverable),
			dropdown.OnChange(func(st dropdown.State) {
				s.Logger().Debug("dropdown state", "state", st.String())
			}),
			dropdown.OnTransition(func(tr dropdown.Transition) {
				s.Metrics().RecordTransition(string(tr.Cause), tr.State.String())
				s.Logger().Info("dropdown transition", "cause", tr.Cause, "state", tr.State.String())
			}),
			dropdown.Children(
				dropdown.Child(func(c dropdown.Controls) *vdom.VNode {
					return dropdown.Trigger(c, vdom.Class("demo-trigger"), "Actions")
				}),
				dropdown.Child(func(c dropdown.Controls) *vdom.VNode {
					items := make([]any, 0, len(Items)+1)
					items = append(items, vdom.Class("demo-menu"))
					for _, label := range Items {
						label := label
						items = append(items, dropdown.Item(c, label, func() { selected.Set(label) }))
					}
					return dropdown.Content(c, items...)
				}),
			),
		)

		root := vdom.Func(func() *vdom.VNode {
			choice := selected.Get()
			if choice == "" {
				choice = "nothing"
			}
			return vdom.Main(
				vdom.H1("Dropdown"),
				vdom.P("Click outside the menu or press Escape to close it."),
				d,
				vdom.P(vdom.ID("selection"), vdom.Textf("Selected: %s", choice)),
			)
		})

		return server.Page{
			Root:    root,
			Targets: map[string]server.Closer{MenuID: d},
			OnClose: d.Dispose,
		}
	}
}
