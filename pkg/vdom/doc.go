// Package vdom provides the virtual DOM used by dropdown components.
//
// The tree lives on the server. Components render to VNodes, the session
// expands nested components into a concrete tree, assigns hydration IDs to
// every element and renders HTML. Client events name their target by HID and
// are routed back to the handlers bound on that tree.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("menu"), ID("main"),
//	    Button(Text("Open"), OnClick(toggle)),
//	    OnOutsideClick(close),
//	)
//
// # Events
//
// Besides the ordinary DOM events, two document-level events are modelled as
// element props: OnOutsideClick fires for clicks whose target lies outside
// the element's subtree, and OnDocumentKeyDown receives every keydown before
// the target element does.
package vdom
