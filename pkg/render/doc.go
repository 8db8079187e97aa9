// Package render converts VNode trees into HTML.
//
// Output is deterministic: attributes are written in sorted order, text and
// attribute values are escaped, boolean attributes follow HTML rules and
// event handlers are not rendered. Instead every bound handler leaves a
// data-on-<event> marker and every element that carries a hydration ID gets
// data-hid, which is how the thin client knows which events to report and
// how to name their targets.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
package render
