package vtest

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/dropdown/pkg/protocol"
	"github.com/vango-dev/dropdown/pkg/render"
	"github.com/vango-dev/dropdown/pkg/server"
	"github.com/vango-dev/dropdown/pkg/vdom"
)

// Harness drives a mounted page through an in-process session. Events go
// through the same routing as a live connection; no socket is involved.
type Harness struct {
	t       testing.TB
	session *server.Session
	html    string
}

// Mount mounts root as a page with no close targets.
//
// Example:
//
//	h := vtest.Mount(t, dropdown.New(dropdown.Open(true)))
//	h.ClickOutside()
//	h.ExpectContains(`data-state="closed"`)
func Mount(t testing.TB, root vdom.Component) *Harness {
	t.Helper()
	return MountPage(t, func(*server.Session) server.Page {
		return server.Page{Root: root}
	})
}

// MountPage mounts a full page, including close targets.
func MountPage(t testing.TB, build server.PageFunc) *Harness {
	t.Helper()
	h := &Harness{t: t}
	h.session = server.NewSession(build, server.WithSender(h.receive))
	t.Cleanup(h.session.Close)

	html, err := h.session.Render()
	if err != nil {
		t.Fatalf("vtest: initial render failed: %v", err)
	}
	h.html = html
	return h
}

func (h *Harness) receive(msg protocol.Message) error {
	if msg.Type == protocol.MessageRender {
		h.html = msg.HTML
	}
	return nil
}

// Session returns the underlying session.
func (h *Harness) Session() *server.Session {
	return h.session
}

// HTML returns the most recent render.
func (h *Harness) HTML() string {
	return h.html
}

// Send delivers a raw event and returns the session's error, if any.
func (h *Harness) Send(ev protocol.Event) error {
	return h.session.HandleEvent(context.Background(), &ev)
}

func (h *Harness) must(ev protocol.Event) *Harness {
	h.t.Helper()
	if err := h.Send(ev); err != nil {
		h.t.Fatalf("vtest: %s event failed: %v", ev.Type, err)
	}
	return h
}

// Click clicks the element with the given HID.
func (h *Harness) Click(hid string) *Harness {
	h.t.Helper()
	return h.must(protocol.Event{Type: protocol.EventClick, HID: hid})
}

// ClickOutside clicks the bare document, outside every element.
func (h *Harness) ClickOutside() *Harness {
	h.t.Helper()
	return h.must(protocol.Event{Type: protocol.EventClick})
}

// KeyDown presses key with focus on the document body.
func (h *Harness) KeyDown(key string) *Harness {
	h.t.Helper()
	return h.must(protocol.Event{Type: protocol.EventKeyDown, Key: key, Code: key})
}

// MouseEnter moves the pointer into the element with the given HID.
func (h *Harness) MouseEnter(hid string) *Harness {
	h.t.Helper()
	return h.must(protocol.Event{Type: protocol.EventMouseEnter, HID: hid})
}

// MouseLeave moves the pointer out of the element with the given HID.
func (h *Harness) MouseLeave(hid string) *Harness {
	h.t.Helper()
	return h.must(protocol.Event{Type: protocol.EventMouseLeave, HID: hid})
}

// Close sends a close event to the named target.
func (h *Harness) Close(target string) *Harness {
	h.t.Helper()
	return h.must(protocol.Event{Type: protocol.EventClose, Target: target})
}

// Do runs fn on the session as a handler would and re-renders.
func (h *Harness) Do(fn func()) *Harness {
	h.t.Helper()
	if err := h.session.Run(fn); err != nil {
		h.t.Fatalf("vtest: Do failed: %v", err)
	}
	return h
}

// Find returns the HID of the first element whose attribute key equals
// value. It fails the test when there is none.
func (h *Harness) Find(key, value string) string {
	h.t.Helper()
	n := vdom.FindByAttr(h.session.Tree(), key, value)
	if n == nil {
		h.t.Fatalf("vtest: no element with %s=%q in:\n%s", key, value, truncate(h.html, 500))
		return ""
	}
	return n.HID
}

// Has reports whether an element with attribute key equal to value is
// currently rendered.
func (h *Harness) Has(key, value string) bool {
	return vdom.FindByAttr(h.session.Tree(), key, value) != nil
}

// ExpectContains asserts that the latest render contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if !strings.Contains(h.html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(h.html, 500))
	}
}

// ExpectNotContains asserts that the latest render does not contain
// unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if strings.Contains(h.html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(h.html, 500))
	}
}

// RenderToString renders a node to HTML without HIDs. It returns "" if
// rendering fails.
//
// Example:
//
//	html := vtest.RenderToString(dropdown.Trigger(c, "Menu"))
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{OmitHIDs: true})
	html, err := r.RenderToString(vdom.Expand(node))
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, d.Render(), `data-state="open"`)
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
