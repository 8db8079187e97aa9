package vtest_test

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/dropdown/internal/errors"
	"github.com/vango-dev/dropdown/pkg/protocol"
	"github.com/vango-dev/dropdown/pkg/server"
	"github.com/vango-dev/dropdown/pkg/vdom"
	"github.com/vango-dev/dropdown/pkg/vtest"
)

type counter struct {
	n int
}

func (c *counter) Render() *vdom.VNode {
	return vdom.Div(vdom.ID("counter"),
		vdom.Button(vdom.ID("inc"), vdom.OnClick(func() { c.n++ }), "+"),
		vdom.Textf("%d", c.n),
	)
}

func TestMountRendersInitialHTML(t *testing.T) {
	h := vtest.Mount(t, &counter{})

	h.ExpectContains(`id="counter"`)
	h.ExpectContains(`data-hid="h1"`)
	h.ExpectContains(">0</div>")
	h.ExpectNotContains("data-state")
}

func TestClickRerenders(t *testing.T) {
	c := &counter{}
	h := vtest.Mount(t, c)

	h.Click(h.Find("id", "inc")).Click(h.Find("id", "inc"))

	if c.n != 2 {
		t.Errorf("n = %d, want 2", c.n)
	}
	h.ExpectContains(">2</div>")
}

func TestDoRerenders(t *testing.T) {
	c := &counter{}
	h := vtest.Mount(t, c)

	h.Do(func() { c.n = 7 })
	h.ExpectContains(">7</div>")
}

func TestHas(t *testing.T) {
	h := vtest.Mount(t, &counter{})

	if !h.Has("id", "inc") {
		t.Error("Has(id, inc) = false")
	}
	if h.Has("id", "dec") {
		t.Error("Has(id, dec) = true")
	}
}

func TestSendReturnsErrors(t *testing.T) {
	h := vtest.Mount(t, &counter{})

	err := h.Send(protocol.Event{Type: protocol.EventMouseEnter, HID: "h42"})
	if !stderrors.Is(err, errors.New(errors.ErrUnknownTarget)) {
		t.Errorf("Send error = %v", err)
	}
}

type closer struct{ closed bool }

func (c *closer) Close() { c.closed = true }

func TestMountPageCloseTarget(t *testing.T) {
	target := &closer{}
	h := vtest.MountPage(t, func(*server.Session) server.Page {
		return server.Page{
			Root:    &counter{},
			Targets: map[string]server.Closer{"panel": target},
		}
	})

	h.Close("panel")
	if !target.closed {
		t.Error("close event did not reach target")
	}
}

func TestRenderAssertions(t *testing.T) {
	node := vdom.Div(vdom.Class("menu"), vdom.Span("Item"))

	vtest.ExpectContains(t, node, "<span>Item</span>")
	vtest.ExpectNotContains(t, node, "data-hid")
	vtest.ExpectAttribute(t, node, "class", "menu")
}
