package demo_test

import (
	"testing"

	"github.com/vango-dev/dropdown/internal/demo"
	"github.com/vango-dev/dropdown/pkg/vtest"
)

func TestSelectItem(t *testing.T) {
	h := vtest.MountPage(t, demo.Page(demo.Options{}))
	h.ExpectContains("Selected: nothing")

	h.Click(h.Find("data-dropdown-trigger", "true"))
	for _, label := range demo.Items {
		if !h.Has("data-dropdown-item", label) {
			t.Errorf("item %q not rendered", label)
		}
	}

	h.Click(h.Find("data-dropdown-item", "Archive"))
	h.ExpectContains("Selected: Archive")
	h.ExpectNotContains(`role="menu"`)
}

func TestCloseTarget(t *testing.T) {
	h := vtest.MountPage(t, demo.Page(demo.Options{Open: true}))
	h.ExpectContains(`role="menu"`)

	h.Close(demo.MenuID)
	h.ExpectNotContains(`role="menu"`)
}

func TestHoverableOption(t *testing.T) {
	h := vtest.MountPage(t, demo.Page(demo.Options{Hoverable: true, Class: "wide"}))
	h.ExpectContains(`class="wide"`)

	h.MouseEnter(h.Find("data-dropdown", "true"))
	h.ExpectContains(`data-state="open"`)
}
