// Package vtest provides testing helpers for components.
//
// # Harness
//
// Mount runs a component inside an in-process session so tests can send the
// same events a browser would and assert on the re-rendered HTML:
//
//	func TestMenuClosesOnEscape(t *testing.T) {
//	    h := vtest.Mount(t, dropdown.New(dropdown.Open(true)))
//	    h.KeyDown("Escape")
//	    h.ExpectContains(`data-state="closed"`)
//	}
//
// HIDs are reassigned on every render. Look elements up with Find after
// each event rather than holding on to an HID:
//
//	h.Click(h.Find("data-dropdown-trigger", "true"))
//
// # Render Assertions
//
// Assert on rendered HTML output of a single node:
//
//	vtest.ExpectContains(t, d.Render(), `data-dropdown="true"`)
//	vtest.ExpectNotContains(t, d.Render(), `role="menu"`)
package vtest
