// Package tui hosts a dropdown in the terminal with bubbletea.
//
// The terminal follows the same event policy as the browser: outside
// clicks and Escape close an open dropdown, and hover opens and closes it
// when enabled.
package tui
