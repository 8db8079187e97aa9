package vdom

import (
	"fmt"
	"sync"
)

// HIDGenerator generates hydration IDs for elements.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// Reset resets the counter to 0.
func (g *HIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}

// Expand renders every component in the tree and returns a concrete copy
// containing only elements, text, fragments and raw nodes. The input tree is
// not modified, so nodes built once and reused across renders stay intact.
func Expand(node *VNode) *VNode {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case KindComponent:
		if node.Comp == nil {
			return nil
		}
		return Expand(node.Comp.Render())

	case KindElement, KindFragment:
		out := *node
		out.HID = ""
		out.Children = make([]*VNode, 0, len(node.Children))
		for _, child := range node.Children {
			if expanded := Expand(child); expanded != nil {
				out.Children = append(out.Children, expanded)
			}
		}
		return &out

	default:
		out := *node
		return &out
	}
}

// AssignHIDs walks an expanded tree and assigns an HID to every element in
// document order. The renderer writes these as data-hid so client events can
// name their target.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	Walk(node, func(n *VNode) bool {
		if n.Kind == KindElement {
			n.HID = gen.Next()
		}
		return true
	})
}

// Walk visits the tree depth-first in document order. Returning false from
// fn skips the node's children.
func Walk(node *VNode, fn func(*VNode) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// FindByHID finds a node by its HID in the tree.
func FindByHID(node *VNode, hid string) *VNode {
	path := Path(node, hid)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// Path returns the chain of nodes from root to the node with the given HID,
// inclusive. It returns nil when no node carries that HID.
func Path(root *VNode, hid string) []*VNode {
	if root == nil || hid == "" {
		return nil
	}
	if root.HID == hid {
		return []*VNode{root}
	}
	for _, child := range root.Children {
		if rest := Path(child, hid); rest != nil {
			return append([]*VNode{root}, rest...)
		}
	}
	return nil
}

// Contains reports whether the node with the given HID is node itself or one
// of its descendants. An empty HID (a click on the bare document) is never
// contained.
func Contains(node *VNode, hid string) bool {
	return Path(node, hid) != nil
}

// Collect returns every element that binds the given event prop, in
// document order.
func Collect(root *VNode, prop string) []*VNode {
	var out []*VNode
	Walk(root, func(n *VNode) bool {
		if n.Kind == KindElement && n.Handler(prop) != nil {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindByAttr returns the first element whose prop key equals value.
func FindByAttr(root *VNode, key string, value any) *VNode {
	var found *VNode
	Walk(root, func(n *VNode) bool {
		if found != nil {
			return false
		}
		if n.Kind == KindElement {
			if v, ok := n.Props[key]; ok && fmt.Sprint(v) == fmt.Sprint(value) {
				found = n
				return false
			}
		}
		return true
	})
	return found
}
