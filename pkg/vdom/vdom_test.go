package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCreateElementArgs(t *testing.T) {
	clicked := false
	node := Div(
		nil,
		Class("a", "", "b"),
		Class("c"),
		ID("x"),
		Key("k1"),
		OnClick(func() { clicked = true }),
		"hello",
		Span(),
		[]*VNode{nil, P()},
		[]any{Data("state", "open"), Li()},
	)

	if node.Tag != "div" || node.Kind != KindElement {
		t.Fatalf("unexpected node %v %q", node.Kind, node.Tag)
	}
	if got := node.Props["class"]; got != "a b c" {
		t.Errorf("class = %v, want %q", got, "a b c")
	}
	if node.Key != "k1" {
		t.Errorf("Key = %q, want k1", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}
	if got := node.Props["data-state"]; got != "open" {
		t.Errorf("data-state = %v", got)
	}
	if len(node.Children) != 4 {
		t.Fatalf("children = %d, want 4", len(node.Children))
	}
	if node.Children[0].Kind != KindText || node.Children[0].Text != "hello" {
		t.Errorf("first child should be text, got %+v", node.Children[0])
	}
	if !node.IsInteractive() {
		t.Error("node with onclick should be interactive")
	}
	node.Handler(PropClick).(func())()
	if !clicked {
		t.Error("handler not stored under onclick")
	}
}

func TestClassEmpty(t *testing.T) {
	if a := Class("", ""); !a.IsEmpty() {
		t.Errorf("Class of empty strings should be empty, got %+v", a)
	}
	node := Div(Class(""))
	if _, ok := node.Props["class"]; ok {
		t.Error("empty class should not be set")
	}
}

func TestFragmentDropsAttributes(t *testing.T) {
	f := Fragment(ID("ignored"), "a", Span())
	if f.Props != nil {
		t.Errorf("fragment props = %v, want nil", f.Props)
	}
	if len(f.Children) != 2 {
		t.Errorf("children = %d, want 2", len(f.Children))
	}
}

func TestIfWhen(t *testing.T) {
	n := Span()
	if If(false, n) != nil || If(true, n) != n {
		t.Error("If returned wrong node")
	}
	called := false
	if When(false, func() *VNode { called = true; return n }) != nil || called {
		t.Error("When evaluated a false branch")
	}
	if When(true, func() *VNode { return n }) != n {
		t.Error("When(true) returned wrong node")
	}
}

func TestExpandRendersComponents(t *testing.T) {
	renders := 0
	comp := Func(func() *VNode {
		renders++
		return Button(Textf("n=%d", renders))
	})
	tree := Div(comp, Func(func() *VNode { return nil }))

	first := Expand(tree)
	if len(first.Children) != 1 || first.Children[0].Tag != "button" {
		t.Fatalf("expanded children = %+v", first.Children)
	}
	if tree.Children[0].Kind != KindComponent {
		t.Fatal("Expand modified the input tree")
	}

	second := Expand(tree)
	if got := second.Children[0].Children[0].Text; got != "n=2" {
		t.Errorf("second render text = %q, want n=2", got)
	}
}

func TestAssignHIDsAndPath(t *testing.T) {
	inner := Span()
	target := Button(inner)
	outside := P()
	root := Div(Div(target), outside, Text("t"))

	AssignHIDs(root, NewHIDGenerator())

	if root.HID != "h1" || target.HID != "h3" || inner.HID != "h4" || outside.HID != "h5" {
		t.Fatalf("hids = %s %s %s %s", root.HID, target.HID, inner.HID, outside.HID)
	}

	path := Path(root, inner.HID)
	if len(path) != 4 || path[0] != root || path[3] != inner {
		t.Fatalf("path = %v", path)
	}
	if FindByHID(root, "h5") != outside {
		t.Error("FindByHID h5 should be the p element")
	}
	if FindByHID(root, "h99") != nil {
		t.Error("FindByHID of unknown id should be nil")
	}

	tests := []struct {
		name string
		node *VNode
		hid  string
		want bool
	}{
		{"self", target, target.HID, true},
		{"descendant", target, inner.HID, true},
		{"sibling", target, outside.HID, false},
		{"ancestor", target, root.HID, false},
		{"document", target, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.node, tt.hid); got != tt.want {
				t.Errorf("Contains = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectAndFindByAttr(t *testing.T) {
	a := Div(OnOutsideClick(func() {}), Data("name", "a"))
	b := Div(OnOutsideClick(func() {}), Data("name", "b"))
	root := Div(a, Span(b), Div(OnClick(func() {})))

	got := Collect(root, PropOutsideClick)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Collect = %v", got)
	}
	if FindByAttr(root, "data-name", "b") != b {
		t.Error("FindByAttr did not find b")
	}
	if FindByAttr(root, "data-name", "c") != nil {
		t.Error("FindByAttr found a missing value")
	}
}

func TestKeyboardEventIsEscape(t *testing.T) {
	tests := []struct {
		ev   KeyboardEvent
		want bool
	}{
		{KeyboardEvent{Key: "Escape"}, true},
		{KeyboardEvent{Code: "Escape"}, true},
		{KeyboardEvent{Key: "Enter", Code: "Enter"}, false},
		{KeyboardEvent{}, false},
	}
	for _, tt := range tests {
		if got := tt.ev.IsEscape(); got != tt.want {
			t.Errorf("%+v.IsEscape() = %v, want %v", tt.ev, got, tt.want)
		}
	}
	if !(ModCtrl | ModAlt).Has(ModAlt) || ModCtrl.Has(ModShift) {
		t.Error("Modifiers.Has mismatch")
	}
}
