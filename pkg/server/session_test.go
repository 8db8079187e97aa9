package server

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/dropdown/internal/errors"
	"github.com/vango-dev/dropdown/pkg/dropdown"
	"github.com/vango-dev/dropdown/pkg/protocol"
	"github.com/vango-dev/dropdown/pkg/vdom"
)

// recorder collects messages a session sends.
type recorder struct {
	mu   sync.Mutex
	msgs []protocol.Message
	ch   chan protocol.Message
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan protocol.Message, 16)}
}

func (r *recorder) send(msg protocol.Message) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	select {
	case r.ch <- msg:
	default:
	}
	return nil
}

func (r *recorder) last() protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return protocol.Message{}
	}
	return r.msgs[len(r.msgs)-1]
}

func (r *recorder) wait(t *testing.T) protocol.Message {
	t.Helper()
	select {
	case msg := <-r.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return protocol.Message{}
	}
}

// menuPage renders a paragraph next to a dropdown with a trigger and one
// item. The dropdown is reachable as the close target "menu".
func menuPage(d **dropdown.Dropdown, opts ...dropdown.Option) PageFunc {
	return func(s *Session) Page {
		base := []dropdown.Option{
			dropdown.ID("menu"),
			dropdown.Children(
				func(c dropdown.Controls) *vdom.VNode { return dropdown.Trigger(c, "Menu") },
				func(c dropdown.Controls) *vdom.VNode {
					return dropdown.Content(c, dropdown.Item(c, "Edit", nil))
				},
			),
			dropdown.OnTransition(func(tr dropdown.Transition) {
				s.Metrics().RecordTransition(string(tr.Cause), tr.State.String())
			}),
		}
		dd := dropdown.New(append(base, opts...)...)
		*d = dd
		return Page{
			Root: vdom.Func(func() *vdom.VNode {
				return vdom.Div(vdom.ID("page"),
					vdom.P(vdom.ID("outside"), "Outside"),
					dd,
				)
			}),
			Targets: map[string]Closer{"menu": dd},
			OnClose: dd.Dispose,
		}
	}
}

func newTestSession(t *testing.T, opts ...dropdown.Option) (*Session, *dropdown.Dropdown, *recorder, *Metrics) {
	t.Helper()
	var d *dropdown.Dropdown
	rec := newRecorder()
	m := NewMetrics(prometheus.NewRegistry())
	s := NewSession(menuPage(&d, opts...), WithSender(rec.send), WithMetrics(m))
	if _, err := s.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return s, d, rec, m
}

func hidOf(t *testing.T, s *Session, key, value string) string {
	t.Helper()
	n := vdom.FindByAttr(s.Tree(), key, value)
	if n == nil {
		t.Fatalf("no element with %s=%q", key, value)
	}
	return n.HID
}

func click(t *testing.T, s *Session, hid string) error {
	t.Helper()
	return s.HandleEvent(context.Background(), &protocol.Event{Type: protocol.EventClick, HID: hid})
}

func TestClickTriggerToggles(t *testing.T) {
	s, d, rec, _ := newTestSession(t)

	if err := click(t, s, hidOf(t, s, "data-dropdown-trigger", "true")); err != nil {
		t.Fatalf("click error = %v", err)
	}
	if !d.State().Open {
		t.Fatal("trigger click should open")
	}
	msg := rec.last()
	if msg.Type != protocol.MessageRender || !strings.Contains(msg.HTML, `data-dropdown-content="true"`) {
		t.Errorf("render after open = %+v", msg)
	}

	if err := click(t, s, hidOf(t, s, "data-dropdown-trigger", "true")); err != nil {
		t.Fatalf("click error = %v", err)
	}
	if d.State().Open {
		t.Error("second trigger click should close")
	}
}

func TestClickOutsideCloses(t *testing.T) {
	s, d, _, m := newTestSession(t, dropdown.Open(true))

	if err := click(t, s, hidOf(t, s, "id", "outside")); err != nil {
		t.Fatalf("click error = %v", err)
	}
	if d.State().Open {
		t.Fatal("outside click should close")
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("outside_click", "closed")); got != 1 {
		t.Errorf("outside_click transitions = %v, want 1", got)
	}
}

func TestClickOnDocumentCloses(t *testing.T) {
	s, d, _, _ := newTestSession(t, dropdown.Open(true))

	if err := click(t, s, ""); err != nil {
		t.Fatalf("click error = %v", err)
	}
	if d.State().Open {
		t.Error("bare document click should close")
	}
}

func TestClickStaleTargetIsOutside(t *testing.T) {
	s, d, _, _ := newTestSession(t, dropdown.Open(true))

	if err := click(t, s, "h999"); err != nil {
		t.Fatalf("click error = %v", err)
	}
	if d.State().Open {
		t.Error("click on a vanished element should count as outside")
	}
}

func TestClickItemSelectsAndCloses(t *testing.T) {
	s, d, _, _ := newTestSession(t, dropdown.Open(true))

	if err := click(t, s, hidOf(t, s, "data-dropdown-item", "Edit")); err != nil {
		t.Fatalf("click error = %v", err)
	}
	if d.State().Open {
		t.Error("item click should close")
	}
}

func TestEscapeClosesFromAnywhere(t *testing.T) {
	s, d, _, _ := newTestSession(t, dropdown.Open(true))

	err := s.HandleEvent(context.Background(), &protocol.Event{Type: protocol.EventKeyDown, Key: "a"})
	if err != nil {
		t.Fatalf("keydown error = %v", err)
	}
	if !d.State().Open {
		t.Fatal("non-Escape key should not close")
	}

	err = s.HandleEvent(context.Background(), &protocol.Event{Type: protocol.EventKeyDown, Key: "Escape", Code: "Escape"})
	if err != nil {
		t.Fatalf("keydown error = %v", err)
	}
	if d.State().Open {
		t.Error("Escape should close")
	}
}

func TestHoverRoutesToTarget(t *testing.T) {
	s, d, _, _ := newTestSession(t, dropdown.Hoverable(true))
	container := hidOf(t, s, "data-dropdown", "true")

	ctx := context.Background()
	if err := s.HandleEvent(ctx, &protocol.Event{Type: protocol.EventMouseEnter, HID: container}); err != nil {
		t.Fatalf("mouseenter error = %v", err)
	}
	if !d.State().Open {
		t.Fatal("mouseenter should open a hoverable dropdown")
	}
	if err := s.HandleEvent(ctx, &protocol.Event{Type: protocol.EventMouseLeave, HID: container}); err != nil {
		t.Fatalf("mouseleave error = %v", err)
	}
	if d.State().Open {
		t.Error("mouseleave should close a hoverable dropdown")
	}
}

func TestHoverUnknownTarget(t *testing.T) {
	s, _, _, _ := newTestSession(t, dropdown.Hoverable(true))

	err := s.HandleEvent(context.Background(), &protocol.Event{Type: protocol.EventMouseEnter, HID: "h999"})
	if !stderrors.Is(err, errors.New(errors.ErrUnknownTarget)) {
		t.Errorf("error = %v, want %s", err, errors.ErrUnknownTarget)
	}
}

func TestCloseEvent(t *testing.T) {
	s, d, _, _ := newTestSession(t, dropdown.Open(true))
	ctx := context.Background()

	if err := s.HandleEvent(ctx, &protocol.Event{Type: protocol.EventClose, Target: "menu"}); err != nil {
		t.Fatalf("close error = %v", err)
	}
	if d.State().Open {
		t.Error("close event should close the target")
	}

	err := s.HandleEvent(ctx, &protocol.Event{Type: protocol.EventClose, Target: "other"})
	if !stderrors.Is(err, errors.New(errors.ErrUnknownTarget)) {
		t.Errorf("unknown close target error = %v", err)
	}
}

func TestInvalidEventRejected(t *testing.T) {
	s, _, rec, m := newTestSession(t)

	err := s.HandleEvent(context.Background(), &protocol.Event{Type: protocol.EventMouseEnter})
	if !stderrors.Is(err, errors.New(errors.ErrInvalidEvent)) {
		t.Fatalf("error = %v, want %s", err, errors.ErrInvalidEvent)
	}
	if len(rec.msgs) != 0 {
		t.Errorf("rejected event sent %d messages", len(rec.msgs))
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("mouseenter", "error")); got != 1 {
		t.Errorf("error events = %v, want 1", got)
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	rec := newRecorder()
	m := NewMetrics(prometheus.NewRegistry())
	var after bool
	s := NewSession(func(*Session) Page {
		return Page{Root: vdom.Func(func() *vdom.VNode {
			return vdom.Div(
				vdom.OnClick(func() { after = true }),
				vdom.Button(vdom.ID("boom"), vdom.OnClick(func() { panic("boom") })),
			)
		})}
	}, WithSender(rec.send), WithMetrics(m))
	if _, err := s.Render(); err != nil {
		t.Fatal(err)
	}

	err := click(t, s, hidOf(t, s, "id", "boom"))
	if !stderrors.Is(err, errors.New(errors.ErrHandlerPanic)) {
		t.Fatalf("error = %v, want %s", err, errors.ErrHandlerPanic)
	}
	if !after {
		t.Error("ancestor handler should still run after a panic")
	}
	if got := testutil.ToFloat64(m.handlerPanics); got != 1 {
		t.Errorf("panics = %v, want 1", got)
	}
	if rec.last().Type != protocol.MessageRender {
		t.Error("session should still re-render after a panic")
	}
}

func TestUnsupportedHandler(t *testing.T) {
	s := NewSession(func(*Session) Page {
		return Page{Root: vdom.Func(func() *vdom.VNode {
			return vdom.Button(vdom.ID("b"), vdom.OnClick(func(int) {}))
		})}
	})
	if _, err := s.Render(); err != nil {
		t.Fatal(err)
	}
	err := click(t, s, hidOf(t, s, "id", "b"))
	if !stderrors.Is(err, errors.New(errors.ErrInternal)) {
		t.Errorf("error = %v, want %s", err, errors.ErrInternal)
	}
}

func TestKeyboardPayload(t *testing.T) {
	var got vdom.KeyboardEvent
	s := NewSession(func(*Session) Page {
		return Page{Root: vdom.Func(func() *vdom.VNode {
			return vdom.Div(vdom.OnDocumentKeyDown(func(e vdom.KeyboardEvent) { got = e }))
		})}
	})
	ev := &protocol.Event{Type: protocol.EventKeyDown, Key: "k", Code: "KeyK", Modifiers: uint8(vdom.ModCtrl)}
	if err := s.HandleEvent(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if got.Key != "k" || got.Code != "KeyK" || !got.Modifiers.Has(vdom.ModCtrl) {
		t.Errorf("payload = %+v", got)
	}
}

func TestQueueFull(t *testing.T) {
	var d *dropdown.Dropdown
	s := NewSession(menuPage(&d), WithQueueSize(1))

	if err := s.QueueEvent(&protocol.Event{Type: protocol.EventClick}); err != nil {
		t.Fatalf("first QueueEvent error = %v", err)
	}
	err := s.QueueEvent(&protocol.Event{Type: protocol.EventClick})
	if !stderrors.Is(err, errors.New(errors.ErrQueueFull)) {
		t.Errorf("error = %v, want %s", err, errors.ErrQueueFull)
	}
}

func TestClosedSession(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	s.Close()
	s.Close()

	if !s.IsClosed() {
		t.Fatal("IsClosed() = false after Close")
	}
	closed := errors.New(errors.ErrSessionClosed)
	if err := click(t, s, ""); !stderrors.Is(err, closed) {
		t.Errorf("HandleEvent error = %v", err)
	}
	if err := s.QueueEvent(&protocol.Event{Type: protocol.EventClick}); !stderrors.Is(err, closed) {
		t.Errorf("QueueEvent error = %v", err)
	}
	if err := s.Dispatch(func() {}); !stderrors.Is(err, closed) {
		t.Errorf("Dispatch error = %v", err)
	}
}

func TestEventLoop(t *testing.T) {
	s, d, rec, _ := newTestSession(t, dropdown.Open(true))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.EventLoop(ctx)

	if err := s.Dispatch(d.Close); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}
	msg := rec.wait(t)
	if msg.Type != protocol.MessageRender || !strings.Contains(msg.HTML, `data-state="closed"`) {
		t.Errorf("render after dispatch = %+v", msg)
	}

	if err := s.QueueEvent(&protocol.Event{Seq: 9, Type: "scroll"}); err != nil {
		t.Fatalf("QueueEvent error = %v", err)
	}
	msg = rec.wait(t)
	if msg.Type != protocol.MessageError || msg.Code != errors.ErrUnknownEvent || msg.Seq != 9 {
		t.Errorf("error reply = %+v", msg)
	}
}

// busyPage counts handlers in flight and flags any that overlap with or
// follow the page's OnClose.
type busyPage struct {
	active   atomic.Int32
	disposed atomic.Bool
	overlap  atomic.Bool
	closed   chan struct{}
}

func (p *busyPage) build(*Session) Page {
	return Page{
		Root: vdom.Func(func() *vdom.VNode {
			return vdom.Div(vdom.OnClick(func() {
				p.active.Add(1)
				defer p.active.Add(-1)
				if p.disposed.Load() {
					p.overlap.Store(true)
				}
				time.Sleep(time.Millisecond)
			}))
		}),
		OnClose: func() {
			if p.active.Load() != 0 {
				p.overlap.Store(true)
			}
			p.disposed.Store(true)
			close(p.closed)
		},
	}
}

func TestCloseWhileEventsQueued(t *testing.T) {
	p := &busyPage{closed: make(chan struct{})}
	s := NewSession(p.build, WithQueueSize(64))
	if _, err := s.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	hid := s.Tree().HID

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.EventLoop(ctx)

	for i := 0; i < 32; i++ {
		if err := s.QueueEvent(&protocol.Event{Type: protocol.EventClick, HID: hid}); err != nil {
			t.Fatalf("QueueEvent error = %v", err)
		}
	}
	time.Sleep(2 * time.Millisecond)
	go s.Close()

	select {
	case <-p.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("OnClose did not run")
	}
	if p.overlap.Load() {
		t.Error("OnClose ran while a handler was running")
	}
}

func TestCloseAfterLoopStops(t *testing.T) {
	p := &busyPage{closed: make(chan struct{})}
	s := NewSession(p.build)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.EventLoop(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	s.Close()
	select {
	case <-p.closed:
	default:
		t.Fatal("OnClose did not run on Close after the loop stopped")
	}

	// A loop started after Close exits without running anything.
	s.EventLoop(context.Background())
}
