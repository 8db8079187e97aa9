package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dropdown/internal/errors"
	"github.com/vango-dev/dropdown/pkg/protocol"
	"github.com/vango-dev/dropdown/pkg/render"
	"github.com/vango-dev/dropdown/pkg/vdom"
)

// Closer is the imperative handle a page exposes for EventClose.
type Closer interface {
	Close()
}

// Page is what a session hosts: a root component plus the named handles
// that close events may address.
type Page struct {
	Root vdom.Component

	// Targets maps names used by EventClose to handles.
	Targets map[string]Closer

	// OnClose runs once when the session closes.
	OnClose func()
}

// PageFunc builds a fresh page for a session. It runs once per session,
// before any event is handled.
type PageFunc func(s *Session) Page

// Sender delivers a message to the client.
type Sender func(protocol.Message) error

// Session owns one page instance and serializes everything that touches it
// onto a single event loop goroutine.
//
// HandleEvent and Run are not safe for concurrent use. Within a running
// session only the event loop calls them; other goroutines use QueueEvent
// and Dispatch.
type Session struct {
	// ID is the unique session identifier.
	ID string

	root    vdom.Component
	targets map[string]Closer
	onClose func()

	tree     *vdom.VNode
	hids     *vdom.HIDGenerator
	renderer *render.Renderer

	events     chan *protocol.Event
	dispatchCh chan func()
	done       chan struct{}
	closeOnce  sync.Once
	closed     atomic.Bool

	// loopMu guards running. While an event loop runs, it owns the page and
	// runs onClose itself once it stops.
	loopMu      sync.Mutex
	running     bool
	onCloseOnce sync.Once

	send    Sender
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSender sets where render and error messages go. Without one,
// messages are dropped.
func WithSender(send Sender) SessionOption {
	return func(s *Session) {
		s.send = send
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics the session reports to.
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for event spans.
func WithTracer(t trace.Tracer) SessionOption {
	return func(s *Session) {
		s.tracer = t
	}
}

// WithQueueSize sets the event and dispatch buffer size.
func WithQueueSize(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.events = make(chan *protocol.Event, n)
			s.dispatchCh = make(chan func(), n)
		}
	}
}

// NewSession creates a session and builds its page.
func NewSession(build PageFunc, opts ...SessionOption) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		hids:       vdom.NewHIDGenerator(),
		renderer:   render.NewRenderer(render.RendererConfig{}),
		events:     make(chan *protocol.Event, DefaultConfig().MaxEventQueue),
		dispatchCh: make(chan func(), DefaultConfig().MaxEventQueue),
		done:       make(chan struct{}),
		logger:     slog.Default(),
		tracer:     newTracer(DefaultConfig().TracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.ID)

	page := build(s)
	s.root = page.Root
	s.targets = page.Targets
	s.onClose = page.OnClose
	return s
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Metrics returns the metrics the session reports to. It may be nil.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Render renders the page, stores the tree events are routed against and
// returns its HTML.
func (s *Session) Render() (string, error) {
	if s.root == nil {
		return "", errors.New(errors.ErrInternal).WithDetail("session has no root component")
	}
	tree := vdom.Expand(&vdom.VNode{Kind: vdom.KindComponent, Comp: s.root})
	s.hids.Reset()
	vdom.AssignHIDs(tree, s.hids)

	html, err := s.renderer.RenderToString(tree)
	if err != nil {
		return "", err
	}
	s.tree = tree
	return html, nil
}

// Tree returns the tree of the most recent render.
func (s *Session) Tree() *vdom.VNode {
	return s.tree
}

// HandleEvent routes one event, re-renders and sends the render message.
// The returned error describes why the event was rejected or failed; state
// changes made before a failure are still rendered.
func (s *Session) HandleEvent(ctx context.Context, ev *protocol.Event) error {
	if s.closed.Load() {
		return errors.New(errors.ErrSessionClosed)
	}

	start := time.Now()
	_, span := startEventSpan(ctx, s.tracer, s.ID, ev)
	err := s.handleEvent(ev)
	endEventSpan(span, err)

	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.recordEvent(ev.Type.String(), status, time.Since(start).Seconds())
	return err
}

func (s *Session) handleEvent(ev *protocol.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if s.tree == nil {
		if _, err := s.Render(); err != nil {
			return err
		}
	}

	routeErr := s.route(ev)
	if err := s.flush(ev.Seq); err != nil {
		return err
	}
	return routeErr
}

// Run executes fn as if it were an event handler and then re-renders.
func (s *Session) Run(fn func()) error {
	if s.closed.Load() {
		return errors.New(errors.ErrSessionClosed)
	}
	err := s.safeCall(fn)
	if ferr := s.flush(0); ferr != nil {
		return ferr
	}
	return err
}

// flush re-renders and sends the result.
func (s *Session) flush(seq uint64) error {
	html, err := s.Render()
	if err != nil {
		return err
	}
	return s.sendMessage(protocol.NewRender(seq, html))
}

func (s *Session) sendMessage(msg protocol.Message) error {
	if s.send == nil {
		return nil
	}
	if err := s.send(msg); err != nil {
		s.logger.Warn("send failed", "type", msg.Type, "error", err)
		return err
	}
	return nil
}

// route delivers ev to the handlers bound in the current tree.
func (s *Session) route(ev *protocol.Event) error {
	switch ev.Type {
	case protocol.EventClick:
		return s.routeClick(ev)

	case protocol.EventKeyDown:
		return s.routeKeyDown(ev)

	case protocol.EventMouseEnter, protocol.EventMouseLeave:
		node := vdom.FindByHID(s.tree, ev.HID)
		if node == nil {
			return unknownTarget(ev)
		}
		return s.invoke(node.Handler(ev.Type.Prop()), ev)

	case protocol.EventClose:
		target, ok := s.targets[ev.Target]
		if !ok || target == nil {
			return errors.New(errors.ErrUnknownTarget).
				WithDetail(fmt.Sprintf("no close target named %q", ev.Target))
		}
		return s.safeCall(target.Close)
	}
	return nil
}

// routeClick runs outside-click handlers of every element that does not
// contain the target, then bubbles onclick from the target to the root.
// A target missing from the tree is a click outside everything.
func (s *Session) routeClick(ev *protocol.Event) error {
	var handlers []any
	for _, n := range vdom.Collect(s.tree, vdom.PropOutsideClick) {
		if !vdom.Contains(n, ev.HID) {
			handlers = append(handlers, n.Handler(vdom.PropOutsideClick))
		}
	}
	handlers = append(handlers, bubble(s.tree, ev.HID, vdom.PropClick)...)
	if ev.HID != "" && vdom.FindByHID(s.tree, ev.HID) == nil {
		s.logger.Debug("click on stale target", "hid", ev.HID)
	}
	return s.invokeAll(handlers, ev)
}

// routeKeyDown runs every document keydown handler, then bubbles onkeydown
// from the target.
func (s *Session) routeKeyDown(ev *protocol.Event) error {
	var handlers []any
	for _, n := range vdom.Collect(s.tree, vdom.PropDocumentKeyDown) {
		handlers = append(handlers, n.Handler(vdom.PropDocumentKeyDown))
	}
	handlers = append(handlers, bubble(s.tree, ev.HID, vdom.PropKeyDown)...)
	return s.invokeAll(handlers, ev)
}

// bubble returns the handlers for prop on the path from the target up to
// the root, innermost first.
func bubble(root *vdom.VNode, hid, prop string) []any {
	path := vdom.Path(root, hid)
	var out []any
	for i := len(path) - 1; i >= 0; i-- {
		if h := path[i].Handler(prop); h != nil {
			out = append(out, h)
		}
	}
	return out
}

// invokeAll runs every handler even if an earlier one fails, and returns
// the first error. Handlers are collected before any runs, so state changes
// made by one do not change which others fire.
func (s *Session) invokeAll(handlers []any, ev *protocol.Event) error {
	var first error
	for _, h := range handlers {
		if err := s.invoke(h, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Session) invoke(handler any, ev *protocol.Event) error {
	if handler == nil {
		return nil
	}
	fn, err := wrapHandler(handler, ev)
	if err != nil {
		return err
	}
	return s.safeCall(fn)
}

// safeCall runs fn, turning a panic into ErrHandlerPanic.
func (s *Session) safeCall(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.recordPanic()
			s.logger.Error("handler panic",
				"panic", r,
				"stack", string(debug.Stack()))
			err = errors.New(errors.ErrHandlerPanic).WithDetail(fmt.Sprint(r))
		}
	}()
	fn()
	return nil
}

// wrapHandler adapts the handler shapes components bind into a plain func.
func wrapHandler(handler any, ev *protocol.Event) (func(), error) {
	switch h := handler.(type) {
	case func():
		return h, nil
	case func(vdom.KeyboardEvent):
		return func() { h(keyboardEvent(ev)) }, nil
	case func(vdom.MouseEvent):
		return func() { h(mouseEvent(ev)) }, nil
	case func(*protocol.Event):
		return func() { h(ev) }, nil
	default:
		return nil, errors.New(errors.ErrInternal).
			WithDetail(fmt.Sprintf("unsupported handler type %T", handler))
	}
}

func keyboardEvent(ev *protocol.Event) vdom.KeyboardEvent {
	return vdom.KeyboardEvent{
		Key:       ev.Key,
		Code:      ev.Code,
		Modifiers: vdom.Modifiers(ev.Modifiers),
	}
}

func mouseEvent(ev *protocol.Event) vdom.MouseEvent {
	return vdom.MouseEvent{
		TargetHID: ev.HID,
		ClientX:   ev.ClientX,
		ClientY:   ev.ClientY,
		Modifiers: vdom.Modifiers(ev.Modifiers),
	}
}

func unknownTarget(ev *protocol.Event) error {
	return errors.New(errors.ErrUnknownTarget).
		WithDetail(fmt.Sprintf("%s target %q is not in the tree", ev.Type, ev.HID))
}

// QueueEvent hands an event to the event loop without blocking.
func (s *Session) QueueEvent(ev *protocol.Event) error {
	if s.closed.Load() {
		return errors.New(errors.ErrSessionClosed)
	}
	select {
	case s.events <- ev:
		return nil
	default:
		s.logger.Warn("event queue full, dropping event", "type", ev.Type, "hid", ev.HID)
		return errors.New(errors.ErrQueueFull).
			WithDetail(fmt.Sprintf("%d events pending", cap(s.events)))
	}
}

// Dispatch queues fn to run on the event loop, followed by a re-render.
// It is how code outside the loop, e.g. a timer, calls a component's
// imperative handle.
func (s *Session) Dispatch(fn func()) error {
	if s.closed.Load() {
		return errors.New(errors.ErrSessionClosed)
	}
	select {
	case s.dispatchCh <- fn:
		return nil
	case <-s.done:
		return errors.New(errors.ErrSessionClosed)
	default:
		s.logger.Warn("dispatch queue full, discarding callback")
		return errors.New(errors.ErrQueueFull).WithDetail("dispatch queue full")
	}
}

// EventLoop processes queued events and dispatched functions until ctx is
// done or the session closes. Failures are reported to the client as error
// messages. If the session closes while the loop runs, the page's OnClose
// runs on the loop after the last handler returns.
func (s *Session) EventLoop(ctx context.Context) {
	s.loopMu.Lock()
	if s.closed.Load() {
		s.loopMu.Unlock()
		return
	}
	s.running = true
	s.loopMu.Unlock()
	defer s.stopLoop()

	for {
		select {
		case ev := <-s.events:
			if err := s.HandleEvent(ctx, ev); err != nil {
				s.logger.Warn("event failed", "type", ev.Type, "hid", ev.HID, "error", err)
				_ = s.sendMessage(protocol.NewError(ev.Seq, err))
			}

		case fn := <-s.dispatchCh:
			if err := s.Run(fn); err != nil {
				s.logger.Warn("dispatch failed", "error", err)
				_ = s.sendMessage(protocol.NewError(0, err))
			}

		case <-ctx.Done():
			return

		case <-s.done:
			return
		}
	}
}

func (s *Session) stopLoop() {
	s.loopMu.Lock()
	s.running = false
	closed := s.closed.Load()
	s.loopMu.Unlock()
	if closed {
		s.runOnClose()
	}
}

// Close stops the session. It is safe to call more than once and from any
// goroutine. The page's OnClose runs here when no event loop is running,
// otherwise on the loop once it has stopped.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.loopMu.Lock()
		s.closed.Store(true)
		close(s.done)
		running := s.running
		s.loopMu.Unlock()
		if !running {
			s.runOnClose()
		}
		s.logger.Debug("session closed")
	})
}

func (s *Session) runOnClose() {
	s.onCloseOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// IsClosed reports whether Close has been called.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}
