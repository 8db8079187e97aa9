package reactive

import "sync/atomic"

// Watcher is a side effect bound to one signal. It runs once when created and
// again after every change of the signal's value.
type Watcher struct {
	unsubscribe func()
	stopped     atomic.Bool
}

// Watch runs fn immediately with the signal's current value and then after
// every change with the new value, until Stop is called.
func Watch[T any](s *Signal[T], fn func(T)) *Watcher {
	w := &Watcher{}
	// Subscribe before the first run so a write made by fn is reported.
	w.unsubscribe = s.Subscribe(func(v T) {
		if w.stopped.Load() {
			return
		}
		fn(v)
	})
	fn(s.Get())
	return w
}

// Stop detaches the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	if w.stopped.CompareAndSwap(false, true) && w.unsubscribe != nil {
		w.unsubscribe()
	}
}
