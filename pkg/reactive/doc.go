// Package reactive provides the signals that hold component state.
//
// A Signal owns one value. Writes that change the value notify subscribers
// synchronously on the writing goroutine; writes of an equal value are not
// changes and notify nobody. Components are driven from a single session
// event loop, so subscribers observe transitions in the order they happen.
//
//	open := reactive.NewBoolSignal(false)
//	w := reactive.Watch(open.Signal, func(v bool) {
//	    log.Println("open:", v)
//	})
//	defer w.Stop()
//	open.SetTrue() // prints "open: true"
package reactive
