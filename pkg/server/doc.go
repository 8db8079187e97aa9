// Package server hosts components over HTTP and WebSocket.
//
// Each WebSocket connection gets a Session that owns one page instance. A
// session renders the page, assigns every element an HID and routes client
// events against the rendered tree:
//
//   - click: every OnOutsideClick handler whose element does not contain the
//     target, then OnClick handlers from the target up to the root
//   - keydown: every OnDocumentKeyDown handler, then OnKeyDown handlers from
//     the target up
//   - mouseenter, mouseleave: the target's handler only
//   - close: the page's named Closer
//
// After each event the page is re-rendered and the HTML is sent to the
// client as a render message. All handlers run on the session's event
// loop; use Session.Dispatch from other goroutines.
//
//	srv := server.New(server.DefaultConfig(), func(s *server.Session) server.Page {
//	    d := dropdown.New(dropdown.ID("menu"))
//	    return server.Page{Root: d, Targets: map[string]server.Closer{"menu": d}}
//	})
//	err := srv.ListenAndServe(ctx)
package server
