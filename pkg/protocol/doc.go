// Package protocol defines the messages exchanged between the thin browser
// client and a session.
//
// The client sends one Event per DOM event as a JSON text frame:
//
//	{"seq":3,"type":"click","hid":"h7"}
//	{"seq":4,"type":"keydown","key":"Escape","code":"Escape"}
//
// The server answers every event with either a render message carrying the
// new root HTML or an error message:
//
//	{"type":"render","seq":3,"html":"<div data-hid=\"h1\" ..."}
//	{"type":"error","seq":9,"code":"E101","message":"invalid event"}
package protocol
