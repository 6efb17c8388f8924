// Package client wires the session together: transport, identity, thread
// state, presence signals, intent building and metrics behind a single
// Session facade.
//
// All inbound callbacks from the transport are funneled through one task
// queue drained by Run, so event handling is strictly ordered even across
// reconnects. User-facing methods are safe to call from any goroutine.
package client
