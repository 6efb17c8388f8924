// Package transport owns the WebSocket connection to the room server.
//
// The connection moves through Idle → Connecting → Open → Closed; entering
// Closed schedules exactly one re-dial after a fixed delay, indefinitely,
// so a flaky server is survived without operator action. Outbound intents
// are accepted only while Open; anything else is reported as ErrNotOpen
// and callers drop the intent on the floor, no queueing.
//
// Inbound frames are decoded by the protocol codec on the read loop. A
// frame that fails to decode is treated like a transport error: the
// connection is recycled through the normal reconnect path rather than
// crashing or limping along on a corrupt stream.
package transport
