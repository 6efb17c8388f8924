// Package protocol defines the room wire protocol and its codec.
//
// Every frame on the wire is a JSON object with a "type" discriminator.
// Inbound frames decode once into a closed set of Event values; consumers
// switch over the concrete types and never touch raw JSON. Unknown types
// decode to nil so newer servers can add kinds without breaking old clients;
// undecodable payloads are a connection-level error.
//
// Message Types (Server → Client):
//   - joined: identity assignment after a join
//   - user_joined / user_left: presence notices
//   - enqueued: queue position and ETA for the own thread
//   - generation_start / chunk / generation_done: streamed assistant output
//   - message_added: finalized message broadcast
//   - typing: per-thread typing indicator
//   - error: non-fatal server-reported error
//
// Message Types (Client → Server):
//   - join: enter the room, optionally with a nickname
//   - message: submit a user turn for the own thread
//   - typing: typing indicator start/stop
package protocol
