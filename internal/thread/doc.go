// Package thread holds the authoritative in-memory conversation state.
//
// The store tracks the local participant's own thread plus every observed
// thread in the room, keyed by thread id and created lazily on first
// reference. Messages are strictly append-ordered by arrival. Streamed
// assistant output is materialized directly into the message sequence: the
// trailing assistant message is mutated in place until generation finishes,
// there is no separate streaming buffer.
//
// Observed threads are never dropped implicitly; only an explicit departure
// from the collaborator layer may remove one.
package thread
