// Package presence tracks ephemeral, UI-facing session signals.
//
// Nothing here is persisted: queue position and ETA for the own thread,
// the room-wide generation banner, per-thread typing indicators, the
// participant count, and the connection state label. Typing entries carry
// an expiry deadline checked at read time as a guard against a lost
// explicit clear; no timers are armed for them.
package presence
