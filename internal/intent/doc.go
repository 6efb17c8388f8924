// Package intent turns user actions into outbound protocol messages.
//
// Submissions are echoed into the local thread store before the server
// confirms them, so the user's own turn renders immediately. Typing
// activity is debounced: one typing=true per burst, one typing=false
// after the quiescent period, bounding indicator traffic under fast
// input. While the connection is not open every action is a silent no-op;
// nothing is queued for later.
package intent
