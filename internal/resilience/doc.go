// Package resilience provides a three-state circuit breaker.
//
// The breaker guards the client's outbound HTTP calls (room creation) so a
// dead or flapping server fails fast instead of piling up timeouts.
//
// States:
//   - Closed: normal operation, requests pass through
//   - Open: failing, requests rejected immediately
//   - Half-Open: probing recovery, limited requests allowed
//
// Transitions:
//
//	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
//
// Example Usage:
//
//	breaker := resilience.New("rooms", resilience.Settings{
//		MaxRequests: 3,
//		Timeout:     30 * time.Second,
//	})
//	result, err := breaker.Execute(func() (interface{}, error) {
//		return client.Call()
//	})
package resilience
