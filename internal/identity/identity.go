// Package identity holds the locally known session identity.
//
// The identity is empty until the server confirms a join, is assigned at
// most once per connection epoch, and is wiped when the connection drops.
// A reconnect opens a new epoch and the server hands out a fresh identity;
// the client does not try to resume the previous one.
package identity

import (
	"fmt"
	"sync"

	"github.com/bohselecta/gummy2/internal/shared/id"
)

// Identity tracks the participant and own-thread identity for one epoch.
type Identity struct {
	mu            sync.RWMutex
	epoch         id.EpochID
	participantID string
	ownThreadID   string
	displayName   string
}

// Snapshot is an immutable copy of the identity state.
type Snapshot struct {
	Epoch         id.EpochID
	ParticipantID string
	OwnThreadID   string
	DisplayName   string
	Assigned      bool
}

// New creates an unassigned identity with a fresh epoch.
func New() *Identity {
	return &Identity{epoch: id.NewEpochID()}
}

// Assign sets the identity for the current epoch. Assigning twice within
// one epoch is a protocol violation and returns an error.
func (i *Identity) Assign(participantID, ownThreadID, displayName string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.participantID != "" {
		return fmt.Errorf("identity already assigned in epoch %s", i.epoch)
	}
	if participantID == "" || ownThreadID == "" {
		return fmt.Errorf("identity assignment missing ids")
	}

	i.participantID = participantID
	i.ownThreadID = ownThreadID
	i.displayName = displayName
	return nil
}

// Reset wipes the identity and opens a new epoch.
func (i *Identity) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.epoch = id.NewEpochID()
	i.participantID = ""
	i.ownThreadID = ""
	i.displayName = ""
}

// Assigned reports whether the server has confirmed a join this epoch.
func (i *Identity) Assigned() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.participantID != ""
}

// ParticipantID returns the assigned participant id, or "".
func (i *Identity) ParticipantID() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.participantID
}

// OwnThreadID returns the assigned own-thread id, or "".
func (i *Identity) OwnThreadID() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ownThreadID
}

// DisplayName returns the confirmed display name, or "".
func (i *Identity) DisplayName() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.displayName
}

// Epoch returns the current connection epoch id.
func (i *Identity) Epoch() id.EpochID {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.epoch
}

// IsOwnThread reports whether threadID is the own thread this epoch.
func (i *Identity) IsOwnThread(threadID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ownThreadID != "" && i.ownThreadID == threadID
}

// Snapshot returns a copy of the current state.
func (i *Identity) Snapshot() Snapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return Snapshot{
		Epoch:         i.epoch,
		ParticipantID: i.participantID,
		OwnThreadID:   i.ownThreadID,
		DisplayName:   i.displayName,
		Assigned:      i.participantID != "",
	}
}
