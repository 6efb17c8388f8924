package thread

import (
	"sync"
	"time"

	"github.com/bohselecta/gummy2/internal/shared/id"
)

// Role classifies a message's author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in a thread's conversation.
//
// Messages are immutable once appended, except the trailing assistant
// message while it is still streaming.
type Message struct {
	ID        id.MessageID `json:"id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	Streaming bool         `json:"streaming,omitempty"`
}

// Thread is one participant's conversation with the generation service.
type Thread struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	OwnerName  string    `json:"owner_name"`
	Messages   []Message `json:"messages"`
	Generating bool      `json:"generating"`
}

// Snapshot is a deep copy of the store for the projection layer.
type Snapshot struct {
	Own      *Thread
	Observed []Thread
}

// Store is the in-memory model of the own thread and all observed threads.
type Store struct {
	mu               sync.RWMutex
	ownThreadID      string
	ownParticipantID string
	threads          map[string]*Thread

	// Contents of optimistic local echoes not yet seen back from the
	// server, oldest first. Consumed by OnMessageAppended.
	pendingEcho []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{threads: make(map[string]*Thread)}
}

// OnJoined binds the own thread after the server confirms a join.
//
// On a reconnect the server assigns a fresh thread id; the previous own
// thread's messages are carried over so the visible conversation survives
// the connection discontinuity, matching the rendered surface.
func (s *Store) OnJoined(participantID, threadID, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.ownThreadID
	s.ownParticipantID = participantID
	s.ownThreadID = threadID

	t := s.ensure(threadID)
	t.OwnerID = participantID
	t.OwnerName = displayName

	if prev != "" && prev != threadID {
		if old, ok := s.threads[prev]; ok {
			t.Messages = append(old.Messages, t.Messages...)
			delete(s.threads, prev)
		}
	}
	s.pendingEcho = nil
}

// OnMessageAppended appends a finalized message broadcast by the server.
//
// The server echoes the sender's own message back to everyone in the room,
// including the sender. Since submission already appended an optimistic
// local echo, an own-thread user message matching the oldest pending echo
// is consumed instead of re-appended.
func (s *Store) OnMessageAppended(threadID, participantID, content, displayName string, role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role == RoleUser && threadID == s.ownThreadID && participantID == s.ownParticipantID {
		if len(s.pendingEcho) > 0 && s.pendingEcho[0] == content {
			s.pendingEcho = s.pendingEcho[1:]
			return
		}
	}

	t := s.ensure(threadID)
	if t.OwnerID == "" && role == RoleUser {
		t.OwnerID = participantID
	}
	if t.OwnerName == "" && displayName != "" {
		t.OwnerName = displayName
	}
	t.Messages = append(t.Messages, newMessage(role, content))
}

// AppendLocalEcho appends the local participant's submitted turn before
// any server confirmation and remembers it for echo de-duplication.
func (s *Store) AppendLocalEcho(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ownThreadID == "" {
		return
	}
	t := s.ensure(s.ownThreadID)
	t.Messages = append(t.Messages, newMessage(RoleUser, content))
	s.pendingEcho = append(s.pendingEcho, content)
}

// AppendNotice appends a system notice to the own thread.
func (s *Store) AppendNotice(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ownThreadID == "" {
		return
	}
	t := s.ensure(s.ownThreadID)
	t.Messages = append(t.Messages, newMessage(RoleSystem, content))
}

// OnGenerationStart marks a thread's generation as in progress.
func (s *Store) OnGenerationStart(threadID, ownerID, ownerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.ensure(threadID)
	if t.OwnerID == "" {
		t.OwnerID = ownerID
	}
	if t.OwnerName == "" && ownerName != "" {
		t.OwnerName = ownerName
	}
	t.Generating = true
}

// OnGenerationDone clears a thread's generation flag and freezes the
// trailing streamed message. No synthetic terminator is appended.
func (s *Store) OnGenerationDone(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.ensure(threadID)
	t.Generating = false
	if n := len(t.Messages); n > 0 {
		t.Messages[n-1].Streaming = false
	}
}

// OnChunk materializes a streamed fragment into the thread.
//
// The delta extends the trailing assistant message while one is still
// streaming; otherwise it seeds a new assistant message. The in-progress
// message is the last element of the sequence, mutated in place.
func (s *Store) OnChunk(threadID, participantID, delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.ensure(threadID)
	if t.OwnerID == "" {
		t.OwnerID = participantID
	}

	if n := len(t.Messages); n > 0 {
		last := &t.Messages[n-1]
		if last.Role == RoleAssistant && last.Streaming {
			last.Content += delta
			return
		}
	}

	msg := newMessage(RoleAssistant, delta)
	msg.Streaming = true
	t.Messages = append(t.Messages, msg)
}

// Remove drops a thread after an explicit participant departure.
func (s *Store) Remove(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if threadID == s.ownThreadID {
		return
	}
	delete(s.threads, threadID)
}

// OwnThreadID returns the bound own-thread id, or "".
func (s *Store) OwnThreadID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownThreadID
}

// GenerationInProgress reports whether the thread is currently generating.
func (s *Store) GenerationInProgress(threadID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[threadID]
	return ok && t.Generating
}

// Messages returns a copy of a thread's message sequence.
func (s *Store) Messages(threadID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[threadID]
	if !ok {
		return nil
	}
	out := make([]Message, len(t.Messages))
	copy(out, t.Messages)
	return out
}

// Snapshot returns a deep copy of the own thread and all observed threads.
// Observed order is unspecified; display order is the projection's concern.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	for tid, t := range s.threads {
		cp := *t
		cp.Messages = make([]Message, len(t.Messages))
		copy(cp.Messages, t.Messages)

		if tid == s.ownThreadID {
			own := cp
			snap.Own = &own
			continue
		}
		snap.Observed = append(snap.Observed, cp)
	}
	return snap
}

// ensure returns the thread, creating it lazily on first reference.
// Caller must hold the write lock.
func (s *Store) ensure(threadID string) *Thread {
	t, ok := s.threads[threadID]
	if !ok {
		t = &Thread{ID: threadID}
		s.threads[threadID] = t
	}
	return t
}

func newMessage(role Role, content string) Message {
	return Message{
		ID:        id.NewMessageID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
