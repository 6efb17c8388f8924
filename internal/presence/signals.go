package presence

import (
	"sync"
	"time"

	"github.com/bohselecta/gummy2/internal/transport"
)

// DefaultTypingTTL guards typing entries whose explicit clear never
// arrives (sender crashed mid-burst).
const DefaultTypingTTL = 6 * time.Second

type typingEntry struct {
	nickname string
	expires  time.Time
}

// Signals holds the derived, ephemeral state of one local session.
type Signals struct {
	mu sync.RWMutex

	conn transport.State

	queuePosition int
	queueEta      int
	queueSet      bool

	bannerName string
	bannerSet  bool

	typing    map[string]typingEntry
	typingTTL time.Duration

	participants int

	now func() time.Time
}

// Snapshot is an immutable copy of the signal state.
type Snapshot struct {
	Connection    transport.State
	QueuePosition int
	QueueEta      int
	QueueSet      bool
	BannerName    string
	BannerSet     bool
	// TypingByThread maps thread id to the typist's nickname for every
	// entry still alive at snapshot time.
	TypingByThread map[string]string
	Participants   int
}

// NewSignals creates signals with the given typing-entry TTL.
// A non-positive ttl falls back to DefaultTypingTTL.
func NewSignals(ttl time.Duration) *Signals {
	if ttl <= 0 {
		ttl = DefaultTypingTTL
	}
	return &Signals{
		conn:         transport.StateIdle,
		typing:       make(map[string]typingEntry),
		typingTTL:    ttl,
		participants: 1,
		now:          time.Now,
	}
}

// SetConnection records the connection state.
func (s *Signals) SetConnection(state transport.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = state
}

// Connection returns the recorded connection state.
func (s *Signals) Connection() transport.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// OnQueueUpdate sets the own-thread queue position and ETA.
func (s *Signals) OnQueueUpdate(position, etaSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queuePosition = position
	s.queueEta = etaSeconds
	s.queueSet = true
}

// ClearQueue removes the queue signal.
func (s *Signals) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueSet = false
	s.queuePosition = 0
	s.queueEta = 0
}

// OnGenerationStart raises the generation banner. Generation starting for
// the own thread also clears the queue signal: the wait is over.
func (s *Signals) OnGenerationStart(nickname string, ownThread bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bannerName = nickname
	s.bannerSet = true
	if ownThread {
		s.queueSet = false
		s.queuePosition = 0
		s.queueEta = 0
	}
}

// OnGenerationDone clears the banner and the queue signal.
func (s *Signals) OnGenerationDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bannerSet = false
	s.bannerName = ""
	s.queueSet = false
	s.queuePosition = 0
	s.queueEta = 0
}

// OnTyping sets or clears a thread's typing indicator. Only an explicit
// isTyping=false clears the entry before its TTL runs out.
func (s *Signals) OnTyping(threadID string, isTyping bool, nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !isTyping {
		delete(s.typing, threadID)
		return
	}
	s.typing[threadID] = typingEntry{
		nickname: nickname,
		expires:  s.now().Add(s.typingTTL),
	}
}

// TypingActive reports whether a live typing entry exists for the thread.
func (s *Signals) TypingActive(threadID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.typing[threadID]
	return ok && s.now().Before(e.expires)
}

// OnUserJoined bumps the participant count.
func (s *Signals) OnUserJoined() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants++
}

// OnUserLeft drops the participant count, never below the local user.
func (s *Signals) OnUserLeft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.participants > 1 {
		s.participants--
	}
}

// Reset clears everything derived from the dropped connection. The
// participant count resets too; the server re-announces on rejoin.
func (s *Signals) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueSet = false
	s.queuePosition = 0
	s.queueEta = 0
	s.bannerSet = false
	s.bannerName = ""
	s.typing = make(map[string]typingEntry)
	s.participants = 1
}

// Snapshot returns a copy of the current signal state, with expired
// typing entries filtered out.
func (s *Signals) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Connection:     s.conn,
		QueuePosition:  s.queuePosition,
		QueueEta:       s.queueEta,
		QueueSet:       s.queueSet,
		BannerName:     s.bannerName,
		BannerSet:      s.bannerSet,
		TypingByThread: make(map[string]string, len(s.typing)),
		Participants:   s.participants,
	}
	now := s.now()
	for tid, e := range s.typing {
		if now.Before(e.expires) {
			snap.TypingByThread[tid] = e.nickname
		}
	}
	return snap
}
