package intent

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bohselecta/gummy2/internal/identity"
	"github.com/bohselecta/gummy2/internal/logging"
	"github.com/bohselecta/gummy2/internal/protocol"
	"github.com/bohselecta/gummy2/internal/thread"
	"github.com/bohselecta/gummy2/internal/transport"
)

// Chat modes selectable by the user.
const (
	ModeConversation = "conversation"
	ModeCoder        = "coder"
)

// DefaultDebounce is the contract typing-debounce period.
const DefaultDebounce = time.Second

// Sender delivers outbound intents while the connection is open.
type Sender interface {
	Send(in protocol.Intent) error
	State() transport.State
}

// Config holds builder settings.
type Config struct {
	Debounce  time.Duration
	SendRate  float64
	SendBurst int
}

// Builder converts user actions into protocol intents.
type Builder struct {
	sender  Sender
	store   *thread.Store
	ident   *identity.Identity
	log     *logging.Logger
	limiter *rate.Limiter

	mu       sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	armed    bool
	mode     string
}

// NewBuilder creates a builder bound to one session's components.
func NewBuilder(sender Sender, store *thread.Store, ident *identity.Identity, cfg Config, log *logging.Logger) *Builder {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	limit := rate.Inf
	burst := 0
	if cfg.SendRate > 0 {
		limit = rate.Limit(cfg.SendRate)
		burst = cfg.SendBurst
		if burst <= 0 {
			burst = 1
		}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Builder{
		sender:   sender,
		store:    store,
		ident:    ident,
		log:      log,
		limiter:  rate.NewLimiter(limit, burst),
		debounce: debounce,
		mode:     ModeConversation,
	}
}

// SubmitMessage sends a user turn. Empty input (after trimming) and a
// non-open connection are silent no-ops; otherwise the turn is echoed
// locally first, then emitted.
func (b *Builder) SubmitMessage(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.sender.State() != transport.StateOpen || !b.ident.Assigned() {
		return
	}
	if !b.limiter.Allow() {
		b.log.Warn("message dropped by send limiter")
		return
	}

	b.store.AppendLocalEcho(text)
	if err := b.sender.Send(protocol.NewMessage(b.ident.OwnThreadID(), text)); err != nil {
		b.log.Warn("message intent dropped", zap.Error(err))
	}
}

// InputActivity registers one keystroke-equivalent event. The first event
// of a burst emits typing=true; the single-shot debounce timer is
// re-armed on every event, and its expiry emits exactly one typing=false.
func (b *Builder) InputActivity() {
	if b.sender.State() != transport.StateOpen || !b.ident.Assigned() {
		return
	}

	b.mu.Lock()
	fire := !b.armed
	b.armed = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.typingExpired)
	b.mu.Unlock()

	if fire {
		if err := b.sender.Send(protocol.NewTyping(b.ident.OwnThreadID(), true)); err != nil {
			b.log.Debug("typing intent dropped", zap.Error(err))
		}
	}
}

// typingExpired fires when the quiescent period elapses.
func (b *Builder) typingExpired() {
	b.mu.Lock()
	if !b.armed {
		b.mu.Unlock()
		return
	}
	b.armed = false
	b.timer = nil
	b.mu.Unlock()

	if b.sender.State() != transport.StateOpen {
		return
	}
	threadID := b.ident.OwnThreadID()
	if threadID == "" {
		return
	}
	if err := b.sender.Send(protocol.NewTyping(threadID, false)); err != nil {
		b.log.Debug("typing intent dropped", zap.Error(err))
	}
}

// SetMode switches the chat mode and records a local notice. Unknown
// modes are ignored.
func (b *Builder) SetMode(mode string) {
	if mode != ModeConversation && mode != ModeCoder {
		return
	}

	b.mu.Lock()
	changed := b.mode != mode
	b.mode = mode
	b.mu.Unlock()

	if changed {
		b.store.AppendNotice("Switched to " + mode + " mode")
	}
}

// Mode returns the active chat mode.
func (b *Builder) Mode() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// Reset cancels any pending debounce cycle, used when the connection
// drops: the typing=false cannot be delivered anyway.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.armed = false
}
