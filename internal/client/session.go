package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bohselecta/gummy2/internal/identity"
	"github.com/bohselecta/gummy2/internal/intent"
	"github.com/bohselecta/gummy2/internal/logging"
	"github.com/bohselecta/gummy2/internal/monitoring"
	"github.com/bohselecta/gummy2/internal/presence"
	"github.com/bohselecta/gummy2/internal/protocol"
	"github.com/bohselecta/gummy2/internal/thread"
	"github.com/bohselecta/gummy2/internal/transport"
	"github.com/bohselecta/gummy2/internal/view"
)

// taskBuffer bounds the inbound callback queue. The loop drains fast;
// the buffer only absorbs bursts while a snapshot is being taken.
const taskBuffer = 512

// Config holds session settings.
type Config struct {
	ServerURL      string
	Room           string
	Nickname       string
	ReconnectDelay time.Duration
	TypingDebounce time.Duration
	TypingTTL      time.Duration
	SendRate       float64
	SendBurst      int
}

// Session is one participant's live attachment to a room.
type Session struct {
	cfg     Config
	log     *logging.Logger
	metrics *monitoring.Metrics

	ident   *identity.Identity
	store   *thread.Store
	signals *presence.Signals
	builder *intent.Builder
	conn    *transport.Conn

	tasks chan func()

	mu      sync.Mutex
	display view.DisplayMode
}

// countingSender instruments outbound intents on their way to the wire.
type countingSender struct {
	conn    *transport.Conn
	metrics *monitoring.Metrics
}

func (c countingSender) Send(in protocol.Intent) error {
	if err := c.conn.Send(in); err != nil {
		return err
	}
	c.metrics.IntentsTotal.WithLabelValues(in.Kind()).Inc()
	return nil
}

func (c countingSender) State() transport.State {
	return c.conn.State()
}

// New creates a session. Nothing connects until Run.
func New(cfg Config, log *logging.Logger, metrics *monitoring.Metrics) (*Session, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if metrics == nil {
		metrics = monitoring.New()
	}

	s := &Session{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		ident:   identity.New(),
		store:   thread.NewStore(),
		signals: presence.NewSignals(cfg.TypingTTL),
		tasks:   make(chan func(), taskBuffer),
		display: view.DisplayOwn,
	}

	conn, err := transport.New(transport.Config{
		ServerURL:      cfg.ServerURL,
		Room:           cfg.Room,
		ReconnectDelay: cfg.ReconnectDelay,
	}, transport.Handlers{
		OnState: func(st transport.State) {
			s.post(func() { s.handleState(st) })
		},
		OnEvent: func(ev protocol.Event) {
			s.post(func() { s.handleEvent(ev) })
		},
	}, log)
	if err != nil {
		return nil, err
	}
	s.conn = conn

	s.builder = intent.NewBuilder(
		countingSender{conn: conn, metrics: metrics},
		s.store,
		s.ident,
		intent.Config{
			Debounce:  cfg.TypingDebounce,
			SendRate:  cfg.SendRate,
			SendBurst: cfg.SendBurst,
		},
		log,
	)
	return s, nil
}

// Run connects and processes inbound callbacks until the context ends.
func (s *Session) Run(ctx context.Context) error {
	s.conn.Start(ctx)
	defer s.conn.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-s.tasks:
			task()
		}
	}
}

// post enqueues a callback for the Run loop. Overflow drops the callback
// rather than stalling the transport's read loop.
func (s *Session) post(task func()) {
	select {
	case s.tasks <- task:
	default:
		s.log.Warn("session task queue full, callback dropped")
	}
}

// handleState reacts to connection lifecycle transitions.
func (s *Session) handleState(st transport.State) {
	s.signals.SetConnection(st)
	s.metrics.ConnectionState.Set(float64(st))
	s.log.Info("connection state", zap.String("state", st.String()))

	switch st {
	case transport.StateOpen:
		if err := s.conn.Send(protocol.NewJoin(s.cfg.Nickname)); err != nil {
			s.log.Warn("join intent dropped", zap.Error(err))
			return
		}
		s.metrics.IntentsTotal.WithLabelValues("join").Inc()

	case transport.StateClosed:
		s.metrics.ReconnectsTotal.Inc()
		// The server hands out a fresh identity on rejoin; everything
		// derived from the dropped connection is wiped now.
		s.ident.Reset()
		s.signals.Reset()
		s.builder.Reset()
	}
}

// handleEvent dispatches one decoded inbound event.
func (s *Session) handleEvent(ev protocol.Event) {
	s.metrics.EventsTotal.WithLabelValues(ev.Kind()).Inc()

	switch e := ev.(type) {
	case *protocol.Joined:
		if err := s.ident.Assign(e.UserID, e.ThreadID, e.Nickname); err != nil {
			s.log.Warn("join confirmation ignored", zap.Error(err))
			return
		}
		s.store.OnJoined(e.UserID, e.ThreadID, e.Nickname)
		s.log.Info("joined room",
			zap.String("user_id", e.UserID),
			zap.String("thread_id", e.ThreadID),
			zap.String("nickname", e.Nickname))

	case *protocol.UserJoined:
		s.signals.OnUserJoined()
		s.store.AppendNotice(e.Nickname + " joined the room")

	case *protocol.UserLeft:
		s.signals.OnUserLeft()

	case *protocol.Enqueued:
		s.signals.OnQueueUpdate(e.Position, e.EtaSeconds)

	case *protocol.GenerationStart:
		s.store.OnGenerationStart(e.ThreadID, e.UserID, e.Nickname)
		s.signals.OnGenerationStart(e.Nickname, s.ident.IsOwnThread(e.ThreadID))

	case *protocol.Chunk:
		s.store.OnChunk(e.ThreadID, e.UserID, e.Delta)
		s.metrics.ChunksTotal.Inc()

	case *protocol.GenerationDone:
		s.store.OnGenerationDone(e.ThreadID)
		s.signals.OnGenerationDone()

	case *protocol.MessageAdded:
		s.store.OnMessageAppended(e.ThreadID, e.UserID, e.Content, e.Nickname, thread.RoleUser)

	case *protocol.Typing:
		// The local user's own indicator never renders.
		if e.UserID == s.ident.ParticipantID() {
			return
		}
		s.signals.OnTyping(e.ThreadID, e.IsTyping, e.Nickname)

	case *protocol.ServerError:
		s.store.AppendNotice("Error: " + e.Message)
		s.log.Warn("server error", zap.String("message", e.Message))
	}
}

// Submit sends the given text as a user turn.
func (s *Session) Submit(text string) {
	s.builder.SubmitMessage(text)
}

// InputActivity registers local typing activity.
func (s *Session) InputActivity() {
	s.builder.InputActivity()
}

// SetMode switches the chat mode.
func (s *Session) SetMode(mode string) {
	s.builder.SetMode(mode)
}

// SetDisplayMode switches between the own and observed views.
func (s *Session) SetDisplayMode(d view.DisplayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = d
}

// DisplayMode returns the active display mode.
func (s *Session) DisplayMode() view.DisplayMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// Snapshot projects the current session state into a displayable view.
func (s *Session) Snapshot() view.View {
	return view.Project(
		s.ident.Snapshot(),
		s.store.Snapshot(),
		s.signals.Snapshot(),
		s.builder.Mode(),
		s.DisplayMode(),
	)
}
