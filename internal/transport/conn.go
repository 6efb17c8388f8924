package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bohselecta/gummy2/internal/logging"
	"github.com/bohselecta/gummy2/internal/protocol"
)

// ErrNotOpen is returned by Send while the connection is not open.
var ErrNotOpen = errors.New("connection is not open")

// DefaultReconnectDelay is the contract reconnection delay.
const DefaultReconnectDelay = 3 * time.Second

// State is the connection lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handlers receive connection callbacks. They fire from the connection's
// internal goroutines; the owner is responsible for serializing them.
type Handlers struct {
	OnState func(State)
	OnEvent func(protocol.Event)
}

// Config holds connection settings.
type Config struct {
	ServerURL      string // http(s) base URL of the room server
	Room           string
	ReconnectDelay time.Duration
}

// Conn manages one logical bidirectional channel to a room, surviving
// transport drops by re-dialing.
type Conn struct {
	url     string
	delay   time.Duration
	log     *logging.Logger
	handler Handlers

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
	ws    *websocket.Conn

	// gorilla allows a single concurrent writer
	writeMu sync.Mutex
}

// WSURL converts the server base URL and room id into the dial URL,
// ws(s)://<host>/ws/<roomId>.
func WSURL(serverURL, room string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if room == "" {
		return "", fmt.Errorf("room id required")
	}
	u.Path = "/ws/" + room
	return u.String(), nil
}

// New creates a connection manager. Nothing is dialed until Start.
func New(cfg Config, handler Handlers, log *logging.Logger) (*Conn, error) {
	wsURL, err := WSURL(cfg.ServerURL, cfg.Room)
	if err != nil {
		return nil, err
	}
	delay := cfg.ReconnectDelay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Conn{
		url:     wsURL,
		delay:   delay,
		log:     log,
		handler: handler,
		state:   StateIdle,
	}, nil
}

// Start begins dialing. The connection keeps itself alive until Stop or
// context cancellation.
func (c *Conn) Start(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)
	go c.connect()
}

// Stop tears the connection down for good.
func (c *Conn) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	c.mu.Unlock()
	if ws != nil {
		ws.Close()
	}
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send encodes and writes an outbound intent. Returns ErrNotOpen unless
// the connection is open; callers drop the intent in that case.
func (c *Conn) Send(in protocol.Intent) error {
	c.mu.Lock()
	ws := c.ws
	open := c.state == StateOpen
	c.mu.Unlock()

	if !open || ws == nil {
		return ErrNotOpen
	}

	data, err := protocol.Encode(in)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return ws.WriteMessage(websocket.TextMessage, data)
}

// connect performs one dial attempt. Failure and connection loss both
// funnel through lost(), which schedules the next attempt.
func (c *Conn) connect() {
	if c.ctx.Err() != nil {
		return
	}
	c.setState(StateConnecting)

	attempt := uuid.NewString()
	ws, _, err := websocket.DefaultDialer.DialContext(c.ctx, c.url, nil)
	if err != nil {
		c.log.Warn("dial failed",
			zap.String("url", c.url),
			zap.String("attempt", attempt),
			zap.Error(err))
		c.lost()
		return
	}

	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()

	c.log.Info("connected", zap.String("url", c.url), zap.String("attempt", attempt))
	c.setState(StateOpen)

	go c.readLoop(ws)
}

// readLoop pumps inbound frames until the connection dies.
func (c *Conn) readLoop(ws *websocket.Conn) {
	defer ws.Close()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil {
				c.log.Warn("read failed", zap.Error(err))
			}
			break
		}

		ev, err := protocol.Decode(data)
		if err != nil {
			// Undecodable frame: the stream can no longer be
			// trusted, recycle the connection.
			c.log.Error("protocol error", zap.Error(err))
			break
		}
		if ev == nil {
			continue
		}
		if c.handler.OnEvent != nil {
			c.handler.OnEvent(ev)
		}
	}

	c.lost()
}

// lost transitions to Closed and schedules exactly one reconnect.
func (c *Conn) lost() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.ws = nil
	c.mu.Unlock()

	c.setState(StateClosed)

	if c.ctx.Err() != nil {
		return
	}
	time.AfterFunc(c.delay, c.connect)
}

func (c *Conn) setState(state State) {
	c.mu.Lock()
	if c.state == state {
		c.mu.Unlock()
		return
	}
	c.state = state
	c.mu.Unlock()

	if c.handler.OnState != nil {
		c.handler.OnState(state)
	}
}
