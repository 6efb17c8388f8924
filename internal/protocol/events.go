package protocol

// Event is an inbound frame decoded from the wire. The set of
// implementations is closed; consumers dispatch with a type switch.
type Event interface {
	// Kind returns the wire discriminator of the event.
	Kind() string

	event()
}

// Joined assigns the session identity after a join intent.
type Joined struct {
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
	Nickname string `json:"nickname"`
	RoomID   string `json:"room_id,omitempty"`
}

// UserJoined announces another participant entering the room.
type UserJoined struct {
	UserID   string `json:"user_id,omitempty"`
	Nickname string `json:"nickname"`
}

// UserLeft announces a participant leaving the room.
type UserLeft struct {
	UserID string `json:"user_id,omitempty"`
}

// Enqueued reports the own thread's queue position and estimated wait.
type Enqueued struct {
	JobID      string `json:"job_id,omitempty"`
	Position   int    `json:"position"`
	EtaSeconds int    `json:"eta_seconds"`
}

// GenerationStart marks the beginning of streamed assistant output.
type GenerationStart struct {
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

// Chunk carries one incremental fragment of streamed assistant output.
type Chunk struct {
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
	Delta    string `json:"delta"`
}

// GenerationDone marks the end of streamed assistant output.
type GenerationDone struct {
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
}

// MessageAdded broadcasts a finalized message appended to a thread.
type MessageAdded struct {
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
	Content  string `json:"content"`
	Nickname string `json:"nickname"`
}

// Typing updates a participant's typing indicator.
type Typing struct {
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
	IsTyping bool   `json:"is_typing"`
	Nickname string `json:"nickname"`
}

// ServerError is a non-fatal application error reported by the server.
type ServerError struct {
	Message string `json:"message"`
}

func (*Joined) Kind() string          { return KindJoined }
func (*UserJoined) Kind() string      { return KindUserJoined }
func (*UserLeft) Kind() string        { return KindUserLeft }
func (*Enqueued) Kind() string        { return KindEnqueued }
func (*GenerationStart) Kind() string { return KindGenerationStart }
func (*Chunk) Kind() string           { return KindChunk }
func (*GenerationDone) Kind() string  { return KindGenerationDone }
func (*MessageAdded) Kind() string    { return KindMessageAdded }
func (*Typing) Kind() string          { return KindTyping }
func (*ServerError) Kind() string     { return KindError }

func (*Joined) event()          {}
func (*UserJoined) event()      {}
func (*UserLeft) event()        {}
func (*Enqueued) event()        {}
func (*GenerationStart) event() {}
func (*Chunk) event()           {}
func (*GenerationDone) event()  {}
func (*MessageAdded) event()    {}
func (*Typing) event()          {}
func (*ServerError) event()     {}

// Wire discriminators for inbound events.
const (
	KindJoined          = "joined"
	KindUserJoined      = "user_joined"
	KindUserLeft        = "user_left"
	KindEnqueued        = "enqueued"
	KindGenerationStart = "generation_start"
	KindChunk           = "chunk"
	KindGenerationDone  = "generation_done"
	KindMessageAdded    = "message_added"
	KindTyping          = "typing"
	KindError           = "error"
)
