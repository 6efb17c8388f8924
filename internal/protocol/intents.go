package protocol

// Intent is an outbound frame produced by a user action.
type Intent interface {
	// Kind returns the wire discriminator of the intent.
	Kind() string

	intent()
}

// JoinIntent enters the room. An empty nickname lets the server assign one.
type JoinIntent struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname,omitempty"`
}

// MessageIntent submits a user turn for a thread.
type MessageIntent struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id"`
	Content  string `json:"content"`
}

// TypingIntent starts or stops the local typing indicator.
type TypingIntent struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id"`
	IsTyping bool   `json:"is_typing"`
}

// NewJoin builds a join intent.
func NewJoin(nickname string) *JoinIntent {
	return &JoinIntent{Type: "join", Nickname: nickname}
}

// NewMessage builds a message intent.
func NewMessage(threadID, content string) *MessageIntent {
	return &MessageIntent{Type: "message", ThreadID: threadID, Content: content}
}

// NewTyping builds a typing intent.
func NewTyping(threadID string, isTyping bool) *TypingIntent {
	return &TypingIntent{Type: "typing", ThreadID: threadID, IsTyping: isTyping}
}

func (i *JoinIntent) Kind() string    { return i.Type }
func (i *MessageIntent) Kind() string { return i.Type }
func (i *TypingIntent) Kind() string  { return i.Type }

func (*JoinIntent) intent()    {}
func (*MessageIntent) intent() {}
func (*TypingIntent) intent()  {}
