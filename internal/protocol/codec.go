package protocol

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// envelope peeks at the discriminator before the full decode.
type envelope struct {
	Type string `json:"type"`
}

// Decode parses an inbound frame into its typed event.
//
// A frame with an unrecognized type decodes to (nil, nil): forward
// compatibility by silent drop. A frame that is not valid JSON, or whose
// body does not match its declared type, is a protocol error the caller
// must surface on the connection error path.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("frame missing type discriminator")
	}

	ev := eventFor(env.Type)
	if ev == nil {
		return nil, nil
	}
	if err := sonic.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("malformed %q frame: %w", env.Type, err)
	}
	return ev, nil
}

// eventFor maps a wire discriminator to a zero value of its event type.
func eventFor(kind string) Event {
	switch kind {
	case KindJoined:
		return &Joined{}
	case KindUserJoined:
		return &UserJoined{}
	case KindUserLeft:
		return &UserLeft{}
	case KindEnqueued:
		return &Enqueued{}
	case KindGenerationStart:
		return &GenerationStart{}
	case KindChunk:
		return &Chunk{}
	case KindGenerationDone:
		return &GenerationDone{}
	case KindMessageAdded:
		return &MessageAdded{}
	case KindTyping:
		return &Typing{}
	case KindError:
		return &ServerError{}
	default:
		return nil
	}
}

// Encode serializes an outbound intent.
func Encode(in Intent) ([]byte, error) {
	data, err := sonic.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode %q intent: %w", in.Kind(), err)
	}
	return data, nil
}
