package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEventKinds(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		check func(t *testing.T, ev Event)
	}{
		{
			name:  "joined",
			frame: `{"type":"joined","user_id":"u1","thread_id":"t1","nickname":"@llama-7","room_id":"r1"}`,
			check: func(t *testing.T, ev Event) {
				joined, ok := ev.(*Joined)
				require.True(t, ok)
				assert.Equal(t, "u1", joined.UserID)
				assert.Equal(t, "t1", joined.ThreadID)
				assert.Equal(t, "@llama-7", joined.Nickname)
				assert.Equal(t, "r1", joined.RoomID)
			},
		},
		{
			name:  "user_joined",
			frame: `{"type":"user_joined","user_id":"u2","nickname":"@alpaca-3"}`,
			check: func(t *testing.T, ev Event) {
				uj, ok := ev.(*UserJoined)
				require.True(t, ok)
				assert.Equal(t, "@alpaca-3", uj.Nickname)
			},
		},
		{
			name:  "user_left",
			frame: `{"type":"user_left","user_id":"u2"}`,
			check: func(t *testing.T, ev Event) {
				_, ok := ev.(*UserLeft)
				require.True(t, ok)
			},
		},
		{
			name:  "enqueued",
			frame: `{"type":"enqueued","job_id":"j1","position":2,"eta_seconds":18}`,
			check: func(t *testing.T, ev Event) {
				enq, ok := ev.(*Enqueued)
				require.True(t, ok)
				assert.Equal(t, 2, enq.Position)
				assert.Equal(t, 18, enq.EtaSeconds)
			},
		},
		{
			name:  "generation_start",
			frame: `{"type":"generation_start","thread_id":"t1","user_id":"u1","nickname":"@llama-7"}`,
			check: func(t *testing.T, ev Event) {
				gs, ok := ev.(*GenerationStart)
				require.True(t, ok)
				assert.Equal(t, "t1", gs.ThreadID)
			},
		},
		{
			name:  "chunk",
			frame: `{"type":"chunk","thread_id":"t1","user_id":"u1","delta":"He"}`,
			check: func(t *testing.T, ev Event) {
				ch, ok := ev.(*Chunk)
				require.True(t, ok)
				assert.Equal(t, "He", ch.Delta)
			},
		},
		{
			name:  "generation_done",
			frame: `{"type":"generation_done","thread_id":"t1","user_id":"u1"}`,
			check: func(t *testing.T, ev Event) {
				_, ok := ev.(*GenerationDone)
				require.True(t, ok)
			},
		},
		{
			name:  "message_added",
			frame: `{"type":"message_added","thread_id":"t1","user_id":"u1","content":"hi","nickname":"@llama-7"}`,
			check: func(t *testing.T, ev Event) {
				ma, ok := ev.(*MessageAdded)
				require.True(t, ok)
				assert.Equal(t, "hi", ma.Content)
			},
		},
		{
			name:  "typing",
			frame: `{"type":"typing","user_id":"u2","thread_id":"t2","is_typing":true,"nickname":"@alpaca-3"}`,
			check: func(t *testing.T, ev Event) {
				ty, ok := ev.(*Typing)
				require.True(t, ok)
				assert.True(t, ty.IsTyping)
			},
		},
		{
			name:  "error",
			frame: `{"type":"error","message":"model overloaded"}`,
			check: func(t *testing.T, ev Event) {
				se, ok := ev.(*ServerError)
				require.True(t, ok)
				assert.Equal(t, "model overloaded", se.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.frame))
			require.NoError(t, err)
			require.NotNil(t, ev)
			assert.Equal(t, tt.name, ev.Kind())
			tt.check(t, ev)
		})
	}
}

func TestDecodeUnknownKindDropped(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"future_feature","payload":42}`))
	assert.NoError(t, err)
	assert.Nil(t, ev)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `{{{`},
		{"missing type", `{"user_id":"u1"}`},
		{"body mismatch", `{"type":"enqueued","position":"second"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.frame))
			assert.Error(t, err)
			assert.Nil(t, ev)
		})
	}
}

func TestEncodeIntents(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   map[string]interface{}
	}{
		{
			name:   "join",
			intent: NewJoin("@llama-7"),
			want:   map[string]interface{}{"type": "join", "nickname": "@llama-7"},
		},
		{
			name:   "join without nickname",
			intent: NewJoin(""),
			want:   map[string]interface{}{"type": "join"},
		},
		{
			name:   "message",
			intent: NewMessage("t1", "hello"),
			want:   map[string]interface{}{"type": "message", "thread_id": "t1", "content": "hello"},
		},
		{
			name:   "typing",
			intent: NewTyping("t1", true),
			want:   map[string]interface{}{"type": "typing", "thread_id": "t1", "is_typing": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.intent)
			require.NoError(t, err)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
