package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinedStore() *Store {
	s := NewStore()
	s.OnJoined("u1", "t1", "@llama-7")
	return s
}

func TestStreamingAccumulation(t *testing.T) {
	s := joinedStore()

	s.OnGenerationStart("t1", "u1", "@llama-7")
	s.OnChunk("t1", "u1", "a")
	s.OnChunk("t1", "u1", "b")
	s.OnGenerationDone("t1")

	msgs := s.Messages("t1")
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, "ab", msgs[0].Content)
	assert.False(t, msgs[0].Streaming)
	assert.False(t, s.GenerationInProgress("t1"))
}

func TestGenerationFlag(t *testing.T) {
	s := joinedStore()

	assert.False(t, s.GenerationInProgress("t1"))

	s.OnGenerationStart("t1", "u1", "@llama-7")
	assert.True(t, s.GenerationInProgress("t1"))

	s.OnGenerationDone("t1")
	assert.False(t, s.GenerationInProgress("t1"))

	// Start after done raises it again.
	s.OnGenerationStart("t1", "u1", "@llama-7")
	assert.True(t, s.GenerationInProgress("t1"))
}

func TestChunkAfterUserMessageStartsNewAssistantMessage(t *testing.T) {
	s := joinedStore()

	s.AppendLocalEcho("hi")
	s.OnGenerationStart("t1", "u1", "@llama-7")
	s.OnChunk("t1", "u1", "He")
	s.OnChunk("t1", "u1", "llo")
	s.OnChunk("t1", "u1", "!")
	s.OnGenerationDone("t1")

	msgs := s.Messages("t1")
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hello!", msgs[1].Content)
	assert.False(t, s.GenerationInProgress("t1"))
}

func TestConsecutiveGenerationsDoNotMerge(t *testing.T) {
	s := joinedStore()

	s.OnGenerationStart("t1", "u1", "@llama-7")
	s.OnChunk("t1", "u1", "first")
	s.OnGenerationDone("t1")

	s.OnGenerationStart("t1", "u1", "@llama-7")
	s.OnChunk("t1", "u1", "second")
	s.OnGenerationDone("t1")

	msgs := s.Messages("t1")
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
}

func TestObservedThreadLazyCreation(t *testing.T) {
	s := joinedStore()

	// First reference to an unseen thread id creates it.
	s.OnChunk("t2", "u2", "other")
	assert.Len(t, s.Messages("t2"), 1)

	snap := s.Snapshot()
	require.NotNil(t, snap.Own)
	assert.Equal(t, "t1", snap.Own.ID)
	require.Len(t, snap.Observed, 1)
	assert.Equal(t, "t2", snap.Observed[0].ID)
	assert.Equal(t, "u2", snap.Observed[0].OwnerID)
}

func TestObservedMessageAppended(t *testing.T) {
	s := joinedStore()

	s.OnMessageAppended("t2", "u2", "hello from u2", "@alpaca-3", RoleUser)

	msgs := s.Messages("t2")
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello from u2", msgs[0].Content)

	snap := s.Snapshot()
	require.Len(t, snap.Observed, 1)
	assert.Equal(t, "@alpaca-3", snap.Observed[0].OwnerName)
}

func TestOwnEchoDeduplicated(t *testing.T) {
	s := joinedStore()

	s.AppendLocalEcho("hi")
	require.Len(t, s.Messages("t1"), 1)

	// Server echo of the same submission is consumed, not re-appended.
	s.OnMessageAppended("t1", "u1", "hi", "@llama-7", RoleUser)
	assert.Len(t, s.Messages("t1"), 1)

	// A genuinely new own-thread message still appends.
	s.OnMessageAppended("t1", "u1", "something else", "@llama-7", RoleUser)
	assert.Len(t, s.Messages("t1"), 2)
}

func TestEchoDedupPreservesOrder(t *testing.T) {
	s := joinedStore()

	s.AppendLocalEcho("one")
	s.AppendLocalEcho("two")

	s.OnMessageAppended("t1", "u1", "one", "@llama-7", RoleUser)
	s.OnMessageAppended("t1", "u1", "two", "@llama-7", RoleUser)

	msgs := s.Messages("t1")
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
}

func TestLocalEchoBeforeJoinIsNoop(t *testing.T) {
	s := NewStore()
	s.AppendLocalEcho("too early")
	assert.Nil(t, s.Messages(""))
	assert.Nil(t, s.Snapshot().Own)
}

func TestNotices(t *testing.T) {
	s := joinedStore()

	s.AppendNotice("@alpaca-3 joined the room")

	msgs := s.Messages("t1")
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "@alpaca-3 joined the room", msgs[0].Content)
}

func TestRejoinCarriesMessagesToNewThread(t *testing.T) {
	s := joinedStore()
	s.AppendLocalEcho("before drop")
	s.OnGenerationStart("t1", "u1", "@llama-7")
	s.OnChunk("t1", "u1", "partial")
	s.OnGenerationDone("t1")

	// Reconnect: fresh identity, fresh thread id.
	s.OnJoined("u9", "t9", "@llama-7")

	assert.Equal(t, "t9", s.OwnThreadID())
	msgs := s.Messages("t9")
	require.Len(t, msgs, 2)
	assert.Equal(t, "before drop", msgs[0].Content)
	assert.Equal(t, "partial", msgs[1].Content)

	// The old thread id no longer shows up as an observed thread.
	assert.Empty(t, s.Snapshot().Observed)
}

func TestRemoveObservedThread(t *testing.T) {
	s := joinedStore()
	s.OnChunk("t2", "u2", "x")

	s.Remove("t2")
	assert.Empty(t, s.Snapshot().Observed)

	// The own thread cannot be removed.
	s.Remove("t1")
	assert.NotNil(t, s.Snapshot().Own)
}

func TestChunkWithoutStartStillMaterializes(t *testing.T) {
	s := joinedStore()

	// Partial delivery: chunk arrives before its generation_start.
	s.OnChunk("t1", "u1", "orphan")

	msgs := s.Messages("t1")
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	// The flag only tracks start/done events.
	assert.False(t, s.GenerationInProgress("t1"))
}
