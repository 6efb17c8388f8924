package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignOncePerEpoch(t *testing.T) {
	ident := New()
	assert.False(t, ident.Assigned())

	require.NoError(t, ident.Assign("u1", "t1", "@llama-7"))
	assert.True(t, ident.Assigned())
	assert.Equal(t, "u1", ident.ParticipantID())
	assert.Equal(t, "t1", ident.OwnThreadID())
	assert.Equal(t, "@llama-7", ident.DisplayName())

	// Second assignment within the same epoch is rejected and the
	// original identity is untouched.
	err := ident.Assign("u2", "t2", "@alpaca-3")
	assert.Error(t, err)
	assert.Equal(t, "u1", ident.ParticipantID())
	assert.Equal(t, "t1", ident.OwnThreadID())
}

func TestAssignRequiresIDs(t *testing.T) {
	ident := New()
	assert.Error(t, ident.Assign("", "t1", "@x"))
	assert.Error(t, ident.Assign("u1", "", "@x"))
	assert.False(t, ident.Assigned())
}

func TestResetOpensNewEpoch(t *testing.T) {
	ident := New()
	require.NoError(t, ident.Assign("u1", "t1", "@llama-7"))

	before := ident.Epoch()
	ident.Reset()

	assert.False(t, ident.Assigned())
	assert.Empty(t, ident.ParticipantID())
	assert.Empty(t, ident.OwnThreadID())
	assert.NotEqual(t, before, ident.Epoch())

	// A fresh identity may be assigned in the new epoch.
	require.NoError(t, ident.Assign("u9", "t9", "@vicuna-1"))
	assert.Equal(t, "u9", ident.ParticipantID())
}

func TestIsOwnThread(t *testing.T) {
	ident := New()
	assert.False(t, ident.IsOwnThread("t1"))
	assert.False(t, ident.IsOwnThread(""))

	require.NoError(t, ident.Assign("u1", "t1", "@llama-7"))
	assert.True(t, ident.IsOwnThread("t1"))
	assert.False(t, ident.IsOwnThread("t2"))
}

func TestSnapshot(t *testing.T) {
	ident := New()
	require.NoError(t, ident.Assign("u1", "t1", "@llama-7"))

	snap := ident.Snapshot()
	assert.True(t, snap.Assigned)
	assert.Equal(t, "u1", snap.ParticipantID)
	assert.Equal(t, "t1", snap.OwnThreadID)
	assert.Equal(t, "@llama-7", snap.DisplayName)
	assert.Equal(t, ident.Epoch(), snap.Epoch)
}
