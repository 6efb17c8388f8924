// Package id provides centralized ID generation for the client.
//
// IDs are ULIDs: lexicographically sortable, collision-free, and cheap to
// generate. Type-specific prefixes keep logs readable (msg_*, epoch_*).
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MessageID identifies a locally appended chat message.
type MessageID string

// EpochID identifies one connection epoch of a session.
type EpochID string

const (
	MessagePrefix = "msg"
	EpochPrefix   = "epoch"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator with secure entropy.
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewMessageID generates a new message ID.
func NewMessageID() MessageID {
	return MessageID(Default().GenerateWithPrefix(MessagePrefix))
}

// NewEpochID generates a new connection-epoch ID.
func NewEpochID() EpochID {
	return EpochID(Default().GenerateWithPrefix(EpochPrefix))
}
