// Package id provides centralized ID generation for the engine.
//
// Background jobs are identified by prefixed ULIDs:
//   - Lexicographic sortability: jobs list in start order
//   - Prefixed types: "job_" makes IDs recognizable in logs and URLs
//   - Type safety: JobID cannot be confused with a session ID
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// JobID identifies a background job
type JobID string

// SessionID identifies a browsing session (one per window)
type SessionID string

const (
	JobPrefix     = "job"
	RequestPrefix = "req"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewJobID generates a new background job ID
func NewJobID() JobID {
	return JobID(Default().GenerateWithPrefix(JobPrefix))
}

// NewRequestID generates an ID for correlating one HTTP request in logs
func NewRequestID() string {
	return Default().GenerateWithPrefix(RequestPrefix)
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id JobID) String() string     { return string(id) }
func (id SessionID) String() string { return string(id) }

// IsValidJobID checks that id is a "job_" prefixed ULID
func IsValidJobID(id string) bool {
	raw, ok := strings.CutPrefix(id, JobPrefix+"_")
	if !ok {
		return false
	}
	_, err := ulid.Parse(raw)
	return err == nil
}

// IsValidSessionID checks that id parses as a UUID
func IsValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// JobTimestamp extracts the creation time encoded in a job ID
func JobTimestamp(id JobID) (time.Time, error) {
	raw, ok := strings.CutPrefix(string(id), JobPrefix+"_")
	if !ok {
		return time.Time{}, fmt.Errorf("job id %q has no %s_ prefix", id, JobPrefix)
	}
	parsed, err := ulid.Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
