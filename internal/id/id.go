// Package id generates record identifiers.
package id

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator produces identifiers that are unique within a collection.
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUIDs. It is the default generator.
type UUID struct{}

// NewID returns a new random UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence hands out prefix+1, prefix+2, ... It is deterministic and meant
// for tests and fixtures.
type Sequence struct {
	Prefix string

	mu   sync.Mutex
	next int
}

// NewSequence returns a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.Prefix + strconv.Itoa(s.next)
}

// Valid reports whether s can be used as an identifier argument.
func Valid(s string) bool {
	return strings.TrimSpace(s) != "" && strings.TrimSpace(s) == s
}
