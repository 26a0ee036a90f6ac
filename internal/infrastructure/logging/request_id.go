package logging

import (
	"github.com/google/uuid"
)

// RequestIDGenerator generates unique request IDs
type RequestIDGenerator struct {
	prefix string
}

// NewRequestIDGenerator creates a new request ID generator; an empty prefix yields bare UUIDs
func NewRequestIDGenerator(prefix string) *RequestIDGenerator {
	return &RequestIDGenerator{
		prefix: prefix,
	}
}

// Generate creates a new unique request ID
// Format: {prefix}_{uuid} or {uuid}
func (g *RequestIDGenerator) Generate() string {
	id := uuid.NewString()
	if g.prefix == "" {
		return id
	}
	return g.prefix + "_" + id
}

// Default request ID generator
var defaultGenerator = NewRequestIDGenerator("")

// GenerateRequestID generates a request ID using the default generator
func GenerateRequestID() string {
	return defaultGenerator.Generate()
}
