package memory

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based sheet and participant IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new monotonic-per-millisecond ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
