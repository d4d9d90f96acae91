package testutil

// FixedSessionGenerator generates the same session ID every time.
//
// The same scenario with the same FixedSessionGenerator produces
// byte-identical query logs.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a new fixed session ID generator.
// If id is empty, Generate() returns "test-session-default".
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
//
// Implements session.IDGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
