package testutil

// FixedIDGenerator returns the same evaluation ID every time.
//
// Output that embeds evaluation IDs (CLI JSON, logs) becomes byte-identical
// across runs. Unlike query.SequenceGenerator it does not count.
//
// Thread-safety: stateless, safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator returning id.
// If id is empty, Generate returns "test-eval".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-eval"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID. Implements query.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
