// Package seeds builds domain fixtures for tests with a fluent API.
package seeds

// Seeder is the entry point for building fixtures
type Seeder struct{}

// New creates a new Seeder instance
func New() *Seeder {
	return &Seeder{}
}

// Pair starts building a DEX pair listing the given mint
func (s *Seeder) Pair(mint string) *PairBuilder {
	return NewPairBuilder(mint)
}

// PairsPage starts building a pairs listing
func (s *Seeder) PairsPage() *PairsPageBuilder {
	return NewPairsPageBuilder()
}
