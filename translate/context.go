// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

// Context supplies the per-relation facts clause translation depends on.
// Implementations must be cheap and safe for concurrent use: one Context is
// shared by all parallel clause translations of a stratum.
type Context interface {
	// AuxiliaryArity returns the number of trailing annotation columns of
	// the relation. It is zero unless the program was instrumented for
	// provenance.
	AuxiliaryArity(relation string) int

	// IsRecursive reports whether the relation belongs to the recursive
	// component currently under evaluation.
	IsRecursive(relation string) bool

	// ConcreteName maps a relation to the name of its full physical copy.
	ConcreteName(relation string) string
}

const (
	deltaPrefix = "@delta_"
	newPrefix   = "@new_"
)

// DeltaName returns the name of the relation copy holding the tuples derived
// in the previous fixpoint iteration.
func DeltaName(name string) string {
	return deltaPrefix + name
}

// NewName returns the name of the relation copy collecting the tuples
// derived in the current fixpoint iteration.
func NewName(name string) string {
	return newPrefix + name
}

// StaticContext is a map-backed Context for callers translating individual
// clauses outside of a full program compilation. Missing entries default to
// zero auxiliary arity and non-recursive; relations map to themselves.
type StaticContext struct {
	Aux       map[string]int
	Recursive map[string]bool
}

// AuxiliaryArity returns the configured auxiliary arity of the relation.
func (c *StaticContext) AuxiliaryArity(relation string) int {
	return c.Aux[relation]
}

// IsRecursive reports whether the relation is configured as recursive.
func (c *StaticContext) IsRecursive(relation string) bool {
	return c.Recursive[relation]
}

// ConcreteName returns the relation name unchanged.
func (*StaticContext) ConcreteName(relation string) string {
	return relation
}
