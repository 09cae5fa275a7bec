// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package translate lowers clauses of a stratified Datalog program into
// relational algebra machine (RAM) operation trees.
//
// The translation has two orthogonal axes. The clause version selects which
// occurrence of a recursive body atom reads the delta copy of its relation
// during semi-naive evaluation. The provenance flag selects the terminal
// shape: ordinary translation materializes head tuples, provenance
// translation returns the values a proof checker needs to reconstruct one
// derivation step.
//
// Clause lowers a single clause against a caller-supplied Context. Program
// drives the full pipeline: validation, optional provenance instrumentation,
// stratification, semi-naive loop assembly, and subroutine registration.
package translate

import (
	"github.com/yonatan/souffle/logging"
	"github.com/yonatan/souffle/metrics"
	"github.com/yonatan/souffle/ram"
)

// Session carries the state shared by all translations of one compilation:
// the strategy selected by the provenance flag, the symbol table interning
// string constants, and the ambient logger and metrics sinks. Sessions are
// built with New and the With* methods before use.
type Session struct {
	strategy   strategy
	provenance bool
	symbols    *ram.SymbolTable
	logger     logging.Logger
	metrics    metrics.Metrics
	outputs    []string
}

// New returns a new translation session with provenance disabled, an empty
// symbol table, and logging and metrics turned off.
func New() *Session {
	return &Session{
		strategy: baseStrategy{},
		symbols:  ram.NewSymbolTable(),
		logger:   logging.NewNoOpLogger(),
		metrics:  metrics.NoOp(),
	}
}

// WithProvenance selects whether translation instruments the program for
// proof subtree extraction. The flag is read once per translation, not per
// clause.
func (s *Session) WithProvenance(provenance bool) *Session {
	s.provenance = provenance
	if provenance {
		s.strategy = provenanceStrategy{}
	} else {
		s.strategy = baseStrategy{}
	}
	return s
}

// WithLogger sets the logger the session emits translation progress to.
func (s *Session) WithLogger(logger logging.Logger) *Session {
	s.logger = logger
	return s
}

// WithMetrics sets the metrics sink the session records timings and counts
// on.
func (s *Session) WithMetrics(m metrics.Metrics) *Session {
	s.metrics = m
	return s
}

// WithOutputRelations restricts the relations stored by output directives to
// those matching at least one of the given glob patterns. Without patterns
// every output directive is honored.
func (s *Session) WithOutputRelations(patterns ...string) *Session {
	s.outputs = patterns
	return s
}

// Symbols returns the session's symbol table. String constants translated by
// the session resolve through it.
func (s *Session) Symbols() *ram.SymbolTable {
	return s.symbols
}
