// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

import (
	"fmt"
	"sort"

	"github.com/yonatan/souffle/ast"
	"github.com/yonatan/souffle/ram"
)

// Location identifies one column of one tuple environment inside the
// operation tree under construction.
type Location struct {
	Tuple   ram.TupleID
	Element int
}

func (l Location) String() string {
	return fmt.Sprintf("%v.%d", l.Tuple, l.Element)
}

// valueIndex is the variable binding table of a single clause translation.
// It records every position at which each variable occurs and the tuple
// assigned to each generator. The first recorded occurrence of a variable is
// its definition point: the location variable references resolve to and the
// location all later occurrences are checked against. A fresh index is built
// for every clause version.
type valueIndex struct {
	vars       map[ast.Variable][]Location
	generators map[ast.Argument]Location
	order      []ast.Argument
	numAtoms   int
}

func newValueIndex() *valueIndex {
	return &valueIndex{
		vars:       map[ast.Variable][]Location{},
		generators: map[ast.Argument]Location{},
	}
}

func (idx *valueIndex) addVarReference(v ast.Variable, loc Location) {
	idx.vars[v] = append(idx.vars[v], loc)
}

// addGenerator assigns loc to a generator node. Generators are keyed by node
// identity: two structurally equal aggregates in one clause are distinct
// generators with distinct tuples.
func (idx *valueIndex) addGenerator(arg ast.Argument, loc Location) {
	if _, ok := idx.generators[arg]; ok {
		return
	}
	idx.generators[arg] = loc
	idx.order = append(idx.order, arg)
}

// bound reports whether the variable has at least one recorded occurrence.
func (idx *valueIndex) bound(v ast.Variable) bool {
	return len(idx.vars[v]) > 0
}

// definitionPoint resolves a variable to the location that binds it.
func (idx *valueIndex) definitionPoint(v ast.Variable) Location {
	locs := idx.vars[v]
	if len(locs) == 0 {
		panic(fmt.Sprintf("illegal unbound variable %v", v))
	}
	return locs[0]
}

// generatorLocation resolves a generator node to the tuple element holding
// its result.
func (idx *valueIndex) generatorLocation(arg ast.Argument) Location {
	loc, ok := idx.generators[arg]
	if !ok {
		panic(fmt.Sprintf("illegal unresolved generator %v", arg))
	}
	return loc
}

// generatorTuple reports whether the tuple belongs to a generator level
// rather than to a scanned atom.
func (idx *valueIndex) generatorTuple(t ram.TupleID) bool {
	return int(t) >= idx.numAtoms
}

// sortedVars returns the indexed variables in lexical order so that emitted
// constraints do not depend on map iteration order.
func (idx *valueIndex) sortedVars() []ast.Variable {
	vars := make([]ast.Variable, 0, len(idx.vars))
	for v := range idx.vars {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}
