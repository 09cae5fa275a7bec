// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ram

import (
	"fmt"
)

// Visitor defines the interface for visiting RAM nodes.
type Visitor interface {
	// Before is called before recursing into a node's children.
	Before(x interface{})

	// Visit is called for each node. Returning a nil visitor stops the
	// walk under x; returning an error aborts the walk.
	Visit(x interface{}) (Visitor, error)

	// After is called after a node's children have been visited.
	After(x interface{})
}

// Walk invokes the visitor for nodes under x in depth-first order.
// Subroutines of a program are visited in sorted name order.
func Walk(vis Visitor, x interface{}) error {
	impl := walkerImpl{vis: vis}
	impl.walk(x)
	return impl.err
}

type walkerImpl struct {
	vis Visitor
	err error
}

func (w *walkerImpl) walk(x interface{}) {
	if w.err != nil || x == nil {
		return
	}

	prev := w.vis
	w.vis.Before(x)
	defer w.vis.After(x)
	w.vis, w.err = w.vis.Visit(x)
	defer func() { w.vis = prev }()
	if w.err != nil || w.vis == nil {
		return
	}

	switch x := x.(type) {
	case *Program:
		for _, rel := range x.Relations {
			w.walk(rel)
		}
		w.walk(x.Main)
		for _, name := range x.SubroutineNames() {
			w.walk(x.Subroutines[name])
		}
	case *Relation:
	case *Query:
		w.walk(x.Op)
	case *Sequence:
		for _, stmt := range x.Stmts {
			w.walk(stmt)
		}
	case *Parallel:
		for _, stmt := range x.Stmts {
			w.walk(stmt)
		}
	case *Loop:
		w.walk(x.Body)
	case *Exit:
		w.walk(x.Cond)
	case *Merge, *Swap, *Clear, *IO:
	case *Scan:
		w.walk(x.Nested)
	case *Filter:
		w.walk(x.Cond)
		w.walk(x.Nested)
	case *Aggregate:
		if x.Expr != nil {
			w.walk(x.Expr)
		}
		if x.Cond != nil {
			w.walk(x.Cond)
		}
		w.walk(x.Nested)
	case *NestedIntrinsicOperator:
		for _, arg := range x.Args {
			w.walk(arg)
		}
		w.walk(x.Nested)
	case *Insert:
		for _, value := range x.Values {
			w.walk(value)
		}
	case *SubroutineReturn:
		for _, value := range x.Values {
			w.walk(value)
		}
	case *Conjunction:
		w.walk(x.Left)
		w.walk(x.Right)
	case *Negation:
		w.walk(x.Cond)
	case *Constraint:
		w.walk(x.LHS)
		w.walk(x.RHS)
	case *ExistenceCheck:
		for _, value := range x.Values {
			w.walk(value)
		}
	case *ProvenanceExistenceCheck:
		for _, value := range x.Values {
			w.walk(value)
		}
	case *EmptinessCheck:
	case *IntrinsicOperator:
		for _, arg := range x.Args {
			w.walk(arg)
		}
	case *PackRecord:
		for _, arg := range x.Args {
			w.walk(arg)
		}
	case *TupleElement, *SignedConstant, *UndefValue:
	default:
		w.err = fmt.Errorf("illegal ram node: %T", x)
	}
}
