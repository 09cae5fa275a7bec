// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

// GenericVisitor provides a utility to walk over AST nodes using a single
// function. If the function returns true, the visitor will not walk over
// the children of x.
type GenericVisitor struct {
	f func(x interface{}) bool
}

// NewGenericVisitor returns a new GenericVisitor that dispatches to f.
func NewGenericVisitor(f func(x interface{}) bool) *GenericVisitor {
	return &GenericVisitor{f}
}

// Walk iterates the AST rooted at x and calls the visitor function on each
// node.
func (vis *GenericVisitor) Walk(x interface{}) {
	if vis.f(x) {
		return
	}
	switch x := x.(type) {
	case *Program:
		for _, rel := range x.Relations {
			vis.Walk(rel)
		}
		for _, dir := range x.Directives {
			vis.Walk(dir)
		}
		for _, clause := range x.Clauses {
			vis.Walk(clause)
		}
	case *Clause:
		vis.Walk(x.Head)
		for _, lit := range x.Body {
			vis.Walk(lit)
		}
	case *Atom:
		for _, arg := range x.Args {
			vis.Walk(arg)
		}
	case *Negation:
		vis.Walk(x.Atom)
	case *BinaryConstraint:
		vis.Walk(x.LHS)
		vis.Walk(x.RHS)
	case *IntrinsicFunctor:
		for _, arg := range x.Args {
			vis.Walk(arg)
		}
	case *Aggregate:
		if x.Expr != nil {
			vis.Walk(x.Expr)
		}
		vis.Walk(x.Body)
	case *RecordInit:
		for _, arg := range x.Args {
			vis.Walk(arg)
		}
	}
}

// WalkVars calls the function f on all named variables under x. If f
// returns true, the walk stops descending under the enclosing node.
func WalkVars(x interface{}, f func(Variable) bool) {
	vis := NewGenericVisitor(func(x interface{}) bool {
		if v, ok := x.(Variable); ok {
			return f(v)
		}
		return false
	})
	vis.Walk(x)
}

// WalkAtoms calls the function f on all atoms under x, including atoms
// inside negations and aggregate bodies. If f returns true, the walk stops
// descending under the atom.
func WalkAtoms(x interface{}, f func(*Atom) bool) {
	vis := NewGenericVisitor(func(x interface{}) bool {
		if a, ok := x.(*Atom); ok {
			return f(a)
		}
		return false
	})
	vis.Walk(x)
}

// WalkLiterals calls the function f on all literals under x. If f returns
// true, the walk stops descending under the literal.
func WalkLiterals(x interface{}, f func(Literal) bool) {
	vis := NewGenericVisitor(func(x interface{}) bool {
		if lit, ok := x.(Literal); ok {
			return f(lit)
		}
		return false
	})
	vis.Walk(x)
}
