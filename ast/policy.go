// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package ast declares the abstract syntax tree of the Datalog dialect
// compiled by this module: argument values, literals, clauses, relation
// declarations, and whole programs, together with the relation precedence
// graph used to order evaluation.
//
// Nodes are plain data. Translation to the RAM intermediate representation
// lives in the translate package; the AST carries no evaluation logic.
package ast

import (
	"fmt"
	"strings"
)

type (
	// Literal represents a single element of a clause body: a positive
	// atom, a negated atom, or a binary constraint.
	Literal interface {
		// String returns the source-level representation of the literal.
		String() string

		litNode()
	}

	// Atom represents a positive use of a relation with an ordered list
	// of arguments.
	Atom struct {
		Name string
		Args []Argument
	}

	// Negation represents negation-as-failure applied to an atom.
	Negation struct {
		Atom *Atom
	}

	// BinaryConstraint represents a comparison between two argument
	// expressions.
	BinaryConstraint struct {
		Op  ConstraintOp
		LHS Argument
		RHS Argument
	}

	// Clause represents one rule (head atom and non-empty body) or one
	// fact (head atom only).
	Clause struct {
		Head *Atom
		Body []Literal
	}

	// Relation declares a relation: its name, arity, and optional
	// attribute names used for printing.
	Relation struct {
		Name       string
		Arity      int
		Attributes []string
	}

	// Directive marks a relation as an input (facts loaded before
	// evaluation) or an output (tuples emitted after evaluation).
	Directive struct {
		Kind     DirectiveKind
		Relation string
	}

	// Program represents a complete program: relation declarations,
	// input/output directives, and clauses.
	Program struct {
		Relations  []*Relation
		Directives []*Directive
		Clauses    []*Clause
	}
)

// DirectiveKind distinguishes input from output directives.
type DirectiveKind int

// Directive kinds.
const (
	InputDirective DirectiveKind = iota
	OutputDirective
)

func (k DirectiveKind) String() string {
	switch k {
	case InputDirective:
		return "input"
	case OutputDirective:
		return "output"
	}
	panic(fmt.Sprintf("illegal directive kind: %d", int(k)))
}

// Arity returns the number of arguments of the atom.
func (a *Atom) Arity() int {
	return len(a.Args)
}

// Equal returns true if this atom has the same relation name and equal
// arguments as the other atom.
func (a *Atom) Equal(other *Atom) bool {
	if a.Name != other.Name || len(a.Args) != len(other.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// Copy returns a copy of the atom with a fresh argument slice. The
// argument values themselves are shared: they are immutable during
// translation.
func (a *Atom) Copy() *Atom {
	cpy := *a
	cpy.Args = make([]Argument, len(a.Args))
	copy(cpy.Args, a.Args)
	return &cpy
}

func (a *Atom) String() string {
	buf := make([]string, len(a.Args))
	for i := range a.Args {
		buf[i] = a.Args[i].String()
	}
	return fmt.Sprintf("%v(%v)", a.Name, strings.Join(buf, ", "))
}

// Equal returns true if both negations wrap equal atoms.
func (n *Negation) Equal(other *Negation) bool {
	return n.Atom.Equal(other.Atom)
}

// Copy returns a copy of the negation wrapping a copied atom.
func (n *Negation) Copy() *Negation {
	return &Negation{Atom: n.Atom.Copy()}
}

func (n *Negation) String() string {
	return "!" + n.Atom.String()
}

// Equal returns true if both constraints have the same operator and equal
// operands.
func (c *BinaryConstraint) Equal(other *BinaryConstraint) bool {
	return c.Op == other.Op && c.LHS.Equal(other.LHS) && c.RHS.Equal(other.RHS)
}

// Copy returns a copy of the constraint. Operands are shared.
func (c *BinaryConstraint) Copy() *BinaryConstraint {
	cpy := *c
	return &cpy
}

func (c *BinaryConstraint) String() string {
	return fmt.Sprintf("%v %v %v", c.LHS, c.Op, c.RHS)
}

func (*Atom) litNode()             {}
func (*Negation) litNode()         {}
func (*BinaryConstraint) litNode() {}

// IsFact returns true if the clause has no body.
func (c *Clause) IsFact() bool {
	return len(c.Body) == 0
}

// Atoms returns the positive atoms of the clause body in body order.
func (c *Clause) Atoms() []*Atom {
	var atoms []*Atom
	for _, lit := range c.Body {
		if atom, ok := lit.(*Atom); ok {
			atoms = append(atoms, atom)
		}
	}
	return atoms
}

// Copy returns a copy of the clause with fresh head, body slice, and
// copied literals.
func (c *Clause) Copy() *Clause {
	cpy := Clause{Head: c.Head.Copy()}
	cpy.Body = make([]Literal, len(c.Body))
	for i, lit := range c.Body {
		switch lit := lit.(type) {
		case *Atom:
			cpy.Body[i] = lit.Copy()
		case *Negation:
			cpy.Body[i] = lit.Copy()
		case *BinaryConstraint:
			cpy.Body[i] = lit.Copy()
		default:
			panic(fmt.Sprintf("illegal literal type %T", lit))
		}
	}
	return &cpy
}

func (c *Clause) String() string {
	if c.IsFact() {
		return c.Head.String() + "."
	}
	buf := make([]string, len(c.Body))
	for i := range c.Body {
		buf[i] = c.Body[i].String()
	}
	return fmt.Sprintf("%v :- %v.", c.Head, strings.Join(buf, ", "))
}

// Copy returns a copy of the relation declaration.
func (r *Relation) Copy() *Relation {
	cpy := *r
	cpy.Attributes = make([]string, len(r.Attributes))
	copy(cpy.Attributes, r.Attributes)
	return &cpy
}

func (r *Relation) String() string {
	attrs := make([]string, r.Arity)
	for i := 0; i < r.Arity; i++ {
		if i < len(r.Attributes) {
			attrs[i] = r.Attributes[i]
		} else {
			attrs[i] = fmt.Sprintf("x%d", i)
		}
	}
	return fmt.Sprintf(".decl %v(%v)", r.Name, strings.Join(attrs, ", "))
}

func (d *Directive) String() string {
	return fmt.Sprintf(".%v %v", d.Kind, d.Relation)
}

// Relation returns the declaration of the named relation or nil if the
// program does not declare it.
func (p *Program) Relation(name string) *Relation {
	for _, rel := range p.Relations {
		if rel.Name == name {
			return rel
		}
	}
	return nil
}

// Copy returns a deep copy of the program structure. Argument values are
// shared between the copies.
func (p *Program) Copy() *Program {
	cpy := Program{
		Relations:  make([]*Relation, len(p.Relations)),
		Directives: make([]*Directive, len(p.Directives)),
		Clauses:    make([]*Clause, len(p.Clauses)),
	}
	for i, rel := range p.Relations {
		cpy.Relations[i] = rel.Copy()
	}
	for i, dir := range p.Directives {
		d := *dir
		cpy.Directives[i] = &d
	}
	for i, clause := range p.Clauses {
		cpy.Clauses[i] = clause.Copy()
	}
	return &cpy
}

func (p *Program) String() string {
	var buf []string
	for _, rel := range p.Relations {
		buf = append(buf, rel.String())
	}
	for _, dir := range p.Directives {
		buf = append(buf, dir.String())
	}
	for _, clause := range p.Clauses {
		buf = append(buf, clause.String())
	}
	return strings.Join(buf, "\n")
}
