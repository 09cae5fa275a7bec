// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package ram defines the relational algebra machine (RAM), the imperative
// intermediate representation that clauses are lowered into.
//
// A RAM program is a tree: statements sequence and loop over queries, each
// query nests a chain of operations (scans, filters, generator levels)
// around a single terminal (an insertion or a subroutine return), and
// operations reference expressions and conditions over the tuples bound by
// the enclosing levels. Every node exclusively owns its children; nodes are
// never shared between trees.
package ram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yonatan/souffle/ast"
)

// Node represents a node in a RAM program.
type Node interface {
	// String returns a human-readable representation of the node. For
	// operations and statements the representation spans multiple lines.
	String() string
}

// TupleID identifies the tuple environment introduced by one scan or
// generator level within a query. IDs are dense and local to the query.
type TupleID int

func (t TupleID) String() string {
	return fmt.Sprintf("t%d", int(t))
}

type (
	// Expression represents a value computation evaluated against the
	// tuples bound by the enclosing operation levels.
	Expression interface {
		Node
		exprNode()
	}

	// TupleElement represents the value of one column of a bound tuple.
	TupleElement struct {
		Tuple   TupleID
		Element int
	}

	// SignedConstant represents a signed integer constant. String
	// constants are represented by their symbol table index.
	SignedConstant struct {
		Value int64
	}

	// UndefValue represents an unconstrained value. Existence checks
	// ignore columns carrying it.
	UndefValue struct{}

	// IntrinsicOperator represents the application of an intrinsic
	// functor to argument expressions.
	IntrinsicOperator struct {
		Op   ast.FunctorOp
		Args []Expression
	}

	// PackRecord represents the construction of a record value from
	// argument expressions.
	PackRecord struct {
		Args []Expression
	}
)

func (*TupleElement) exprNode()      {}
func (*SignedConstant) exprNode()    {}
func (*UndefValue) exprNode()        {}
func (*IntrinsicOperator) exprNode() {}
func (*PackRecord) exprNode()        {}

func (e *TupleElement) String() string {
	return fmt.Sprintf("%v.%d", e.Tuple, e.Element)
}

func (e *SignedConstant) String() string {
	return fmt.Sprintf("%d", e.Value)
}

func (*UndefValue) String() string {
	return "undef"
}

func (e *IntrinsicOperator) String() string {
	if e.Op.IsInfix() && len(e.Args) == 2 {
		return fmt.Sprintf("(%v %v %v)", e.Args[0], e.Op, e.Args[1])
	}
	if e.Op == ast.FuncNeg && len(e.Args) == 1 {
		return fmt.Sprintf("(-%v)", e.Args[0])
	}
	return fmt.Sprintf("%v(%v)", e.Op, exprList(e.Args))
}

func (e *PackRecord) String() string {
	return "[" + exprList(e.Args) + "]"
}

type (
	// Condition represents a boolean test evaluated against the tuples
	// bound by the enclosing operation levels.
	Condition interface {
		Node
		condNode()
	}

	// Conjunction represents the conjunction of two conditions.
	Conjunction struct {
		Left  Condition
		Right Condition
	}

	// Negation represents the negation of a condition.
	Negation struct {
		Cond Condition
	}

	// Constraint represents a binary comparison between two expressions.
	Constraint struct {
		Op  ast.ConstraintOp
		LHS Expression
		RHS Expression
	}

	// ExistenceCheck tests whether a tuple matching the given values is
	// present in a relation. Columns carrying UndefValue are ignored.
	ExistenceCheck struct {
		Relation string
		Values   []Expression
	}

	// ProvenanceExistenceCheck is the provenance-aware form of
	// ExistenceCheck: it carries placeholder values for the trailing
	// provenance columns and discards them during matching.
	ProvenanceExistenceCheck struct {
		Relation string
		Values   []Expression
	}

	// EmptinessCheck tests whether a relation contains no tuples.
	EmptinessCheck struct {
		Relation string
	}
)

func (*Conjunction) condNode()              {}
func (*Negation) condNode()                 {}
func (*Constraint) condNode()               {}
func (*ExistenceCheck) condNode()           {}
func (*ProvenanceExistenceCheck) condNode() {}
func (*EmptinessCheck) condNode()           {}

func (c *Conjunction) String() string {
	return fmt.Sprintf("(%v and %v)", c.Left, c.Right)
}

func (c *Negation) String() string {
	return fmt.Sprintf("(not %v)", c.Cond)
}

func (c *Constraint) String() string {
	return fmt.Sprintf("%v %v %v", c.LHS, c.Op, c.RHS)
}

func (c *ExistenceCheck) String() string {
	return fmt.Sprintf("(%v) in %v", exprList(c.Values), c.Relation)
}

func (c *ProvenanceExistenceCheck) String() string {
	return fmt.Sprintf("(%v) prov-in %v", exprList(c.Values), c.Relation)
}

func (c *EmptinessCheck) String() string {
	return fmt.Sprintf("empty(%v)", c.Relation)
}

type (
	// Operation represents one level of a query: either a terminal
	// (Insert, SubroutineReturn) or a node wrapping a nested operation.
	Operation interface {
		Node
		opNode()
	}

	// Scan iterates all tuples of a relation, binding each in turn to
	// the tuple environment identified by Tuple.
	Scan struct {
		Relation string
		Tuple    TupleID
		Nested   Operation
	}

	// Filter evaluates the nested operation only for bindings that
	// satisfy the condition.
	Filter struct {
		Cond   Condition
		Nested Operation
	}

	// Aggregate computes an aggregate over the tuples of a relation that
	// satisfy a condition, binding the result at element 0 of Tuple.
	Aggregate struct {
		Tuple    TupleID
		Op       ast.AggregateOp
		Relation string
		Expr     Expression
		Cond     Condition
		Nested   Operation
	}

	// NestedIntrinsicOperator evaluates a multi-result functor, binding
	// each produced value at element 0 of Tuple.
	NestedIntrinsicOperator struct {
		Op     ast.FunctorOp
		Args   []Expression
		Tuple  TupleID
		Nested Operation
	}

	// Insert projects a value tuple into a relation. Insert is a
	// terminal: it has no nested operation.
	Insert struct {
		Relation string
		Values   []Expression
	}

	// SubroutineReturn returns a value tuple to the caller of a
	// subroutine. SubroutineReturn is a terminal.
	SubroutineReturn struct {
		Values []Expression
	}
)

func (*Scan) opNode()                    {}
func (*Filter) opNode()                  {}
func (*Aggregate) opNode()               {}
func (*NestedIntrinsicOperator) opNode() {}
func (*Insert) opNode()                  {}
func (*SubroutineReturn) opNode()        {}

func (o *Scan) String() string                    { return nodeString(o) }
func (o *Filter) String() string                  { return nodeString(o) }
func (o *Aggregate) String() string               { return nodeString(o) }
func (o *NestedIntrinsicOperator) String() string { return nodeString(o) }
func (o *Insert) String() string                  { return nodeString(o) }
func (o *SubroutineReturn) String() string        { return nodeString(o) }

type (
	// Statement represents a top-level RAM statement. Statements are
	// assembled by the program driver; queries produced by clause
	// translation are the leaves.
	Statement interface {
		Node
		stmtNode()
	}

	// Query evaluates one nested operation chain.
	Query struct {
		Op Operation
	}

	// Sequence executes statements in order.
	Sequence struct {
		Stmts []Statement
	}

	// Parallel executes statements in any order. The statements must be
	// independent.
	Parallel struct {
		Stmts []Statement
	}

	// Loop executes its body until an Exit condition inside the body is
	// satisfied.
	Loop struct {
		Body Statement
	}

	// Exit terminates the innermost enclosing loop when its condition is
	// satisfied.
	Exit struct {
		Cond Condition
	}

	// Merge inserts all tuples of the source relation into the target
	// relation.
	Merge struct {
		Target string
		Source string
	}

	// Swap exchanges the contents of two relations.
	Swap struct {
		First  string
		Second string
	}

	// Clear removes all tuples from a relation.
	Clear struct {
		Relation string
	}

	// IO performs input or output on a relation, as described by its
	// directives (e.g. {"operation": "input"}).
	IO struct {
		Relation   string
		Directives map[string]string
	}
)

func (*Query) stmtNode()    {}
func (*Sequence) stmtNode() {}
func (*Parallel) stmtNode() {}
func (*Loop) stmtNode()     {}
func (*Exit) stmtNode()     {}
func (*Merge) stmtNode()    {}
func (*Swap) stmtNode()     {}
func (*Clear) stmtNode()    {}
func (*IO) stmtNode()       {}

func (s *Query) String() string    { return nodeString(s) }
func (s *Sequence) String() string { return nodeString(s) }
func (s *Parallel) String() string { return nodeString(s) }
func (s *Loop) String() string     { return nodeString(s) }
func (s *Exit) String() string     { return nodeString(s) }
func (s *Merge) String() string    { return nodeString(s) }
func (s *Swap) String() string     { return nodeString(s) }
func (s *Clear) String() string    { return nodeString(s) }
func (s *IO) String() string       { return nodeString(s) }

// Relation describes one physical relation of a program, including the
// delta and new copies created for recursive relations.
type Relation struct {
	Name           string
	Arity          int
	AuxiliaryArity int
	Attributes     []string
}

func (r *Relation) String() string {
	return fmt.Sprintf("%v/%d aux=%d", r.Name, r.Arity, r.AuxiliaryArity)
}

// Program represents a complete RAM program: the physical relation
// directory, the main statement, and named subroutines.
type Program struct {
	Relations   []*Relation
	Main        Statement
	Subroutines map[string]Statement
	Symbols     *SymbolTable
}

// SubroutineNames returns the names of the program's subroutines in
// sorted order.
func (p *Program) SubroutineNames() []string {
	names := make([]string, 0, len(p.Subroutines))
	for name := range p.Subroutines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Relation returns the named physical relation or nil.
func (p *Program) Relation(name string) *Relation {
	for _, rel := range p.Relations {
		if rel.Name == name {
			return rel
		}
	}
	return nil
}

func (p *Program) String() string {
	return nodeString(p)
}

func exprList(exprs []Expression) string {
	buf := make([]string, len(exprs))
	for i := range exprs {
		buf[i] = exprs[i].String()
	}
	return strings.Join(buf, ", ")
}

func nodeString(x interface{}) string {
	var b strings.Builder
	if err := Pretty(&b, x); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
