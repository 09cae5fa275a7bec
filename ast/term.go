// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"strings"
)

// Argument declares the common interface for all argument values appearing
// inside literals. Every kind of argument in the language is represented as
// a type that implements this interface:
//
// - Variables (named and unnamed)
// - Number and string constants
// - Intrinsic functor applications
// - Aggregates
// - Record constructors
type Argument interface {
	// Equal returns true if this argument equals the other argument.
	Equal(other Argument) bool

	// String returns the source-level representation of the argument.
	String() string

	argNode()
}

// Variable represents a named variable.
type Variable string

// Equal returns true if the other argument is the same variable.
func (v Variable) Equal(other Argument) bool {
	switch other := other.(type) {
	case Variable:
		return v == other
	}
	return false
}

func (v Variable) String() string {
	return string(v)
}

// UnnamedVariable represents an anonymous variable ("_"). Each occurrence
// is distinct: an unnamed variable matches anything and binds nothing.
type UnnamedVariable struct{}

// Equal returns true if the other argument is also an unnamed variable.
func (UnnamedVariable) Equal(other Argument) bool {
	_, ok := other.(UnnamedVariable)
	return ok
}

func (UnnamedVariable) String() string {
	return "_"
}

// NumberConstant represents a signed integer constant.
type NumberConstant int64

// Equal returns true if the other argument is the same number.
func (n NumberConstant) Equal(other Argument) bool {
	switch other := other.(type) {
	case NumberConstant:
		return n == other
	}
	return false
}

func (n NumberConstant) String() string {
	return fmt.Sprintf("%d", int64(n))
}

// StringConstant represents a string constant. String constants are
// interned into the symbol table during translation and represented as
// signed constants carrying the symbol index.
type StringConstant string

// Equal returns true if the other argument is the same string.
func (s StringConstant) Equal(other Argument) bool {
	switch other := other.(type) {
	case StringConstant:
		return s == other
	}
	return false
}

func (s StringConstant) String() string {
	return fmt.Sprintf("%q", string(s))
}

// IntrinsicFunctor represents the application of an intrinsic functor to
// one or more arguments. Functors whose operator is multi-result are
// generators: they introduce an evaluation level during translation and
// may only appear where a generator binding is legal.
type IntrinsicFunctor struct {
	Op   FunctorOp
	Args []Argument
}

// Equal returns true if the other argument is a functor application with
// the same operator and equal arguments.
func (f *IntrinsicFunctor) Equal(other Argument) bool {
	switch other := other.(type) {
	case *IntrinsicFunctor:
		if f.Op != other.Op || len(f.Args) != len(other.Args) {
			return false
		}
		for i := range f.Args {
			if !f.Args[i].Equal(other.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (f *IntrinsicFunctor) String() string {
	if f.Op.IsInfix() && len(f.Args) == 2 {
		return fmt.Sprintf("(%v %v %v)", f.Args[0], f.Op, f.Args[1])
	}
	if f.Op == FuncNeg && len(f.Args) == 1 {
		return fmt.Sprintf("(-%v)", f.Args[0])
	}
	buf := make([]string, len(f.Args))
	for i := range f.Args {
		buf[i] = f.Args[i].String()
	}
	return fmt.Sprintf("%v(%v)", f.Op, strings.Join(buf, ", "))
}

// Aggregate represents an aggregate computation over the tuples of a body
// atom, e.g. count or min. Expr is the target expression evaluated per
// matched tuple; it is nil for count. Aggregates are always generators.
type Aggregate struct {
	Op   AggregateOp
	Expr Argument
	Body *Atom
}

// Equal returns true if the other argument is an aggregate with the same
// operator, target expression, and body atom.
func (a *Aggregate) Equal(other Argument) bool {
	switch other := other.(type) {
	case *Aggregate:
		if a.Op != other.Op {
			return false
		}
		if (a.Expr == nil) != (other.Expr == nil) {
			return false
		}
		if a.Expr != nil && !a.Expr.Equal(other.Expr) {
			return false
		}
		return a.Body.Equal(other.Body)
	}
	return false
}

func (a *Aggregate) String() string {
	if a.Expr == nil {
		return fmt.Sprintf("%v : %v", a.Op, a.Body)
	}
	return fmt.Sprintf("%v %v : %v", a.Op, a.Expr, a.Body)
}

// RecordInit represents a record constructor packing its arguments into a
// single record value.
type RecordInit struct {
	Args []Argument
}

// Equal returns true if the other argument is a record constructor with
// equal arguments.
func (r *RecordInit) Equal(other Argument) bool {
	switch other := other.(type) {
	case *RecordInit:
		if len(r.Args) != len(other.Args) {
			return false
		}
		for i := range r.Args {
			if !r.Args[i].Equal(other.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (r *RecordInit) String() string {
	buf := make([]string, len(r.Args))
	for i := range r.Args {
		buf[i] = r.Args[i].String()
	}
	return "[" + strings.Join(buf, ", ") + "]"
}

func (Variable) argNode()          {}
func (UnnamedVariable) argNode()   {}
func (NumberConstant) argNode()    {}
func (StringConstant) argNode()    {}
func (*IntrinsicFunctor) argNode() {}
func (*Aggregate) argNode()        {}
func (*RecordInit) argNode()       {}

// IsConstant returns true if the argument is a number or string constant.
func IsConstant(arg Argument) bool {
	switch arg.(type) {
	case NumberConstant, StringConstant:
		return true
	}
	return false
}

// IsGenerator returns true if the argument introduces a generator level
// during translation: aggregates and multi-result functor applications.
func IsGenerator(arg Argument) bool {
	switch arg := arg.(type) {
	case *Aggregate:
		return true
	case *IntrinsicFunctor:
		return arg.Op.IsMultiResult()
	}
	return false
}
