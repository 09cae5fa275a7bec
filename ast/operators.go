// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import "fmt"

// ConstraintOp represents a binary comparison operator.
type ConstraintOp int

// Comparison operators available in binary constraints.
const (
	EQ ConstraintOp = iota
	NE
	LT
	LE
	GT
	GE
)

func (op ConstraintOp) String() string {
	switch op {
	case EQ:
		return "="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	}
	panic(fmt.Sprintf("illegal constraint operator: %d", int(op)))
}

// FunctorOp represents an intrinsic functor operator. Most functors
// compute a single value from their arguments. Multi-result functors
// (e.g., FuncRange) produce a sequence of values and are evaluated as
// generators rather than inline expressions.
type FunctorOp int

// Intrinsic functor operators.
const (
	FuncAdd FunctorOp = iota
	FuncSub
	FuncMul
	FuncDiv
	FuncMod
	FuncNeg
	FuncBand
	FuncBor
	FuncBxor
	FuncBnot
	FuncMax
	FuncMin
	FuncCat
	FuncStrlen
	FuncRange
)

func (op FunctorOp) String() string {
	switch op {
	case FuncAdd:
		return "+"
	case FuncSub:
		return "-"
	case FuncMul:
		return "*"
	case FuncDiv:
		return "/"
	case FuncMod:
		return "%"
	case FuncNeg:
		return "-"
	case FuncBand:
		return "band"
	case FuncBor:
		return "bor"
	case FuncBxor:
		return "bxor"
	case FuncBnot:
		return "bnot"
	case FuncMax:
		return "max"
	case FuncMin:
		return "min"
	case FuncCat:
		return "cat"
	case FuncStrlen:
		return "strlen"
	case FuncRange:
		return "range"
	}
	panic(fmt.Sprintf("illegal functor operator: %d", int(op)))
}

// IsInfix returns true if the operator is written between its two arguments.
func (op FunctorOp) IsInfix() bool {
	switch op {
	case FuncAdd, FuncSub, FuncMul, FuncDiv, FuncMod:
		return true
	}
	return false
}

// IsMultiResult returns true if the operator produces a sequence of values
// instead of a single value. Multi-result functors require a generator
// level during translation.
func (op FunctorOp) IsMultiResult() bool {
	return op == FuncRange
}

// AggregateOp represents an aggregate operator applied over the tuples
// matched by an aggregate's body.
type AggregateOp int

// Aggregate operators.
const (
	AggCount AggregateOp = iota
	AggSum
	AggMin
	AggMax
	AggMean
)

func (op AggregateOp) String() string {
	switch op {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggMean:
		return "mean"
	}
	panic(fmt.Sprintf("illegal aggregate operator: %d", int(op)))
}
