// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ram

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Pretty writes an indented human-readable listing of a RAM node to w.
// Statements and operations print one line per nesting level; expressions
// and conditions print inline.
func Pretty(w io.Writer, x interface{}) error {
	pp := &prettyPrinter{w: w}
	pp.print(x, 0)
	return pp.err
}

type prettyPrinter struct {
	w   io.Writer
	err error
}

func (pp *prettyPrinter) line(depth int, f string, a ...interface{}) {
	if pp.err != nil {
		return
	}
	args := append([]interface{}{strings.Repeat(" ", depth)}, a...)
	_, pp.err = fmt.Fprintf(pp.w, "%v"+f+"\n", args...)
}

func (pp *prettyPrinter) print(x interface{}, depth int) {
	if pp.err != nil {
		return
	}
	switch x := x.(type) {
	case *Program:
		pp.line(depth, "PROGRAM")
		for _, rel := range x.Relations {
			pp.line(depth+1, "DECL %v", rel)
		}
		pp.line(depth+1, "MAIN")
		pp.print(x.Main, depth+2)
		for _, name := range x.SubroutineNames() {
			pp.line(depth+1, "SUBROUTINE %v", name)
			pp.print(x.Subroutines[name], depth+2)
		}
	case *Query:
		pp.line(depth, "QUERY")
		pp.print(x.Op, depth+1)
	case *Sequence:
		pp.line(depth, "SEQUENCE")
		for _, stmt := range x.Stmts {
			pp.print(stmt, depth+1)
		}
	case *Parallel:
		pp.line(depth, "PARALLEL")
		for _, stmt := range x.Stmts {
			pp.print(stmt, depth+1)
		}
	case *Loop:
		pp.line(depth, "LOOP")
		pp.print(x.Body, depth+1)
	case *Exit:
		pp.line(depth, "EXIT %v", x.Cond)
	case *Merge:
		pp.line(depth, "MERGE %v INTO %v", x.Source, x.Target)
	case *Swap:
		pp.line(depth, "SWAP (%v, %v)", x.First, x.Second)
	case *Clear:
		pp.line(depth, "CLEAR %v", x.Relation)
	case *IO:
		keys := make([]string, 0, len(x.Directives))
		for k := range x.Directives {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf := make([]string, len(keys))
		for i, k := range keys {
			buf[i] = fmt.Sprintf("%v=%v", k, x.Directives[k])
		}
		pp.line(depth, "IO %v (%v)", x.Relation, strings.Join(buf, ", "))
	case *Scan:
		pp.line(depth, "FOR %v IN %v", x.Tuple, x.Relation)
		pp.print(x.Nested, depth+1)
	case *Filter:
		pp.line(depth, "IF %v", x.Cond)
		pp.print(x.Nested, depth+1)
	case *Aggregate:
		head := fmt.Sprintf("%v.0 = %v", x.Tuple, x.Op)
		if x.Expr != nil {
			head += fmt.Sprintf(" %v", x.Expr)
		}
		head += fmt.Sprintf(" FOR %v IN %v", x.Tuple, x.Relation)
		if x.Cond != nil {
			head += fmt.Sprintf(" WHERE %v", x.Cond)
		}
		pp.line(depth, "%v", head)
		pp.print(x.Nested, depth+1)
	case *NestedIntrinsicOperator:
		pp.line(depth, "%v.0 = %v(%v)", x.Tuple, x.Op, exprList(x.Args))
		pp.print(x.Nested, depth+1)
	case *Insert:
		pp.line(depth, "INSERT (%v) INTO %v", exprList(x.Values), x.Relation)
	case *SubroutineReturn:
		pp.line(depth, "RETURN (%v)", exprList(x.Values))
	case *Relation:
		pp.line(depth, "%v", x)
	case Condition:
		pp.line(depth, "%v", x)
	case Expression:
		pp.line(depth, "%v", x)
	default:
		pp.err = fmt.Errorf("illegal ram node: %T", x)
	}
}
