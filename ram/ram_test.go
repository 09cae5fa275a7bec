// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ram

import (
	"fmt"
	"testing"

	"github.com/yonatan/souffle/ast"
)

func TestPrettyQuery(t *testing.T) {
	tests := []struct {
		note string
		stmt Statement
		exp  string
	}{
		{
			note: "scan and insert",
			stmt: &Query{
				Op: &Scan{Relation: "edge", Tuple: 0, Nested: &Insert{
					Relation: "path",
					Values: []Expression{
						&TupleElement{Tuple: 0, Element: 0},
						&TupleElement{Tuple: 0, Element: 1},
					},
				}},
			},
			exp: `QUERY
 FOR t0 IN edge
  INSERT (t0.0, t0.1) INTO path`,
		},
		{
			note: "filter between scan and terminal",
			stmt: &Query{
				Op: &Scan{Relation: "q", Tuple: 0, Nested: &Filter{
					Cond: &Constraint{
						Op:  ast.EQ,
						LHS: &TupleElement{Tuple: 0, Element: 0},
						RHS: &TupleElement{Tuple: 0, Element: 1},
					},
					Nested: &Insert{
						Relation: "p",
						Values:   []Expression{&TupleElement{Tuple: 0, Element: 0}},
					},
				}},
			},
			exp: `QUERY
 FOR t0 IN q
  IF t0.0 = t0.1
   INSERT (t0.0) INTO p`,
		},
		{
			note: "negated existence check",
			stmt: &Query{
				Op: &Scan{Relation: "q", Tuple: 0, Nested: &Filter{
					Cond: &Negation{Cond: &ExistenceCheck{
						Relation: "r",
						Values:   []Expression{&TupleElement{Tuple: 0, Element: 0}},
					}},
					Nested: &Insert{
						Relation: "p",
						Values:   []Expression{&TupleElement{Tuple: 0, Element: 0}},
					},
				}},
			},
			exp: `QUERY
 FOR t0 IN q
  IF (not (t0.0) in r)
   INSERT (t0.0) INTO p`,
		},
		{
			note: "subroutine return terminal",
			stmt: &Query{
				Op: &SubroutineReturn{Values: []Expression{
					&SignedConstant{Value: 1},
					&UndefValue{},
				}},
			},
			exp: `QUERY
 RETURN (1, undef)`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if act := tc.stmt.String(); tc.exp != act {
				t.Errorf("expected:\n\n%v\n\ngot:\n\n%v", tc.exp, act)
			}
		})
	}
}

func TestPrettyProgram(t *testing.T) {
	p := &Program{
		Relations: []*Relation{
			{Name: "edge", Arity: 2},
			{Name: "path", Arity: 2, AuxiliaryArity: 0},
		},
		Main: &Sequence{Stmts: []Statement{
			&IO{Relation: "edge", Directives: map[string]string{"operation": "input"}},
			&Query{Op: &Scan{Relation: "edge", Tuple: 0, Nested: &Insert{
				Relation: "path",
				Values: []Expression{
					&TupleElement{Tuple: 0, Element: 0},
					&TupleElement{Tuple: 0, Element: 1},
				},
			}}},
			&IO{Relation: "path", Directives: map[string]string{"operation": "output"}},
		}},
		Subroutines: map[string]Statement{
			"path_1_subproof": &Query{Op: &SubroutineReturn{
				Values: []Expression{&SignedConstant{Value: 1}},
			}},
		},
	}

	exp := `PROGRAM
 DECL edge/2 aux=0
 DECL path/2 aux=0
 MAIN
  SEQUENCE
   IO edge (operation=input)
   QUERY
    FOR t0 IN edge
     INSERT (t0.0, t0.1) INTO path
   IO path (operation=output)
 SUBROUTINE path_1_subproof
  QUERY
   RETURN (1)`

	if act := p.String(); exp != act {
		t.Errorf("expected:\n\n%v\n\ngot:\n\n%v", exp, act)
	}
}

func TestExpressionStrings(t *testing.T) {
	tests := []struct {
		note string
		node Node
		exp  string
	}{
		{
			note: "tuple element",
			node: &TupleElement{Tuple: 2, Element: 1},
			exp:  "t2.1",
		},
		{
			note: "signed constant",
			node: &SignedConstant{Value: -1},
			exp:  "-1",
		},
		{
			note: "undef",
			node: &UndefValue{},
			exp:  "undef",
		},
		{
			note: "infix intrinsic",
			node: &IntrinsicOperator{Op: ast.FuncAdd, Args: []Expression{
				&TupleElement{Tuple: 0, Element: 0},
				&SignedConstant{Value: 1},
			}},
			exp: "(t0.0 + 1)",
		},
		{
			note: "named intrinsic",
			node: &IntrinsicOperator{Op: ast.FuncMax, Args: []Expression{
				&TupleElement{Tuple: 0, Element: 2},
				&TupleElement{Tuple: 1, Element: 2},
			}},
			exp: "max(t0.2, t1.2)",
		},
		{
			note: "pack record",
			node: &PackRecord{Args: []Expression{&SignedConstant{Value: 1}, &SignedConstant{Value: 2}}},
			exp:  "[1, 2]",
		},
		{
			note: "conjunction",
			node: &Conjunction{
				Left:  &EmptinessCheck{Relation: "a"},
				Right: &EmptinessCheck{Relation: "b"},
			},
			exp: "(empty(a) and empty(b))",
		},
		{
			note: "provenance existence check",
			node: &ProvenanceExistenceCheck{Relation: "path", Values: []Expression{
				&TupleElement{Tuple: 0, Element: 0},
				&UndefValue{},
				&UndefValue{},
			}},
			exp: "(t0.0, undef, undef) prov-in path",
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if act := tc.node.String(); tc.exp != act {
				t.Errorf("expected %v, got %v", tc.exp, act)
			}
		})
	}
}

type traceVisitor struct {
	types []string
}

func (vis *traceVisitor) Before(interface{}) {}
func (vis *traceVisitor) After(interface{})  {}

func (vis *traceVisitor) Visit(x interface{}) (Visitor, error) {
	vis.types = append(vis.types, fmt.Sprintf("%T", x))
	return vis, nil
}

func TestWalkOrder(t *testing.T) {
	stmt := &Query{
		Op: &Scan{Relation: "q", Tuple: 0, Nested: &Filter{
			Cond: &Constraint{
				Op:  ast.EQ,
				LHS: &TupleElement{Tuple: 0, Element: 0},
				RHS: &TupleElement{Tuple: 0, Element: 1},
			},
			Nested: &Insert{
				Relation: "p",
				Values:   []Expression{&TupleElement{Tuple: 0, Element: 0}},
			},
		}},
	}

	vis := &traceVisitor{}
	if err := Walk(vis, stmt); err != nil {
		t.Fatal(err)
	}

	exp := []string{
		"*ram.Query",
		"*ram.Scan",
		"*ram.Filter",
		"*ram.Constraint",
		"*ram.TupleElement",
		"*ram.TupleElement",
		"*ram.Insert",
		"*ram.TupleElement",
	}
	if len(exp) != len(vis.types) {
		t.Fatalf("expected %d nodes, got %d (%v)", len(exp), len(vis.types), vis.types)
	}
	for i := range exp {
		if exp[i] != vis.types[i] {
			t.Errorf("expected %v at position %d, got %v", exp[i], i, vis.types[i])
		}
	}
}

func TestWalkStopsOnNilVisitor(t *testing.T) {
	stmt := &Query{
		Op: &Scan{Relation: "q", Tuple: 0, Nested: &Insert{
			Relation: "p",
			Values:   []Expression{&TupleElement{Tuple: 0, Element: 0}},
		}},
	}

	var count int
	vis := stopBelowScan{count: &count}
	if err := Walk(vis, stmt); err != nil {
		t.Fatal(err)
	}

	// Query, Scan, and nothing below the scan.
	if exp, act := 2, count; exp != act {
		t.Errorf("expected %d visited nodes, got %d", exp, act)
	}
}

type stopBelowScan struct {
	count *int
}

func (vis stopBelowScan) Before(interface{}) {}
func (vis stopBelowScan) After(interface{})  {}

func (vis stopBelowScan) Visit(x interface{}) (Visitor, error) {
	(*vis.count)++
	if _, ok := x.(*Scan); ok {
		return nil, nil
	}
	return vis, nil
}
