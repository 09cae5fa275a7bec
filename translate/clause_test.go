// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yonatan/souffle/ast"
)

func v(name string) ast.Variable {
	return ast.Variable(name)
}

func atom(name string, args ...ast.Argument) *ast.Atom {
	return &ast.Atom{Name: name, Args: args}
}

func rule(head *ast.Atom, body ...ast.Literal) *ast.Clause {
	return &ast.Clause{Head: head, Body: body}
}

func TestClauseLowering(t *testing.T) {

	tests := []struct {
		note       string
		clause     *ast.Clause
		ctx        *StaticContext
		version    int
		provenance bool
		exp        string
	}{
		{
			note:   "fact",
			clause: rule(atom("path", ast.NumberConstant(1), ast.NumberConstant(2))),
			exp: `QUERY
 INSERT (1, 2) INTO path`,
		},
		{
			note:   "single scan",
			clause: rule(atom("path", v("x"), v("z")), atom("edge", v("x"), v("z"))),
			exp: `QUERY
 FOR t0 IN edge
  INSERT (t0.0, t0.1) INTO path`,
		},
		{
			note:       "single scan/provenance",
			clause:     rule(atom("path", v("x"), v("z")), atom("edge", v("x"), v("z"))),
			provenance: true,
			exp: `QUERY
 FOR t0 IN edge
  RETURN (t0.0, t0.1)`,
		},
		{
			note:   "repeated variable",
			clause: rule(atom("p", v("x")), atom("q", v("x"), v("x"))),
			exp: `QUERY
 FOR t0 IN q
  IF t0.0 = t0.1
   INSERT (t0.0) INTO p`,
		},
		{
			note:   "constant argument",
			clause: rule(atom("p", v("x")), atom("q", v("x"), ast.NumberConstant(3))),
			exp: `QUERY
 FOR t0 IN q
  IF t0.1 = 3
   INSERT (t0.0) INTO p`,
		},
		{
			note: "join",
			clause: rule(atom("path", v("x"), v("z")),
				atom("edge", v("x"), v("y")),
				atom("edge", v("y"), v("z"))),
			exp: `QUERY
 FOR t0 IN edge
  FOR t1 IN edge
   IF t0.1 = t1.0
    INSERT (t0.0, t1.1) INTO path`,
		},
		{
			note: "negation",
			clause: rule(atom("p", v("x")),
				atom("q", v("x")),
				&ast.Negation{Atom: atom("r", v("x"))}),
			exp: `QUERY
 FOR t0 IN q
  IF (not (t0.0) in r)
   INSERT (t0.0) INTO p`,
		},
		{
			note: "negation/provenance padding",
			clause: rule(atom("p", v("x")),
				atom("q", v("x")),
				&ast.Negation{Atom: atom("r", v("x"), ast.UnnamedVariable{}, ast.UnnamedVariable{})}),
			ctx:        &StaticContext{Aux: map[string]int{"r": 2}},
			provenance: true,
			exp: `QUERY
 FOR t0 IN q
  IF (not (t0.0, undef, undef) prov-in r)
   RETURN (t0.0, t0.0, undef, undef)`,
		},
		{
			note: "literal order",
			clause: rule(atom("p", v("x")),
				atom("q", v("x")),
				&ast.Negation{Atom: atom("r", v("x"))},
				&ast.BinaryConstraint{Op: ast.NE, LHS: v("x"), RHS: ast.NumberConstant(1)},
				&ast.Negation{Atom: atom("s", v("x"))}),
			exp: `QUERY
 FOR t0 IN q
  IF (not (t0.0) in s)
   IF t0.0 != 1
    IF (not (t0.0) in r)
     INSERT (t0.0) INTO p`,
		},
		{
			note: "functor constraint",
			clause: rule(atom("p", v("x")),
				atom("q", v("x"), v("y")),
				&ast.BinaryConstraint{
					Op:  ast.LT,
					LHS: v("x"),
					RHS: &ast.IntrinsicFunctor{Op: ast.FuncAdd, Args: []ast.Argument{v("y"), ast.NumberConstant(1)}},
				}),
			exp: `QUERY
 FOR t0 IN q
  IF t0.0 < (t0.1 + 1)
   INSERT (t0.0) INTO p`,
		},
		{
			note: "record head",
			clause: rule(atom("p", &ast.RecordInit{Args: []ast.Argument{v("x"), ast.NumberConstant(1)}}),
				atom("q", v("x"))),
			exp: `QUERY
 FOR t0 IN q
  INSERT ([t0.0, 1]) INTO p`,
		},
		{
			note: "recursive delta version",
			clause: rule(atom("reach", v("x"), v("y")),
				atom("reach", v("x"), v("z")),
				atom("edge", v("z"), v("y"))),
			ctx:     &StaticContext{Recursive: map[string]bool{"reach": true}},
			version: 0,
			exp: `QUERY
 FOR t0 IN @delta_reach
  FOR t1 IN edge
   IF t0.1 = t1.0
    INSERT (t0.0, t1.1) INTO @new_reach`,
		},
		{
			note: "recursive full version",
			clause: rule(atom("reach", v("x"), v("y")),
				atom("reach", v("x"), v("z")),
				atom("edge", v("z"), v("y"))),
			ctx:     &StaticContext{Recursive: map[string]bool{"reach": true}},
			version: 1,
			exp: `QUERY
 FOR t0 IN reach
  FOR t1 IN edge
   IF t0.1 = t1.0
    INSERT (t0.0, t1.1) INTO @new_reach`,
		},
		{
			note: "recursive head without recursive body atom",
			clause: rule(atom("reach", v("x"), v("y")),
				atom("edge", v("x"), v("y"))),
			ctx: &StaticContext{Recursive: map[string]bool{"reach": true}},
			exp: `QUERY
 FOR t0 IN edge
  INSERT (t0.0, t0.1) INTO reach`,
		},
		{
			note: "version past recursive atom count reads full copies",
			clause: rule(atom("reach", v("x"), v("y")),
				atom("reach", v("x"), v("z")),
				atom("edge", v("z"), v("y"))),
			ctx:     &StaticContext{Recursive: map[string]bool{"reach": true}},
			version: 3,
			exp: `QUERY
 FOR t0 IN reach
  FOR t1 IN edge
   IF t0.1 = t1.0
    INSERT (t0.0, t1.1) INTO @new_reach`,
		},
		{
			note: "two recursive atoms/first delta",
			clause: rule(atom("same", v("x"), v("y")),
				atom("same", v("x"), v("z")),
				atom("same", v("z"), v("y"))),
			ctx:     &StaticContext{Recursive: map[string]bool{"same": true}},
			version: 0,
			exp: `QUERY
 FOR t0 IN @delta_same
  FOR t1 IN same
   IF t0.1 = t1.0
    INSERT (t0.0, t1.1) INTO @new_same`,
		},
		{
			note: "two recursive atoms/second delta",
			clause: rule(atom("same", v("x"), v("y")),
				atom("same", v("x"), v("z")),
				atom("same", v("z"), v("y"))),
			ctx:     &StaticContext{Recursive: map[string]bool{"same": true}},
			version: 1,
			exp: `QUERY
 FOR t0 IN same
  FOR t1 IN @delta_same
   IF t0.1 = t1.0
    INSERT (t0.0, t1.1) INTO @new_same`,
		},
		{
			note: "negation inside loop reads full copy",
			clause: rule(atom("trail", v("x"), v("y")),
				atom("trail", v("x"), v("z")),
				atom("edge", v("z"), v("y")),
				&ast.Negation{Atom: atom("blocked", v("y"))}),
			ctx:     &StaticContext{Recursive: map[string]bool{"trail": true}},
			version: 0,
			exp: `QUERY
 FOR t0 IN @delta_trail
  FOR t1 IN edge
   IF (not (t1.1) in blocked)
    IF t0.1 = t1.0
     INSERT (t0.0, t1.1) INTO @new_trail`,
		},
		{
			note: "recursive rule/provenance",
			clause: rule(atom("reach", v("x"), v("y")),
				atom("reach", v("x"), v("z")),
				atom("edge", v("z"), v("y"))),
			ctx:        &StaticContext{Recursive: map[string]bool{"reach": true}},
			version:    1,
			provenance: true,
			exp: `QUERY
 FOR t0 IN reach
  FOR t1 IN edge
   IF t0.1 = t1.0
    RETURN (t0.0, t0.1, t0.1, t1.1, t0.0, t1.1)`,
		},
		{
			note: "fact/provenance returns non-auxiliary values",
			clause: rule(atom("path",
				ast.NumberConstant(1),
				ast.NumberConstant(2),
				ast.NumberConstant(1),
				ast.NumberConstant(0))),
			ctx:        &StaticContext{Aux: map[string]int{"path": 2}},
			provenance: true,
			exp: `QUERY
 RETURN (1, 2)`,
		},
		{
			note: "count aggregate",
			clause: rule(atom("total", v("c")),
				&ast.BinaryConstraint{
					Op:  ast.EQ,
					LHS: v("c"),
					RHS: &ast.Aggregate{Op: ast.AggCount, Body: atom("edge", ast.UnnamedVariable{}, ast.UnnamedVariable{})},
				}),
			exp: `QUERY
 t0.0 = count FOR t0 IN edge
  INSERT (t0.0) INTO total`,
		},
		{
			note: "correlated aggregate",
			clause: rule(atom("oldest", v("x"), v("m")),
				atom("person", v("x"), ast.UnnamedVariable{}),
				&ast.BinaryConstraint{
					Op:  ast.EQ,
					LHS: v("m"),
					RHS: &ast.Aggregate{Op: ast.AggMax, Expr: v("a"), Body: atom("age", v("x"), v("a"))},
				}),
			exp: `QUERY
 FOR t0 IN person
  t1.0 = max t1.1 FOR t1 IN age WHERE t1.0 = t0.0
   INSERT (t0.0, t1.0) INTO oldest`,
		},
		{
			note: "aggregate over constant column",
			clause: rule(atom("total", v("c")),
				&ast.BinaryConstraint{
					Op:  ast.EQ,
					LHS: v("c"),
					RHS: &ast.Aggregate{Op: ast.AggCount, Body: atom("edge", ast.NumberConstant(7), ast.UnnamedVariable{})},
				}),
			exp: `QUERY
 t0.0 = count FOR t0 IN edge WHERE t0.0 = 7
  INSERT (t0.0) INTO total`,
		},
		{
			note: "range generator",
			clause: rule(atom("nums", v("x")),
				&ast.BinaryConstraint{
					Op:  ast.EQ,
					LHS: v("x"),
					RHS: &ast.IntrinsicFunctor{Op: ast.FuncRange, Args: []ast.Argument{ast.NumberConstant(1), ast.NumberConstant(3)}},
				}),
			exp: `QUERY
 t0.0 = range(1, 3)
  INSERT (t0.0) INTO nums`,
		},
		{
			note: "range generator over scanned bounds",
			clause: rule(atom("slots", v("x"), v("i")),
				atom("window", v("x"), v("hi")),
				&ast.BinaryConstraint{
					Op:  ast.EQ,
					LHS: v("i"),
					RHS: &ast.IntrinsicFunctor{Op: ast.FuncRange, Args: []ast.Argument{ast.NumberConstant(0), v("hi")}},
				}),
			exp: `QUERY
 FOR t0 IN window
  t1.0 = range(0, t0.1)
   INSERT (t0.0, t1.0) INTO slots`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			ctx := tc.ctx
			if ctx == nil {
				ctx = &StaticContext{}
			}
			q := New().WithProvenance(tc.provenance).Clause(ctx, tc.clause, tc.version)
			if exp, act := tc.exp, q.String(); exp != act {
				t.Fatalf("expected:\n\n%v\n\nbut got:\n\n%v", exp, act)
			}
		})
	}
}

func TestClauseStringConstants(t *testing.T) {
	s := New()
	c := rule(atom("p", v("x")),
		atom("q", v("x"), ast.StringConstant("b"), ast.StringConstant("a")))
	q := s.Clause(&StaticContext{}, c, 0)

	exp := `QUERY
 FOR t0 IN q
  IF t0.2 = 1
   IF t0.1 = 0
    INSERT (t0.0) INTO p`

	if act := q.String(); exp != act {
		t.Fatalf("expected:\n\n%v\n\nbut got:\n\n%v", exp, act)
	}

	if sym, ok := s.Symbols().Resolve(0); !ok || sym != "b" {
		t.Fatalf("expected symbol 0 to resolve to \"b\" but got: %v (%v)", sym, ok)
	}
	if sym, ok := s.Symbols().Resolve(1); !ok || sym != "a" {
		t.Fatalf("expected symbol 1 to resolve to \"a\" but got: %v (%v)", sym, ok)
	}
}

func TestClauseDeterministic(t *testing.T) {
	c := rule(atom("p", v("x"), v("y")),
		atom("q", v("x"), v("y")),
		atom("r", v("y"), v("x")),
		atom("q", v("y"), v("x")))
	ctx := &StaticContext{}
	exp := New().Clause(ctx, c, 0)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(exp, New().Clause(ctx, c, 0)); diff != "" {
			t.Fatalf("expected identical query on run %d (-want, +got):\n%v", i, diff)
		}
	}
}

func TestClauseUnboundVariablePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on unbound head variable")
		}
	}()
	New().Clause(&StaticContext{}, rule(atom("p", v("x")), atom("q", v("y"))), 0)
}

func TestClauseAuxiliaryArityPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on out-of-range auxiliary arity")
		}
	}()
	c := rule(atom("p", v("x")),
		atom("q", v("x")),
		&ast.Negation{Atom: atom("r", v("x"))})
	New().Clause(&StaticContext{Aux: map[string]int{"r": 3}}, c, 0)
}
