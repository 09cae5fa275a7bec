// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

import (
	"fmt"

	"github.com/yonatan/souffle/ast"
	"github.com/yonatan/souffle/ram"
)

// strategy selects the terminal operation of a lowered clause and the shape
// of negated existence checks. The base strategy materializes head tuples;
// the provenance strategy returns values to a calling subroutine instead.
type strategy interface {
	factQuery(t *clauseTranslator) *ram.Query
	ruleTerminal(t *clauseTranslator) ram.Operation
	negation(t *clauseTranslator, neg *ast.Negation, op ram.Operation) ram.Operation
}

// clauseTranslator holds the per-call state of one clause lowering. A fresh
// translator, and in particular a fresh binding table, is built for every
// clause version.
type clauseTranslator struct {
	session  *Session
	strategy strategy
	ctx      Context
	clause   *ast.Clause
	version  int
	index    *valueIndex
	sccAtoms []*ast.Atom
	absorbed map[*ast.BinaryConstraint]bool
}

// Clause lowers a single validated clause into a RAM query. The version
// selects which occurrence of a recursive body atom reads the delta copy
// during semi-naive evaluation; versions at or past the number of recursive
// body atoms read only full copies. Clause panics on clauses that violate
// the translator's invariants (unbound variables, out-of-range auxiliary
// arities): such clauses indicate a defect in the calling compiler stage,
// not bad user input.
func (s *Session) Clause(ctx Context, clause *ast.Clause, version int) *ram.Query {
	return s.translateClause(s.strategy, ctx, clause, version)
}

func (s *Session) translateClause(strat strategy, ctx Context, clause *ast.Clause, version int) *ram.Query {
	t := &clauseTranslator{
		session:  s,
		strategy: strat,
		ctx:      ctx,
		clause:   clause,
		version:  version,
		index:    newValueIndex(),
		absorbed: map[*ast.BinaryConstraint]bool{},
	}
	if ctx.IsRecursive(clause.Head.Name) {
		for _, atom := range clause.Atoms() {
			if ctx.IsRecursive(atom.Name) {
				t.sccAtoms = append(t.sccAtoms, atom)
			}
		}
	}
	if clause.IsFact() {
		return strat.factQuery(t)
	}
	t.indexClause()
	op := strat.ruleTerminal(t)
	op = t.addBindingConstraints(op)
	op = t.addBodyLiteralConstraints(op)
	op = t.addGeneratorLevels(op)
	op = t.addVariableIntroductions(op)
	return &ram.Query{Op: op}
}

// recursive reports whether this lowering participates in a fixpoint loop:
// the clause derives a recursive relation and reads at least one relation of
// the same component.
func (t *clauseTranslator) recursive() bool {
	return len(t.sccAtoms) > 0
}

// indexClause assigns tuple environments: body atoms take IDs 0..n-1 in body
// order, generators the IDs after that in order of appearance. Variables
// occurring inside an aggregate body that no enclosing atom binds are local
// to the aggregate and bind at its tuple.
func (t *clauseTranslator) indexClause() {
	atoms := t.clause.Atoms()
	t.index.numAtoms = len(atoms)
	for i, atom := range atoms {
		for j, arg := range atom.Args {
			switch arg := arg.(type) {
			case ast.Variable:
				t.index.addVarReference(arg, Location{Tuple: ram.TupleID(i), Element: j})
			case ast.UnnamedVariable, ast.NumberConstant, ast.StringConstant:
			default:
				panic(fmt.Sprintf("illegal argument in atom %v: %v", atom.Name, arg))
			}
		}
	}

	next := len(atoms)
	vis := ast.NewGenericVisitor(func(x interface{}) bool {
		switch gen := x.(type) {
		case *ast.Aggregate:
			tid := ram.TupleID(next)
			next++
			t.index.addGenerator(gen, Location{Tuple: tid})
			for j, arg := range gen.Body.Args {
				if v, ok := arg.(ast.Variable); ok && !t.index.bound(v) {
					t.index.addVarReference(v, Location{Tuple: tid, Element: j})
				}
			}
		case *ast.IntrinsicFunctor:
			if gen.Op.IsMultiResult() {
				t.index.addGenerator(gen, Location{Tuple: ram.TupleID(next)})
				next++
			}
		}
		return false
	})
	vis.Walk(t.clause)

	// An equality whose one side is a variable no atom binds and whose other
	// side is a generator is a binding, not a test: the variable resolves to
	// the generator's result and the constraint itself is dropped.
	for _, lit := range t.clause.Body {
		eq, ok := lit.(*ast.BinaryConstraint)
		if !ok || eq.Op != ast.EQ {
			continue
		}
		var v ast.Variable
		var gen ast.Argument
		if x, ok := eq.LHS.(ast.Variable); ok && ast.IsGenerator(eq.RHS) {
			v, gen = x, eq.RHS
		} else if x, ok := eq.RHS.(ast.Variable); ok && ast.IsGenerator(eq.LHS) {
			v, gen = x, eq.LHS
		} else {
			continue
		}
		if t.index.bound(v) {
			continue
		}
		t.index.addVarReference(v, t.index.generatorLocation(gen))
		t.absorbed[eq] = true
	}
}

// addBindingConstraints wraps op in filters checking the bindings the scans
// leave unchecked: scanned constant arguments must match, and every later
// occurrence of a variable must equal its definition point. Occurrences
// inside generator tuples are checked by the generator level instead.
func (t *clauseTranslator) addBindingConstraints(op ram.Operation) ram.Operation {
	for i, atom := range t.clause.Atoms() {
		for j, arg := range atom.Args {
			if !ast.IsConstant(arg) {
				continue
			}
			op = &ram.Filter{
				Cond: &ram.Constraint{
					Op:  ast.EQ,
					LHS: &ram.TupleElement{Tuple: ram.TupleID(i), Element: j},
					RHS: t.value(arg),
				},
				Nested: op,
			}
		}
	}
	for _, v := range t.index.sortedVars() {
		locs := t.index.vars[v]
		def := locs[0]
		for _, loc := range locs[1:] {
			if t.index.generatorTuple(loc.Tuple) {
				continue
			}
			op = &ram.Filter{
				Cond: &ram.Constraint{
					Op:  ast.EQ,
					LHS: &ram.TupleElement{Tuple: def.Tuple, Element: def.Element},
					RHS: &ram.TupleElement{Tuple: loc.Tuple, Element: loc.Element},
				},
				Nested: op,
			}
		}
	}
	return op
}

// addBodyLiteralConstraints wraps op in the conditions contributed by
// non-atom body literals: negations through the strategy, constraints as
// plain filters over translated operands.
func (t *clauseTranslator) addBodyLiteralConstraints(op ram.Operation) ram.Operation {
	for _, lit := range t.clause.Body {
		switch lit := lit.(type) {
		case *ast.Atom:
		case *ast.Negation:
			op = t.strategy.negation(t, lit, op)
		case *ast.BinaryConstraint:
			if t.absorbed[lit] {
				continue
			}
			op = &ram.Filter{
				Cond: &ram.Constraint{
					Op:  lit.Op,
					LHS: t.value(lit.LHS),
					RHS: t.value(lit.RHS),
				},
				Nested: op,
			}
		default:
			panic(fmt.Sprintf("illegal literal: %T", lit))
		}
	}
	return op
}

// addGeneratorLevels wraps op in one level per generator, outermost first,
// so a generator may reference the results of generators appearing before
// it.
func (t *clauseTranslator) addGeneratorLevels(op ram.Operation) ram.Operation {
	for i := len(t.index.order) - 1; i >= 0; i-- {
		switch gen := t.index.order[i].(type) {
		case *ast.Aggregate:
			op = t.aggregateLevel(gen, op)
		case *ast.IntrinsicFunctor:
			op = t.multiResultLevel(gen, op)
		default:
			panic(fmt.Sprintf("illegal generator: %T", t.index.order[i]))
		}
	}
	return op
}

// aggregateLevel builds the operation evaluating one aggregate. Arguments of
// the aggregate body that are bound elsewhere, repeated, or constant become
// equality conditions on the aggregate; arguments binding at the aggregate's
// own tuple need no condition.
func (t *clauseTranslator) aggregateLevel(agg *ast.Aggregate, op ram.Operation) ram.Operation {
	tid := t.index.generatorLocation(agg).Tuple
	var cond ram.Condition
	for j, arg := range agg.Body.Args {
		elem := &ram.TupleElement{Tuple: tid, Element: j}
		switch arg := arg.(type) {
		case ast.UnnamedVariable:
		case ast.Variable:
			def := t.index.definitionPoint(arg)
			if def == (Location{Tuple: tid, Element: j}) {
				continue
			}
			cond = conjoin(cond, &ram.Constraint{
				Op:  ast.EQ,
				LHS: elem,
				RHS: &ram.TupleElement{Tuple: def.Tuple, Element: def.Element},
			})
		default:
			cond = conjoin(cond, &ram.Constraint{Op: ast.EQ, LHS: elem, RHS: t.value(arg)})
		}
	}
	var expr ram.Expression
	if agg.Expr != nil {
		expr = t.value(agg.Expr)
	}
	return &ram.Aggregate{
		Tuple:    tid,
		Op:       agg.Op,
		Relation: t.ctx.ConcreteName(agg.Body.Name),
		Expr:     expr,
		Cond:     cond,
		Nested:   op,
	}
}

// multiResultLevel builds the operation enumerating the results of a
// multi-result functor.
func (t *clauseTranslator) multiResultLevel(fn *ast.IntrinsicFunctor, op ram.Operation) ram.Operation {
	tid := t.index.generatorLocation(fn).Tuple
	args := make([]ram.Expression, len(fn.Args))
	for i := range fn.Args {
		args[i] = t.value(fn.Args[i])
	}
	return &ram.NestedIntrinsicOperator{Op: fn.Op, Args: args, Tuple: tid, Nested: op}
}

// addVariableIntroductions wraps op in one scan per body atom, outermost
// first, so tuple availability follows body order.
func (t *clauseTranslator) addVariableIntroductions(op ram.Operation) ram.Operation {
	atoms := t.clause.Atoms()
	for i := len(atoms) - 1; i >= 0; i-- {
		op = &ram.Scan{
			Relation: t.scanRelation(atoms[i]),
			Tuple:    ram.TupleID(i),
			Nested:   op,
		}
	}
	return op
}

// scanRelation names the physical copy a body atom reads: the delta copy for
// the recursive occurrence selected by the clause version, the full copy for
// every other atom.
func (t *clauseTranslator) scanRelation(atom *ast.Atom) string {
	name := t.ctx.ConcreteName(atom.Name)
	if t.version < len(t.sccAtoms) && t.sccAtoms[t.version] == atom {
		return DeltaName(name)
	}
	return name
}

// headRelation names the physical copy the clause writes: the new copy
// inside a fixpoint loop, the full copy otherwise.
func (t *clauseTranslator) headRelation() string {
	name := t.ctx.ConcreteName(t.clause.Head.Name)
	if t.recursive() {
		return NewName(name)
	}
	return name
}

// auxiliaryArity reads the context's auxiliary arity for an atom's relation
// and asserts that it is within bounds.
func (t *clauseTranslator) auxiliaryArity(atom *ast.Atom) int {
	aux := t.ctx.AuxiliaryArity(atom.Name)
	if aux < 0 || aux > atom.Arity() {
		panic(fmt.Sprintf("illegal auxiliary arity %d for atom %v/%d", aux, atom.Name, atom.Arity()))
	}
	return aux
}

// negationValues translates the non-auxiliary arguments of a negated atom.
func (t *clauseTranslator) negationValues(atom *ast.Atom) []ram.Expression {
	aux := t.auxiliaryArity(atom)
	values := make([]ram.Expression, 0, len(atom.Args))
	for _, arg := range atom.Args[:len(atom.Args)-aux] {
		values = append(values, t.value(arg))
	}
	return values
}

func conjoin(a, b ram.Condition) ram.Condition {
	if a == nil {
		return b
	}
	return &ram.Conjunction{Left: a, Right: b}
}

// baseStrategy lowers clauses for ordinary evaluation: facts and rules
// materialize their head tuple.
type baseStrategy struct{}

func (baseStrategy) factQuery(t *clauseTranslator) *ram.Query {
	head := t.clause.Head
	values := make([]ram.Expression, len(head.Args))
	for i := range head.Args {
		values[i] = t.value(head.Args[i])
	}
	return &ram.Query{Op: &ram.Insert{
		Relation: t.ctx.ConcreteName(head.Name),
		Values:   values,
	}}
}

func (baseStrategy) ruleTerminal(t *clauseTranslator) ram.Operation {
	head := t.clause.Head
	values := make([]ram.Expression, len(head.Args))
	for i := range head.Args {
		values[i] = t.value(head.Args[i])
	}
	return &ram.Insert{Relation: t.headRelation(), Values: values}
}

// negation checks that no tuple with the resolved non-auxiliary values
// exists in the negated relation. Negated atoms always read the full copy:
// the check must hold against everything derived so far, not against one
// iteration's delta.
func (baseStrategy) negation(t *clauseTranslator, neg *ast.Negation, op ram.Operation) ram.Operation {
	return &ram.Filter{
		Cond: &ram.Negation{Cond: &ram.ExistenceCheck{
			Relation: t.ctx.ConcreteName(neg.Atom.Name),
			Values:   t.negationValues(neg.Atom),
		}},
		Nested: op,
	}
}
