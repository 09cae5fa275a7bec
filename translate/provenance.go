// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

import (
	"fmt"

	"github.com/yonatan/souffle/ast"
	"github.com/yonatan/souffle/ram"
)

// provenanceColumns is the number of annotation columns the provenance
// transform appends to every relation: the number of the clause that derived
// a tuple and the tuple's derivation level.
const provenanceColumns = 2

// provenanceStrategy lowers clauses for proof subtree extraction: instead of
// materializing head tuples, lowered clauses return the values a proof
// checker needs to reconstruct one derivation step.
type provenanceStrategy struct{}

// factQuery returns the fact's non-auxiliary head values.
func (provenanceStrategy) factQuery(t *clauseTranslator) *ram.Query {
	head := t.clause.Head
	aux := t.auxiliaryArity(head)
	values := make([]ram.Expression, 0, len(head.Args)-aux)
	for _, arg := range head.Args[:len(head.Args)-aux] {
		values = append(values, t.value(arg))
	}
	return &ram.Query{Op: &ram.SubroutineReturn{Values: values}}
}

// ruleTerminal returns the resolved arguments of every body literal in body
// order: all arguments for atoms and negated atoms, both operands for
// constraints. For recursive clauses the head's non-auxiliary values follow,
// then one -1 marker per auxiliary column standing in for annotations the
// caller must fill.
func (provenanceStrategy) ruleTerminal(t *clauseTranslator) ram.Operation {
	var values []ram.Expression
	for _, lit := range t.clause.Body {
		switch lit := lit.(type) {
		case *ast.Atom:
			for _, arg := range lit.Args {
				values = append(values, t.value(arg))
			}
		case *ast.Negation:
			for _, arg := range lit.Atom.Args {
				values = append(values, t.value(arg))
			}
		case *ast.BinaryConstraint:
			values = append(values, t.value(lit.LHS), t.value(lit.RHS))
		default:
			panic(fmt.Sprintf("illegal literal: %T", lit))
		}
	}
	if t.recursive() {
		head := t.clause.Head
		aux := t.auxiliaryArity(head)
		for _, arg := range head.Args[:len(head.Args)-aux] {
			values = append(values, t.value(arg))
		}
		for i := 0; i < aux; i++ {
			values = append(values, &ram.SignedConstant{Value: -1})
		}
	}
	return &ram.SubroutineReturn{Values: values}
}

// negation pads the existence check with one undefined value per auxiliary
// column, so the check carries full-arity values against an instrumented
// relation while constraining only the non-auxiliary columns.
func (provenanceStrategy) negation(t *clauseTranslator, neg *ast.Negation, op ram.Operation) ram.Operation {
	aux := t.auxiliaryArity(neg.Atom)
	values := t.negationValues(neg.Atom)
	for i := 0; i < aux; i++ {
		values = append(values, &ram.UndefValue{})
	}
	return &ram.Filter{
		Cond: &ram.Negation{Cond: &ram.ProvenanceExistenceCheck{
			Relation: t.ctx.ConcreteName(neg.Atom.Name),
			Values:   values,
		}},
		Nested: op,
	}
}

// levelVar names the variable binding the derivation level of the i-th body
// atom. The prefix is reserved, so instrumented clauses cannot collide with
// user variables.
func levelVar(i int) ast.Variable {
	return ast.Variable(fmt.Sprintf("@level_num_%d", i))
}

// transformProvenance rewrites a program so every tuple carries its
// provenance annotations. Relations grow by two columns. Positive body atoms
// bind the level of the matched tuple and ignore its clause number; negated
// atoms ignore both. Heads record their clause's number and a level one past
// the maximum level among the body atoms.
func transformProvenance(p *ast.Program) *ast.Program {
	cpy := p.Copy()
	for _, rel := range cpy.Relations {
		rel.Arity += provenanceColumns
		if len(rel.Attributes) > 0 {
			rel.Attributes = append(rel.Attributes, "@rule_number", "@level_number")
		}
	}
	nums := clauseNumbers(cpy)
	for _, clause := range cpy.Clauses {
		var levels []ast.Argument
		for _, lit := range clause.Body {
			switch lit := lit.(type) {
			case *ast.Atom:
				v := levelVar(len(levels))
				lit.Args = append(lit.Args, ast.UnnamedVariable{}, v)
				levels = append(levels, v)
			case *ast.Negation:
				lit.Atom.Args = append(lit.Atom.Args, ast.UnnamedVariable{}, ast.UnnamedVariable{})
			}
		}
		clause.Head.Args = append(clause.Head.Args,
			ast.NumberConstant(int64(nums[clause])),
			levelTerm(levels))
	}
	return cpy
}

// levelTerm derives the head level expression: facts sit at level zero,
// rules one past the maximum level among their body atoms.
func levelTerm(levels []ast.Argument) ast.Argument {
	switch len(levels) {
	case 0:
		return ast.NumberConstant(0)
	case 1:
		return &ast.IntrinsicFunctor{
			Op:   ast.FuncAdd,
			Args: []ast.Argument{levels[0], ast.NumberConstant(1)},
		}
	default:
		return &ast.IntrinsicFunctor{
			Op: ast.FuncAdd,
			Args: []ast.Argument{
				&ast.IntrinsicFunctor{Op: ast.FuncMax, Args: levels},
				ast.NumberConstant(1),
			},
		}
	}
}

// clauseNumbers assigns each clause its 1-based position among the clauses
// of its head relation, in program order. Subproof subroutines use the same
// numbering, so a returned rule number maps back to the subroutine that
// explains it.
func clauseNumbers(p *ast.Program) map[*ast.Clause]int {
	counts := map[string]int{}
	nums := make(map[*ast.Clause]int, len(p.Clauses))
	for _, clause := range p.Clauses {
		counts[clause.Head.Name]++
		nums[clause] = counts[clause.Head.Name]
	}
	return nums
}

// subproofName names the subroutine that re-derives the proof values of one
// clause of a relation.
func subproofName(relation string, num int) string {
	return fmt.Sprintf("%s_%d_subproof", relation, num)
}

// rejectAggregates refuses programs mixing provenance instrumentation with
// aggregates: an aggregate value summarizes many tuples and has no single
// proof subtree to report.
func rejectAggregates(p *ast.Program) error {
	for _, clause := range p.Clauses {
		var agg *ast.Aggregate
		vis := ast.NewGenericVisitor(func(x interface{}) bool {
			if a, ok := x.(*ast.Aggregate); ok && agg == nil {
				agg = a
			}
			return false
		})
		vis.Walk(clause)
		if agg != nil {
			return fmt.Errorf("provenance cannot instrument aggregate %v in clause %v", agg, clause)
		}
	}
	return nil
}
