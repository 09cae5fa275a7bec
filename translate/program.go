// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

import (
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/yonatan/souffle/ast"
	"github.com/yonatan/souffle/metrics"
	"github.com/yonatan/souffle/ram"
)

// Program lowers a program into a complete RAM program: stratified
// evaluation with a semi-naive fixpoint loop per recursive component, IO
// statements for the program's directives, and, when provenance is enabled,
// one subproof subroutine per clause. Referential problems in the program
// (unknown relations, arity mismatches, bad output patterns, stratification
// violations) are reported as errors.
func (s *Session) Program(p *ast.Program) (*ram.Program, error) {
	timer := s.metrics.Timer(metrics.ProgramTranslate)
	timer.Start()
	defer timer.Stop()

	outputs, err := s.compileOutputPatterns()
	if err != nil {
		return nil, err
	}

	norm, err := s.validateProgram(p)
	if err != nil {
		return nil, err
	}
	s.internSymbols(norm)

	if s.provenance {
		if err := rejectAggregates(norm); err != nil {
			return nil, err
		}
		tt := s.metrics.Timer(metrics.ProvenanceTransform)
		tt.Start()
		norm = transformProvenance(norm)
		tt.Stop()
	}

	st := s.metrics.Timer(metrics.ProgramStratify)
	st.Start()
	graph := ast.NewGraph(norm)
	strata, err := graph.Strata()
	st.Stop()
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"relations":  len(norm.Relations),
		"clauses":    len(norm.Clauses),
		"strata":     len(strata),
		"provenance": s.provenance,
	}).Debug("Translating program.")

	aux := map[string]int{}
	if s.provenance {
		for _, rel := range norm.Relations {
			aux[rel.Name] = provenanceColumns
		}
	}

	recursive := map[string]bool{}
	ctxByRel := map[string]Context{}
	var main []ram.Statement
	main = append(main, s.inputStatements(norm)...)
	for i, scc := range strata {
		ctx := &StaticContext{Aux: aux, Recursive: map[string]bool{}}
		if graph.Recursive(scc) {
			for _, rel := range scc {
				ctx.Recursive[rel] = true
				recursive[rel] = true
			}
		}
		for _, rel := range scc {
			ctxByRel[rel] = ctx
		}
		main = append(main, s.lowerStratum(ctx, i, scc, clausesFor(norm, scc))...)
	}
	main = append(main, s.outputStatements(norm, outputs)...)

	prog := &ram.Program{
		Main:        &ram.Sequence{Stmts: main},
		Subroutines: map[string]ram.Statement{},
		Symbols:     s.symbols,
	}
	for _, rel := range norm.Relations {
		prog.Relations = append(prog.Relations, physicalRelations(rel, aux[rel.Name], recursive[rel.Name])...)
	}

	if s.provenance {
		nums := clauseNumbers(norm)
		for _, clause := range norm.Clauses {
			ctx := ctxByRel[clause.Head.Name]
			q := s.translateClause(provenanceStrategy{}, ctx, clause, sccAtomCount(ctx, clause))
			prog.Subroutines[subproofName(clause.Head.Name, nums[clause])] = q
		}
		s.logger.Debug("Registered %d subproof subroutines.", len(prog.Subroutines))
	}

	return prog, nil
}

// physicalRelations lists the physical copies of one declared relation: the
// full copy, plus the delta and new working copies when the relation is
// computed by fixpoint.
func physicalRelations(rel *ast.Relation, aux int, recursive bool) []*ram.Relation {
	full := &ram.Relation{
		Name:           rel.Name,
		Arity:          rel.Arity,
		AuxiliaryArity: aux,
		Attributes:     rel.Attributes,
	}
	if !recursive {
		return []*ram.Relation{full}
	}
	delta := *full
	delta.Name = DeltaName(rel.Name)
	next := *full
	next.Name = NewName(rel.Name)
	return []*ram.Relation{full, &delta, &next}
}

// lowerStratum lowers one stratum into statements. Non-recursive strata
// produce one query per clause. Recursive strata produce their exit clauses,
// a fixpoint loop over the clause versions, and cleanup of the working
// copies.
func (s *Session) lowerStratum(ctx *StaticContext, idx int, scc []string, clauses []*ast.Clause) []ram.Statement {
	recursive := len(ctx.Recursive) > 0
	s.logger.WithFields(map[string]interface{}{
		"stratum":   idx,
		"relations": scc,
		"recursive": recursive,
		"clauses":   len(clauses),
	}).Debug("Translating stratum.")

	if !recursive {
		jobs := make([]clauseJob, len(clauses))
		for i, clause := range clauses {
			jobs[i] = clauseJob{clause: clause}
		}
		var stmts []ram.Statement
		for _, q := range s.translateAll(ctx, jobs) {
			stmts = append(stmts, q)
		}
		return stmts
	}

	var exitJobs, loopJobs []clauseJob
	for _, clause := range clauses {
		n := sccAtomCount(ctx, clause)
		if n == 0 {
			exitJobs = append(exitJobs, clauseJob{clause: clause})
			continue
		}
		c := clause
		if !s.provenance {
			c = guardedClause(clause)
		}
		for version := 0; version < n; version++ {
			loopJobs = append(loopJobs, clauseJob{clause: c, version: version})
		}
	}

	var stmts []ram.Statement
	for _, q := range s.translateAll(ctx, exitJobs) {
		stmts = append(stmts, q)
	}
	for _, rel := range scc {
		stmts = append(stmts, &ram.Merge{Target: DeltaName(rel), Source: rel})
	}

	loop := []ram.Statement{&ram.Parallel{Stmts: queryStatements(s.translateAll(ctx, loopJobs))}}
	loop = append(loop, &ram.Exit{Cond: exhaustedCond(scc)})
	for _, rel := range scc {
		loop = append(loop,
			&ram.Merge{Target: rel, Source: NewName(rel)},
			&ram.Swap{First: DeltaName(rel), Second: NewName(rel)},
			&ram.Clear{Relation: NewName(rel)},
		)
	}
	stmts = append(stmts, &ram.Loop{Body: &ram.Sequence{Stmts: loop}})

	for _, rel := range scc {
		stmts = append(stmts, &ram.Clear{Relation: DeltaName(rel)}, &ram.Clear{Relation: NewName(rel)})
	}
	return stmts
}

// exhaustedCond is the loop exit condition: no relation of the component
// derived new tuples in this iteration.
func exhaustedCond(scc []string) ram.Condition {
	var cond ram.Condition
	for _, rel := range scc {
		cond = conjoin(cond, &ram.EmptinessCheck{Relation: NewName(rel)})
	}
	return cond
}

// guardedClause appends a negated copy of the head to the body, so a loop
// iteration does not re-derive tuples already present in the full copy.
func guardedClause(clause *ast.Clause) *ast.Clause {
	c := clause.Copy()
	c.Body = append(c.Body, &ast.Negation{Atom: c.Head.Copy()})
	return c
}

// sccAtomCount counts the body atoms reading a relation of the clause's own
// recursive component. It equals the number of delta versions the clause is
// lowered under.
func sccAtomCount(ctx Context, clause *ast.Clause) int {
	if !ctx.IsRecursive(clause.Head.Name) {
		return 0
	}
	n := 0
	for _, atom := range clause.Atoms() {
		if ctx.IsRecursive(atom.Name) {
			n++
		}
	}
	return n
}

// clausesFor returns the program's clauses whose head is in the component,
// in program order.
func clausesFor(p *ast.Program, scc []string) []*ast.Clause {
	members := make(map[string]bool, len(scc))
	for _, rel := range scc {
		members[rel] = true
	}
	var clauses []*ast.Clause
	for _, clause := range p.Clauses {
		if members[clause.Head.Name] {
			clauses = append(clauses, clause)
		}
	}
	return clauses
}

type clauseJob struct {
	clause  *ast.Clause
	version int
}

// translateAll lowers a batch of clause versions concurrently. Translations
// of distinct clauses share no mutable state beyond the symbol table, which
// interns concurrently.
func (s *Session) translateAll(ctx Context, jobs []clauseJob) []*ram.Query {
	queries := make([]*ram.Query, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			queries[i] = s.translateClause(baseStrategy{}, ctx, jobs[i].clause, jobs[i].version)
			s.metrics.Counter(metrics.ClauseTranslate).Incr()
		}(i)
	}
	wg.Wait()
	return queries
}

func queryStatements(queries []*ram.Query) []ram.Statement {
	stmts := make([]ram.Statement, len(queries))
	for i := range queries {
		stmts[i] = queries[i]
	}
	return stmts
}

// inputStatements emits one load per input directive, in directive order.
func (s *Session) inputStatements(p *ast.Program) []ram.Statement {
	var stmts []ram.Statement
	for _, d := range p.Directives {
		if d.Kind == ast.InputDirective {
			stmts = append(stmts, &ram.IO{
				Relation:   d.Relation,
				Directives: map[string]string{"operation": "input"},
			})
		}
	}
	return stmts
}

// outputStatements emits one store per output directive. When the session
// has output patterns, directives whose relation matches none of them are
// dropped.
func (s *Session) outputStatements(p *ast.Program, patterns []glob.Glob) []ram.Statement {
	var stmts []ram.Statement
	for _, d := range p.Directives {
		if d.Kind != ast.OutputDirective {
			continue
		}
		if len(patterns) > 0 && !matchAny(patterns, d.Relation) {
			continue
		}
		stmts = append(stmts, &ram.IO{
			Relation:   d.Relation,
			Directives: map[string]string{"operation": "output"},
		})
	}
	return stmts
}

func matchAny(patterns []glob.Glob, name string) bool {
	for _, p := range patterns {
		if p.Match(name) {
			return true
		}
	}
	return false
}

// internSymbols assigns symbol indexes to the program's string constants in
// program order. Clause translations run on parallel workers; interning up
// front keeps the indexes independent of worker scheduling.
func (s *Session) internSymbols(p *ast.Program) {
	vis := ast.NewGenericVisitor(func(x interface{}) bool {
		if sym, ok := x.(ast.StringConstant); ok {
			s.symbols.Lookup(string(sym))
		}
		return false
	})
	vis.Walk(p)
}

func (s *Session) compileOutputPatterns() ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(s.outputs))
	for _, pattern := range s.outputs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid output pattern %q", pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// validateProgram checks the referential health of the program: every
// relation read by a literal, an aggregate, or a directive must be declared
// or derived somewhere, and all uses of a relation must agree on arity. It
// returns a normalized copy whose Relations list covers every relation, with
// declarations inferred from clause heads where the program has none.
func (s *Session) validateProgram(p *ast.Program) (*ast.Program, error) {
	timer := s.metrics.Timer(metrics.ProgramValidate)
	timer.Start()
	defer timer.Stop()

	cpy := p.Copy()
	declared := map[string]*ast.Relation{}
	var order []string
	for _, rel := range cpy.Relations {
		if _, ok := declared[rel.Name]; ok {
			return nil, errors.Errorf("relation %v declared more than once", rel.Name)
		}
		declared[rel.Name] = rel
		order = append(order, rel.Name)
	}
	for _, clause := range cpy.Clauses {
		head := clause.Head
		if rel, ok := declared[head.Name]; ok {
			if rel.Arity != head.Arity() {
				return nil, errors.Errorf("head of clause %v has arity %d, relation %v is declared with arity %d",
					clause, head.Arity(), head.Name, rel.Arity)
			}
			continue
		}
		declared[head.Name] = &ast.Relation{Name: head.Name, Arity: head.Arity()}
		order = append(order, head.Name)
	}

	for _, clause := range cpy.Clauses {
		var atoms []*ast.Atom
		ast.WalkAtoms(clause, func(atom *ast.Atom) bool {
			atoms = append(atoms, atom)
			return false
		})
		for _, atom := range atoms {
			rel, ok := declared[atom.Name]
			if !ok {
				return nil, errors.Wrapf(undefinedRelationErr(atom.Name, order), "invalid clause %v", clause)
			}
			if rel.Arity != atom.Arity() {
				return nil, errors.Errorf("atom %v in clause %v has arity %d, relation %v is declared with arity %d",
					atom, clause, atom.Arity(), atom.Name, rel.Arity)
			}
		}
	}

	for _, d := range cpy.Directives {
		if _, ok := declared[d.Relation]; !ok {
			return nil, errors.Wrapf(undefinedRelationErr(d.Relation, order), "invalid directive %v", d)
		}
	}

	cpy.Relations = make([]*ast.Relation, len(order))
	for i, name := range order {
		cpy.Relations[i] = declared[name]
	}
	return cpy, nil
}

// undefinedRelationErr builds the error for a reference to an unknown
// relation, suggesting the closest known name when one is within editing
// distance of a typo.
func undefinedRelationErr(name string, known []string) error {
	if match, ok := closestName(name, known); ok {
		return errors.Errorf("undefined relation %v (did you mean %v?)", name, match)
	}
	return errors.Errorf("undefined relation %v", name)
}

func closestName(name string, known []string) (string, bool) {
	best, bestDist := "", 3
	for _, candidate := range known {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best, best != ""
}
