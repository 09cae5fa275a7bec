// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"
	"sort"
)

// Graph represents the relation precedence graph of a program. An edge
// from relation A to relation B exists when B appears in the body of a
// clause whose head is A. The edge is marked negated when B must be fully
// computed before A: under negation, and under aggregation, since an
// aggregate value is only meaningful over a complete relation.
type Graph struct {
	nodes   []string
	edges   map[string]map[string]bool
	negated map[string]map[string]bool
}

// NewGraph returns the precedence graph of the program. Declared relations
// appear as nodes even if no clause mentions them.
func NewGraph(p *Program) *Graph {
	g := &Graph{
		edges:   map[string]map[string]bool{},
		negated: map[string]map[string]bool{},
	}
	seen := map[string]bool{}
	for _, rel := range p.Relations {
		seen[rel.Name] = true
	}
	for _, clause := range p.Clauses {
		head := clause.Head.Name
		seen[head] = true
		for _, lit := range clause.Body {
			switch lit := lit.(type) {
			case *Atom:
				seen[lit.Name] = true
				g.addEdge(head, lit.Name, false)
				g.addGeneratorEdges(seen, head, lit.Args)
			case *Negation:
				seen[lit.Atom.Name] = true
				g.addEdge(head, lit.Atom.Name, true)
				g.addGeneratorEdges(seen, head, lit.Atom.Args)
			case *BinaryConstraint:
				g.addGeneratorEdges(seen, head, []Argument{lit.LHS, lit.RHS})
			}
		}
	}
	g.nodes = make([]string, 0, len(seen))
	for name := range seen {
		g.nodes = append(g.nodes, name)
	}
	sort.Strings(g.nodes)
	return g
}

func (g *Graph) addEdge(from, to string, negated bool) {
	if g.edges[from] == nil {
		g.edges[from] = map[string]bool{}
	}
	g.edges[from][to] = true
	if negated {
		if g.negated[from] == nil {
			g.negated[from] = map[string]bool{}
		}
		g.negated[from][to] = true
	}
}

func (g *Graph) addGeneratorEdges(seen map[string]bool, head string, args []Argument) {
	for _, arg := range args {
		WalkAtoms(arg, func(atom *Atom) bool {
			seen[atom.Name] = true
			g.addEdge(head, atom.Name, true)
			return false
		})
	}
}

// Nodes returns the relation names in the graph in sorted order.
func (g *Graph) Nodes() []string {
	return g.nodes
}

// Edge returns true if relation from depends on relation to.
func (g *Graph) Edge(from, to string) bool {
	return g.edges[from][to]
}

// NegatedEdge returns true if relation from depends on relation to through
// a negation or an aggregate.
func (g *Graph) NegatedEdge(from, to string) bool {
	return g.negated[from][to]
}

// Dependencies returns the relations that from depends on, in sorted order.
func (g *Graph) Dependencies(from string) []string {
	deps := make([]string, 0, len(g.edges[from]))
	for to := range g.edges[from] {
		deps = append(deps, to)
	}
	sort.Strings(deps)
	return deps
}

// SCC returns the strongly connected components of the graph in
// topological order: every dependency of a component is contained in the
// same or an earlier component. Component contents and the overall order
// are deterministic for a given program.
func (g *Graph) SCC() [][]string {
	vis := &sccVisitor{
		graph:   g,
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}
	for _, v := range g.nodes {
		if _, ok := vis.index[v]; !ok {
			vis.strongConnect(v)
		}
	}
	return vis.out
}

// Strata returns the strongly connected components in evaluation order and
// reports an error if any relation depends on a relation in its own
// component through negation or aggregation.
func (g *Graph) Strata() ([][]string, error) {
	sccs := g.SCC()
	for _, scc := range sccs {
		for _, from := range scc {
			for _, to := range scc {
				if g.NegatedEdge(from, to) {
					return nil, fmt.Errorf("unstratifiable program: %v depends on %v through negation or aggregation within a recursive component", from, to)
				}
			}
		}
	}
	return sccs, nil
}

// Recursive returns true if the component must be computed by fixpoint:
// it contains multiple relations or a relation that depends on itself.
func (g *Graph) Recursive(scc []string) bool {
	if len(scc) > 1 {
		return true
	}
	return g.Edge(scc[0], scc[0])
}

type sccVisitor struct {
	graph   *Graph
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	next    int
	out     [][]string
}

func (vis *sccVisitor) strongConnect(v string) {
	vis.index[v] = vis.next
	vis.lowlink[v] = vis.next
	vis.next++
	vis.stack = append(vis.stack, v)
	vis.onStack[v] = true

	for _, w := range vis.graph.Dependencies(v) {
		if _, ok := vis.index[w]; !ok {
			vis.strongConnect(w)
			if vis.lowlink[w] < vis.lowlink[v] {
				vis.lowlink[v] = vis.lowlink[w]
			}
		} else if vis.onStack[w] {
			if vis.index[w] < vis.lowlink[v] {
				vis.lowlink[v] = vis.index[w]
			}
		}
	}

	if vis.lowlink[v] == vis.index[v] {
		var scc []string
		for {
			w := vis.stack[len(vis.stack)-1]
			vis.stack = vis.stack[:len(vis.stack)-1]
			vis.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		sort.Strings(scc)
		vis.out = append(vis.out, scc)
	}
}
