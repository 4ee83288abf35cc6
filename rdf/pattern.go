package rdf

import (
	"fmt"
	"strings"
)

// GraphMode selects which graphs a pattern ranges over
type GraphMode uint8

const (
	GraphAny      GraphMode = iota // Any graph, default included
	GraphDefault                   // The default graph only
	GraphVariable                  // Any named graph, bound to a variable
	GraphNamed                     // Exactly one named graph
)

func (m GraphMode) String() string {
	switch m {
	case GraphAny:
		return "any"
	case GraphDefault:
		return "default"
	case GraphVariable:
		return "variable"
	case GraphNamed:
		return "named"
	default:
		return fmt.Sprintf("GraphMode(%d)", uint8(m))
	}
}

// Pattern matches statements. Zero terms in Subject, Predicate and Object
// are wildcards; the graph position is governed by GraphMode.
type Pattern struct {
	Subject   Term
	Predicate Term
	Object    Term
	GraphMode GraphMode
	Graph     Term   // Used when GraphMode == GraphNamed
	GraphVar  string // Variable name when GraphMode == GraphVariable
}

// NewPattern creates a pattern over any graph
func NewPattern(s, p, o Term) Pattern {
	return Pattern{Subject: s, Predicate: p, Object: o}
}

// InGraph returns a copy of the pattern restricted to graph g.
// A zero g restricts to the default graph.
func (p Pattern) InGraph(g Term) Pattern {
	p.GraphVar = ""
	if g.IsZero() {
		p.GraphMode = GraphDefault
		p.Graph = Term{}
		return p
	}
	p.GraphMode = GraphNamed
	p.Graph = g
	return p
}

// InDefaultGraph returns a copy restricted to the default graph
func (p Pattern) InDefaultGraph() Pattern {
	return p.InGraph(Term{})
}

// InAnyGraph returns a copy that matches every graph
func (p Pattern) InAnyGraph() Pattern {
	p.GraphMode = GraphAny
	p.Graph = Term{}
	p.GraphVar = ""
	return p
}

// InGraphVariable returns a copy that ranges over named graphs, binding name
func (p Pattern) InGraphVariable(name string) Pattern {
	p.GraphMode = GraphVariable
	p.Graph = Term{}
	p.GraphVar = name
	return p
}

// MatchesGraph reports whether a statement in graph g is selected by the
// pattern's graph position
func (p Pattern) MatchesGraph(g Term) bool {
	switch p.GraphMode {
	case GraphAny:
		return true
	case GraphDefault:
		return g.IsZero()
	case GraphVariable:
		return !g.IsZero()
	case GraphNamed:
		return g == p.Graph
	default:
		return false
	}
}

// Matches checks if a statement matches this pattern
func (p Pattern) Matches(st Statement) bool {
	if !p.Subject.IsZero() && p.Subject != st.Subject {
		return false
	}
	if !p.Predicate.IsZero() && p.Predicate != st.Predicate {
		return false
	}
	if !p.Object.IsZero() && p.Object != st.Object {
		return false
	}
	return p.MatchesGraph(st.Graph)
}

// BoundCount returns the number of bound subject/predicate/object positions
func (p Pattern) BoundCount() int {
	n := 0
	for _, t := range []Term{p.Subject, p.Predicate, p.Object} {
		if !t.IsZero() {
			n++
		}
	}
	return n
}

// String renders the pattern in a [s p o g] form for annotations
func (p Pattern) String() string {
	parts := make([]string, 0, 4)
	for _, t := range []Term{p.Subject, p.Predicate, p.Object} {
		if t.IsZero() {
			parts = append(parts, "_")
		} else {
			parts = append(parts, t.String())
		}
	}
	switch p.GraphMode {
	case GraphDefault:
		parts = append(parts, "default")
	case GraphVariable:
		name := p.GraphVar
		if name == "" {
			name = "g"
		}
		parts = append(parts, "?"+strings.TrimPrefix(name, "?"))
	case GraphNamed:
		parts = append(parts, p.Graph.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
