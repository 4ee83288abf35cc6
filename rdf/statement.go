package rdf

import "fmt"

// Statement is the fundamental unit of data: a triple optionally tagged
// with the graph it belongs to. A zero Graph means the default graph.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// NewStatement creates a statement in the default graph
func NewStatement(s, p, o Term) Statement {
	return Statement{Subject: s, Predicate: p, Object: o}
}

// NewQuad creates a statement in graph g
func NewQuad(s, p, o, g Term) Statement {
	return Statement{Subject: s, Predicate: p, Object: o, Graph: g}
}

// WithGraph returns a copy of the statement rebound to graph g
func (st Statement) WithGraph(g Term) Statement {
	st.Graph = g
	return st
}

// InDefaultGraph reports whether the statement has no graph name
func (st Statement) InDefaultGraph() bool {
	return st.Graph.IsZero()
}

// Equal checks structural equality of all four positions
func (st Statement) Equal(other Statement) bool {
	return st == other
}

// IsValid returns true if subject, predicate and object are set and
// positioned legally (no literal subjects or predicates).
func (st Statement) IsValid() bool {
	return st.Subject.IsResource() &&
		st.Predicate.IsIRI() &&
		!st.Object.IsZero() &&
		(st.Graph.IsZero() || st.Graph.IsResource())
}

// String returns the statement as an N-Quads line (without newline)
func (st Statement) String() string {
	if st.Graph.IsZero() {
		return fmt.Sprintf("%s %s %s .", st.Subject, st.Predicate, st.Object)
	}
	return fmt.Sprintf("%s %s %s %s .", st.Subject, st.Predicate, st.Object, st.Graph)
}
