// Package aggregate composes several statement sources into one read-only
// virtual dataset without copying their data.
package aggregate

import (
	"fmt"

	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

// Graph is a single graph projected by a dataset: a source whose
// statements all carry the graph's name.
type Graph interface {
	storage.Source

	// Name is the projected graph name; zero for the default graph
	Name() rdf.Term

	// Named reports whether the graph has a name
	Named() bool
}

// GraphView projects one graph of a source under a (possibly different)
// name. Reads go straight to the source; nothing is copied.
type GraphView struct {
	source storage.Source
	graph  rdf.Term // graph read from the source
	name   rdf.Term // graph name reported to callers
}

// NewGraphView projects graph of source under its own name
func NewGraphView(source storage.Source, graph rdf.Term) *GraphView {
	return &GraphView{source: source, graph: graph, name: graph}
}

// NewRenamedView projects graph of source under name
func NewRenamedView(source storage.Source, graph, name rdf.Term) *GraphView {
	return &GraphView{source: source, graph: graph, name: name}
}

func (v *GraphView) Name() rdf.Term { return v.name }
func (v *GraphView) Named() bool    { return !v.name.IsZero() }

// Source returns the underlying source
func (v *GraphView) Source() storage.Source { return v.source }

func (v *GraphView) HasGraph(name rdf.Term) bool {
	return name == v.name
}

func (v *GraphView) Statements() (storage.Iterator, error) {
	return v.QueryPattern(rdf.Pattern{}.InGraph(v.name))
}

func (v *GraphView) Count() (int, error) {
	it, err := v.Statements()
	if err != nil {
		return 0, err
	}
	return storage.CountAll(it)
}

func (v *GraphView) HasStatement(st rdf.Statement) (bool, error) {
	if st.Graph != v.name {
		return false, nil
	}
	return v.source.HasStatement(st.WithGraph(v.graph))
}

// QueryPattern matches p against the viewed graph when p's graph position
// selects this view's name; results carry the view's name.
func (v *GraphView) QueryPattern(p rdf.Pattern) (storage.Iterator, error) {
	if !p.MatchesGraph(v.name) {
		return storage.Empty(), nil
	}
	it, err := v.source.QueryPattern(p.InGraph(v.graph))
	if err != nil {
		return nil, err
	}
	if v.graph == v.name {
		return it, nil
	}
	return storage.Rename(it, v.name), nil
}

func (v *GraphView) Durable() bool  { return v.source.Durable() }
func (v *GraphView) Writable() bool { return v.source.Writable() }

func (v *GraphView) Supports(f storage.Feature) bool {
	if f == storage.FeatureGraphName {
		return true
	}
	return v.source.Supports(f)
}

func (v *GraphView) String() string {
	if v.graph == v.name {
		return fmt.Sprintf("GraphView{%s}", graphLabel(v.name))
	}
	return fmt.Sprintf("GraphView{%s as %s}", graphLabel(v.graph), graphLabel(v.name))
}

// emptyGraph is the unnamed graph with no statements
type emptyGraph struct{}

func (emptyGraph) Name() rdf.Term                                     { return rdf.DefaultGraph }
func (emptyGraph) Named() bool                                        { return false }
func (emptyGraph) HasGraph(name rdf.Term) bool                        { return name.IsZero() }
func (emptyGraph) Statements() (storage.Iterator, error)              { return storage.Empty(), nil }
func (emptyGraph) Count() (int, error)                                { return 0, nil }
func (emptyGraph) HasStatement(rdf.Statement) (bool, error)           { return false, nil }
func (emptyGraph) QueryPattern(rdf.Pattern) (storage.Iterator, error) { return storage.Empty(), nil }
func (emptyGraph) Durable() bool                                      { return true }
func (emptyGraph) Writable() bool                                     { return false }
func (emptyGraph) String() string                                     { return "EmptyGraph{}" }

func (emptyGraph) Supports(f storage.Feature) bool {
	return f == storage.FeatureLiteralEquality || f == storage.FeatureGraphName
}

func graphLabel(name rdf.Term) string {
	if name.IsZero() {
		return "default"
	}
	return name.String()
}

var (
	_ Graph = (*GraphView)(nil)
	_ Graph = emptyGraph{}
	_ Graph = (*MergeGraph)(nil)
)
