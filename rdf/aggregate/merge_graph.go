package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/annotations"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

// binding projects one graph of one source into a merge
type binding struct {
	source storage.Source
	rebind rdf.Term // graph read from the source; zero = its default graph
}

// MergeGraph is the union of graphs drawn from several sources, presented
// as a single graph named Name.
//
// Statements and Count are set-valued: a statement reachable through
// several bindings is reported once. QueryPattern streams each binding in
// turn and does not deduplicate.
type MergeGraph struct {
	bindings []binding
	name     rdf.Term
	handler  annotations.Handler
}

// NewMergeGraph creates an unnamed merge graph with no bindings
func NewMergeGraph() *MergeGraph {
	return &MergeGraph{}
}

// AddSource binds graph rebind of src into the merge
func (m *MergeGraph) AddSource(src storage.Source, rebind rdf.Term) *MergeGraph {
	m.bindings = append(m.bindings, binding{source: src, rebind: rebind})
	return m
}

// SetName sets the projected graph name; zero makes the merge unnamed
func (m *MergeGraph) SetName(name rdf.Term) *MergeGraph {
	m.name = name
	return m
}

// SetHandler routes materialization events to h
func (m *MergeGraph) SetHandler(h annotations.Handler) *MergeGraph {
	m.handler = h
	return m
}

// IsGraph is always true: a merge is a single graph
func (m *MergeGraph) IsGraph() bool { return true }

func (m *MergeGraph) Name() rdf.Term { return m.name }
func (m *MergeGraph) Named() bool    { return !m.name.IsZero() }
func (m *MergeGraph) Unnamed() bool  { return m.name.IsZero() }

// Len returns the number of bindings
func (m *MergeGraph) Len() int { return len(m.bindings) }

// Writable reports whether any bound source is writable
func (m *MergeGraph) Writable() bool {
	for _, b := range m.bindings {
		if b.source.Writable() {
			return true
		}
	}
	return false
}

// Durable reports whether every bound source is durable
func (m *MergeGraph) Durable() bool {
	for _, b := range m.bindings {
		if !b.source.Durable() {
			return false
		}
	}
	return true
}

// HasGraph is true only for the merge's own name
func (m *MergeGraph) HasGraph(name rdf.Term) bool {
	return name == m.name
}

// Graphs returns the merge itself
func (m *MergeGraph) Graphs() []Graph {
	return []Graph{m}
}

// HasStatement reports whether some bound source holds st in its bound graph
func (m *MergeGraph) HasStatement(st rdf.Statement) (bool, error) {
	for _, b := range m.bindings {
		ok, err := b.source.HasStatement(st.WithGraph(b.rebind))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// materialize collects the distinct statements of every binding, renamed
// to the merge's name
func (m *MergeGraph) materialize() (*rdf.StatementSet, error) {
	start := time.Now()
	set := rdf.NewStatementSet(0)
	scanned := 0

	for _, b := range m.bindings {
		it, err := b.source.QueryPattern(rdf.Pattern{}.InGraph(b.rebind))
		if err != nil {
			return nil, fmt.Errorf("merge binding %s: %w", graphLabel(b.rebind), err)
		}
		err = storage.Each(it, func(st rdf.Statement) bool {
			scanned++
			set.Add(st.WithGraph(m.name))
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("merge binding %s: %w", graphLabel(b.rebind), err)
		}
	}

	m.handler.EmitTiming(annotations.MergeMaterialized, start, map[string]interface{}{
		"graph":               graphLabel(m.name),
		"bindings":            len(m.bindings),
		"statements.scanned":  scanned,
		"statements.distinct": set.Len(),
	})
	return set, nil
}

// Statements yields each distinct statement once, in first-seen order
func (m *MergeGraph) Statements() (storage.Iterator, error) {
	set, err := m.materialize()
	if err != nil {
		return nil, err
	}
	return storage.NewSliceIterator(set.Statements()), nil
}

// Count returns the number of distinct statements
func (m *MergeGraph) Count() (int, error) {
	set, err := m.materialize()
	if err != nil {
		return 0, err
	}
	return set.Len(), nil
}

// Empty reports whether no binding contributes a statement
func (m *MergeGraph) Empty() (bool, error) {
	for _, b := range m.bindings {
		it, err := b.source.QueryPattern(rdf.Pattern{}.InGraph(b.rebind))
		if err != nil {
			return false, err
		}
		found := it.Next()
		if err := it.Err(); err != nil {
			it.Close()
			return false, err
		}
		if err := it.Close(); err != nil {
			return false, err
		}
		if found {
			return false, nil
		}
	}
	return true, nil
}

// QueryPattern streams matches from every binding, renamed to the merge's
// name. Duplicates across bindings are not removed.
func (m *MergeGraph) QueryPattern(p rdf.Pattern) (storage.Iterator, error) {
	if !p.MatchesGraph(m.name) {
		return storage.Empty(), nil
	}

	openers := make([]storage.Opener, 0, len(m.bindings))
	for _, b := range m.bindings {
		openers = append(openers, func() (storage.Iterator, error) {
			it, err := b.source.QueryPattern(p.InGraph(b.rebind))
			if err != nil {
				return nil, err
			}
			return storage.Rename(it, m.name), nil
		})
	}
	return storage.Concat(openers...), nil
}

// Supports reports literal equality only when every bound source does
func (m *MergeGraph) Supports(f storage.Feature) bool {
	switch f {
	case storage.FeatureLiteralEquality:
		for _, b := range m.bindings {
			if !b.source.Supports(f) {
				return false
			}
		}
		return true
	case storage.FeatureGraphName:
		return true
	default:
		return false
	}
}

func (m *MergeGraph) String() string {
	parts := make([]string, len(m.bindings))
	for i, b := range m.bindings {
		parts[i] = graphLabel(b.rebind)
	}
	return fmt.Sprintf("MergeGraph{%s <- [%s]}", graphLabel(m.name), strings.Join(parts, ", "))
}
