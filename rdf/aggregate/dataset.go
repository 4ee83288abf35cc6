package aggregate

import (
	"fmt"
	"slices"
	"time"

	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/annotations"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

// Default graph construction strategies, reported in annotations
const (
	strategyEmpty       = "empty"
	strategyPassthrough = "passthrough"
	strategyMerge       = "merge"
)

// Option configures a Dataset
type Option func(*Dataset)

// WithGraphName sets the answer to Supports(FeatureGraphName)
func WithGraphName(enabled bool) Option {
	return func(d *Dataset) { d.graphName = enabled }
}

// WithValidity sets the answer to Supports(FeatureValidity)
func WithValidity(enabled bool) Option {
	return func(d *Dataset) { d.validity = enabled }
}

// WithHandler routes annotation events to h
func WithHandler(h annotations.Handler) Option {
	return func(d *Dataset) { d.handler = h }
}

// Dataset is a read-only view over an ordered list of sources. It
// projects one default graph, synthesized from the sources' graphs, and a
// set of named graphs, each served by the last source that holds it.
//
// A Dataset is not safe for concurrent use.
type Dataset struct {
	sources  []storage.Source
	defaults []rdf.Term
	named    []rdf.Term
	isNamed  map[rdf.Term]struct{}

	// Memoized default graph, valid while cachedGen == generation
	generation uint64
	cached     Graph
	cachedGen  uint64

	graphName bool
	validity  bool
	handler   annotations.Handler
}

// New creates a dataset over sources. Until SetDefault is called the
// default graph is empty.
func New(sources []storage.Source, opts ...Option) *Dataset {
	d := &Dataset{
		sources:    slices.Clone(sources),
		isNamed:    make(map[rdf.Term]struct{}),
		generation: 1,
		validity:   true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddSource appends src. Later sources shadow earlier ones for named
// graph lookups.
func (d *Dataset) AddSource(src storage.Source) *Dataset {
	d.sources = append(d.sources, src)
	d.invalidate()
	d.handler.Emit(annotations.SourceAdded, map[string]interface{}{
		"sources": len(d.sources),
	})
	return d
}

// SetDefault replaces the graphs composing the default graph. Passing
// rdf.DefaultGraph alone merges the default graphs of every source;
// otherwise each name selects that named graph from the last source
// holding it. No names leaves the default graph empty.
func (d *Dataset) SetDefault(names ...rdf.Term) error {
	if len(names) > 1 && slices.Contains(names, rdf.DefaultGraph) {
		return fmt.Errorf("%w: merging default graphs excludes other default graph names", ErrInvalidArgument)
	}
	for _, name := range names {
		if name.IsLiteral() {
			return fmt.Errorf("%w: default graph name must be a resource: %s", ErrInvalidArgument, name)
		}
	}

	d.defaults = slices.Clone(names)
	d.invalidate()
	d.handler.Emit(annotations.DefaultsChanged, map[string]interface{}{
		"defaults": termLabels(d.defaults),
	})
	return nil
}

// AddNamed projects the named graph name. The name must be held by at
// least one current source.
func (d *Dataset) AddNamed(name rdf.Term) error {
	if !name.IsResource() {
		return fmt.Errorf("%w: graph name must be a resource: %#v", ErrInvalidArgument, name)
	}
	if _, ok := d.lastSourceFor(name); !ok {
		return fmt.Errorf("%w: graph %s does not exist in any source", ErrInvalidArgument, name)
	}
	if _, ok := d.isNamed[name]; ok {
		return nil
	}
	d.named = append(d.named, name)
	d.isNamed[name] = struct{}{}
	d.handler.Emit(annotations.NamedGraphAdded, map[string]interface{}{
		"graph": name.String(),
	})
	return nil
}

// Sources returns the sources in shadowing order
func (d *Dataset) Sources() []storage.Source { return slices.Clone(d.sources) }

// Defaults returns the names composing the default graph
func (d *Dataset) Defaults() []rdf.Term { return slices.Clone(d.defaults) }

// NamedGraphs returns the projected graph names in insertion order
func (d *Dataset) NamedGraphs() []rdf.Term { return slices.Clone(d.named) }

// Writable is always false
func (d *Dataset) Writable() bool { return false }

// Durable reports whether every source is durable
func (d *Dataset) Durable() bool {
	for _, src := range d.sources {
		if !src.Durable() {
			return false
		}
	}
	return true
}

// Supports answers graph name and validity from the dataset's options;
// literal equality requires every source to support it.
func (d *Dataset) Supports(f storage.Feature) bool {
	switch f {
	case storage.FeatureGraphName:
		return d.graphName
	case storage.FeatureValidity:
		return d.validity
	case storage.FeatureLiteralEquality:
		for _, src := range d.sources {
			if !src.Supports(f) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// HasGraph reports whether name is a projected named graph
func (d *Dataset) HasGraph(name rdf.Term) bool {
	_, ok := d.isNamed[name]
	return ok
}

// Graphs returns the default graph followed by each named graph
func (d *Dataset) Graphs() ([]Graph, error) {
	def, err := d.DefaultGraph()
	if err != nil {
		return nil, err
	}
	graphs := make([]Graph, 0, 1+len(d.named))
	graphs = append(graphs, def)
	for _, name := range d.named {
		g, err := d.namedGraph(name)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// namedGraph returns the view of name over the last source holding it
func (d *Dataset) namedGraph(name rdf.Term) (Graph, error) {
	src, ok := d.lastSourceFor(name)
	if !ok {
		return nil, d.inconsistent(name)
	}
	return NewGraphView(src, name), nil
}

// Count sums the counts of every graph
func (d *Dataset) Count() (int, error) {
	graphs, err := d.Graphs()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, g := range graphs {
		n, err := g.Count()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Empty reports whether the dataset has no statements
func (d *Dataset) Empty() (bool, error) {
	n, err := d.Count()
	return n == 0, err
}

// HasStatement reports whether a projected graph whose name equals
// st.Graph contains st
func (d *Dataset) HasStatement(st rdf.Statement) (bool, error) {
	graphs, err := d.Graphs()
	if err != nil {
		return false, err
	}
	for _, g := range graphs {
		if g.Name() != st.Graph {
			continue
		}
		ok, err := g.HasStatement(st)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Statements yields the default graph's statements, then each named
// graph's, in projection order
func (d *Dataset) Statements() (storage.Iterator, error) {
	graphs, err := d.Graphs()
	if err != nil {
		return nil, err
	}
	openers := make([]storage.Opener, len(graphs))
	for i, g := range graphs {
		openers[i] = g.Statements
	}
	return storage.Concat(openers...), nil
}

// DefaultGraph returns the synthesized default graph. The result is
// memoized until the sources or defaults change.
func (d *Dataset) DefaultGraph() (Graph, error) {
	if d.cached != nil && d.cachedGen == d.generation {
		return d.cached, nil
	}

	start := time.Now()
	var (
		g        Graph
		strategy string
		bindings int
	)
	switch {
	case len(d.sources) == 0 || len(d.defaults) == 0:
		g, strategy = emptyGraph{}, strategyEmpty

	case d.mergesDefaults() && len(d.sources) == 1:
		g, strategy, bindings = NewGraphView(d.sources[0], rdf.DefaultGraph), strategyPassthrough, 1

	default:
		merge := NewMergeGraph().SetHandler(d.handler)
		if d.mergesDefaults() {
			for _, src := range d.sources {
				merge.AddSource(src, rdf.DefaultGraph)
			}
		} else {
			for _, name := range d.defaults {
				src, ok := d.lastSourceFor(name)
				if !ok {
					return nil, d.inconsistent(name)
				}
				merge.AddSource(src, name)
			}
		}
		g, strategy, bindings = merge, strategyMerge, merge.Len()
	}

	d.cached, d.cachedGen = g, d.generation
	d.handler.EmitTiming(annotations.DefaultGraphBuilt, start, map[string]interface{}{
		"strategy": strategy,
		"bindings": bindings,
	})
	return g, nil
}

// QueryPattern routes p by its graph position: any graph consults every
// projected graph, the default graph only the default graph, a graph
// variable every named graph, and a fixed name only that graph if it is
// projected.
func (d *Dataset) QueryPattern(p rdf.Pattern) (storage.Iterator, error) {
	start := time.Now()

	var graphs []Graph
	switch p.GraphMode {
	case rdf.GraphAny, rdf.GraphVariable:
		all, err := d.Graphs()
		if err != nil {
			return nil, err
		}
		for _, g := range all {
			// A variable never binds the default graph
			if p.GraphMode == rdf.GraphVariable && !g.Named() {
				continue
			}
			graphs = append(graphs, g)
		}

	case rdf.GraphDefault:
		g, err := d.DefaultGraph()
		if err != nil {
			return nil, err
		}
		graphs = []Graph{g}

	case rdf.GraphNamed:
		if d.HasGraph(p.Graph) {
			g, err := d.namedGraph(p.Graph)
			if err != nil {
				return nil, err
			}
			graphs = []Graph{g}
		}

	default:
		return nil, fmt.Errorf("%w: unknown graph mode %s", ErrInvalidArgument, p.GraphMode)
	}

	d.handler.EmitTiming(annotations.AggregateQuery, start, map[string]interface{}{
		"pattern":      p.String(),
		"graph.mode":   p.GraphMode.String(),
		"graphs.count": len(graphs),
	})

	openers := make([]storage.Opener, len(graphs))
	for i, g := range graphs {
		openers[i] = func() (storage.Iterator, error) { return g.QueryPattern(p) }
	}
	return storage.Concat(openers...), nil
}

// mergesDefaults reports whether the defaults are the merge-all sentinel
func (d *Dataset) mergesDefaults() bool {
	return len(d.defaults) == 1 && d.defaults[0] == rdf.DefaultGraph
}

// lastSourceFor finds the last source holding graph name
func (d *Dataset) lastSourceFor(name rdf.Term) (storage.Source, bool) {
	for i := len(d.sources) - 1; i >= 0; i-- {
		if d.sources[i].HasGraph(name) {
			return d.sources[i], true
		}
	}
	return nil, false
}

func (d *Dataset) invalidate() {
	d.generation++
}

func (d *Dataset) inconsistent(name rdf.Term) error {
	err := fmt.Errorf("%w: graph %s is no longer held by any source", ErrInconsistentState, name)
	d.handler.Emit(annotations.ErrorInconsistentState, map[string]interface{}{
		"graph": name.String(),
		"error": err.Error(),
	})
	return err
}

func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset{sources: %d, defaults: %v, named: %v}",
		len(d.sources), termLabels(d.defaults), termLabels(d.named))
}

func termLabels(terms []rdf.Term) []string {
	labels := make([]string, len(terms))
	for i, t := range terms {
		labels[i] = graphLabel(t)
	}
	return labels
}

var _ storage.Source = (*Dataset)(nil)
