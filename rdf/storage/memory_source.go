package storage

import (
	"fmt"
	"sync"

	"github.com/wbrown/janus-aggregate/rdf"
)

// termIndex is a three-level index: first -> second -> third -> exists
type termIndex map[rdf.Term]map[rdf.Term]map[rdf.Term]struct{}

func (idx termIndex) add(a, b, c rdf.Term) {
	if idx[a] == nil {
		idx[a] = make(map[rdf.Term]map[rdf.Term]struct{})
	}
	if idx[a][b] == nil {
		idx[a][b] = make(map[rdf.Term]struct{})
	}
	idx[a][b][c] = struct{}{}
}

func (idx termIndex) remove(a, b, c rdf.Term) {
	bMap, ok := idx[a]
	if !ok {
		return
	}
	if cMap, ok := bMap[b]; ok {
		delete(cMap, c)
		if len(cMap) == 0 {
			delete(bMap, b)
		}
	}
	if len(bMap) == 0 {
		delete(idx, a)
	}
}

// graphIndex holds one graph with SPO, POS and OSP indexes
type graphIndex struct {
	spo   termIndex
	pos   termIndex
	osp   termIndex
	count int
}

func newGraphIndex() *graphIndex {
	return &graphIndex{
		spo: make(termIndex),
		pos: make(termIndex),
		osp: make(termIndex),
	}
}

func (g *graphIndex) exists(s, p, o rdf.Term) bool {
	if pMap, ok := g.spo[s]; ok {
		if oMap, ok := pMap[p]; ok {
			_, ok := oMap[o]
			return ok
		}
	}
	return false
}

// find appends triples matching s, p, o (zero = wildcard) tagged with graph
// name, using the most specific index available
func (g *graphIndex) find(out []rdf.Statement, name, s, p, o rdf.Term) []rdf.Statement {
	emit := func(s, p, o rdf.Term) {
		out = append(out, rdf.Statement{Subject: s, Predicate: p, Object: o, Graph: name})
	}

	switch {
	case !s.IsZero():
		// SPO index
		for sp, oMap := range g.spo[s] {
			if !p.IsZero() && sp != p {
				continue
			}
			if !o.IsZero() {
				if _, ok := oMap[o]; ok {
					emit(s, sp, o)
				}
				continue
			}
			for so := range oMap {
				emit(s, sp, so)
			}
		}
	case !p.IsZero():
		// POS index (no subject specified)
		for po, sMap := range g.pos[p] {
			if !o.IsZero() && po != o {
				continue
			}
			for ps := range sMap {
				emit(ps, p, po)
			}
		}
	case !o.IsZero():
		// OSP index (only object specified)
		for os, pMap := range g.osp[o] {
			for op := range pMap {
				emit(os, op, o)
			}
		}
	default:
		for ss, pMap := range g.spo {
			for sp, oMap := range pMap {
				for so := range oMap {
					emit(ss, sp, so)
				}
			}
		}
	}
	return out
}

// Repository is an in-memory, writable quad store. It is safe for
// concurrent use; iterators work on a snapshot taken when they are opened.
type Repository struct {
	mu     sync.RWMutex
	graphs map[rdf.Term]*graphIndex // rdf.DefaultGraph -> default graph
	order  []rdf.Term               // graph names in creation order
	count  int
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{
		graphs: make(map[rdf.Term]*graphIndex),
	}
}

// NewRepositoryWith creates a repository holding the given statements
func NewRepositoryWith(statements ...rdf.Statement) (*Repository, error) {
	r := NewRepository()
	if err := r.Insert(statements...); err != nil {
		return nil, err
	}
	return r, nil
}

// Insert adds statements. Adding an existing statement is a no-op.
func (r *Repository) Insert(statements ...rdf.Statement) error {
	for _, st := range statements {
		if !st.IsValid() {
			return fmt.Errorf("invalid statement: %s", st)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range statements {
		g, ok := r.graphs[st.Graph]
		if !ok {
			g = newGraphIndex()
			r.graphs[st.Graph] = g
			r.order = append(r.order, st.Graph)
		}
		if g.exists(st.Subject, st.Predicate, st.Object) {
			continue
		}
		g.spo.add(st.Subject, st.Predicate, st.Object)
		g.pos.add(st.Predicate, st.Object, st.Subject)
		g.osp.add(st.Object, st.Subject, st.Predicate)
		g.count++
		r.count++
	}
	return nil
}

// Delete removes statements, returning how many were present
func (r *Repository) Delete(statements ...rdf.Statement) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, st := range statements {
		g, ok := r.graphs[st.Graph]
		if !ok || !g.exists(st.Subject, st.Predicate, st.Object) {
			continue
		}
		g.spo.remove(st.Subject, st.Predicate, st.Object)
		g.pos.remove(st.Predicate, st.Object, st.Subject)
		g.osp.remove(st.Object, st.Subject, st.Predicate)
		g.count--
		r.count--
		removed++
		if g.count == 0 {
			r.dropGraphUnsafe(st.Graph)
		}
	}
	return removed
}

// Clear removes every statement
func (r *Repository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs = make(map[rdf.Term]*graphIndex)
	r.order = nil
	r.count = 0
}

func (r *Repository) dropGraphUnsafe(name rdf.Term) {
	delete(r.graphs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GraphNames returns the names of the non-empty named graphs
func (r *Repository) GraphNames() []rdf.Term {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]rdf.Term, 0, len(r.order))
	for _, n := range r.order {
		if !n.IsZero() {
			names = append(names, n)
		}
	}
	return names
}

// HasGraph reports whether a named graph holds statements. The default
// graph always exists.
func (r *Repository) HasGraph(name rdf.Term) bool {
	if name.IsZero() {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.graphs[name]
	return ok
}

// Statements returns every statement, default graph first
func (r *Repository) Statements() (Iterator, error) {
	return r.QueryPattern(rdf.Pattern{})
}

// Count returns the total number of statements
func (r *Repository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count, nil
}

// HasStatement checks for an exact quad
func (r *Repository) HasStatement(st rdf.Statement) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[st.Graph]
	return ok && g.exists(st.Subject, st.Predicate, st.Object), nil
}

// QueryPattern snapshots the matching statements and iterates them
func (r *Repository) QueryPattern(p rdf.Pattern) (Iterator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []rdf.Statement
	if p.GraphMode == rdf.GraphNamed || p.GraphMode == rdf.GraphDefault {
		name := rdf.DefaultGraph
		if p.GraphMode == rdf.GraphNamed {
			name = p.Graph
		}
		if g, ok := r.graphs[name]; ok {
			out = g.find(out, name, p.Subject, p.Predicate, p.Object)
		}
		return NewSliceIterator(out), nil
	}

	for _, name := range r.order {
		if !p.MatchesGraph(name) {
			continue
		}
		out = r.graphs[name].find(out, name, p.Subject, p.Predicate, p.Object)
	}
	return NewSliceIterator(out), nil
}

// Durable is false: the data lives in process memory
func (r *Repository) Durable() bool { return false }

// Writable is true
func (r *Repository) Writable() bool { return true }

// Supports reports the repository's capabilities
func (r *Repository) Supports(f Feature) bool {
	switch f {
	case FeatureLiteralEquality, FeatureGraphName, FeatureValidity:
		return true
	default:
		return false
	}
}

// String returns a summary of the repository
func (r *Repository) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("Repository{statements: %d, graphs: %d}", r.count, len(r.graphs))
}
