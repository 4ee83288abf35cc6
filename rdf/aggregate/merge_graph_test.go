package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

func TestMergeGraphIdentity(t *testing.T) {
	m := NewMergeGraph()
	assert.True(t, m.IsGraph())
	assert.True(t, m.Unnamed())
	assert.False(t, m.Named())
	assert.True(t, m.HasGraph(rdf.DefaultGraph))

	m.SetName(g1)
	assert.True(t, m.Named())
	assert.Equal(t, g1, m.Name())
	assert.True(t, m.HasGraph(g1))
	assert.False(t, m.HasGraph(rdf.DefaultGraph))
	assert.Equal(t, []Graph{m}, m.Graphs())
}

func TestMergeGraphDeduplicates(t *testing.T) {
	a := repo(t, people(0, 4, rdf.DefaultGraph))
	b := repo(t, people(2, 4, g2))
	m := NewMergeGraph().
		AddSource(a, rdf.DefaultGraph).
		AddSource(b, g2).
		SetName(g1)

	n, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Less(t, n, 4+4, "persons 2 and 3 are reachable through both bindings")

	statements := collect(t)(m.Statements())
	assert.Len(t, statements, n)
	set := rdf.NewStatementSet(len(statements))
	for _, st := range statements {
		assert.True(t, set.Add(st), "duplicate %s", st)
		assert.Equal(t, g1, st.Graph, "statements are renamed to the merge's name")
	}

	empty, err := m.Empty()
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestMergeGraphQueryPatternDoesNotDeduplicate(t *testing.T) {
	shared := people(0, 3, rdf.DefaultGraph)
	m := NewMergeGraph().
		AddSource(repo(t, shared), rdf.DefaultGraph).
		AddSource(repo(t, shared), rdf.DefaultGraph)

	n, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	streamed := collect(t)(m.QueryPattern(rdf.Pattern{}))
	assert.Len(t, streamed, 6)
}

func TestMergeGraphQueryPatternGraphSelector(t *testing.T) {
	m := NewMergeGraph().
		AddSource(repo(t, people(0, 2, g2)), g2).
		SetName(g1)
	base := rdf.NewPattern(rdf.Term{}, name, rdf.Term{})

	got := collect(t)(m.QueryPattern(base.InGraph(g1)))
	require.Len(t, got, 2)
	for _, st := range got {
		assert.Equal(t, g1, st.Graph)
	}

	assert.Len(t, collect(t)(m.QueryPattern(base)), 2)
	assert.Len(t, collect(t)(m.QueryPattern(base.InGraphVariable("g"))), 2)
	assert.Empty(t, collect(t)(m.QueryPattern(base.InGraph(g2))), "only the merge's own name selects it")
	assert.Empty(t, collect(t)(m.QueryPattern(base.InDefaultGraph())))
}

func TestMergeGraphHasStatement(t *testing.T) {
	m := NewMergeGraph().
		AddSource(repo(t, people(0, 1, g2)), g2).
		SetName(g1)

	st := people(0, 1, g1)[0]
	ok, err := m.HasStatement(st)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.HasStatement(people(1, 1, g1)[0])
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMergeGraphCapabilities(t *testing.T) {
	dir := t.TempDir()
	durable, err := storage.NewBadgerSource(dir, storage.BadgerOptions{})
	require.NoError(t, err)
	defer durable.Close()

	m := NewMergeGraph()
	assert.False(t, m.Writable())
	assert.True(t, m.Durable())
	assert.True(t, m.Supports(storage.FeatureLiteralEquality))

	m.AddSource(durable, rdf.DefaultGraph)
	assert.True(t, m.Writable())
	assert.True(t, m.Durable())

	m.AddSource(storage.NewRepository(), rdf.DefaultGraph)
	assert.False(t, m.Durable())
}

func TestEmptyMergeGraph(t *testing.T) {
	m := NewMergeGraph()
	n, err := m.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	empty, err := m.Empty()
	require.NoError(t, err)
	assert.True(t, empty)
}
