package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

func TestRenamedView(t *testing.T) {
	src := repo(t, people(0, 3, g2), people(10, 1, rdf.DefaultGraph))
	v := NewRenamedView(src, g2, g1)

	assert.True(t, v.Named())
	assert.True(t, v.HasGraph(g1))
	assert.False(t, v.HasGraph(g2))

	n, err := v.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, st := range collect(t)(v.Statements()) {
		assert.Equal(t, g1, st.Graph)
	}

	ok, err := v.HasStatement(people(0, 1, g1)[0])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.HasStatement(people(0, 1, g2)[0])
	require.NoError(t, err)
	assert.False(t, ok, "statements are addressed by the projected name")

	assert.True(t, v.Supports(storage.FeatureGraphName))
	assert.Equal(t, "GraphView{<urn:g2> as <urn:g1>}", v.String())
}

func TestDefaultGraphView(t *testing.T) {
	src := repo(t, people(0, 2, rdf.DefaultGraph), people(5, 2, g1))
	v := NewGraphView(src, rdf.DefaultGraph)

	assert.False(t, v.Named())
	got := collect(t)(v.QueryPattern(rdf.Pattern{}))
	assert.Len(t, got, 2)
	assert.Empty(t, collect(t)(v.QueryPattern(rdf.Pattern{}.InGraphVariable("g"))))
	assert.Equal(t, src.Writable(), v.Writable())
	assert.Equal(t, src.Durable(), v.Durable())
}

func TestBuilder(t *testing.T) {
	a := repo(t, people(0, 1, g1))
	b := repo(t, people(0, 1, g2))

	t.Run("steps run in order", func(t *testing.T) {
		_, err := NewBuilder(a).Named(g2).Source(b).Build()
		assert.ErrorIs(t, err, ErrInvalidArgument, "g2 is added after the Named step")

		d, err := NewBuilder(a).Source(b).Named(g2).Build()
		require.NoError(t, err)
		assert.Equal(t, []rdf.Term{g2}, d.NamedGraphs())
		assert.Len(t, d.Sources(), 2)
	})

	t.Run("first error wins", func(t *testing.T) {
		_, err := NewBuilder(a).Default(rdf.DefaultGraph, g1).Named(g2).Build()
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, err.Error(), "merging default graphs")
	})

	t.Run("options", func(t *testing.T) {
		d, err := NewBuilder().WithGraphName(true).WithValidity(false).Build()
		require.NoError(t, err)
		assert.True(t, d.Supports(storage.FeatureGraphName))
		assert.False(t, d.Supports(storage.FeatureValidity))
	})
}

func TestDatasetOverBadger(t *testing.T) {
	dir := t.TempDir()
	disk, err := storage.NewBadgerSource(dir, storage.BadgerOptions{})
	require.NoError(t, err)
	defer disk.Close()
	mem, err := storage.NewBadgerSource("", storage.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer mem.Close()

	require.NoError(t, disk.Insert(people(0, 4, rdf.DefaultGraph)...))
	require.NoError(t, disk.Insert(people(10, 2, g1)...))
	require.NoError(t, mem.Insert(people(2, 4, rdf.DefaultGraph)...))

	d, err := NewBuilder(disk, mem).Default(rdf.DefaultGraph).Named(g1).Build()
	require.NoError(t, err)
	assert.False(t, d.Durable(), "in-memory badger is not durable")

	n, err := d.Count()
	require.NoError(t, err)
	assert.Equal(t, 6+2, n)

	knowsPattern := rdf.NewPattern(person(0), knows, rdf.Term{})
	assert.Empty(t, collect(t)(d.QueryPattern(knowsPattern)))

	got := collect(t)(d.QueryPattern(rdf.NewPattern(person(3), rdf.Term{}, rdf.Term{})))
	assert.Len(t, got, 2, "streamed queries keep one match per binding")
}

func TestEmptyGraph(t *testing.T) {
	var g Graph = emptyGraph{}
	assert.False(t, g.Named())
	assert.True(t, g.HasGraph(rdf.DefaultGraph))
	assert.True(t, g.Supports(storage.FeatureLiteralEquality))
	assert.True(t, g.Supports(storage.FeatureGraphName))
	assert.False(t, g.Supports(storage.FeatureValidity))
	assert.False(t, g.Supports(storage.Feature(99)), "unknown features are unsupported")

	n, err := g.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, collect(t)(g.Statements()))
}
