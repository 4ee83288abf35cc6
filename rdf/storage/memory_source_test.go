package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
)

func TestRepositoryContract(t *testing.T) {
	testSourceContract(t, func(t *testing.T) writableSource {
		return NewRepository()
	})
}

func TestRepositoryDelete(t *testing.T) {
	r, err := NewRepositoryWith(sampleStatements()...)
	require.NoError(t, err)
	assert.Equal(t, []rdf.Term{g1, g2}, r.GraphNames())

	removed := r.Delete(
		rdf.NewQuad(carol, name, rdf.NewLiteral("Carol"), g2),
		rdf.NewQuad(carol, name, rdf.NewLiteral("Carol"), g2),
		rdf.NewQuad(alice, name, bob, g1),
	)
	assert.Equal(t, 1, removed)
	assert.False(t, r.HasGraph(g2), "empty graphs disappear")
	assert.Equal(t, []rdf.Term{g1}, r.GraphNames())

	n, err := r.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	r.Clear()
	n, err = r.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, r.HasGraph(g1))
}

func TestRepositorySnapshotIteration(t *testing.T) {
	r, err := NewRepositoryWith(sampleStatements()...)
	require.NoError(t, err)

	it, err := r.QueryPattern(rdf.Pattern{}.InGraph(g1))
	require.NoError(t, err)
	r.Clear()

	got, err := Collect(it)
	require.NoError(t, err)
	assert.Len(t, got, 2, "iterators see the data as of QueryPattern")
}

func TestRepositoryCapabilities(t *testing.T) {
	r := NewRepository()
	assert.False(t, r.Durable())
	assert.True(t, r.Writable())
	assert.Equal(t, "Repository{statements: 0, graphs: 0}", r.String())
}
