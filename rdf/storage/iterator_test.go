package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
)

// trackingIterator records Close calls and can fail after its items
type trackingIterator struct {
	*SliceIterator
	closed int
	err    error
}

func (it *trackingIterator) Err() error { return it.err }
func (it *trackingIterator) Close() error {
	it.closed++
	return nil
}

func opener(it Iterator) Opener {
	return func() (Iterator, error) { return it, nil }
}

func TestSliceIterator(t *testing.T) {
	sts := sampleStatements()[:2]
	it := NewSliceIterator(sts)
	require.True(t, it.Next())
	assert.Equal(t, sts[0], it.Statement())
	require.True(t, it.Next())
	assert.Equal(t, sts[1], it.Statement())
	assert.False(t, it.Next())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestConcatIsLazy(t *testing.T) {
	sts := sampleStatements()
	opened := 0
	lazy := func(items []rdf.Statement) Opener {
		return func() (Iterator, error) {
			opened++
			return NewSliceIterator(items), nil
		}
	}

	it := Concat(lazy(sts[:2]), lazy(nil), lazy(sts[2:3]))
	assert.Zero(t, opened)

	require.True(t, it.Next())
	assert.Equal(t, 1, opened)

	got, err := Collect(it)
	require.NoError(t, err)
	assert.Equal(t, sts[1:3], got, "Collect continues from the current position")
	assert.Equal(t, 3, opened)
}

func TestConcatClosesChildren(t *testing.T) {
	first := &trackingIterator{SliceIterator: NewSliceIterator(sampleStatements()[:1])}
	second := &trackingIterator{SliceIterator: NewSliceIterator(sampleStatements()[1:3])}

	it := Concat(opener(first), opener(second))
	require.True(t, it.Next())
	require.True(t, it.Next())
	assert.Equal(t, 1, first.closed, "exhausted child is closed on advance")

	require.NoError(t, it.Close())
	assert.Equal(t, 1, second.closed, "current child is closed with the concat")
}

func TestConcatErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("opener", func(t *testing.T) {
		it := Concat(opener(NewSliceIterator(sampleStatements()[:1])), func() (Iterator, error) {
			return nil, boom
		})
		n, err := CountAll(it)
		assert.Equal(t, 1, n)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("child", func(t *testing.T) {
		failing := &trackingIterator{SliceIterator: NewSliceIterator(nil), err: boom}
		it := Concat(opener(failing), opener(NewSliceIterator(sampleStatements())))
		n, err := CountAll(it)
		assert.Zero(t, n, "iteration stops at the first failing child")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, failing.closed)
	})
}

func TestRenameAndFilter(t *testing.T) {
	it := Rename(Filter(NewSliceIterator(sampleStatements()), rdf.NewPattern(rdf.Term{}, knows, rdf.Term{})), g2)
	got, err := Collect(it)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, st := range got {
		assert.Equal(t, knows, st.Predicate)
		assert.Equal(t, g2, st.Graph)
	}
}

func TestEachStopsEarly(t *testing.T) {
	tracked := &trackingIterator{SliceIterator: NewSliceIterator(sampleStatements())}
	seen := 0
	err := Each(tracked, func(rdf.Statement) bool {
		seen++
		return seen < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
	assert.Equal(t, 1, tracked.closed)
}
