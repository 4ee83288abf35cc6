package storage

import (
	"errors"

	"github.com/wbrown/janus-aggregate/rdf"
)

// SliceIterator iterates a fixed slice of statements
type SliceIterator struct {
	items []rdf.Statement
	pos   int
}

// NewSliceIterator creates an iterator over items. The slice is not copied.
func NewSliceIterator(items []rdf.Statement) *SliceIterator {
	return &SliceIterator{items: items, pos: -1}
}

// Empty returns an iterator that yields nothing
func Empty() Iterator {
	return NewSliceIterator(nil)
}

func (it *SliceIterator) Next() bool {
	if it.pos+1 >= len(it.items) {
		it.pos = len(it.items)
		return false
	}
	it.pos++
	return true
}

func (it *SliceIterator) Statement() rdf.Statement { return it.items[it.pos] }
func (it *SliceIterator) Err() error               { return nil }
func (it *SliceIterator) Close() error             { return nil }

// Opener lazily produces an iterator
type Opener func() (Iterator, error)

// concatIterator drains a sequence of iterators in order, opening each
// only when the previous one is exhausted
type concatIterator struct {
	openers []Opener
	current Iterator
	err     error
}

// Concat chains iterators produced by openers. An opener error stops the
// iteration and is reported by Err.
func Concat(openers ...Opener) Iterator {
	return &concatIterator{openers: openers}
}

func (it *concatIterator) Next() bool {
	for {
		if it.err != nil {
			return false
		}
		if it.current != nil {
			if it.current.Next() {
				return true
			}
			if err := it.current.Err(); err != nil {
				it.err = err
			}
			if err := it.current.Close(); err != nil && it.err == nil {
				it.err = err
			}
			it.current = nil
			continue
		}
		if len(it.openers) == 0 {
			return false
		}
		open := it.openers[0]
		it.openers = it.openers[1:]
		next, err := open()
		if err != nil {
			it.err = err
			return false
		}
		it.current = next
	}
}

func (it *concatIterator) Statement() rdf.Statement { return it.current.Statement() }
func (it *concatIterator) Err() error               { return it.err }

func (it *concatIterator) Close() error {
	it.openers = nil
	if it.current != nil {
		err := it.current.Close()
		it.current = nil
		return err
	}
	return nil
}

// renameIterator rewrites the graph name of every statement
type renameIterator struct {
	Iterator
	graph rdf.Term
}

// Rename wraps it so every yielded statement carries graph g
func Rename(it Iterator, g rdf.Term) Iterator {
	return &renameIterator{Iterator: it, graph: g}
}

func (it *renameIterator) Statement() rdf.Statement {
	return it.Iterator.Statement().WithGraph(it.graph)
}

// filterIterator skips statements not matching a pattern
type filterIterator struct {
	Iterator
	pattern rdf.Pattern
}

// Filter wraps it, yielding only statements matching p
func Filter(it Iterator, p rdf.Pattern) Iterator {
	return &filterIterator{Iterator: it, pattern: p}
}

func (it *filterIterator) Next() bool {
	for it.Iterator.Next() {
		if it.pattern.Matches(it.Iterator.Statement()) {
			return true
		}
	}
	return false
}

// Collect drains and closes it, returning every statement
func Collect(it Iterator) ([]rdf.Statement, error) {
	var out []rdf.Statement
	for it.Next() {
		out = append(out, it.Statement())
	}
	return out, errors.Join(it.Err(), it.Close())
}

// CountAll drains and closes it, returning the number of statements
func CountAll(it Iterator) (int, error) {
	n := 0
	for it.Next() {
		n++
	}
	return n, errors.Join(it.Err(), it.Close())
}

// Each calls fn for every statement until fn returns false, then closes it
func Each(it Iterator, fn func(rdf.Statement) bool) error {
	for it.Next() {
		if !fn(it.Statement()) {
			break
		}
	}
	return errors.Join(it.Err(), it.Close())
}
