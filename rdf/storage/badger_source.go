package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/wbrown/janus-aggregate/rdf"
)

// insertBatchSize bounds the statements written per badger transaction
const insertBatchSize = 1000

// BadgerOptions configures a BadgerSource
type BadgerOptions struct {
	InMemory bool // Keep everything in memory; the source is then not durable
	ReadOnly bool // Open the directory read-only; the source is then not writable
}

// BadgerSource implements Source on top of BadgerDB.
//
// Statements are written under two indexes (GSPO for graph-restricted scans,
// SPOG for subject lookups across graphs) and a per-graph counter keeps
// HasGraph and Count cheap.
type BadgerSource struct {
	db      *badger.DB
	encoder KeyEncoder
	opts    BadgerOptions
	closed  atomic.Bool
}

// NewBadgerSource opens (or creates) a badger-backed source at path.
// path is ignored when opts.InMemory is set.
func NewBadgerSource(path string, opts BadgerOptions) (*BadgerSource, error) {
	bopts := badger.DefaultOptions(path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil // Disable BadgerDB logs
	bopts.ReadOnly = opts.ReadOnly

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &BadgerSource{
		db:   db,
		opts: opts,
	}, nil
}

// Insert adds statements to the store. Existing statements are skipped.
func (s *BadgerSource) Insert(statements ...rdf.Statement) error {
	if s.closed.Load() {
		return ErrClosed
	}
	for _, st := range statements {
		if !st.IsValid() {
			return fmt.Errorf("invalid statement: %s", st)
		}
	}

	for start := 0; start < len(statements); start += insertBatchSize {
		end := min(start+insertBatchSize, len(statements))
		batch := statements[start:end]
		err := s.db.Update(func(txn *badger.Txn) error {
			for _, st := range batch {
				if err := s.insertStatement(txn, st); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// insertStatement writes a single statement to all indexes
func (s *BadgerSource) insertStatement(txn *badger.Txn, st rdf.Statement) error {
	key := s.encoder.EncodeKey(GSPO, st)
	if _, err := txn.Get(key); err == nil {
		return nil
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to check GSPO index: %w", err)
	}

	if err := txn.Set(key, nil); err != nil {
		return fmt.Errorf("failed to write to GSPO index: %w", err)
	}
	if err := txn.Set(s.encoder.EncodeKey(SPOG, st), nil); err != nil {
		return fmt.Errorf("failed to write to SPOG index: %w", err)
	}
	return s.adjustGraphCount(txn, st.Graph, 1)
}

// Delete removes statements from the store
func (s *BadgerSource) Delete(statements ...rdf.Statement) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, st := range statements {
			key := s.encoder.EncodeKey(GSPO, st)
			if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
				continue
			} else if err != nil {
				return fmt.Errorf("failed to check GSPO index: %w", err)
			}
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("failed to delete from GSPO index: %w", err)
			}
			if err := txn.Delete(s.encoder.EncodeKey(SPOG, st)); err != nil {
				return fmt.Errorf("failed to delete from SPOG index: %w", err)
			}
			if err := s.adjustGraphCount(txn, st.Graph, -1); err != nil {
				return err
			}
		}
		return nil
	})
}

// adjustGraphCount applies delta to a graph's counter, dropping it at zero
func (s *BadgerSource) adjustGraphCount(txn *badger.Txn, graph rdf.Term, delta int64) error {
	key := s.encoder.EncodeKey(Graphs, rdf.Statement{Graph: graph})

	var current uint64
	item, err := txn.Get(key)
	switch {
	case err == nil:
		if err := item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("graph counter must be 8 bytes, got %d", len(val))
			}
			current = binary.BigEndian.Uint64(val)
			return nil
		}); err != nil {
			return err
		}
	case !errors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("failed to read graph counter: %w", err)
	}

	next := int64(current) + delta
	if next <= 0 {
		return txn.Delete(key)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(next))
	return txn.Set(key, buf)
}

// graphCounts reads every graph counter
func (s *BadgerSource) graphCounts() (map[rdf.Term]int, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	counts := make(map[rdf.Term]int)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte{byte(Graphs)}
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			st, err := s.encoder.DecodeKey(Graphs, item.Key())
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				counts[st.Graph] = int(binary.BigEndian.Uint64(val))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return counts, err
}

// GraphNames returns the named graphs currently holding statements
func (s *BadgerSource) GraphNames() ([]rdf.Term, error) {
	counts, err := s.graphCounts()
	if err != nil {
		return nil, err
	}
	names := make([]rdf.Term, 0, len(counts))
	for name := range counts {
		if !name.IsZero() {
			names = append(names, name)
		}
	}
	rdf.SortTerms(names)
	return names, nil
}

// GraphExists reports whether a named graph holds statements. The default
// graph always exists. Unlike HasGraph it surfaces read failures.
func (s *BadgerSource) GraphExists(name rdf.Term) (bool, error) {
	if name.IsZero() {
		return true, nil
	}
	if s.closed.Load() {
		return false, ErrClosed
	}
	key := s.encoder.EncodeKey(Graphs, rdf.Statement{Graph: name})
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read graph counter: %w", err)
	}
}

// HasGraph is GraphExists for the Source contract, which has no error
// return: a closed store or a failed read reports false. Callers that must
// tell "absent" from "unreadable" use GraphExists.
func (s *BadgerSource) HasGraph(name rdf.Term) bool {
	ok, err := s.GraphExists(name)
	return ok && err == nil
}

// Statements iterates the whole GSPO index
func (s *BadgerSource) Statements() (Iterator, error) {
	return s.QueryPattern(rdf.Pattern{})
}

// Count sums the graph counters
func (s *BadgerSource) Count() (int, error) {
	counts, err := s.graphCounts()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// HasStatement checks for an exact quad
func (s *BadgerSource) HasStatement(st rdf.Statement) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	key := s.encoder.EncodeKey(GSPO, st)
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// QueryPattern scans the index that best serves the pattern
func (s *BadgerSource) QueryPattern(p rdf.Pattern) (Iterator, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	plan := planScan(p)
	prefix := s.encoder.EncodePrefix(plan.index, plan.prefix...)

	txn := s.db.NewTransaction(false)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false // Everything lives in the key
	opts.Prefix = prefix

	return &BadgerIterator{
		txn:     txn,
		it:      txn.NewIterator(opts),
		prefix:  prefix,
		index:   plan.index,
		encoder: s.encoder,
		pattern: p,
	}, nil
}

// Durable is true unless the store runs in memory
func (s *BadgerSource) Durable() bool { return !s.opts.InMemory }

// Writable is true unless the store was opened read-only
func (s *BadgerSource) Writable() bool { return !s.opts.ReadOnly }

// Supports reports the store's capabilities. Terms are stored byte-exact,
// so literal equality is identity.
func (s *BadgerSource) Supports(f Feature) bool {
	switch f {
	case FeatureLiteralEquality, FeatureGraphName, FeatureValidity:
		return true
	default:
		return false
	}
}

// Close closes the store
func (s *BadgerSource) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// BadgerIterator implements Iterator over one badger index
type BadgerIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	prefix  []byte
	index   IndexType
	encoder KeyEncoder
	pattern rdf.Pattern
	started bool
	current rdf.Statement
	err     error
}

// Next advances to the next statement matching the pattern
func (i *BadgerIterator) Next() bool {
	if i.err != nil || i.it == nil {
		return false
	}
	for {
		if !i.started {
			// First call - seek to start
			i.it.Seek(i.prefix)
			i.started = true
		} else {
			i.it.Next()
		}

		if !i.it.ValidForPrefix(i.prefix) {
			return false
		}

		key := i.it.Item().Key()
		st, err := i.encoder.DecodeKey(i.index, key)
		if err != nil {
			i.err = fmt.Errorf("corrupt %s key %x: %w", indexName(i.index), bytes.Clone(key), err)
			return false
		}
		if i.pattern.Matches(st) {
			i.current = st
			return true
		}
	}
}

// Statement returns the current statement
func (i *BadgerIterator) Statement() rdf.Statement { return i.current }

// Err returns the first decoding error encountered
func (i *BadgerIterator) Err() error { return i.err }

// Close releases the iterator and its read transaction
func (i *BadgerIterator) Close() error {
	if i.it != nil {
		i.it.Close()
		i.it = nil
		i.txn.Discard()
	}
	return nil
}

var (
	_ Source = (*BadgerSource)(nil)
	_ Source = (*Repository)(nil)
)
