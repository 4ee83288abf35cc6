package rdf

// StatementSet is an insertion-ordered set of statements.
// Membership is full structural equality; statements are bucketed by Hash
// and compared within a bucket, so hash collisions never merge distinct
// statements.
type StatementSet struct {
	buckets map[uint64][]int // hash -> indexes into items
	items   []Statement
}

// NewStatementSet creates an empty set with room for sizeHint statements
func NewStatementSet(sizeHint int) *StatementSet {
	return &StatementSet{
		buckets: make(map[uint64][]int, sizeHint),
		items:   make([]Statement, 0, sizeHint),
	}
}

// Add inserts st, returning false if an equal statement is already present
func (s *StatementSet) Add(st Statement) bool {
	h := st.Hash()
	for _, idx := range s.buckets[h] {
		if s.items[idx] == st {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], len(s.items))
	s.items = append(s.items, st)
	return true
}

// Contains reports whether an equal statement is in the set
func (s *StatementSet) Contains(st Statement) bool {
	for _, idx := range s.buckets[st.Hash()] {
		if s.items[idx] == st {
			return true
		}
	}
	return false
}

// Len returns the number of distinct statements
func (s *StatementSet) Len() int {
	return len(s.items)
}

// Statements returns the statements in insertion order.
// The returned slice is shared with the set and must not be modified.
func (s *StatementSet) Statements() []Statement {
	return s.items
}
