package storage

import (
	"fmt"

	"github.com/wbrown/janus-aggregate/rdf"
)

// IndexType represents the different key orderings
type IndexType uint8

const (
	GSPO   IndexType = iota + 1 // Graph-Subject-Predicate-Object
	SPOG                        // Subject-Predicate-Object-Graph
	Graphs                      // Graph name -> statement count
)

func indexName(index IndexType) string {
	switch index {
	case GSPO:
		return "GSPO"
	case SPOG:
		return "SPOG"
	case Graphs:
		return "graphs"
	default:
		return fmt.Sprintf("index(%d)", uint8(index))
	}
}

// KeyEncoder builds and parses index keys.
// Each index has a 1-byte prefix to separate namespaces; terms follow in
// index order using the self-delimiting rdf term encoding.
type KeyEncoder struct{}

// EncodeKey creates an index key from a statement
func (KeyEncoder) EncodeKey(index IndexType, st rdf.Statement) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(index))
	switch index {
	case GSPO:
		return rdf.AppendStatement(buf, st.Graph, st.Subject, st.Predicate, st.Object)
	case SPOG:
		return rdf.AppendStatement(buf, st.Subject, st.Predicate, st.Object, st.Graph)
	case Graphs:
		return rdf.AppendTerm(buf, st.Graph)
	default:
		panic(fmt.Sprintf("unknown index type: %v", index))
	}
}

// DecodeKey extracts the statement from an index key
func (KeyEncoder) DecodeKey(index IndexType, key []byte) (rdf.Statement, error) {
	if len(key) < 1 {
		return rdf.Statement{}, fmt.Errorf("key too short")
	}
	if IndexType(key[0]) != index {
		return rdf.Statement{}, fmt.Errorf("key belongs to %s, not %s", indexName(IndexType(key[0])), indexName(index))
	}

	switch index {
	case GSPO:
		terms, err := rdf.DecodeTerms(key[1:], 4)
		if err != nil {
			return rdf.Statement{}, fmt.Errorf("GSPO key: %w", err)
		}
		return rdf.Statement{Graph: terms[0], Subject: terms[1], Predicate: terms[2], Object: terms[3]}, nil
	case SPOG:
		terms, err := rdf.DecodeTerms(key[1:], 4)
		if err != nil {
			return rdf.Statement{}, fmt.Errorf("SPOG key: %w", err)
		}
		return rdf.Statement{Subject: terms[0], Predicate: terms[1], Object: terms[2], Graph: terms[3]}, nil
	case Graphs:
		terms, err := rdf.DecodeTerms(key[1:], 1)
		if err != nil {
			return rdf.Statement{}, fmt.Errorf("graphs key: %w", err)
		}
		return rdf.Statement{Graph: terms[0]}, nil
	default:
		return rdf.Statement{}, fmt.Errorf("unknown index type: %v", index)
	}
}

// EncodePrefix creates a prefix key for range scans from leading terms
func (KeyEncoder) EncodePrefix(index IndexType, terms ...rdf.Term) []byte {
	buf := []byte{byte(index)}
	return rdf.AppendStatement(buf, terms...)
}

// EncodePrefixRange creates start and end keys for a prefix scan
func (e KeyEncoder) EncodePrefixRange(index IndexType, terms ...rdf.Term) (start, end []byte) {
	start = e.EncodePrefix(index, terms...)

	// End key is start with last byte incremented
	end = make([]byte, len(start))
	copy(end, start)

	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			end = end[:i+1]
			return start, end
		}
	}
	// All bytes are 0xFF: scan to the end of the keyspace
	return start, nil
}

// scanPlan describes which index and prefix serve a pattern
type scanPlan struct {
	index  IndexType
	prefix []rdf.Term
}

// planScan picks the index whose key order puts the most bound terms first
func planScan(p rdf.Pattern) scanPlan {
	var fixed *rdf.Term
	switch p.GraphMode {
	case rdf.GraphDefault:
		g := rdf.DefaultGraph
		fixed = &g
	case rdf.GraphNamed:
		g := p.Graph
		fixed = &g
	}

	leading := func(terms ...rdf.Term) []rdf.Term {
		out := make([]rdf.Term, 0, len(terms))
		for _, t := range terms {
			if t.IsZero() {
				break
			}
			out = append(out, t)
		}
		return out
	}

	if fixed != nil {
		prefix := append([]rdf.Term{*fixed}, leading(p.Subject, p.Predicate, p.Object)...)
		return scanPlan{index: GSPO, prefix: prefix}
	}
	if !p.Subject.IsZero() {
		return scanPlan{index: SPOG, prefix: leading(p.Subject, p.Predicate, p.Object)}
	}
	return scanPlan{index: GSPO}
}
