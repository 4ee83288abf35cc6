package storage

import (
	"errors"
	"fmt"

	"github.com/wbrown/janus-aggregate/rdf"
)

// ErrClosed is returned by operations on a closed source
var ErrClosed = errors.New("source is closed")

// Feature names an optional capability a source may support
type Feature uint8

const (
	// FeatureLiteralEquality: literals compare by exact term identity
	FeatureLiteralEquality Feature = iota
	// FeatureGraphName: statements carry graph names
	FeatureGraphName
	// FeatureValidity: statements are validated on the way in
	FeatureValidity
)

func (f Feature) String() string {
	switch f {
	case FeatureLiteralEquality:
		return "literal_equality"
	case FeatureGraphName:
		return "graph_name"
	case FeatureValidity:
		return "validity"
	default:
		return fmt.Sprintf("Feature(%d)", uint8(f))
	}
}

// Source is the read contract for anything that holds statements:
// repositories, single graphs, merge graphs and aggregates themselves.
type Source interface {
	// HasGraph reports whether the source currently holds a graph with
	// this name
	HasGraph(name rdf.Term) bool

	// Statements enumerates every statement. Each call starts a fresh pass.
	Statements() (Iterator, error)

	// Count returns the total number of statements
	Count() (int, error)

	// HasStatement reports whether the statement, graph name included,
	// is present
	HasStatement(st rdf.Statement) (bool, error)

	// QueryPattern lazily yields statements matching the pattern
	QueryPattern(p rdf.Pattern) (Iterator, error)

	// Durable reports whether the data survives a process restart
	Durable() bool

	// Writable reports whether the source accepts mutation
	Writable() bool

	// Supports reports whether an optional capability is available
	Supports(f Feature) bool
}

// Iterator provides sequential access to statements
type Iterator interface {
	Next() bool
	Statement() rdf.Statement
	Err() error
	Close() error
}
