package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

var (
	knows = rdf.NewIRI("http://xmlns.com/foaf/0.1/knows")
	name  = rdf.NewIRI("http://xmlns.com/foaf/0.1/name")
	g1    = rdf.NewIRI("urn:g1")
	g2    = rdf.NewIRI("urn:g2")
)

func person(i int) rdf.Term {
	return rdf.NewIRI(fmt.Sprintf("http://example.org/person/%d", i))
}

// people returns n naming statements for persons [from, from+n) in graph g
func people(from, n int, g rdf.Term) []rdf.Statement {
	out := make([]rdf.Statement, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, rdf.NewQuad(person(i), name, rdf.NewLiteral(fmt.Sprintf("Person %d", i)), g))
	}
	return out
}

func repo(t *testing.T, groups ...[]rdf.Statement) *storage.Repository {
	t.Helper()
	r := storage.NewRepository()
	for _, g := range groups {
		require.NoError(t, r.Insert(g...))
	}
	return r
}

// collect drains the iterator returned by a Statements or QueryPattern call:
//
//	got := collect(t)(d.QueryPattern(p))
func collect(t *testing.T) func(storage.Iterator, error) []rdf.Statement {
	t.Helper()
	return func(it storage.Iterator, err error) []rdf.Statement {
		t.Helper()
		require.NoError(t, err)
		out, err := storage.Collect(it)
		require.NoError(t, err)
		return out
	}
}

func graphNames(statements []rdf.Statement) map[rdf.Term]int {
	out := make(map[rdf.Term]int)
	for _, st := range statements {
		out[st.Graph]++
	}
	return out
}
