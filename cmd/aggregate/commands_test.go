package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
)

func TestBuildPattern(t *testing.T) {
	p, err := buildPattern("http://example.org/s", "", `"x"`, "", false, false)
	require.NoError(t, err)
	assert.Equal(t, rdf.NewIRI("http://example.org/s"), p.Subject)
	assert.Equal(t, rdf.NewLiteral("x"), p.Object)
	assert.Equal(t, rdf.GraphAny, p.GraphMode)

	p, err = buildPattern("", "", "", "urn:g1", false, false)
	require.NoError(t, err)
	assert.Equal(t, rdf.GraphNamed, p.GraphMode)
	assert.Equal(t, rdf.NewIRI("urn:g1"), p.Graph)

	p, err = buildPattern("", "", "", "", true, false)
	require.NoError(t, err)
	assert.Equal(t, rdf.GraphDefault, p.GraphMode)

	p, err = buildPattern("", "", "", "", false, true)
	require.NoError(t, err)
	assert.Equal(t, rdf.GraphVariable, p.GraphMode)

	_, err = buildPattern("", `"lit"`, "", "", false, false)
	assert.ErrorContains(t, err, "predicate")
	_, err = buildPattern("", "", "", `"lit"`, false, false)
	assert.ErrorContains(t, err, "graph")
	_, err = buildPattern("<unterminated", "", "", "", false, false)
	assert.Error(t, err)
}
