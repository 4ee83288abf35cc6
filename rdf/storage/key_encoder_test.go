package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
)

func TestKeyEncoderRoundTrip(t *testing.T) {
	var enc KeyEncoder
	for _, st := range sampleStatements() {
		for _, index := range []IndexType{GSPO, SPOG} {
			key := enc.EncodeKey(index, st)
			assert.Equal(t, byte(index), key[0])
			got, err := enc.DecodeKey(index, key)
			require.NoError(t, err)
			assert.Equal(t, st, got)
		}
	}

	key := enc.EncodeKey(Graphs, rdf.Statement{Graph: g1})
	got, err := enc.DecodeKey(Graphs, key)
	require.NoError(t, err)
	assert.Equal(t, g1, got.Graph)
}

func TestKeyEncoderRejectsForeignKeys(t *testing.T) {
	var enc KeyEncoder
	key := enc.EncodeKey(GSPO, sampleStatements()[0])

	_, err := enc.DecodeKey(SPOG, key)
	assert.ErrorContains(t, err, "belongs to GSPO")

	_, err = enc.DecodeKey(GSPO, nil)
	assert.Error(t, err)

	_, err = enc.DecodeKey(GSPO, key[:len(key)-1])
	assert.Error(t, err)
}

func TestPrefixSelectsGraph(t *testing.T) {
	var enc KeyEncoder
	defaultPrefix := enc.EncodePrefix(GSPO, rdf.DefaultGraph)
	g1Prefix := enc.EncodePrefix(GSPO, g1)

	for _, st := range sampleStatements() {
		key := enc.EncodeKey(GSPO, st)
		assert.Equal(t, st.Graph.IsZero(), bytes.HasPrefix(key, defaultPrefix), st.String())
		assert.Equal(t, st.Graph == g1, bytes.HasPrefix(key, g1Prefix), st.String())
	}
}

func TestEncodePrefixRange(t *testing.T) {
	var enc KeyEncoder
	start, end := enc.EncodePrefixRange(GSPO, g1)
	key := enc.EncodeKey(GSPO, rdf.NewQuad(alice, knows, carol, g1))

	assert.True(t, bytes.Compare(start, key) <= 0)
	assert.True(t, bytes.Compare(key, end) < 0)
	assert.Len(t, end, len(start))
}

func TestPlanScan(t *testing.T) {
	tests := []struct {
		name    string
		pattern rdf.Pattern
		index   IndexType
		prefix  []rdf.Term
	}{
		{"full scan", rdf.Pattern{}, GSPO, nil},
		{"default graph", rdf.Pattern{}.InDefaultGraph(), GSPO, []rdf.Term{rdf.DefaultGraph}},
		{"named graph and subject", rdf.NewPattern(alice, knows, rdf.Term{}).InGraph(g1), GSPO, []rdf.Term{g1, alice, knows}},
		{"gap stops the prefix", rdf.NewPattern(alice, rdf.Term{}, bob).InGraph(g1), GSPO, []rdf.Term{g1, alice}},
		{"subject across graphs", rdf.NewPattern(alice, knows, rdf.Term{}), SPOG, []rdf.Term{alice, knows}},
		{"subject in graph variable", rdf.NewPattern(bob, rdf.Term{}, rdf.Term{}).InGraphVariable("g"), SPOG, []rdf.Term{bob}},
		{"object only", rdf.NewPattern(rdf.Term{}, rdf.Term{}, carol), GSPO, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planScan(tt.pattern)
			assert.Equal(t, tt.index, plan.index)
			if len(tt.prefix) == 0 {
				assert.Empty(t, plan.prefix)
			} else {
				assert.Equal(t, tt.prefix, plan.prefix)
			}
		})
	}
}
