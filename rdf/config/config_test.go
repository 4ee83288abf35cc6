package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/annotations"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

const sampleYAML = `
sources:
  - name: people
    path: ./people
  - name: places
    path: /data/places
    read_only: true
default:
  merge: true
named:
  - http://example.org/g1
options:
  graph_name: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, Source{Name: "people", Path: "./people"}, cfg.Sources[0])
	assert.True(t, cfg.Sources[1].ReadOnly)
	assert.True(t, cfg.Default.Merge)
	assert.Equal(t, []string{"http://example.org/g1"}, cfg.Named)
	assert.True(t, cfg.Options.GraphName)
	assert.True(t, cfg.Options.ValidityEnabled(), "validity defaults to true")
	require.NoError(t, cfg.Validate())

	_, err = Parse([]byte("sources: {"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  string
	}{
		{"missing path", Config{Sources: []Source{{Name: "a"}}}, "path is required"},
		{"duplicate name", Config{Sources: []Source{{Name: "a", Path: "x"}, {Name: "a", Path: "y"}}}, "duplicate name"},
		{"merge with graphs", Config{Default: Default{Merge: true, Graphs: []string{"urn:g"}}}, "merge cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.cfg.Validate(), tt.err)
		})
	}

	ok := Config{Sources: []Source{{InMemory: true}, {InMemory: true}}}
	assert.NoError(t, ok.Validate(), "in-memory sources need neither path nor name")
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	location := filepath.Join(dir, "aggregate.yaml")
	require.NoError(t, os.WriteFile(location, []byte(sampleYAML), 0o644))

	cfg, err := Load(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "people"), cfg.Sources[0].Path)
	assert.Equal(t, "/data/places", cfg.Sources[1].Path)

	_, err = Load(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	off := false
	cfg := &Config{
		Sources: []Source{{Name: "a", Path: "/tmp/a"}},
		Default: Default{Graphs: []string{"urn:g1"}},
		Options: Options{Validity: &off},
	}
	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
	assert.False(t, back.Options.ValidityEnabled())
}

func TestParseEnv(t *testing.T) {
	t.Setenv("AGGREGATE_CONFIG", "/etc/aggregate.yaml")
	t.Setenv("AGGREGATE_VERBOSE", "true")

	e, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "/etc/aggregate.yaml", e.Config)
	assert.True(t, e.Verbose)
	assert.False(t, e.NoColor)
	assert.Equal(t, "nquads", e.Format)

	t.Setenv("AGGREGATE_NO_COLOR", "maybe")
	_, err = ParseEnv()
	assert.Error(t, err)
}

func writeSource(t *testing.T, path string, statements ...rdf.Statement) {
	t.Helper()
	src, err := storage.NewBadgerSource(path, storage.BadgerOptions{})
	require.NoError(t, err)
	require.NoError(t, src.Insert(statements...))
	require.NoError(t, src.Close())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	s := rdf.NewIRI("http://example.org/s")
	p := rdf.NewIRI("http://example.org/p")
	g1 := rdf.NewIRI("http://example.org/g1")

	writeSource(t, filepath.Join(dir, "a"),
		rdf.NewStatement(s, p, rdf.NewLiteral("1")),
		rdf.NewStatement(s, p, rdf.NewLiteral("2")),
	)
	writeSource(t, filepath.Join(dir, "b"),
		rdf.NewStatement(s, p, rdf.NewLiteral("2")),
		rdf.NewQuad(s, p, rdf.NewLiteral("3"), g1),
	)

	cfg := &Config{
		Sources: []Source{
			{Name: "a", Path: filepath.Join(dir, "a"), ReadOnly: true},
			{Name: "b", Path: filepath.Join(dir, "b"), ReadOnly: true},
		},
		Default: Default{Merge: true},
		Named:   []string{"<http://example.org/g1>"},
	}

	collector := annotations.NewCollector(nil)
	opened, err := Open(context.Background(), cfg, collector.Handler())
	require.NoError(t, err)
	defer opened.Close()

	assert.Equal(t, []string{"a", "b"}, opened.Names)
	assert.True(t, opened.Dataset.HasGraph(g1))
	assert.True(t, opened.Dataset.Durable())

	n, err := opened.Dataset.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NotEmpty(t, collector.Named(annotations.DefaultGraphBuilt))
}

func TestOpenFailures(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "a"),
		rdf.NewStatement(rdf.NewIRI("urn:s"), rdf.NewIRI("urn:p"), rdf.NewLiteral("o")))

	t.Run("unknown named graph", func(t *testing.T) {
		cfg := &Config{
			Sources: []Source{{Path: filepath.Join(dir, "a"), ReadOnly: true}},
			Named:   []string{"urn:missing"},
		}
		_, err := Open(context.Background(), cfg, nil)
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("bad term", func(t *testing.T) {
		cfg := &Config{
			Sources: []Source{{InMemory: true}},
			Default: Default{Graphs: []string{"<urn:unterminated"}},
		}
		_, err := Open(context.Background(), cfg, nil)
		assert.ErrorContains(t, err, "default")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cfg := &Config{Sources: []Source{{InMemory: true}}}
		_, err := Open(ctx, cfg, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
