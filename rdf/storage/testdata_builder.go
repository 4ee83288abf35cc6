package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wbrown/janus-aggregate/rdf"
)

// Vocabulary used by the sample sources
const (
	SampleBase  = "http://example.org/"
	foafName    = "http://xmlns.com/foaf/0.1/name"
	foafKnows   = "http://xmlns.com/foaf/0.1/knows"
	foafMember  = "http://xmlns.com/foaf/0.1/member"
	sampleGraph = SampleBase + "graph/"
)

// SampleConfig specifies the pair of sample sources to build
type SampleConfig struct {
	OutputDir string // Directory receiving one badger directory per source
	People    int    // People per source
	Overlap   int    // People shared by both sources' default graphs
	Groups    int    // Named graphs; group 0 is held by both sources
}

// DefaultSampleConfig returns a small pair of sources for trying the CLI
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		OutputDir: "testdata/aggregate",
		People:    20,
		Overlap:   5,
		Groups:    3,
	}
}

// LargeSampleConfig returns sources big enough to profile merges
func LargeSampleConfig() SampleConfig {
	return SampleConfig{
		OutputDir: "testdata/aggregate_large",
		People:    50000,
		Overlap:   10000,
		Groups:    20,
	}
}

// SampleGraph names the i-th sample group graph
func SampleGraph(i int) rdf.Term {
	return rdf.NewIRI(fmt.Sprintf("%sgroup%d", sampleGraph, i))
}

// SampleSourcePaths returns where BuildSampleSources writes each source
func SampleSourcePaths(config SampleConfig) []string {
	return []string{
		filepath.Join(config.OutputDir, "left.db"),
		filepath.Join(config.OutputDir, "right.db"),
	}
}

// BuildSampleSources writes two badger sources. Their default graphs share
// config.Overlap people, and both hold group 0 with different members, so
// a merged default graph deduplicates and the second source shadows the
// first for the shared group.
func BuildSampleSources(config SampleConfig) ([]string, error) {
	if config.Overlap > config.People {
		return nil, fmt.Errorf("overlap %d exceeds people %d", config.Overlap, config.People)
	}
	paths := SampleSourcePaths(config)

	// Right starts where left's overlap begins
	offsets := []int{0, config.People - config.Overlap}
	for i, path := range paths {
		if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove existing db: %w", err)
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		src, err := NewBadgerSource(path, BadgerOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create source: %w", err)
		}
		err = src.Insert(generateSampleData(config, offsets[i], i)...)
		if cerr := src.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("failed to populate %s: %w", path, err)
		}
	}
	return paths, nil
}

// generateSampleData builds one source's statements
func generateSampleData(config SampleConfig, offset, side int) []rdf.Statement {
	name := rdf.NewIRI(foafName)
	knows := rdf.NewIRI(foafKnows)
	member := rdf.NewIRI(foafMember)

	statements := make([]rdf.Statement, 0, config.People*3)
	for i := 0; i < config.People; i++ {
		id := offset + i
		who := rdf.NewIRI(fmt.Sprintf("%sperson/%d", SampleBase, id))
		statements = append(statements,
			rdf.NewStatement(who, name, rdf.NewLiteral(fmt.Sprintf("Person %d", id))),
			rdf.NewStatement(who, knows, rdf.NewIRI(fmt.Sprintf("%sperson/%d", SampleBase, offset+(i+1)%config.People))),
		)
		if config.Groups > 0 {
			// Each side only fills groups of its own parity, except group 0
			group := id % config.Groups
			if group == 0 || group%2 == side {
				statements = append(statements, rdf.NewQuad(SampleGraph(group), member, who, SampleGraph(group)))
			}
		}
	}
	return statements
}

// SourceStats prints statement counts per graph
func SourceStats(w io.Writer, src *BadgerSource) error {
	total, err := src.Count()
	if err != nil {
		return err
	}
	names, err := src.GraphNames()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  Statements: %d\n", total)
	fmt.Fprintf(w, "  Named graphs: %d\n", len(names))
	for _, n := range names {
		it, err := src.QueryPattern(rdf.Pattern{}.InGraph(n))
		if err != nil {
			return err
		}
		count, err := CountAll(it)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "    %s: %d\n", n, count)
	}
	return nil
}
