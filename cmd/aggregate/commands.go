package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/aggregate"
	"github.com/wbrown/janus-aggregate/rdf/format"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

func countCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count the statements of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDataset(cmd.Context(), func(ds *aggregate.Dataset) error {
				n, err := ds.Count()
				if err != nil {
					return err
				}
				fmt.Println(n)
				return nil
			})
		},
	}
}

func graphsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "graphs",
		Short: "List the projected graphs with their statement counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDataset(cmd.Context(), func(ds *aggregate.Dataset) error {
				summaries, err := summarize(ds)
				if err != nil {
					return err
				}
				if c.format == formatTable {
					fmt.Print(format.NewTableFormatter().FormatGraphs(summaries))
					return nil
				}
				for _, s := range summaries {
					name := s.Name.String()
					if s.Name.IsZero() {
						name = "(default)"
					}
					fmt.Printf("%s\t%s\t%d\n", s.Kind, name, s.Count)
				}
				return nil
			})
		},
	}
}

func summarize(ds *aggregate.Dataset) ([]format.GraphSummary, error) {
	graphs, err := ds.Graphs()
	if err != nil {
		return nil, err
	}
	summaries := make([]format.GraphSummary, 0, len(graphs))
	for _, g := range graphs {
		n, err := g.Count()
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", g.Name(), err)
		}
		kind := "named"
		if !g.Named() {
			kind = "default"
		}
		summaries = append(summaries, format.GraphSummary{Name: g.Name(), Kind: kind, Count: n})
	}
	return summaries, nil
}

func dumpCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every statement of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDataset(cmd.Context(), func(ds *aggregate.Dataset) error {
				it, err := ds.Statements()
				if err != nil {
					return err
				}
				return c.write(it)
			})
		},
	}
}

func matchCmd(c *cli) *cobra.Command {
	var (
		subject, predicate, object, graph string
		defaultGraph, anyNamed            bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Print the statements matching a pattern",
		Long: `Match a single quad pattern against the dataset. Omitted positions
are wildcards. Terms are written as <iri>, _:label, "literal",
"literal"@lang, "literal"^^<datatype> or a bare IRI.

Examples:
  # Everything known about a subject, in any graph
  aggregate match -s http://example.org/person/7

  # Names in the default graph only
  aggregate match -p http://xmlns.com/foaf/0.1/name --default-graph

  # Members of every named graph
  aggregate match -p http://xmlns.com/foaf/0.1/member --any-named`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPattern(subject, predicate, object, graph, defaultGraph, anyNamed)
			if err != nil {
				return err
			}
			return c.withDataset(cmd.Context(), func(ds *aggregate.Dataset) error {
				it, err := ds.QueryPattern(p)
				if err != nil {
					return err
				}
				return c.write(it)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&subject, "subject", "s", "", "Subject term")
	flags.StringVarP(&predicate, "predicate", "p", "", "Predicate term")
	flags.StringVarP(&object, "object", "o", "", "Object term")
	flags.StringVarP(&graph, "graph", "g", "", "Named graph")
	flags.BoolVar(&defaultGraph, "default-graph", false, "Match the default graph only")
	flags.BoolVar(&anyNamed, "any-named", false, "Match every named graph")
	cmd.MarkFlagsMutuallyExclusive("graph", "default-graph", "any-named")
	return cmd
}

func buildPattern(subject, predicate, object, graph string, defaultGraph, anyNamed bool) (rdf.Pattern, error) {
	var terms [4]rdf.Term
	for i, v := range []string{subject, predicate, object, graph} {
		t, err := rdf.ParseTerm(v)
		if err != nil {
			return rdf.Pattern{}, err
		}
		terms[i] = t
	}
	if terms[1].IsLiteral() || terms[1].IsBlank() {
		return rdf.Pattern{}, fmt.Errorf("predicate must be an IRI: %s", terms[1])
	}
	if terms[3].IsLiteral() {
		return rdf.Pattern{}, fmt.Errorf("graph must be a resource: %s", terms[3])
	}

	p := rdf.NewPattern(terms[0], terms[1], terms[2])
	switch {
	case !terms[3].IsZero():
		return p.InGraph(terms[3]), nil
	case defaultGraph:
		return p.InDefaultGraph(), nil
	case anyNamed:
		return p.InGraphVariable("g"), nil
	default:
		return p, nil
	}
}

// write renders it in the selected output format
func (c *cli) write(it storage.Iterator) error {
	if c.format == formatTable {
		statements, err := storage.Collect(it)
		if err != nil {
			return err
		}
		fmt.Print(format.NewTableFormatter().FormatStatements(statements))
		return nil
	}
	_, err := format.WriteNQuads(os.Stdout, it)
	return err
}
