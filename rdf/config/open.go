package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/aggregate"
	"github.com/wbrown/janus-aggregate/rdf/annotations"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

// Opened is a dataset together with the stores backing it
type Opened struct {
	Dataset *aggregate.Dataset
	Stores  []*storage.BadgerSource
	Names   []string // source names, parallel to Stores
}

// Close closes every store
func (o *Opened) Close() error {
	var errs []error
	for i, s := range o.Stores {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close source %s: %w", o.Names[i], err))
		}
	}
	return errors.Join(errs...)
}

// Open validates cfg, opens each source and builds the dataset
func Open(ctx context.Context, cfg *Config, handler annotations.Handler) (*Opened, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opened := &Opened{}
	fail := func(err error) (*Opened, error) {
		opened.Close()
		return nil, err
	}

	b := aggregate.NewBuilder().
		WithGraphName(cfg.Options.GraphName).
		WithValidity(cfg.Options.ValidityEnabled()).
		WithHandler(handler)

	for i, src := range cfg.Sources {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		store, err := storage.NewBadgerSource(src.Path, storage.BadgerOptions{
			InMemory: src.InMemory,
			ReadOnly: src.ReadOnly,
		})
		if err != nil {
			return fail(fmt.Errorf("source %s: %w", sourceName(src, i), err))
		}
		opened.Stores = append(opened.Stores, store)
		opened.Names = append(opened.Names, sourceName(src, i))
		b.Source(store)
	}

	switch {
	case cfg.Default.Merge:
		b.Default(rdf.DefaultGraph)
	case len(cfg.Default.Graphs) > 0:
		names, err := parseTerms(cfg.Default.Graphs)
		if err != nil {
			return fail(fmt.Errorf("default: %w", err))
		}
		b.Default(names...)
	}

	named, err := parseTerms(cfg.Named)
	if err != nil {
		return fail(fmt.Errorf("named: %w", err))
	}
	for _, name := range named {
		// HasGraph cannot report read failures; surface them here so they
		// are not mistaken for a missing graph
		for i, store := range opened.Stores {
			if _, err := store.GraphExists(name); err != nil {
				return fail(fmt.Errorf("source %s: graph %s: %w", opened.Names[i], name, err))
			}
		}
		b.Named(name)
	}

	ds, err := b.Build()
	if err != nil {
		return fail(err)
	}
	opened.Dataset = ds
	return opened, nil
}

func sourceName(src Source, i int) string {
	if src.Name != "" {
		return src.Name
	}
	return fmt.Sprintf("#%d", i)
}

func parseTerms(values []string) ([]rdf.Term, error) {
	terms := make([]rdf.Term, 0, len(values))
	for _, v := range values {
		t, err := rdf.ParseTerm(v)
		if err != nil {
			return nil, err
		}
		if t.IsZero() {
			return nil, fmt.Errorf("empty graph name")
		}
		terms = append(terms, t)
	}
	return terms, nil
}
