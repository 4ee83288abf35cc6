package aggregate

import (
	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/annotations"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

// Builder assembles a Dataset step by step. Steps run in the order they
// were added, so a Named call only sees the sources added before it.
//
//	ds, err := aggregate.NewBuilder(people, places).
//		Default(rdf.DefaultGraph).
//		Named(rdf.NewIRI("http://example.org/g1")).
//		Build()
type Builder struct {
	sources []storage.Source
	opts    []Option
	steps   []func(*Dataset) error
}

// NewBuilder starts a builder over the initial sources
func NewBuilder(sources ...storage.Source) *Builder {
	return &Builder{sources: sources}
}

// Source adds another source
func (b *Builder) Source(src storage.Source) *Builder {
	b.steps = append(b.steps, func(d *Dataset) error {
		d.AddSource(src)
		return nil
	})
	return b
}

// Default sets the graphs composing the default graph
func (b *Builder) Default(names ...rdf.Term) *Builder {
	b.steps = append(b.steps, func(d *Dataset) error {
		return d.SetDefault(names...)
	})
	return b
}

// Named projects a named graph
func (b *Builder) Named(name rdf.Term) *Builder {
	b.steps = append(b.steps, func(d *Dataset) error {
		return d.AddNamed(name)
	})
	return b
}

func (b *Builder) WithGraphName(enabled bool) *Builder {
	b.opts = append(b.opts, WithGraphName(enabled))
	return b
}

func (b *Builder) WithValidity(enabled bool) *Builder {
	b.opts = append(b.opts, WithValidity(enabled))
	return b
}

func (b *Builder) WithHandler(h annotations.Handler) *Builder {
	b.opts = append(b.opts, WithHandler(h))
	return b
}

// Build runs every step, stopping at the first error
func (b *Builder) Build() (*Dataset, error) {
	d := New(b.sources, b.opts...)
	for _, step := range b.steps {
		if err := step(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}
