package rdf

import (
	"fmt"
	"strings"
)

// TermKind identifies the lexical category of a term
type TermKind uint8

const (
	KindNone TermKind = iota // Zero term: default graph / wildcard
	KindIRI
	KindBlank
	KindLiteral
)

// Well-known datatypes
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	RDFLangStr = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Term is an RDF term: an IRI, a blank node or a literal.
// Terms are comparable values, so statements built from them can be used
// directly as map keys.
//
// The zero Term is not a valid RDF term. It stands for "the default graph"
// in a statement's graph position and for "anything" in a pattern.
type Term struct {
	Kind     TermKind
	Value    string // IRI, blank node label or literal lexical form
	Datatype string // Literal datatype IRI (empty for plain literals)
	Language string // Literal language tag
}

// DefaultGraph is the graph name of statements not in any named graph.
// Used as the merge-all-defaults marker when configuring an aggregate.
var DefaultGraph = Term{}

// NewIRI creates an IRI term
func NewIRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// NewBlank creates a blank node term with the given label
func NewBlank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// NewLiteral creates a plain literal
func NewLiteral(lexical string) Term {
	return Term{Kind: KindLiteral, Value: lexical}
}

// NewTypedLiteral creates a literal with an explicit datatype
func NewTypedLiteral(lexical, datatype string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype}
}

// NewLangLiteral creates a language-tagged literal
func NewLangLiteral(lexical, lang string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Language: strings.ToLower(lang)}
}

// IsZero reports whether t is the zero term
func (t Term) IsZero() bool {
	return t.Kind == KindNone
}

// IsIRI reports whether t is an IRI
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsResource reports whether t can name a graph (IRI or blank node)
func (t Term) IsResource() bool {
	return t.Kind == KindIRI || t.Kind == KindBlank
}

// Equal checks structural equality
func (t Term) Equal(other Term) bool {
	return t == other
}

// String returns the N-Triples form of the term.
// The zero term renders as an empty string.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		lit := `"` + escapeLiteral(t.Value) + `"`
		if t.Language != "" {
			return lit + "@" + t.Language
		}
		if t.Datatype != "" && t.Datatype != XSDString {
			return lit + "^^<" + t.Datatype + ">"
		}
		return lit
	default:
		return ""
	}
}

// GoString helps test failure output
func (t Term) GoString() string {
	if t.IsZero() {
		return "rdf.DefaultGraph"
	}
	return fmt.Sprintf("rdf.Term(%s)", t.String())
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// ParseTerm reads a single term in the compact command-line syntax:
//
//	<http://example/a>   IRI
//	_:b0                 blank node
//	"text"               plain literal
//	"text"@en            language literal
//	"1"^^<xsd:int>       typed literal
//	http://example/a     bare IRI
//
// An empty string returns the zero term.
func ParseTerm(s string) (Term, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Term{}, nil
	case strings.HasPrefix(s, "<"):
		if !strings.HasSuffix(s, ">") || len(s) < 3 {
			return Term{}, fmt.Errorf("unterminated IRI: %s", s)
		}
		return NewIRI(s[1 : len(s)-1]), nil
	case strings.HasPrefix(s, "_:"):
		if len(s) == 2 {
			return Term{}, fmt.Errorf("empty blank node label")
		}
		return NewBlank(s[2:]), nil
	case strings.HasPrefix(s, `"`):
		end := strings.LastIndex(s, `"`)
		if end == 0 {
			return Term{}, fmt.Errorf("unterminated literal: %s", s)
		}
		lexical := s[1:end]
		rest := s[end+1:]
		switch {
		case rest == "":
			return NewLiteral(lexical), nil
		case strings.HasPrefix(rest, "@"):
			return NewLangLiteral(lexical, rest[1:]), nil
		case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
			return NewTypedLiteral(lexical, rest[3:len(rest)-1]), nil
		default:
			return Term{}, fmt.Errorf("invalid literal suffix: %s", rest)
		}
	default:
		return NewIRI(s), nil
	}
}
