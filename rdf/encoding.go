package rdf

import (
	"encoding/binary"
	"fmt"
)

// Term encoding: one kind byte followed by length-prefixed payloads.
//
//	KindNone:    kind
//	KindIRI:     kind uvarint(len) value
//	KindBlank:   kind uvarint(len) value
//	KindLiteral: kind uvarint(len) value uvarint(len) datatype uvarint(len) language
//
// Encodings are self-delimiting, so concatenated terms can be decoded in
// sequence and an encoded prefix of a key selects exactly the keys that
// start with those terms.

// AppendTerm appends the binary encoding of t to buf
func AppendTerm(buf []byte, t Term) []byte {
	buf = append(buf, byte(t.Kind))
	switch t.Kind {
	case KindNone:
		return buf
	case KindLiteral:
		buf = appendString(buf, t.Value)
		buf = appendString(buf, t.Datatype)
		return appendString(buf, t.Language)
	default:
		return appendString(buf, t.Value)
	}
}

// EncodeTerm returns the binary encoding of t
func EncodeTerm(t Term) []byte {
	return AppendTerm(make([]byte, 0, 2+len(t.Value)+len(t.Datatype)+len(t.Language)), t)
}

// DecodeTerm reads one term from data, returning it and the bytes consumed
func DecodeTerm(data []byte) (Term, int, error) {
	if len(data) < 1 {
		return Term{}, 0, fmt.Errorf("term data too short")
	}
	kind := TermKind(data[0])
	n := 1
	switch kind {
	case KindNone:
		return Term{}, n, nil
	case KindIRI, KindBlank:
		v, m, err := readString(data[n:])
		if err != nil {
			return Term{}, 0, fmt.Errorf("failed to decode %s value: %w", kindName(kind), err)
		}
		return Term{Kind: kind, Value: v}, n + m, nil
	case KindLiteral:
		var fields [3]string
		for i := range fields {
			v, m, err := readString(data[n:])
			if err != nil {
				return Term{}, 0, fmt.Errorf("failed to decode literal field %d: %w", i, err)
			}
			fields[i] = v
			n += m
		}
		return Term{Kind: kind, Value: fields[0], Datatype: fields[1], Language: fields[2]}, n, nil
	default:
		return Term{}, 0, fmt.Errorf("unknown term kind: %d", kind)
	}
}

// AppendStatement appends the encoding of the terms of st in the given order
func AppendStatement(buf []byte, terms ...Term) []byte {
	for _, t := range terms {
		buf = AppendTerm(buf, t)
	}
	return buf
}

// DecodeTerms decodes exactly n consecutive terms from data
func DecodeTerms(data []byte, n int) ([]Term, error) {
	terms := make([]Term, n)
	offset := 0
	for i := 0; i < n; i++ {
		t, m, err := DecodeTerm(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		terms[i] = t
		offset += m
	}
	if offset != len(data) {
		return nil, fmt.Errorf("trailing %d bytes after %d terms", len(data)-offset, n)
	}
	return terms, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func readString(data []byte) (string, int, error) {
	size, n := binary.Uvarint(data)
	if n <= 0 {
		return "", 0, fmt.Errorf("invalid length prefix")
	}
	if uint64(len(data)-n) < size {
		return "", 0, fmt.Errorf("truncated: expected %d bytes, got %d", size, len(data)-n)
	}
	end := n + int(size)
	return string(data[n:end]), end, nil
}

func kindName(k TermKind) string {
	switch k {
	case KindIRI:
		return "IRI"
	case KindBlank:
		return "blank node"
	case KindLiteral:
		return "literal"
	default:
		return "term"
	}
}
