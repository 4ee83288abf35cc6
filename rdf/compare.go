package rdf

import (
	"sort"
	"strings"
)

// CompareTerms compares two terms and returns:
//
//	-1 if left < right
//	 0 if left == right
//	 1 if left > right
//
// Terms order by kind first (zero < IRI < blank < literal), then by value,
// datatype and language. The order is total and consistent with ==.
func CompareTerms(left, right Term) int {
	if left.Kind != right.Kind {
		if left.Kind < right.Kind {
			return -1
		}
		return 1
	}
	if c := strings.Compare(left.Value, right.Value); c != 0 {
		return c
	}
	if c := strings.Compare(left.Datatype, right.Datatype); c != 0 {
		return c
	}
	return strings.Compare(left.Language, right.Language)
}

// CompareStatements orders statements by graph, subject, predicate, object
func CompareStatements(left, right Statement) int {
	if c := CompareTerms(left.Graph, right.Graph); c != 0 {
		return c
	}
	if c := CompareTerms(left.Subject, right.Subject); c != 0 {
		return c
	}
	if c := CompareTerms(left.Predicate, right.Predicate); c != 0 {
		return c
	}
	return CompareTerms(left.Object, right.Object)
}

// SortStatements sorts statements in place by CompareStatements
func SortStatements(sts []Statement) {
	sort.Slice(sts, func(i, j int) bool {
		return CompareStatements(sts[i], sts[j]) < 0
	})
}

// SortTerms sorts terms in place by CompareTerms
func SortTerms(terms []Term) {
	sort.Slice(terms, func(i, j int) bool {
		return CompareTerms(terms[i], terms[j]) < 0
	})
}
