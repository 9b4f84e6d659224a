package checker

import (
	"sort"

	"github.com/ferat-verify/ferat/literal"
	"github.com/ferat-verify/ferat/qbf"
)

// uvSets holds the U and V universal-literal sets from §4.4.b, kept as
// sorted flat slices with binary-search membership so the annotation
// test's hot loop allocates only when a clause needs more room than any
// earlier one. Both slices are
// owned by one verification run and are only ever truncated, never
// reallocated, between clauses (per the performance-critical contract in
// the design notes).
type uvSets struct {
	u, v []literal.Literal
}

func (s *uvSets) reset() {
	s.u = s.u[:0]
	s.v = s.v[:0]
}

func insertSorted(slice *[]literal.Literal, x literal.Literal) {
	xs := *slice
	i := sort.Search(len(xs), func(i int) bool { return xs[i] >= x })
	xs = append(xs, 0)
	copy(xs[i+1:], xs[i:])
	xs[i] = x
	*slice = xs
}

func containsSorted(xs []literal.Literal, x literal.Literal) bool {
	i := sort.Search(len(xs), func(i int) bool { return xs[i] >= x })
	return i < len(xs) && xs[i] == x
}

// removeAllSorted removes every occurrence of x from the sorted slice,
// preserving order.
func removeAllSorted(slice *[]literal.Literal, x literal.Literal) {
	xs := *slice
	out := xs[:0]
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	*slice = out
}

// findInClause linearly scans Q for a literal over variable u and returns
// it. Q is small (a single clause), so this is the documented "search
// linearly" contract rather than a binary search.
func findInClause(q []literal.Literal, u literal.Variable) (literal.Literal, bool) {
	for _, l := range q {
		if l.Var() == u {
			return l, true
		}
	}
	return 0, false
}

// annotationLookup resolves, for an expansion literal's variable, the QBF
// variable it mirrors and its annotation record. Supplied by the caller so
// the unmapped-variable fallback policy lives in one place (checker.go).
type annotationLookup func(v literal.Variable) (qvar literal.Variable, annotation []literal.Literal)

// annotationTest implements §4.4.b: walking the QBF prefix left to right as
// E's literals (sorted by the quantifier ordering of their mapped
// variable) are consumed, checking that each one's annotation is exactly
// the set of universals to its left, with polarity consistent with q.
func annotationTest(qf *qbf.Formula, q []literal.Literal, eByOrd []literal.Literal, lookup annotationLookup, uv *uvSets) bool {
	uv.reset()
	universalsSeen := 0
	lastOrd := 0

	for _, e := range eByOrd {
		qvar, annotation := lookup(e.Var())
		qIdx := qf.Ord(qvar)

		for _, blk := range qf.Prefix[lastOrd:qIdx] {
			if blk.Kind != qbf.Universal {
				continue
			}
			for _, u := range blk.Vars {
				universalsSeen++
				if l, found := findInClause(q, u); found {
					insertSorted(&uv.u, l.Negate())
				} else {
					insertSorted(&uv.v, literal.Encode(u, false))
					insertSorted(&uv.v, literal.Encode(u, true))
				}
			}
		}

		if len(annotation) != universalsSeen {
			return false
		}
		for _, a := range annotation {
			if !containsSorted(uv.v, a) && !containsSorted(uv.u, a) {
				return false
			}
		}
		for _, a := range annotation {
			removeAllSorted(&uv.v, a.Negate())
		}
		lastOrd = qIdx
	}
	return true
}
