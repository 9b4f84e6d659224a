// Package checker implements the per-expansion-clause verification
// algorithm: existential-literal correspondence against a candidate QBF
// clause, followed by the universal-annotation admissibility test.
package checker

import (
	"context"
	"fmt"

	"github.com/ferat-verify/ferat/expansion"
	"github.com/ferat-verify/ferat/literal"
	"github.com/ferat-verify/ferat/qbf"
	"github.com/ferat-verify/ferat/reporter"
	"github.com/ferat-verify/ferat/scan"
	"github.com/ferat-verify/ferat/sortutil"
)

// Options tunes the candidate-selection search.
type Options struct {
	// MaxMatrixScan caps how many QBF matrix clauses iterative candidate
	// selection will try per expansion clause. Zero means unbounded.
	MaxMatrixScan int
}

// Check verifies every expansion clause yielded by exp against qf,
// returning the ordered failure aggregator. qf must already be
// matrix-sorted (qbf.Parse does this). The returned error is non-nil only
// for the fatal taxonomy classes (origin index out of bounds, a syntax
// error surfaced while pulling a clause, or ctx cancellation); semantic
// rejections are recorded in the returned *Result, never as an error.
func Check(ctx context.Context, qf *qbf.Formula, exp *expansion.Formula, h *reporter.Handler, opts Options) (*Result, error) {
	result := &Result{}

	var identStack, ordStack sortutil.Stack
	var identScratch, ordScratch []uint32
	var orderedBuf []literal.Literal
	var uv uvSets

	clauseIdx := 0
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		clause, more, err := exp.Next()
		if err != nil {
			return result, err
		}
		if !more {
			break
		}

		sortInPlace([]literal.Literal(clause), identityKey, &identScratch, &identStack)

		lookupQVar := func(v literal.Variable) literal.Variable {
			rec := resolveMapping(exp, h, v)
			return rec.QBFVar
		}
		lookupFull := func(v literal.Variable) (literal.Variable, []literal.Literal) {
			rec := resolveMapping(exp, h, v)
			return rec.QBFVar, rec.Annotation
		}

		for _, lit := range clause {
			_, annotation := lookupFull(lit.Var())
			for _, a := range annotation {
				if qf.IsFree(a.Var()) {
					h.Warnf(scan.Position{}, fmt.Sprintf("free-variable:%d", a.Var()),
						"annotation of expansion variable %d uses variable %d, which is not bound by any quantifier", lit.Var(), a.Var())
				}
			}
		}

		candidates, fatalErr := selectCandidates(exp, h, clauseIdx, len(qf.Matrix), opts.MaxMatrixScan)
		if fatalErr != nil {
			return result, fatalErr
		}

		anyExistentialMatch := false
		passed := false
		for _, ci := range candidates {
			q := qf.Literals(qf.Matrix[ci])
			if !existentialTest(qf, q, clause, lookupQVar) {
				continue
			}
			anyExistentialMatch = true

			orderedBuf = append(orderedBuf[:0], clause...)
			proj := func(v uint32) uint32 {
				qvar, _ := lookupFull(literal.Literal(v).Var())
				return uint32(qf.Ord(qvar))
			}
			sortInPlace(orderedBuf, proj, &ordScratch, &ordStack)

			if annotationTest(qf, q, orderedBuf, lookupFull, &uv) {
				passed = true
				break
			}
		}

		if !passed {
			if anyExistentialMatch {
				result.add(IncorrectAnnotation, clauseIdx)
			} else {
				result.add(IncorrectLiterals, clauseIdx)
			}
		}
		clauseIdx++
	}

	return result, nil
}

// resolveMapping looks up v's annotation record, falling back to treating
// an unmapped expansion variable as a direct pass-through of the
// identically-numbered QBF variable with an empty annotation — the
// permissive fallback documented for the "every expansion literal's
// variable appears in mappings, except free variables" invariant.
func resolveMapping(exp *expansion.Formula, h *reporter.Handler, v literal.Variable) expansion.AnnotationRecord {
	if rec, ok := exp.Mapping(v); ok {
		return rec
	}
	h.Warnf(scan.Position{}, fmt.Sprintf("unmapped-expansion-variable:%d", v),
		"expansion variable %d has no c x mapping; treating it as a pass-through of QBF variable %d", v, v)
	return expansion.AnnotationRecord{QBFVar: v}
}

func identityKey(v uint32) uint32 { return v }

// sortInPlace sorts lits by proj, using scratch as reusable uint32 backing
// storage (grown, never shrunk) since literal.Literal cannot be reinterpreted
// as []uint32 without an unsafe cast.
func sortInPlace(lits []literal.Literal, proj func(uint32) uint32, scratch *[]uint32, stack *sortutil.Stack) {
	if len(lits) < 2 {
		return
	}
	if cap(*scratch) < len(lits) {
		*scratch = make([]uint32, len(lits))
	}
	buf := (*scratch)[:len(lits)]
	for i, l := range lits {
		buf[i] = uint32(l)
	}
	sortutil.Sort(buf, proj, stack)
	for i, v := range buf {
		lits[i] = literal.Literal(v)
	}
}

// existentialTest implements §4.4.a.
func existentialTest(qf *qbf.Formula, q []literal.Literal, e []literal.Literal, qvarOf func(literal.Variable) literal.Variable) bool {
	for _, lit := range e {
		want := literal.Encode(qvarOf(lit.Var()), lit.Negated())
		found := false
		for _, ql := range q {
			if ql == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	k := 0
	for _, ql := range q {
		if qf.Kind(ql.Var()) == qbf.Existential {
			k++
		}
	}
	return len(e) == k
}

// selectCandidates returns the indices into qf.Matrix to try for the
// expansion clause at clauseIdx: a single origin-selected index when the
// origin map covers it, or all matrix indices in iterative mode. It
// returns a non-nil error only for the origin-out-of-bounds fatal class.
func selectCandidates(exp *expansion.Formula, h *reporter.Handler, clauseIdx, matrixLen, maxScan int) ([]int, error) {
	if exp.HasOrigins() {
		idx, ok := exp.Origin(clauseIdx)
		if !ok {
			h.Warnf(scan.Position{}, "origin-map-exhausted",
				"origin map has fewer entries than expansion clauses seen so far; falling back to iterative candidate selection")
			exp.DropOrigins()
		} else {
			if idx < 0 || idx >= matrixLen {
				return nil, h.Fatal(reporter.KindOriginBounds, scan.Position{}, reporter.ErrOriginOutOfBounds)
			}
			return []int{idx}, nil
		}
	}
	n := matrixLen
	if maxScan > 0 && maxScan < n {
		n = maxScan
		h.Warnf(scan.Position{}, "max-matrix-scan-hit",
			"iterative candidate selection capped at %d of %d matrix clauses for expansion clause %d", maxScan, matrixLen, clauseIdx+1)
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all, nil
}
