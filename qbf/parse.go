package qbf

import (
	"fmt"

	"github.com/ferat-verify/ferat/literal"
	"github.com/ferat-verify/ferat/reporter"
	"github.com/ferat-verify/ferat/scan"
	"github.com/ferat-verify/ferat/sortutil"
)

// Parse consumes a full QDIMACS stream and returns the resulting formula.
// It is a line-oriented dispatch over a leading-byte state machine: each
// line belongs to exactly one of the problem/comment/quantifier/clause
// classes below, determined by its first non-whitespace byte.
// Structural inconsistencies (duplicate variables, declared/observed count
// mismatches) are reported through h as warnings and repaired per the
// documented fallback; only lexical/syntactic failures and a duplicate p
// line are fatal.
func Parse(r *scan.Reader, h *reporter.Handler) (*Formula, error) {
	f := NewFormula()

	var havePLine bool
	var declaredMaxVar literal.Variable
	var declaredNumClauses int
	var prevKind Kind
	var havePrevKind bool

	warn := func(pos scan.Position, class string, err error) { h.Warn(pos, class, err) }

	for {
		scan.SkipHorizontalWS(r)
		if r.AtEOF() {
			break
		}
		b, _ := r.Peek()
		pos := r.Position()

		switch b {
		case 'p':
			if havePLine {
				return f, h.Fatal(reporter.KindSyntax, pos, reporter.ErrDuplicateProblemLine)
			}
			maxVar, numClauses, err := parseProblemLine(r)
			if err != nil {
				return f, h.Fatal(reporter.KindSyntax, pos, err)
			}
			havePLine = true
			declaredMaxVar = maxVar
			declaredNumClauses = numClauses

		case 'c':
			r.Advance()
			scan.SkipLine(r)
			scan.SkipNewlineIfAny(r)

		case 'e', 'a':
			kind := Existential
			if b == 'a' {
				kind = Universal
			}
			r.Advance()
			scan.SkipHorizontalWS(r)
			vars, err := scan.ReadVariableList(r, warn)
			if err != nil {
				return f, h.Fatal(reporter.KindSyntax, pos, err)
			}
			q := Quantifier{Kind: kind, Ord: len(f.Prefix)}
			for _, v := range vars {
				if v == 0 {
					continue
				}
				if !f.bindVariable(v, kind, q.Ord) {
					h.Warnf(pos, fmt.Sprintf("duplicate-bound-variable:%d", v),
						"variable %d already bound by an earlier quantifier block; skipping", v)
					continue
				}
				q.Vars = append(q.Vars, v)
			}
			if len(q.Vars) == 0 {
				continue
			}
			if havePrevKind && prevKind == kind {
				h.Warnf(pos, fmt.Sprintf("consecutive-quantifier-block:%d", q.Ord), "consecutive quantifier blocks of kind %s", kind)
			} else if havePrevKind {
				f.NumAlternations++
			}
			havePrevKind = true
			prevKind = kind
			f.Prefix = append(f.Prefix, q)

		default:
			lits, err := scan.ReadLiteralList(r, warn)
			if err != nil {
				return f, h.Fatal(reporter.KindSyntax, pos, err)
			}
			f.addClause(lits)
			for _, l := range lits {
				if f.IsFree(l.Var()) {
					h.Warnf(pos, fmt.Sprintf("free-variable:%d", l.Var()),
						"variable %d is not bound by any quantifier; treating it as existential at ordering 0", l.Var())
				}
			}
		}
	}

	if !havePLine {
		h.Warnf(scan.Position{Line: 1, Column: 1}, "missing-problem-line", "no p cnf line found")
	} else {
		if declaredMaxVar > f.MaxVar {
			f.MaxVar = declaredMaxVar
		} else if declaredMaxVar < f.MaxVar {
			h.Warnf(scan.Position{Line: 1, Column: 1}, "max-var-mismatch",
				"declared max variable %d is smaller than observed max variable %d", declaredMaxVar, f.MaxVar)
		}
		if declaredNumClauses != len(f.Matrix) {
			h.Warnf(scan.Position{Line: 1, Column: 1}, "num-clauses-mismatch",
				"declared clause count %d does not match observed count %d", declaredNumClauses, len(f.Matrix))
		}
	}

	sortMatrix(f)
	return f, nil
}

func parseProblemLine(r *scan.Reader) (maxVar literal.Variable, numClauses int, err error) {
	r.Advance() // consume 'p'
	scan.SkipHorizontalWS(r)
	word := scan.ReadWord(r)
	if string(word) != "cnf" {
		return 0, 0, &scan.Error{Pos: r.Position(), Expected: `"cnf"`, Actual: fmt.Sprintf("%q", word)}
	}
	scan.SkipHorizontalWS(r)
	maxVar, err = scan.ReadVariable(r, true)
	if err != nil {
		return 0, 0, err
	}
	scan.SkipHorizontalWS(r)
	nc, err := scan.ReadVariable(r, true)
	if err != nil {
		return 0, 0, err
	}
	scan.SkipNewlineIfAny(r)
	return maxVar, int(nc), nil
}

// sortMatrix sorts each clause's literals by ascending quantifier ordering
// of their variable (free variables project to 0, i.e. first), per §4.2,
// with literals of equal ordering sorted by literal value.
// This is the ordering the checker's annotation test depends on.
func sortMatrix(f *Formula) {
	var stack sortutil.Stack
	var scratch []uint32
	proj := func(v uint32) uint32 { return uint32(f.Ord(literal.Literal(v).Var())) }
	for _, c := range f.Matrix {
		lits := f.Literals(c)
		if cap(scratch) < len(lits) {
			scratch = make([]uint32, len(lits))
		}
		scratch = scratch[:len(lits)]
		for i, l := range lits {
			scratch[i] = uint32(l)
		}
		sortutil.Sort(scratch, proj, &stack)
		for lo := 0; lo < len(scratch); {
			hi := lo + 1
			for hi < len(scratch) && proj(scratch[hi]) == proj(scratch[lo]) {
				hi++
			}
			sortutil.Sort(scratch[lo:hi], func(v uint32) uint32 { return v }, &stack)
			lo = hi
		}
		for i, v := range scratch {
			lits[i] = literal.Literal(v)
		}
	}
}
