package expansion

import (
	"fmt"

	"github.com/ferat-verify/ferat/literal"
	"github.com/ferat-verify/ferat/reporter"
	"github.com/ferat-verify/ferat/scan"
)

// ParsePreamble consumes the p/c x/c o preamble and leaves r positioned at
// the first clause byte (or EOF). Call Next on the returned Formula to
// pull clauses lazily.
func ParsePreamble(r *scan.Reader, h *reporter.Handler) (*Formula, error) {
	f := newFormula()
	f.r = r
	f.h = h

	var havePLine bool
	var sawOrigin bool

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
			f.PreambleMaxVar = maxVar
			f.PreambleNumClauses = numClauses

		case 'c':
			r.Advance()
			scan.SkipHorizontalWS(r)
			word := string(scan.ReadWord(r))
			switch word {
			case "x":
				if err := parseMappingComment(r, f, warn); err != nil {
					return f, h.Fatal(reporter.KindSyntax, pos, err)
				}
			case "o":
				origins, err := parseOriginComment(r, warn)
				if err != nil {
					return f, h.Fatal(reporter.KindSyntax, pos, err)
				}
				f.Origins = origins
				sawOrigin = true
			default:
				scan.SkipLine(r)
				scan.SkipNewlineIfAny(r)
			}

		default:
			// First non-preamble byte: halt phase 1, leaving r positioned
			// here for the phase-2 clause generator.
			if !havePLine {
				h.Warnf(pos, "missing-problem-line", "no p cnf line found in expansion preamble")
			}
			if !sawOrigin {
				h.Warnf(pos, "missing-origin-map", "no c o line found; falling back to iterative candidate selection")
			}
			return f, nil
		}
	}

	if !havePLine {
		h.Warnf(scan.Position{Line: 1, Column: 1}, "missing-problem-line", "no p cnf line found in expansion preamble")
	}
	if !sawOrigin {
		h.Warnf(scan.Position{Line: 1, Column: 1}, "missing-origin-map", "no c o line found; falling back to iterative candidate selection")
	}
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

// parseMappingComment parses `c x <exp_vars…> 0 <qbf_vars…> 0
// <annotation_lits…> 0`.
func parseMappingComment(r *scan.Reader, f *Formula, warn scan.Warner) error {
	scan.SkipHorizontalWS(r)
	expVars, err := scan.ReadVariableList(r, warn)
	if err != nil {
		return err
	}
	scan.SkipHorizontalWS(r)
	qbfVars, err := scan.ReadVariableList(r, warn)
	if err != nil {
		return err
	}
	if len(expVars) != len(qbfVars) {
		return reporter.ErrMappingListLength
	}
	scan.SkipHorizontalWS(r)
	annotation, err := scan.ReadLiteralList(r, warn)
	if err != nil {
		return err
	}
	for i, ev := range expVars {
		rec := AnnotationRecord{
			QBFVar:     qbfVars[i],
			Annotation: append([]literal.Literal(nil), annotation...),
		}
		f.setMapping(ev, rec)
	}
	return nil
}

// parseOriginComment parses `c o <qbf_clause_index_1based…> 0`, converting
// to 0-based indices.
func parseOriginComment(r *scan.Reader, warn scan.Warner) ([]int, error) {
	scan.SkipHorizontalWS(r)
	vars, err := scan.ReadVariableList(r, warn)
	if err != nil {
		return nil, err
	}
	origins := make([]int, len(vars))
	for i, v := range vars {
		if v == 0 {
			return nil, &scan.Error{Pos: r.Position(), Expected: "1-based clause index", Actual: "0"}
		}
		origins[i] = int(v) - 1
	}
	return origins, nil
}

// Next pulls the next expansion clause from the byte stream, returning
// (clause, true, nil) while clauses remain, or (nil, false, nil) at a
// clean EOF. It is a synchronous, non-restartable generator: the caller
// must discard clause before calling Next again (§9 design notes).
func (f *Formula) Next() (Clause, bool, error) {
	if f.done {
		return nil, false, nil
	}
	warn := func(pos scan.Position, class string, err error) { f.h.Warn(pos, class, err) }

	for {
		scan.SkipNewlineIfAny(f.r)
		if f.r.AtEOF() {
			f.done = true
			f.checkCountOnExhaustion()
			return nil, false, nil
		}
		if b, ok := f.r.Peek(); ok && b == 'c' {
			f.r.Advance()
			scan.SkipLine(f.r)
			scan.SkipNewlineIfAny(f.r)
			continue
		}
		pos := f.r.Position()
		lits, err := scan.ReadLiteralList(f.r, warn)
		if err != nil {
			f.done = true
			return nil, false, f.h.Fatal(reporter.KindSyntax, pos, err)
		}
		f.yielded++
		return Clause(lits), true, nil
	}
}

func (f *Formula) checkCountOnExhaustion() {
	if f.yielded != f.PreambleNumClauses {
		f.h.Warnf(scan.Position{Line: 1, Column: 1}, "num-clauses-mismatch",
			"declared clause count %d does not match %d clauses yielded", f.PreambleNumClauses, f.yielded)
	}
}
