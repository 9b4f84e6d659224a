package checker

import (
	"encoding/json"
	"fmt"
	"io"
)

// FailureKind classifies why an expansion clause was rejected.
type FailureKind int

const (
	// IncorrectLiterals means no candidate QBF clause matched E's
	// existential literals 1:1.
	IncorrectLiterals FailureKind = iota
	// IncorrectAnnotation means some candidate matched existentially but
	// no candidate's universal annotation requirements were satisfied.
	IncorrectAnnotation
)

func (k FailureKind) String() string {
	switch k {
	case IncorrectLiterals:
		return "incorrect existential literals"
	case IncorrectAnnotation:
		return "incorrect universal annotation"
	default:
		return "unknown failure"
	}
}

// MarshalJSON renders the kind as its machine-readable tag.
func (k FailureKind) MarshalJSON() ([]byte, error) {
	switch k {
	case IncorrectLiterals:
		return json.Marshal("INCORRECT_LITERALS")
	case IncorrectAnnotation:
		return json.Marshal("INCORRECT_ANNOTATION")
	default:
		return json.Marshal("UNKNOWN")
	}
}

// Failure records one rejected expansion clause, keyed by its 0-based
// index in input order.
type Failure struct {
	Kind        FailureKind
	ClauseIndex int
}

// Result is the ordered aggregator of checker failures: ordered by input
// order since clauses are checked strictly in the order they are yielded.
type Result struct {
	Failures []Failure
}

func (r *Result) add(kind FailureKind, clauseIndex int) {
	r.Failures = append(r.Failures, Failure{Kind: kind, ClauseIndex: clauseIndex})
}

// Valid reports whether zero failures were recorded.
func (r *Result) Valid() bool { return len(r.Failures) == 0 }

// NumFailures returns the number of recorded failures.
func (r *Result) NumFailures() int { return len(r.Failures) }

// WriteText renders the human-readable "c " verdict report described in
// the external-interfaces section: one 1-indexed description line per
// failure, followed by the final "s VERIFIED"/"s NOT VERIFIED" line.
func (r *Result) WriteText(w io.Writer) error {
	if r.Valid() {
		_, err := fmt.Fprintln(w, "s VERIFIED")
		return err
	}
	for n, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "c   %d. %s in expansion clause %d\n", n+1, f.Kind, f.ClauseIndex+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "s NOT VERIFIED")
	return err
}

type jsonFailure struct {
	Kind        FailureKind `json:"kind"`
	ClauseIndex int         `json:"clause_index"`
}

type jsonResult struct {
	Verdict  string        `json:"verdict"`
	Failures []jsonFailure `json:"failures"`
}

// MarshalJSON renders the report-mode document described in §6: a verdict
// string plus the ordered failure list.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := jsonResult{Verdict: "VERIFIED"}
	if !r.Valid() {
		out.Verdict = "NOT_VERIFIED"
	}
	for _, f := range r.Failures {
		out.Failures = append(out.Failures, jsonFailure{Kind: f.Kind, ClauseIndex: f.ClauseIndex})
	}
	return json.Marshal(out)
}
