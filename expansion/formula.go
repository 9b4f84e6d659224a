// Package expansion models a propositional expansion of a QBF: the
// preamble (problem line, variable-to-origin mappings, optional clause
// origins) plus a lazy, non-restartable clause generator.
package expansion

import (
	"github.com/ferat-verify/ferat/literal"
	"github.com/ferat-verify/ferat/reporter"
	"github.com/ferat-verify/ferat/scan"
)

// AnnotationRecord is the per-expansion-variable mapping back to its QBF
// "original" and the universal assignment that produced this copy.
type AnnotationRecord struct {
	QBFVar     literal.Variable
	Free       bool
	Annotation []literal.Literal
}

// Clause is an expansion clause: an ordered sequence of expansion
// literals, owned by the caller that requested it from Next.
type Clause []literal.Literal

type mappingSlot struct {
	bound bool
	rec   AnnotationRecord
}

// Formula is a parsed expansion preamble plus the still-open byte stream
// positioned at the first clause, ready to yield clauses via Next.
type Formula struct {
	PreambleMaxVar     literal.Variable
	PreambleNumClauses int

	mappings []mappingSlot // direct-addressed by expansion variable
	Origins  []int         // 0-based QBF matrix indices, or nil if absent/dropped

	yielded int
	done    bool

	r *scan.Reader
	h *reporter.Handler
}

func newFormula() *Formula {
	return &Formula{mappings: make([]mappingSlot, 1, 64)}
}

func (f *Formula) ensureMappingIndex(v literal.Variable) {
	for literal.Variable(len(f.mappings)) <= v {
		f.mappings = append(f.mappings, mappingSlot{})
	}
}

// setMapping registers (or overwrites) the annotation record for v.
func (f *Formula) setMapping(v literal.Variable, rec AnnotationRecord) {
	f.ensureMappingIndex(v)
	f.mappings[v] = mappingSlot{bound: true, rec: rec}
}

// Mapping returns the annotation record for expansion variable v, and
// whether one was declared by a c x line.
func (f *Formula) Mapping(v literal.Variable) (AnnotationRecord, bool) {
	if int(v) < len(f.mappings) && f.mappings[v].bound {
		return f.mappings[v].rec, true
	}
	return AnnotationRecord{}, false
}

// HasOrigins reports whether a usable (not yet dropped) clause-origin map
// is present.
func (f *Formula) HasOrigins() bool {
	return f.Origins != nil
}

// DropOrigins discards the origin map, forcing the checker into iterative
// candidate-selection mode for all remaining clauses (§4.4 fallback).
func (f *Formula) DropOrigins() {
	f.Origins = nil
}

// Origin returns the 0-based QBF matrix index recorded for the clause at
// expansion index i, if the origin map is present and covers i.
func (f *Formula) Origin(i int) (int, bool) {
	if f.Origins == nil || i < 0 || i >= len(f.Origins) {
		return 0, false
	}
	return f.Origins[i], true
}
