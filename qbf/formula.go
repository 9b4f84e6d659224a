// Package qbf models a quantified Boolean formula in prefix-matrix form:
// an ordered sequence of quantifier blocks followed by a CNF matrix, plus
// the parser that builds one from QDIMACS bytes.
package qbf

import "github.com/ferat-verify/ferat/literal"

// Kind distinguishes existential from universal quantifier blocks.
type Kind int

const (
	Existential Kind = iota
	Universal
)

func (k Kind) String() string {
	if k == Universal {
		return "universal"
	}
	return "existential"
}

// Quantifier is one prefix block: a kind, its 0-based position in the
// prefix sequence, and the variables it binds, in declaration order.
type Quantifier struct {
	Kind Kind
	Ord  int
	Vars []literal.Variable
}

// Clause is an index-range view over a Formula's literal arena, avoiding a
// separate backing-array allocation per clause (see DESIGN.md).
type Clause struct {
	start, length int32
}

// Len returns the number of literals in the clause.
func (c Clause) Len() int { return int(c.length) }

// binding records how a variable is bound: whether it appears in the
// prefix at all, and if so its quantifier's kind and ordering index. A
// direct-addressed slice indexed by variable stands in for the source's
// hash table, per DESIGN.md.
type binding struct {
	bound bool
	kind  Kind
	ord   int
}

// Formula is a parsed, immutable QBF: its prefix, its CNF matrix, and a
// direct-addressed prefix index from variable to binding.
type Formula struct {
	Prefix          []Quantifier
	NumAlternations int
	MaxVar          literal.Variable

	Matrix []Clause

	arena []literal.Literal
	index []binding // 1-indexed by variable; index[0] unused
}

// NewFormula returns an empty formula ready for incremental construction by
// the parser in parse.go.
func NewFormula() *Formula {
	return &Formula{index: make([]binding, 1, 64)}
}

func (f *Formula) ensureIndex(v literal.Variable) {
	for literal.Variable(len(f.index)) <= v {
		f.index = append(f.index, binding{})
	}
}

// bindVariable registers v as bound by a quantifier of the given kind and
// ordering. Returns false if v was already bound (caller should warn and
// skip it).
func (f *Formula) bindVariable(v literal.Variable, kind Kind, ord int) bool {
	f.ensureIndex(v)
	if f.index[v].bound {
		return false
	}
	f.index[v] = binding{bound: true, kind: kind, ord: ord}
	if v > f.MaxVar {
		f.MaxVar = v
	}
	return true
}

func (f *Formula) observeVar(v literal.Variable) {
	f.ensureIndex(v)
	if v > f.MaxVar {
		f.MaxVar = v
	}
}

// Ord returns the quantifier ordering index for v: 0 and Existential for a
// free (unbound) variable, per the "free ⇒ existential@0" convention.
func (f *Formula) Ord(v literal.Variable) int {
	if int(v) < len(f.index) && f.index[v].bound {
		return f.index[v].ord
	}
	return 0
}

// Kind returns the quantifier kind binding v, defaulting to Existential for
// a free variable.
func (f *Formula) Kind(v literal.Variable) Kind {
	if int(v) < len(f.index) && f.index[v].bound {
		return f.index[v].kind
	}
	return Existential
}

// IsFree reports whether v has no binding quantifier in the prefix.
func (f *Formula) IsFree(v literal.Variable) bool {
	return !(int(v) < len(f.index) && f.index[v].bound)
}

// Literals returns the literals of clause c as a view over the formula's
// arena. The slice is valid only until the next call to addClause.
func (f *Formula) Literals(c Clause) []literal.Literal {
	return f.arena[c.start : c.start+c.length]
}

// addClause copies lits into the arena and appends a view over them to
// Matrix.
func (f *Formula) addClause(lits []literal.Literal) {
	start := int32(len(f.arena))
	f.arena = append(f.arena, lits...)
	f.Matrix = append(f.Matrix, Clause{start: start, length: int32(len(lits))})
	for _, l := range lits {
		f.observeVar(l.Var())
	}
}
