package qbf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferat-verify/ferat/literal"
	"github.com/ferat-verify/ferat/reporter"
	"github.com/ferat-verify/ferat/scan"
)

func parseString(t *testing.T, s string) (*Formula, *reporter.Handler) {
	t.Helper()
	r, err := scan.NewReader(strings.NewReader(s))
	require.NoError(t, err)
	h := reporter.NewHandler(nil, true)
	f, err := Parse(r, h)
	require.NoError(t, err)
	return f, h
}

func TestParseEmptyFormula(t *testing.T) {
	f, _ := parseString(t, "p cnf 0 0\n")
	assert.Empty(t, f.Prefix)
	assert.Empty(t, f.Matrix)
}

func TestParseQuantifierPrefixAndClause(t *testing.T) {
	f, _ := parseString(t, "p cnf 3 1\na 1 0\ne 2 3 0\n1 2 3 0\n")
	require.Len(t, f.Prefix, 2)
	assert.Equal(t, Universal, f.Prefix[0].Kind)
	assert.Equal(t, []literal.Variable{1}, f.Prefix[0].Vars)
	assert.Equal(t, Existential, f.Prefix[1].Kind)
	assert.Equal(t, []literal.Variable{2, 3}, f.Prefix[1].Vars)

	require.Len(t, f.Matrix, 1)
	lits := f.Literals(f.Matrix[0])
	require.Len(t, lits, 3)
	// sorted by quantifier ordering: universal block (ord 0) first, then
	// the existential block (ord 1); x1 has ord 0, x2/x3 have ord 1.
	assert.Equal(t, literal.Variable(1), lits[0].Var())
}

func TestParseFreeVariableTreatedExistentialAtZero(t *testing.T) {
	f, _ := parseString(t, "p cnf 2 1\na 1 0\n1 2 0\n")
	assert.True(t, f.IsFree(2))
	assert.Equal(t, 0, f.Ord(2))
	assert.Equal(t, Existential, f.Kind(2))
}

func TestParseDuplicateVariableInPrefixIsSkipped(t *testing.T) {
	f, h := parseString(t, "p cnf 2 0\na 1 0\ne 1 2 0\n")
	require.Len(t, f.Prefix, 2)
	assert.Equal(t, []literal.Variable{2}, f.Prefix[1].Vars)
	assert.Equal(t, Universal, f.Kind(1))
	assert.GreaterOrEqual(t, h.WarnCount(), 1)
}

func TestParseConsecutiveSameKindBlocksAreKeptAndWarned(t *testing.T) {
	f, h := parseString(t, "p cnf 2 0\ne 1 0\ne 2 0\n")
	require.Len(t, f.Prefix, 2)
	assert.Equal(t, 0, f.NumAlternations)
	assert.GreaterOrEqual(t, h.WarnCount(), 1)
}

func TestParseDuplicateProblemLineIsFatal(t *testing.T) {
	r, err := scan.NewReader(strings.NewReader("p cnf 1 0\np cnf 1 0\n"))
	require.NoError(t, err)
	h := reporter.NewHandler(nil, true)
	_, err = Parse(r, h)
	require.Error(t, err)
	var fe *reporter.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, reporter.KindSyntax, fe.Kind())
}

func TestParseMaxVarAdjustedUpward(t *testing.T) {
	f, h := parseString(t, "p cnf 1 1\n1 5 0\n")
	assert.Equal(t, literal.Variable(5), f.MaxVar)
	assert.GreaterOrEqual(t, h.WarnCount(), 0)
}

func TestParseNumClausesMismatchWarns(t *testing.T) {
	_, h := parseString(t, "p cnf 1 5\n1 0\n")
	assert.GreaterOrEqual(t, h.WarnCount(), 1)
}

func TestParseMatrixSortedByQuantifierOrdering(t *testing.T) {
	f, _ := parseString(t, "p cnf 3 1\ne 2 0\na 1 0\ne 3 0\n3 1 2 0\n")
	lits := f.Literals(f.Matrix[0])
	for i := 1; i < len(lits); i++ {
		assert.LessOrEqual(t, f.Ord(lits[i-1].Var()), f.Ord(lits[i].Var()))
	}
}
