package expansion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferat-verify/ferat/literal"
	"github.com/ferat-verify/ferat/reporter"
	"github.com/ferat-verify/ferat/scan"
)

func preamble(t *testing.T, s string) (*Formula, *reporter.Handler) {
	t.Helper()
	r, err := scan.NewReader(strings.NewReader(s))
	require.NoError(t, err)
	h := reporter.NewHandler(nil, true)
	f, err := ParsePreamble(r, h)
	require.NoError(t, err)
	return f, h
}

func TestParsePreambleEmpty(t *testing.T) {
	f, _ := preamble(t, "p cnf 0 0\n")
	require.NotNil(t, f)
	clause, more, err := f.Next()
	require.NoError(t, err)
	assert.False(t, more)
	assert.Nil(t, clause)
}

func TestParsePreambleMappingAndOrigin(t *testing.T) {
	f, _ := preamble(t, "p cnf 2 1\nc x 1 2 0 2 3 0 -1 -1 0\nc o 1 0\n1 2 0\n")
	rec, ok := f.Mapping(1)
	require.True(t, ok)
	assert.Equal(t, literal.Variable(2), rec.QBFVar)
	require.Len(t, rec.Annotation, 2)
	assert.Equal(t, int64(-1), rec.Annotation[0].Signed())

	rec2, ok := f.Mapping(2)
	require.True(t, ok)
	assert.Equal(t, literal.Variable(3), rec2.QBFVar)
	// independent copies: mutating one must not affect the other.
	rec.Annotation[0] = literal.Encode(99, false)
	assert.NotEqual(t, rec.Annotation[0], rec2.Annotation[0])

	require.True(t, f.HasOrigins())
	origin, ok := f.Origin(0)
	require.True(t, ok)
	assert.Equal(t, 0, origin)

	clause, more, err := f.Next()
	require.NoError(t, err)
	require.True(t, more)
	require.Len(t, clause, 2)
}

func TestParsePreambleMappingListLengthMismatchIsFatal(t *testing.T) {
	r, err := scan.NewReader(strings.NewReader("p cnf 2 0\nc x 1 2 0 2 0 0\n"))
	require.NoError(t, err)
	h := reporter.NewHandler(nil, true)
	_, err = ParsePreamble(r, h)
	require.Error(t, err)
}

func TestParsePreambleMissingOriginWarns(t *testing.T) {
	_, h := preamble(t, "p cnf 1 1\n1 0\n")
	assert.GreaterOrEqual(t, h.WarnCount(), 1)
}

func TestNextYieldsClausesInOrderAndStopsAtEOF(t *testing.T) {
	f, _ := preamble(t, "p cnf 2 2\n1 2 0\n-1 0\n")
	c1, more, err := f.Next()
	require.NoError(t, err)
	require.True(t, more)
	assert.Len(t, c1, 2)

	c2, more, err := f.Next()
	require.NoError(t, err)
	require.True(t, more)
	assert.Len(t, c2, 1)

	c3, more, err := f.Next()
	require.NoError(t, err)
	assert.False(t, more)
	assert.Nil(t, c3)
}

func TestNextSkipsInlineComments(t *testing.T) {
	f, _ := preamble(t, "p cnf 1 2\n1 0\nc a stray comment between clauses\n-1 0\n")
	c, more, err := f.Next()
	require.NoError(t, err)
	require.True(t, more)
	assert.Len(t, c, 1)

	c, more, err = f.Next()
	require.NoError(t, err)
	require.True(t, more)
	require.Len(t, c, 1)
	assert.Equal(t, int64(-1), c[0].Signed())
}

func TestDropOriginsForcesAbsence(t *testing.T) {
	f, _ := preamble(t, "p cnf 1 1\nc o 1 0\n1 0\n")
	require.True(t, f.HasOrigins())
	f.DropOrigins()
	assert.False(t, f.HasOrigins())
	_, ok := f.Origin(0)
	assert.False(t, ok)
}
