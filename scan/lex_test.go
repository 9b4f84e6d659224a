package scan

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferat-verify/ferat/literal"
)

func newTestReader(t *testing.T, s string) *Reader {
	t.Helper()
	r, err := NewReader(strings.NewReader(s))
	require.NoError(t, err)
	return r
}

func TestSkipHorizontalWS(t *testing.T) {
	r := newTestReader(t, "  \t\v\rfoo")
	SkipHorizontalWS(r)
	b, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('f'), b)
}

func TestSkipNewlineIfAny(t *testing.T) {
	r := newTestReader(t, "  \nfoo")
	assert.True(t, SkipNewlineIfAny(r))
	assert.Equal(t, 2, r.Position().Line)

	r2 := newTestReader(t, "  foo")
	assert.False(t, SkipNewlineIfAny(r2))
}

func TestReadWord(t *testing.T) {
	r := newTestReader(t, "cnf 1 2 0")
	w := ReadWord(r)
	assert.Equal(t, "cnf", string(w))
}

func TestReadDecimal(t *testing.T) {
	r := newTestReader(t, "-123 45")
	neg, mag, err := ReadDecimal(r)
	require.NoError(t, err)
	assert.True(t, neg)
	assert.Equal(t, uint64(123), mag)

	SkipHorizontalWS(r)
	neg, mag, err = ReadDecimal(r)
	require.NoError(t, err)
	assert.False(t, neg)
	assert.Equal(t, uint64(45), mag)
}

func TestReadDecimalRequiresDigit(t *testing.T) {
	r := newTestReader(t, "- foo")
	_, _, err := ReadDecimal(r)
	require.Error(t, err)
}

func TestReadVariableRejectsNegative(t *testing.T) {
	r := newTestReader(t, "-3")
	_, err := ReadVariable(r, true)
	require.Error(t, err)
}

func TestReadVariableRejectsZeroUnlessAllowed(t *testing.T) {
	r := newTestReader(t, "0")
	_, err := ReadVariable(r, false)
	require.Error(t, err)

	r2 := newTestReader(t, "0")
	v, err := ReadVariable(r2, true)
	require.NoError(t, err)
	assert.Equal(t, literal.Variable(0), v)
}

func TestReadLiteralEncodesSign(t *testing.T) {
	r := newTestReader(t, "-5")
	lit, isZero, err := ReadLiteral(r, false)
	require.NoError(t, err)
	assert.False(t, isZero)
	assert.Equal(t, literal.Variable(5), lit.Var())
	assert.True(t, lit.Negated())
}

func TestReadLiteralListStopsAtZero(t *testing.T) {
	r := newTestReader(t, "1 -2 3 0\nmore")
	var warnings int
	lits, err := ReadLiteralList(r, func(Position, string, error) { warnings++ })
	require.NoError(t, err)
	require.Len(t, lits, 3)
	assert.Equal(t, int64(1), lits[0].Signed())
	assert.Equal(t, int64(-2), lits[1].Signed())
	assert.Equal(t, int64(3), lits[2].Signed())
	assert.Equal(t, 0, warnings)
}

func TestReadLiteralListWarnsOnMissingTerminator(t *testing.T) {
	r := newTestReader(t, "1 -2\n")
	var warned bool
	lits, err := ReadLiteralList(r, func(Position, string, error) { warned = true })
	require.NoError(t, err)
	require.Len(t, lits, 2)
	assert.True(t, warned)
}

func TestReadVariableListBasic(t *testing.T) {
	r := newTestReader(t, "1 2 3 0")
	vars, err := ReadVariableList(r, nil)
	require.NoError(t, err)
	assert.Equal(t, []literal.Variable{1, 2, 3}, vars)
}

func TestReaderTracksLineColumn(t *testing.T) {
	r := newTestReader(t, "ab\ncd")
	r.Advance() // a
	r.Advance() // b
	assert.Equal(t, Position{Line: 1, Column: 3}, r.Position())
	r.Advance() // \n
	assert.Equal(t, Position{Line: 2, Column: 1}, r.Position())
}

func TestReaderGzipTransparent(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("p cnf 1 0\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	w := ReadWord(r)
	assert.Equal(t, "p", string(w))
}
