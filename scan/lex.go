package scan

import (
	"fmt"

	"github.com/ferat-verify/ferat/literal"
)

// Error is a lexical or syntactic failure tied to a source position. It
// satisfies the plain error interface; callers that need the position wrap
// it with reporter.Error.
type Error struct {
	Pos      Position
	Expected string
	Actual   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Pos, e.Expected, e.Actual)
}

// Warner receives a non-fatal diagnostic tied to a position and a dedup
// class (an empty class disables dedup for that call). scan itself never
// decides whether a warning is suppressed or logged; that policy lives in
// reporter.Handler, whose Warn method satisfies this type.
type Warner func(pos Position, class string, err error)

func describe(b byte, ok bool) string {
	if !ok {
		return "EOF"
	}
	if b == '\n' {
		return `"\n"`
	}
	return fmt.Sprintf("%q", b)
}

func isHorizontalWS(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\r'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// SkipHorizontalWS consumes bytes in {' ', '\t', '\v', '\r'}.
func SkipHorizontalWS(r *Reader) {
	for {
		b, ok := r.Peek()
		if !ok || !isHorizontalWS(b) {
			return
		}
		r.Advance()
	}
}

// SkipNewlineIfAny skips horizontal whitespace, then consumes a single '\n'
// if present, reporting whether it did so.
func SkipNewlineIfAny(r *Reader) bool {
	SkipHorizontalWS(r)
	b, ok := r.Peek()
	if ok && b == '\n' {
		r.Advance()
		return true
	}
	return false
}

// ReadWord consumes contiguous non-whitespace, non-newline bytes.
func ReadWord(r *Reader) []byte {
	var buf []byte
	for {
		b, ok := r.Peek()
		if !ok || isHorizontalWS(b) || b == '\n' {
			break
		}
		buf = append(buf, b)
		r.Advance()
	}
	return buf
}

// SkipLine consumes all bytes up to (but not including) the next newline.
func SkipLine(r *Reader) {
	for {
		b, ok := r.Peek()
		if !ok || b == '\n' {
			return
		}
		r.Advance()
	}
}

// ReadDecimal consumes an optional leading '-' followed by one or more
// ASCII digits, returning the sign and magnitude. It fails if no digit
// follows the optional sign.
func ReadDecimal(r *Reader) (neg bool, mag uint64, err error) {
	pos := r.Position()
	if b, ok := r.Peek(); ok && b == '-' {
		neg = true
		r.Advance()
	}
	digits := 0
	for {
		b, ok := r.Peek()
		if !ok || !isDigit(b) {
			break
		}
		mag = mag*10 + uint64(b-'0')
		digits++
		r.Advance()
	}
	if digits == 0 {
		b, ok := r.Peek()
		return false, 0, &Error{Pos: pos, Expected: "decimal digit", Actual: describe(b, ok)}
	}
	return neg, mag, nil
}

// ReadVariable reads a non-negative decimal and checks it against the
// variable bounds. If allowZero is false, 0 is rejected.
func ReadVariable(r *Reader, allowZero bool) (literal.Variable, error) {
	pos := r.Position()
	neg, mag, err := ReadDecimal(r)
	if err != nil {
		return 0, err
	}
	if neg {
		return 0, &Error{Pos: pos, Expected: "non-negative variable", Actual: fmt.Sprintf("-%d", mag)}
	}
	if mag == 0 && !allowZero {
		return 0, &Error{Pos: pos, Expected: "variable >= 1", Actual: "0"}
	}
	if mag > uint64(literal.MaxVar) {
		return 0, &Error{Pos: pos, Expected: fmt.Sprintf("variable <= %d", literal.MaxVar), Actual: fmt.Sprintf("%d", mag)}
	}
	return literal.Variable(mag), nil
}

// ReadLiteral reads a signed decimal and packs it into internal literal
// encoding. If the value is 0, isZero is true and allowZero gates whether
// that is an error.
func ReadLiteral(r *Reader, allowZero bool) (lit literal.Literal, isZero bool, err error) {
	pos := r.Position()
	neg, mag, err := ReadDecimal(r)
	if err != nil {
		return 0, false, err
	}
	if mag == 0 {
		if !allowZero {
			return 0, false, &Error{Pos: pos, Expected: "nonzero literal", Actual: "0"}
		}
		return 0, true, nil
	}
	if mag > uint64(literal.MaxVar) {
		return 0, false, &Error{Pos: pos, Expected: fmt.Sprintf("variable <= %d", literal.MaxVar), Actual: fmt.Sprintf("%d", mag)}
	}
	return literal.Encode(literal.Variable(mag), neg), false, nil
}

// ReadVariableList reads variables until a terminating '0' or newline is
// seen. The terminating 0 is consumed but not included in the result. A
// missing terminator (newline with no 0) is reported through warn rather
// than failing the parse.
func ReadVariableList(r *Reader, warn Warner) ([]literal.Variable, error) {
	var out []literal.Variable
	for {
		SkipHorizontalWS(r)
		if SkipNewlineIfAny(r) {
			if warn != nil {
				warn(r.Position(), "missing-list-terminator", fmt.Errorf("variable list missing trailing 0 before newline"))
			}
			return out, nil
		}
		if r.AtEOF() {
			if warn != nil {
				warn(r.Position(), "missing-list-terminator", fmt.Errorf("variable list missing trailing 0 before EOF"))
			}
			return out, nil
		}
		v, err := ReadVariable(r, true)
		if err != nil {
			return out, err
		}
		if v == 0 {
			SkipNewlineIfAny(r)
			return out, nil
		}
		out = append(out, v)
	}
}

// ReadLiteralList reads literals until a terminating 0 or newline, with the
// same missing-terminator warning policy as ReadVariableList.
func ReadLiteralList(r *Reader, warn Warner) ([]literal.Literal, error) {
	var out []literal.Literal
	for {
		SkipHorizontalWS(r)
		if SkipNewlineIfAny(r) {
			if warn != nil {
				warn(r.Position(), "missing-list-terminator", fmt.Errorf("literal list missing trailing 0 before newline"))
			}
			return out, nil
		}
		if r.AtEOF() {
			if warn != nil {
				warn(r.Position(), "missing-list-terminator", fmt.Errorf("literal list missing trailing 0 before EOF"))
			}
			return out, nil
		}
		lit, isZero, err := ReadLiteral(r, true)
		if err != nil {
			return out, err
		}
		if isZero {
			SkipNewlineIfAny(r)
			return out, nil
		}
		out = append(out, lit)
	}
}
