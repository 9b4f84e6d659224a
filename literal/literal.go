// Package literal defines the packed variable/literal encoding shared by
// the qbf, expansion, and checker packages.
package literal

import "fmt"

// Variable is a QDIMACS variable identifier. Valid variables are in
// [1, MaxVar]; 0 is reserved as a wire-format list terminator and is never a
// valid Variable value on its own.
type Variable uint32

// MaxVar is the largest variable identifier a formula may declare.
const MaxVar Variable = 1<<31 - 1

// Literal is the internal packed encoding (variable<<1)|sign, sign=1 for
// negation. It is the unit sortutil sorts and the checker compares.
type Literal uint32

// Encode packs a variable and a polarity into a Literal. neg=true produces
// the negated literal.
func Encode(v Variable, neg bool) Literal {
	l := Literal(v) << 1
	if neg {
		l |= 1
	}
	return l
}

// FromSigned packs an external signed DIMACS literal (e.g. -3, 5) into its
// internal encoding. s must not be zero.
func FromSigned(s int64) Literal {
	if s < 0 {
		return Encode(Variable(-s), true)
	}
	return Encode(Variable(s), false)
}

// Var returns the variable this literal refers to.
func (l Literal) Var() Variable { return Variable(l >> 1) }

// Negated reports whether l is the negated polarity.
func (l Literal) Negated() bool { return l&1 == 1 }

// Negate returns the literal with the opposite polarity over the same
// variable.
func (l Literal) Negate() Literal { return l ^ 1 }

// Signed renders l in external DIMACS form, e.g. Literal for -3 -> -3.
func (l Literal) Signed() int64 {
	if l.Negated() {
		return -int64(l.Var())
	}
	return int64(l.Var())
}

func (l Literal) String() string {
	return fmt.Sprintf("%d", l.Signed())
}

func (v Variable) String() string {
	return fmt.Sprintf("%d", uint32(v))
}
