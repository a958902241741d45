package vm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Word is the universal value type: every stack slot, variable binding,
// program-counter target, and channel identity is a Word. The spec calls
// for an unsigned 128-bit integer with checked (non-wrapping) arithmetic.
// No pack member ships a native uint128, so Word is built on top of
// holiman/uint256's checked 256-bit Int (the same type go-ethereum uses
// for its EVM stack words) with an extra 128-bit ceiling enforced on
// every operation.
type Word struct {
	v uint256.Int
}

const wordBits = 128

var maxWord = func() Word {
	var one, shifted uint256.Int
	one.SetUint64(1)
	shifted.Lsh(&one, wordBits)
	shifted.Sub(&shifted, &one)
	return Word{v: shifted}
}()

// ZeroWord is the additive identity.
var ZeroWord = Word{}

// NewWord builds a Word from a native uint64.
func NewWord(n uint64) Word {
	var w Word
	w.v.SetUint64(n)
	return w
}

// ParseWord decodes a decimal literal (as produced by a LOAD_VAL operand)
// into a Word, rejecting anything that doesn't fit in 128 bits.
func ParseWord(s string) (Word, error) {
	i, err := uint256.FromDecimal(s)
	if err != nil {
		return Word{}, fmt.Errorf("not a valid word literal: %s", s)
	}
	w := Word{v: *i}
	if !w.fits128() {
		return Word{}, fmt.Errorf("word literal out of 128-bit range: %s", s)
	}
	return w, nil
}

func (w Word) fits128() bool {
	var hi uint256.Int
	hi.Rsh(&w.v, wordBits)
	return hi.IsZero()
}

// String renders the Word in decimal.
func (w Word) String() string {
	return w.v.Dec()
}

// Uint64 returns the Word as a uint64 for callers that need it as an
// index (program counter, argument count, identity). A Word above the
// uint64 range saturates to the largest uint64 rather than wrapping, so
// an oversized Word simply fails the relevant bounds check downstream
// (fetch, channel lookup, stack underflow on a SPAWN argument count).
func (w Word) Uint64() uint64 {
	if !w.v.IsUint64() {
		return ^uint64(0)
	}
	return w.v.Uint64()
}

// Equal reports whether two Words hold the same value.
func (w Word) Equal(o Word) bool {
	return w.v.Eq(&o.v)
}

// Less reports w < o, treating both as unsigned.
func (w Word) Less(o Word) bool {
	return w.v.Lt(&o.v)
}

// Greater reports w > o, treating both as unsigned.
func (w Word) Greater(o Word) bool {
	return w.v.Gt(&o.v)
}

// CheckedAdd returns a+b, failing if the unsigned result would not fit
// in 128 bits.
func CheckedAdd(a, b Word) (Word, error) {
	var z uint256.Int
	_, overflow := z.AddOverflow(&a.v, &b.v)
	res := Word{v: z}
	if overflow || !res.fits128() {
		return Word{}, fmt.Errorf("overflow computing %s + %s", a, b)
	}
	return res, nil
}

// CheckedSub returns a-b, failing on unsigned underflow.
func CheckedSub(a, b Word) (Word, error) {
	var z uint256.Int
	_, underflow := z.SubOverflow(&a.v, &b.v)
	if underflow {
		return Word{}, fmt.Errorf("underflow computing %s - %s", a, b)
	}
	return Word{v: z}, nil
}

// CheckedMul returns a*b, failing if the unsigned result would not fit
// in 128 bits.
func CheckedMul(a, b Word) (Word, error) {
	var z uint256.Int
	_, overflow := z.MulOverflow(&a.v, &b.v)
	res := Word{v: z}
	if overflow || !res.fits128() {
		return Word{}, fmt.Errorf("overflow computing %s * %s", a, b)
	}
	return res, nil
}
