// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// A BitValue is an immutable, arbitrary-width bit vector. The zero value is
// a 0-bit value and is a valid, if useless, BitValue.
//
// Bit indices used throughout this package (BitSlice, Substring, and the
// bit-numbering implied by ToString) are MSB-first: index 0 is the most
// significant bit. This is the one bit-indexing convention BitValue commits
// to; elements that expose an LSB-first view (the Splitter's bit_mappings,
// notably) convert at their boundary rather than at this type's.
type BitValue struct {
	width int
	mag   *big.Int // 0 <= mag < 2^width
}

func newBitValue(width int, mag *big.Int) BitValue {
	if mag == nil {
		mag = new(big.Int)
	}
	return BitValue{width: width, mag: mag}
}

func mask(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

func maskTo(mag *big.Int, width int) *big.Int {
	if width <= 0 {
		return new(big.Int)
	}
	return new(big.Int).And(mag, mask(width))
}

// Low returns an n-bit value of all zeros.
func Low(n int) BitValue {
	if n < 0 {
		panic(errors.Errorf("Low: negative width %d", n))
	}
	return newBitValue(n, new(big.Int))
}

// High returns an n-bit value of all ones.
func High(n int) BitValue {
	if n < 0 {
		panic(errors.Errorf("High: negative width %d", n))
	}
	return newBitValue(n, mask(n))
}

// Make encodes value as a two's-complement BitValue. width is required
// (and must be supplied as the sole element of widths) when value is
// negative; for non-negative values, an omitted width defaults to the
// minimal width that represents value unsigned (at least 1 bit).
func Make(value int64, widths ...int) (BitValue, error) {
	if len(widths) > 1 {
		return BitValue{}, errors.New("Make: at most one explicit width may be given")
	}
	if len(widths) == 0 {
		if value < 0 {
			return BitValue{}, errors.New("Make: width is required for negative values")
		}
		w := 1
		for v := value; v > 0; v >>= 1 {
			w++
		}
		widths = []int{w - 1}
		if widths[0] == 0 {
			widths[0] = 1
		}
	}
	width := widths[0]
	if width < 0 {
		return BitValue{}, errors.Errorf("Make: negative width %d", width)
	}
	var mag *big.Int
	if value >= 0 {
		mag = big.NewInt(value)
	} else {
		mag = big.NewInt(value)
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
		mag.Mod(mag, mod)
	}
	return newBitValue(width, maskTo(mag, width)), nil
}

// MustMake is like Make but panics on error.
func MustMake(value int64, widths ...int) BitValue {
	v, err := Make(value, widths...)
	if err != nil {
		panic(err)
	}
	return v
}

// fitWidth truncates extra bits from the left (most significant) when want
// is smaller than the literal's natural width, or left-pads zeros when want
// is larger. This is the rule §3 commits to for literal construction with
// an explicit width.
func fitWidth(mag *big.Int, want int) *big.Int {
	return maskTo(mag, want)
}

// ParseBinary parses a string of '0'/'1' characters into a BitValue. An
// explicit width truncates from the left (MSB) or zero-pads from the left.
// Non-binary content is an error.
func ParseBinary(s string, widths ...int) (BitValue, error) {
	if len(widths) > 1 {
		return BitValue{}, errors.New("ParseBinary: at most one explicit width may be given")
	}
	for _, r := range s {
		if r != '0' && r != '1' {
			return BitValue{}, errors.Errorf("ParseBinary: invalid character %q in %q", r, s)
		}
	}
	natural := len(s)
	mag := new(big.Int)
	if natural > 0 {
		mag.SetString(s, 2)
	}
	width := natural
	if len(widths) == 1 {
		width = widths[0]
	}
	if width < 0 {
		return BitValue{}, errors.Errorf("ParseBinary: negative width %d", width)
	}
	return newBitValue(width, fitWidth(mag, width)), nil
}

// ParseHex parses a string with an optional "0x"/"0X" prefix into a
// BitValue, decoding to the minimal binary representation. An explicit
// width truncates from the left (MSB) or zero-pads from the left.
// Non-hexadecimal content is an error.
func ParseHex(s string, widths ...int) (BitValue, error) {
	if len(widths) > 1 {
		return BitValue{}, errors.New("ParseHex: at most one explicit width may be given")
	}
	t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if t == "" {
		t = "0"
	}
	mag, ok := new(big.Int).SetString(t, 16)
	if !ok {
		return BitValue{}, errors.Errorf("ParseHex: invalid hex literal %q", s)
	}
	natural := mag.BitLen()
	if natural == 0 {
		natural = 1
	}
	width := natural
	if len(widths) == 1 {
		width = widths[0]
	}
	if width < 0 {
		return BitValue{}, errors.Errorf("ParseHex: negative width %d", width)
	}
	return newBitValue(width, fitWidth(mag, width)), nil
}

// Width returns the value's bit width.
func (v BitValue) Width() int { return v.width }

// IsZero reports whether every bit of v is 0.
func (v BitValue) IsZero() bool { return v.mag == nil || v.mag.Sign() == 0 }

func (v BitValue) magOrZero() *big.Int {
	if v.mag == nil {
		return new(big.Int)
	}
	return v.mag
}

// And returns the bitwise AND of v and o. Both must have equal width.
func (v BitValue) And(o BitValue) (BitValue, error) {
	if v.width != o.width {
		return BitValue{}, NewWidthMismatch("And", v.width, o.width)
	}
	return newBitValue(v.width, new(big.Int).And(v.magOrZero(), o.magOrZero())), nil
}

// Or returns the bitwise OR of v and o. Both must have equal width.
func (v BitValue) Or(o BitValue) (BitValue, error) {
	if v.width != o.width {
		return BitValue{}, NewWidthMismatch("Or", v.width, o.width)
	}
	return newBitValue(v.width, new(big.Int).Or(v.magOrZero(), o.magOrZero())), nil
}

// Xor returns the bitwise XOR of v and o. Both must have equal width.
func (v BitValue) Xor(o BitValue) (BitValue, error) {
	if v.width != o.width {
		return BitValue{}, NewWidthMismatch("Xor", v.width, o.width)
	}
	return newBitValue(v.width, new(big.Int).Xor(v.magOrZero(), o.magOrZero())), nil
}

// Not returns the bitwise complement of v, at the same width.
func (v BitValue) Not() BitValue {
	return newBitValue(v.width, maskTo(new(big.Int).Not(v.magOrZero()), v.width))
}

// Add returns v+o, wrapping at the common width. Both must have equal
// width; there is no separate carry-out here — elements that need one
// expose it through their own output bus.
func (v BitValue) Add(o BitValue) (BitValue, error) {
	if v.width != o.width {
		return BitValue{}, NewWidthMismatch("Add", v.width, o.width)
	}
	sum := new(big.Int).Add(v.magOrZero(), o.magOrZero())
	return newBitValue(v.width, maskTo(sum, v.width)), nil
}

// Equals reports whether v and o have equal width and value. It never
// errors; differing widths simply compare unequal.
func (v BitValue) Equals(o BitValue) bool {
	if v.width != o.width {
		return false
	}
	return v.magOrZero().Cmp(o.magOrZero()) == 0
}

// GreaterThan reports whether v is unsigned-greater than o, comparing
// magnitudes directly regardless of width.
func (v BitValue) GreaterThan(o BitValue) bool {
	return v.magOrZero().Cmp(o.magOrZero()) > 0
}

// LessThan reports whether v is unsigned-less than o, comparing magnitudes
// directly regardless of width.
func (v BitValue) LessThan(o BitValue) bool {
	return v.magOrZero().Cmp(o.magOrZero()) < 0
}

// ToUnsigned returns v's value interpreted as an unsigned integer.
func (v BitValue) ToUnsigned() *big.Int {
	return new(big.Int).Set(v.magOrZero())
}

// ToSigned returns v's value interpreted as a two's-complement signed
// integer.
func (v BitValue) ToSigned() *big.Int {
	m := v.magOrZero()
	if v.width == 0 {
		return new(big.Int)
	}
	if m.Bit(v.width-1) == 0 {
		return new(big.Int).Set(m)
	}
	full := new(big.Int).Lsh(big.NewInt(1), uint(v.width))
	return new(big.Int).Sub(m, full)
}

// Uint64 returns v's unsigned value as a uint64. It panics if v's width
// exceeds 64 bits.
func (v BitValue) Uint64() uint64 {
	if v.width > 64 {
		panic(errors.Errorf("Uint64: width %d exceeds 64 bits", v.width))
	}
	return v.magOrZero().Uint64()
}

const hexDigits = "0123456789ABCDEF"

// ToString renders v in the given radix, which must be 2 or 16. Binary
// form is a fixed-width string of '0'/'1'. Hex form is "0x" followed by
// uppercase digits with leading zeros stripped (a single "0x0" for zero).
func (v BitValue) ToString(radix int) string {
	switch radix {
	case 2:
		s := v.magOrZero().Text(2)
		if len(s) < v.width {
			s = strings.Repeat("0", v.width-len(s)) + s
		}
		if v.width == 0 {
			return ""
		}
		return s
	case 16:
		if v.magOrZero().Sign() == 0 {
			return "0x0"
		}
		return "0x" + strings.ToUpper(v.magOrZero().Text(16))
	default:
		panic(errors.Errorf("ToString: unsupported radix %d", radix))
	}
}

// String implements fmt.Stringer using binary form.
func (v BitValue) String() string { return v.ToString(2) }

// BitSlice returns the MSB-first bit range [start, end). end defaults to
// v.Width() when omitted. Substring is an alias with the same convention —
// implementers relying on BitValue elsewhere must preserve MSB-first
// indexing here.
func (v BitValue) BitSlice(start int, end ...int) (BitValue, error) {
	if len(end) > 1 {
		return BitValue{}, errors.New("BitSlice: at most one end index may be given")
	}
	e := v.width
	if len(end) == 1 {
		e = end[0]
	}
	if start < 0 || e > v.width || start > e {
		return BitValue{}, errors.Errorf("BitSlice: invalid range [%d,%d) for width %d", start, e, v.width)
	}
	n := e - start
	shift := v.width - e
	m := new(big.Int).Rsh(v.magOrZero(), uint(shift))
	return newBitValue(n, maskTo(m, n)), nil
}

// Substring is an alias for BitSlice, following the same MSB-first
// convention.
func (v BitValue) Substring(start int, end ...int) (BitValue, error) {
	return v.BitSlice(start, end...)
}

// Truncate returns v narrowed to n bits. By default the bits kept are the
// least significant n (i.e. extra bits are dropped from the left/MSB end,
// matching the construction-with-width rule in §3). If fromTop is true,
// the bits kept are the most significant n instead (extra bits dropped
// from the right/LSB end).
func (v BitValue) Truncate(n int, fromTop ...bool) (BitValue, error) {
	if len(fromTop) > 1 {
		return BitValue{}, errors.New("Truncate: at most one fromTop flag may be given")
	}
	if n < 0 || n > v.width {
		return BitValue{}, errors.Errorf("Truncate: invalid width %d for value of width %d", n, v.width)
	}
	if len(fromTop) == 1 && fromTop[0] {
		return v.BitSlice(0, n)
	}
	return v.BitSlice(v.width-n, v.width)
}

// Pad zero-extends v by n additional most-significant bits.
func (v BitValue) Pad(n int) BitValue {
	if n < 0 {
		panic(errors.Errorf("Pad: negative pad count %d", n))
	}
	return newBitValue(v.width+n, new(big.Int).Set(v.magOrZero()))
}

// FromBig constructs a BitValue from an arbitrary big.Int magnitude,
// masked to width bits. Negative magnitudes are first reduced modulo
// 2^width, the same two's-complement convention Make uses. It exists
// for element implementations (adders, ALUs) that need to build a
// result wider than an int64 can carry.
func FromBig(mag *big.Int, width int) BitValue {
	m := new(big.Int).Set(mag)
	if m.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
		m.Mod(m, mod)
	}
	return newBitValue(width, maskTo(m, width))
}

// Concat returns v and o joined into a single value with v occupying the
// most-significant bits and o the least-significant, at width
// v.Width()+o.Width(). Used by the Splitter to assemble a wide value out
// of its narrow ports.
func (v BitValue) Concat(o BitValue) BitValue {
	m := new(big.Int).Lsh(v.magOrZero(), uint(o.width))
	m.Or(m, o.magOrZero())
	return newBitValue(v.width+o.width, m)
}

// TwosCompliment returns v.Not().Add(1) at v's original width.
func (v BitValue) TwosCompliment() BitValue {
	one := newBitValue(v.width, big.NewInt(1))
	r, _ := v.Not().Add(one) // widths are equal by construction; cannot fail
	return r
}
