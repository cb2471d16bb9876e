// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package celib

import (
	"math/big"

	cs "github.com/circsim/circsim"
)

// Adder computes A+B+Cin at A/B's width, exposing the carry that
// BitValue.Add itself discards (§4.1 "no separate carry-out"; §4.3
// Adder).
type Adder struct {
	cs.Base
	a, b, cin *cs.Bus
	sum, cout *cs.Bus
}

// NewAdder builds a W-bit adder with carry-in and carry-out.
func NewAdder(label string, a, b, cin, sum, cout *cs.Bus, delay int) (*Adder, error) {
	if a.Width() != b.Width() || a.Width() != sum.Width() {
		return nil, cs.NewWidthMismatch("Adder", a.Width(), b.Width())
	}
	if cin.Width() != 1 || cout.Width() != 1 {
		return nil, cs.NewWidthMismatch("Adder (carry width)", 1, cin.Width())
	}
	return &Adder{
		Base: cs.NewBase(label, delay, []*cs.Bus{a, b, cin}, []*cs.Bus{sum, cout}),
		a:    a, b: b, cin: cin, sum: sum, cout: cout,
	}, nil
}

func (e *Adder) Resolve() int {
	av, bv, cv := e.a.Value(), e.b.Value(), e.cin.Value()
	if av == nil || bv == nil || cv == nil {
		e.sum.SetValue(nil)
		e.cout.SetValue(nil)
		return e.Delay()
	}
	total := new(big.Int).Add(av.ToUnsigned(), bv.ToUnsigned())
	total.Add(total, cv.ToUnsigned())
	width := e.sum.Width()
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	sum := cs.FromBig(total, width)
	carry := cs.Low(1)
	if total.Cmp(modulus) >= 0 {
		carry = cs.High(1)
	}
	e.sum.SetValue(&sum)
	e.cout.SetValue(&carry)
	return e.Delay()
}

func (e *Adder) Reset() { e.ResetOutputs() }

// TwosCompliment drives not(input).add(1) at the input's width
// (§4.3 TwosCompliment).
type TwosCompliment struct {
	cs.Base
	in *cs.Bus
}

// NewTwosCompliment builds a two's-complement negator.
func NewTwosCompliment(label string, in, out *cs.Bus, delay int) (*TwosCompliment, error) {
	if in.Width() != out.Width() {
		return nil, cs.NewWidthMismatch("TwosCompliment", in.Width(), out.Width())
	}
	return &TwosCompliment{Base: cs.NewBase(label, delay, []*cs.Bus{in}, []*cs.Bus{out}), in: in}, nil
}

func (e *TwosCompliment) Resolve() int {
	v := e.in.Value()
	if v == nil {
		e.Outputs()[0].SetValue(nil)
		return e.Delay()
	}
	r := v.TwosCompliment()
	e.Outputs()[0].SetValue(&r)
	return e.Delay()
}

func (e *TwosCompliment) Reset() { e.ResetOutputs() }

// ALU implements the §4.3 seven-function arithmetic/logic unit: A, B
// (width W), a 3-bit control code, a W-bit result, and a carry-out.
// Unknown control codes (only "011" is unused of the 8 possible) drive
// the result low.
type ALU struct {
	cs.Base
	a, b, ctrl *cs.Bus
}

// NewALU builds an ALU over W-bit operands.
func NewALU(label string, a, b, ctrl, result, cout *cs.Bus, delay int) (*ALU, error) {
	if a.Width() != b.Width() || a.Width() != result.Width() {
		return nil, cs.NewWidthMismatch("ALU", a.Width(), b.Width())
	}
	if ctrl.Width() != 3 {
		return nil, cs.NewWidthMismatch("ALU (control width)", 3, ctrl.Width())
	}
	if cout.Width() != 1 {
		return nil, cs.NewWidthMismatch("ALU (carry width)", 1, cout.Width())
	}
	return &ALU{Base: cs.NewBase(label, delay, []*cs.Bus{a, b, ctrl}, []*cs.Bus{result, cout}), a: a, b: b, ctrl: ctrl}, nil
}

func (e *ALU) Resolve() int {
	out, cout := e.Outputs()[0], e.Outputs()[1]
	av, bv, cv := e.a.Value(), e.b.Value(), e.ctrl.Value()
	if av == nil || bv == nil || cv == nil {
		out.SetValue(nil)
		cout.SetValue(nil)
		return e.Delay()
	}
	width := out.Width()
	zero := cs.Low(1)
	result, carry := cs.Low(width), zero
	switch cv.ToString(2) {
	case "000": // A & B
		result, _ = av.And(*bv)
	case "001": // A | B
		result, _ = av.Or(*bv)
	case "010": // A + B, with carry
		total := new(big.Int).Add(av.ToUnsigned(), bv.ToUnsigned())
		result = cs.FromBig(total, width)
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
		if total.Cmp(modulus) >= 0 {
			carry = cs.High(1)
		}
	case "100": // A & ~B
		result, _ = av.And(bv.Not())
	case "101": // A | ~B
		result, _ = av.Or(bv.Not())
	case "110": // A - B
		result, _ = av.Add(bv.TwosCompliment())
	case "111": // A < B, unsigned
		if av.LessThan(*bv) {
			result = cs.MustMake(1, width)
		}
	default: // "011", or anything else: low
	}
	out.SetValue(&result)
	cout.SetValue(&carry)
	return e.Delay()
}

func (e *ALU) Reset() { e.ResetOutputs() }
