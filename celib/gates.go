// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package celib is the canonical element library: gates, muxes,
// arithmetic, sequential elements, memories, and I/O ports, all built
// directly on circsim.Bus/circsim.Element.
package celib

import cs "github.com/circsim/circsim"

type binOp func(a, b cs.BitValue) (cs.BitValue, error)

// Gate is an N-ary combinational gate (AND/OR/XOR and their negated
// forms) or a single-input NOT/Buffer: at least one input, equal-width
// inputs and output, and null-input propagation (§4.3 "any gate
// observing a null input outputs null").
type Gate struct {
	cs.Base
	op     binOp
	negate bool
}

func newGate(label string, delay int, ins []*cs.Bus, out *cs.Bus, op binOp, negate bool, minInputs int) (*Gate, error) {
	if len(ins) < minInputs {
		return nil, cs.NewBadInput("gate %q requires at least %d inputs", label, minInputs)
	}
	w := out.Width()
	for _, b := range ins {
		if b.Width() != w {
			return nil, cs.NewWidthMismatch("Gate (input width)", w, b.Width())
		}
	}
	return &Gate{Base: cs.NewBase(label, delay, ins, []*cs.Bus{out}), op: op, negate: negate}, nil
}

// NewAnd builds an N-ary AND gate (N >= 2).
func NewAnd(label string, ins []*cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	return newGate(label, delay, ins, out, cs.BitValue.And, false, 2)
}

// NewOr builds an N-ary OR gate (N >= 2).
func NewOr(label string, ins []*cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	return newGate(label, delay, ins, out, cs.BitValue.Or, false, 2)
}

// NewXor builds an N-ary XOR gate (N >= 2).
func NewXor(label string, ins []*cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	return newGate(label, delay, ins, out, cs.BitValue.Xor, false, 2)
}

// NewNand builds an N-ary NAND gate (N >= 2).
func NewNand(label string, ins []*cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	return newGate(label, delay, ins, out, cs.BitValue.And, true, 2)
}

// NewNor builds an N-ary NOR gate (N >= 2).
func NewNor(label string, ins []*cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	return newGate(label, delay, ins, out, cs.BitValue.Or, true, 2)
}

// NewXnor builds an N-ary XNOR gate (N >= 2).
func NewXnor(label string, ins []*cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	return newGate(label, delay, ins, out, cs.BitValue.Xor, true, 2)
}

// NewNot builds a single-input NOT gate.
func NewNot(label string, in *cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	g, err := newGate(label, delay, []*cs.Bus{in}, out, nil, true, 1)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// NewBuffer builds a single-input, single-output passthrough.
func NewBuffer(label string, in *cs.Bus, out *cs.Bus, delay int) (*Gate, error) {
	return newGate(label, delay, []*cs.Bus{in}, out, nil, false, 1)
}

// Resolve folds op across every input left to right, then negates the
// result if this is a NAND/NOR/XNOR/NOT. A single-input gate (NOT,
// Buffer) skips the fold and uses its one input directly.
func (g *Gate) Resolve() int {
	ins := g.Inputs()
	var result cs.BitValue
	for i, b := range ins {
		v := b.Value()
		if v == nil {
			g.Outputs()[0].SetValue(nil)
			return g.Delay()
		}
		if i == 0 {
			result = *v
			continue
		}
		r, err := g.op(result, *v)
		if err != nil {
			panic(err)
		}
		result = r
	}
	if g.negate {
		result = result.Not()
	}
	g.Outputs()[0].SetValue(&result)
	return g.Delay()
}

// Reset clears the gate's output; gates hold no other state.
func (g *Gate) Reset() { g.ResetOutputs() }
