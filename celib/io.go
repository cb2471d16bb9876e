// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package celib

import cs "github.com/circsim/circsim"

// Constant drives a fixed value on its output every resolve (§4.3
// Constant/Power/Ground). Power and Ground below are just Constant
// preset to all-ones and all-zeros.
type Constant struct {
	cs.Base
	out   *cs.Bus
	value cs.BitValue
}

// NewConstant builds a constant driver.
func NewConstant(label string, out *cs.Bus, value cs.BitValue, delay int) (*Constant, error) {
	if value.Width() != out.Width() {
		return nil, cs.NewWidthMismatch("Constant", out.Width(), value.Width())
	}
	return &Constant{Base: cs.NewBase(label, delay, nil, []*cs.Bus{out}), out: out, value: value}, nil
}

// NewPower builds an all-ones constant driver of the given width.
func NewPower(label string, out *cs.Bus, delay int) (*Constant, error) {
	return NewConstant(label, out, cs.High(out.Width()), delay)
}

// NewGround builds an all-zeros constant driver of the given width.
func NewGround(label string, out *cs.Bus, delay int) (*Constant, error) {
	return NewConstant(label, out, cs.Low(out.Width()), delay)
}

func (c *Constant) Resolve() int {
	c.out.SetValue(&c.value)
	return c.Delay()
}

func (c *Constant) Reset() { c.ResetOutputs() }

// TriState passes its input through when control is high, and drives
// null (high impedance) otherwise (§4.3 TriState).
type TriState struct {
	cs.Base
	in, ctrl *cs.Bus
	out      *cs.Bus
}

// NewTriState builds a tri-state buffer.
func NewTriState(label string, in, ctrl, out *cs.Bus, delay int) (*TriState, error) {
	if in.Width() != out.Width() {
		return nil, cs.NewWidthMismatch("TriState", out.Width(), in.Width())
	}
	return &TriState{Base: cs.NewBase(label, delay, []*cs.Bus{in, ctrl}, []*cs.Bus{out}), in: in, ctrl: ctrl, out: out}, nil
}

func (t *TriState) Resolve() int {
	if highBus(t.ctrl) {
		t.out.SetValue(t.in.Value())
	} else {
		t.out.SetValue(nil)
	}
	return t.Delay()
}

func (t *TriState) Reset() { t.ResetOutputs() }

// ControlledInverter drives not(input) when control is high, and null
// otherwise (§4.3 ControlledInverter).
type ControlledInverter struct {
	cs.Base
	in, ctrl *cs.Bus
	out      *cs.Bus
}

// NewControlledInverter builds a controlled inverter.
func NewControlledInverter(label string, in, ctrl, out *cs.Bus, delay int) (*ControlledInverter, error) {
	if in.Width() != out.Width() {
		return nil, cs.NewWidthMismatch("ControlledInverter", out.Width(), in.Width())
	}
	return &ControlledInverter{Base: cs.NewBase(label, delay, []*cs.Bus{in, ctrl}, []*cs.Bus{out}), in: in, ctrl: ctrl, out: out}, nil
}

func (c *ControlledInverter) Resolve() int {
	if highBus(c.ctrl) {
		if v := c.in.Value(); v != nil {
			n := v.Not()
			c.out.SetValue(&n)
		} else {
			c.out.SetValue(nil)
		}
	} else {
		c.out.SetValue(nil)
	}
	return c.Delay()
}

func (c *ControlledInverter) Reset() { c.ResetOutputs() }

// InputPort is the simplest labeled input: Circuit.Run's Initialize
// call drives its value straight onto its output bus, with no
// computation of its own.
type InputPort struct {
	cs.Base
	out *cs.Bus
}

// NewInputPort builds a labeled input port of the given bus's width.
func NewInputPort(label string, out *cs.Bus) *InputPort {
	return &InputPort{Base: cs.NewBase(label, 0, nil, []*cs.Bus{out}), out: out}
}

func (p *InputPort) Initialize(v cs.BitValue) { p.out.SetValue(&v) }
func (p *InputPort) Resolve() int             { return p.Delay() }
func (p *InputPort) Reset()                   { p.ResetOutputs() }

// OutputPort is the simplest labeled output: a pure probe with no
// computation, read by Circuit.Run off its single input bus.
type OutputPort struct {
	cs.Base
	in *cs.Bus
}

// NewOutputPort builds a labeled output port observing in.
func NewOutputPort(label string, in *cs.Bus) *OutputPort {
	return &OutputPort{Base: cs.NewBase(label, 0, []*cs.Bus{in}, nil), in: in}
}

func (p *OutputPort) Resolve() int { return p.Delay() }
func (p *OutputPort) Reset()       {}

// Extend replicates a single input bit across every bit of an N-bit
// output — the "make N copies" element from the end-to-end scenarios:
// input 0 drives an all-zero output, input 1 an all-one output.
type Extend struct {
	cs.Base
	in  *cs.Bus
	out *cs.Bus
}

// NewExtend builds a 1-bit-to-N-bit replicator.
func NewExtend(label string, in, out *cs.Bus, delay int) (*Extend, error) {
	if in.Width() != 1 {
		return nil, cs.NewWidthMismatch("Extend (input width)", 1, in.Width())
	}
	return &Extend{Base: cs.NewBase(label, delay, []*cs.Bus{in}, []*cs.Bus{out}), in: in, out: out}, nil
}

func (e *Extend) Resolve() int {
	v := e.in.Value()
	if v == nil {
		e.out.SetValue(nil)
		return e.Delay()
	}
	var r cs.BitValue
	if v.IsZero() {
		r = cs.Low(e.out.Width())
	} else {
		r = cs.High(e.out.Width())
	}
	e.out.SetValue(&r)
	return e.Delay()
}

func (e *Extend) Reset() { e.ResetOutputs() }
