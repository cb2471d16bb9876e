// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import (
	"github.com/pkg/errors"

	"github.com/circsim/circsim/internal/wire"
)

// PinSpec declares one of a composed element's own externally visible
// pins: its name (as referenced by PartBuilders via a Socket) and bit
// width.
type PinSpec struct {
	Name  string
	Width int
}

// ParsePinSpec parses a textual pin specification such as "a[4] b sel"
// into a []PinSpec, using the wiring mini-language's lexer/parser
// (internal/wire) instead of hand-rolled string splitting — the same
// role the teacher's internal/hdl-based parseIOspec plays for its own
// chip IN/OUT declarations.
func ParsePinSpec(spec string) ([]PinSpec, error) {
	pins, err := wire.ParsePins(spec)
	if err != nil {
		return nil, errors.Wrap(err, "parse pin spec")
	}
	out := make([]PinSpec, len(pins))
	for i, p := range pins {
		out[i] = PinSpec{Name: p.Name, Width: p.Width}
	}
	return out, nil
}

// A PartBuilder adds one sub-part to a Compose call: it resolves the
// sub-part's pins against s (allocating internal wires as needed) and
// registers the resulting Element with s's circuit.
type PartBuilder func(s *Socket) error

// NewPartFn builds one instance of a composed element, wiring the given
// outer buses (keyed by the PinSpec names Compose was given) into a
// fresh Subcircuit. Every call builds its own inner Circuit, so two
// instances of the same composed element never share wires or
// sequential state.
type NewPartFn func(label string, ins, outs map[string]*Bus, delay int) (*Subcircuit, error)

// passthroughInput is Compose's private stand-in for a labeled input
// port: it exists only so a composed element's inner circuit has
// something implementing Initializer to seed from the outer input bus
// on every Subcircuit.Resolve. celib.InputPort plays the identical role
// for hand-wired circuits; this type is duplicated here, rather than
// imported from celib, to avoid celib importing this package importing
// celib back.
type passthroughInput struct {
	Base
	out *Bus
}

func newPassthroughInput(c *Circuit, width int) *passthroughInput {
	b := c.NewBus(width)
	return &passthroughInput{Base: NewBase("", 0, nil, []*Bus{b}), out: b}
}

func (p *passthroughInput) Initialize(v BitValue) { p.out.SetValue(&v) }
func (p *passthroughInput) Resolve() int          { return p.Delay() }
func (p *passthroughInput) Reset()                { p.ResetOutputs() }

// passthroughOutput is Compose's private stand-in for a labeled output
// port: a pure probe reading whatever drives its input bus.
type passthroughOutput struct {
	Base
}

func newPassthroughOutput(in *Bus) *passthroughOutput {
	return &passthroughOutput{Base: NewBase("", 0, []*Bus{in}, nil)}
}

func (p *passthroughOutput) Resolve() int { return p.Delay() }
func (p *passthroughOutput) Reset()       {}

// Compose assembles parts into a reusable compound element, the way the
// teacher's Chip() assembles a PartSpec out of Parts: it returns a
// NewPartFn that, each time it's called, builds a fresh inner Circuit,
// wires ins/outs to passthrough ports registered under their declared
// names, runs every PartBuilder against the resulting Socket so they can
// wire sub-parts to those pins and to each other, and wraps the result
// as a Subcircuit connected to the caller's own outer buses.
func Compose(name string, ins, outs []PinSpec, parts ...PartBuilder) NewPartFn {
	return func(label string, inBuses, outBuses map[string]*Bus, delay int) (*Subcircuit, error) {
		inner := NewCircuit("")
		s := newSocket(inner)

		outerIns := make([]*Bus, len(ins))
		for i, p := range ins {
			b, ok := inBuses[p.Name]
			if !ok {
				return nil, NewBadInput("compose %s: missing outer input %q", name, p.Name)
			}
			if b.Width() != p.Width {
				return nil, NewWidthMismatch("compose "+name+" input "+p.Name, p.Width, b.Width())
			}
			port := newPassthroughInput(inner, p.Width)
			if err := inner.AddInput(p.Name, port); err != nil {
				return nil, err
			}
			s.set(p.Name, port.out)
			outerIns[i] = b
		}

		outerOuts := make([]*Bus, len(outs))
		for i, p := range outs {
			b, ok := outBuses[p.Name]
			if !ok {
				return nil, NewBadInput("compose %s: missing outer output %q", name, p.Name)
			}
			if b.Width() != p.Width {
				return nil, NewWidthMismatch("compose "+name+" output "+p.Name, p.Width, b.Width())
			}
			pinBus := inner.NewBus(p.Width)
			s.set(p.Name, pinBus)
			port := newPassthroughOutput(pinBus)
			if err := inner.AddOutput(p.Name, port); err != nil {
				return nil, err
			}
			outerOuts[i] = b
		}

		for _, build := range parts {
			if err := build(s); err != nil {
				return nil, errors.Wrapf(err, "compose %s", name)
			}
		}

		return NewSubcircuit(label, inner, outerIns, outerOuts, delay)
	}
}
